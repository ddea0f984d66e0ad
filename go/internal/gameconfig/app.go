package gameconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// ConfigRepository defines what the config app needs from storage.
// CreateConfig must not overwrite a config that already exists.
type ConfigRepository interface {
	GetConfig(ctx context.Context) (*models.GameConfig, error)
	CreateConfig(ctx context.Context, cfg models.GameConfig) (*models.GameConfig, error)
	UpdateConfig(ctx context.Context, patch models.ConfigPatch, updatedAt time.Time) (*models.GameConfig, error)
	ReplaceConfig(ctx context.Context, cfg models.GameConfig) (*models.GameConfig, error)
	DeleteConfig(ctx context.Context) (int64, error)
	CountConfigs(ctx context.Context) (int64, error)
}

// PlayerLister lists players for the roast board
type PlayerLister interface {
	ListPlayers(ctx context.Context, includeInactive bool) ([]models.Player, error)
}

// SecretVerifier checks an admin secret
type SecretVerifier interface {
	Verify(secret string) error
}

// Defaults fills a config created on first read
var Defaults = models.GameConfig{
	Title:          "YASH'S BACHELOR",
	Subtitle:       "Brutal Awards 2025",
	Tagline:        "Where friendships are tested & legends are made",
	Date:           "25th - 28th December 2025",
	GroomName:      "Yash",
	WelcomeMessage: "Welcome to the most brutal game of the bachelor party! 🎉",
	IsGameActive:   true,
}

// App manages the game config and the roast board
type App struct {
	repo     ConfigRepository
	players  PlayerLister
	verifier SecretVerifier
	clock    clockwork.Clock
}

// NewApp creates a new config App
func NewApp(repo ConfigRepository, players PlayerLister, verifier SecretVerifier, clock clockwork.Clock) *App {
	return &App{
		repo:     repo,
		players:  players,
		verifier: verifier,
		clock:    clock,
	}
}

// GetConfig returns the config, creating it from Defaults when missing
func (a *App) GetConfig(ctx context.Context) (*models.GameConfig, error) {
	cfg, err := a.repo.GetConfig(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	fresh := Defaults
	fresh.CreatedAt = a.clock.Now()
	fresh.UpdatedAt = fresh.CreatedAt
	cfg, err = a.repo.CreateConfig(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("failed to create config: %w", err)
	}
	log.Info().Str("title", cfg.Title).Msg("created default config")
	return cfg, nil
}

// UpdateConfig applies patch after checking the admin secret
func (a *App) UpdateConfig(ctx context.Context, secret string, patch models.ConfigPatch) (*models.GameConfig, error) {
	if err := a.verifier.Verify(secret); err != nil {
		return nil, err
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, apperr.Invalid("title cannot be empty", "title")
	}

	// make sure there is a row to patch
	if _, err := a.GetConfig(ctx); err != nil {
		return nil, err
	}

	cfg, err := a.repo.UpdateConfig(ctx, patch, a.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to update config: %w", err)
	}
	log.Info().Str("title", cfg.Title).Bool("roasts_revealed", cfg.RoastsRevealed).Msg("config updated")
	return cfg, nil
}

// SetRoastsRevealed reveals or hides every roast card
func (a *App) SetRoastsRevealed(ctx context.Context, secret string, revealed bool) (*models.GameConfig, error) {
	return a.UpdateConfig(ctx, secret, models.ConfigPatch{RoastsRevealed: &revealed})
}

// ListRoasts returns the roast cards of active players in id order. Card
// text is masked unless roasts are revealed or the card is revealPlayerID.
func (a *App) ListRoasts(ctx context.Context, revealPlayerID *int) (*RoastList, error) {
	cfg, err := a.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	players, err := a.players.ListPlayers(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	out := &RoastList{Players: make([]Roast, 0, len(players)), GlobalReveal: cfg.RoastsRevealed}
	for _, p := range players {
		r := Roast{PlayerID: p.ID, Name: p.Name, Emoji: p.Emoji, IsRevealed: cfg.RoastsRevealed}
		if cfg.RoastsRevealed || (revealPlayerID != nil && *revealPlayerID == p.ID) {
			r.Roast, r.DirtySecret, r.Prediction = p.Roast, p.DirtySecret, p.Prediction
		}
		out.Players = append(out.Players, r)
	}
	return out, nil
}

// ActivateGame marks the game active. It does not check the admin secret;
// the caller must have done so.
func (a *App) ActivateGame(ctx context.Context) (*models.GameConfig, error) {
	if _, err := a.GetConfig(ctx); err != nil {
		return nil, err
	}
	active := true
	cfg, err := a.repo.UpdateConfig(ctx, models.ConfigPatch{IsGameActive: &active}, a.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to activate game: %w", err)
	}
	return cfg, nil
}

// ReplaceConfig overwrites the config; used by reseeding
func (a *App) ReplaceConfig(ctx context.Context, cfg models.GameConfig) (*models.GameConfig, error) {
	now := a.clock.Now()
	cfg.CreatedAt, cfg.UpdatedAt = now, now
	stored, err := a.repo.ReplaceConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to replace config: %w", err)
	}
	return stored, nil
}

// DeleteConfig removes the config; the next read recreates the defaults
func (a *App) DeleteConfig(ctx context.Context) (int64, error) {
	n, err := a.repo.DeleteConfig(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete config: %w", err)
	}
	return n, nil
}

func (a *App) CountConfigs(ctx context.Context) (int64, error) {
	n, err := a.repo.CountConfigs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count configs: %w", err)
	}
	return n, nil
}

package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// PlayerRepository defines what the player app layer needs from storage
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, p models.Player) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context, includeInactive bool) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, id int, patch models.PlayerPatch, updatedAt time.Time) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
	ReplacePlayers(ctx context.Context, players []models.Player) error
	DeleteAllPlayers(ctx context.Context) (int64, error)
	SetAllPlayersActive(ctx context.Context, active bool, updatedAt time.Time) (int64, error)
	CountPlayers(ctx context.Context) (int64, error)
}

// App handles player catalog business logic
type App struct {
	repo  PlayerRepository
	clock clockwork.Clock
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// CreatePlayer appends an active player with the next stable id
func (a *App) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error) {
	if err := a.validateCreatePlayerRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	emoji := strings.TrimSpace(req.Emoji)
	if emoji == "" {
		emoji = models.DefaultPlayerEmoji
	}

	now := a.clock.Now()
	player, err := a.repo.CreatePlayer(ctx, models.Player{
		Name:        strings.TrimSpace(req.Name),
		Emoji:       emoji,
		IsActive:    true,
		Roast:       req.Roast,
		DirtySecret: req.DirtySecret,
		Prediction:  req.Prediction,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	log.Info().Int("player_id", player.ID).Str("name", player.Name).Msg("created player")
	return player, nil
}

// GetPlayer retrieves a player by id, active or not
func (a *App) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	if id <= 0 {
		return nil, apperr.Invalid("id must be positive", "id")
	}

	player, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// ListPlayers returns players ordered by id, active only unless includeInactive
func (a *App) ListPlayers(ctx context.Context, includeInactive bool) ([]models.Player, error) {
	players, err := a.repo.ListPlayers(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// UpdatePlayer patches a player by id
func (a *App) UpdatePlayer(ctx context.Context, id int, patch models.PlayerPatch) (*models.Player, error) {
	if err := a.validateUpdatePlayer(id, patch); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	player, err := a.repo.UpdatePlayer(ctx, id, patch, a.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	log.Info().Int("player_id", id).Msg("updated player")
	return player, nil
}

// DeletePlayer deactivates a player, or removes it permanently when hard is set.
// A soft delete returns the deactivated player; a hard delete returns nil.
func (a *App) DeletePlayer(ctx context.Context, id int, hard bool) (*models.Player, error) {
	if id <= 0 {
		return nil, apperr.Invalid("id must be positive", "id")
	}

	if hard {
		if err := a.repo.DeletePlayer(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to delete player: %w", err)
		}
		log.Info().Int("player_id", id).Msg("permanently deleted player")
		return nil, nil
	}

	inactive := false
	player, err := a.repo.UpdatePlayer(ctx, id, models.PlayerPatch{IsActive: &inactive}, a.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate player: %w", err)
	}

	log.Info().Int("player_id", id).Msg("deactivated player")
	return player, nil
}

// ReplacePlayers swaps the whole roster for the given players, keeping their ids
func (a *App) ReplacePlayers(ctx context.Context, players []models.Player) error {
	now := a.clock.Now()
	seen := make(map[int]struct{}, len(players))
	for i := range players {
		p := &players[i]
		if p.ID <= 0 {
			return apperr.Invalid(fmt.Sprintf("player %d: id must be positive", i), "id")
		}
		if _, ok := seen[p.ID]; ok {
			return apperr.Invalid(fmt.Sprintf("player id %d is duplicated", p.ID), "id")
		}
		seen[p.ID] = struct{}{}
		if strings.TrimSpace(p.Name) == "" {
			return apperr.Invalid(fmt.Sprintf("player %d: name is required", p.ID), "name")
		}
		if p.Emoji == "" {
			p.Emoji = models.DefaultPlayerEmoji
		}
		p.CreatedAt = now
		p.UpdatedAt = now
	}

	if err := a.repo.ReplacePlayers(ctx, players); err != nil {
		return fmt.Errorf("failed to replace players: %w", err)
	}

	log.Info().Int("count", len(players)).Msg("replaced players")
	return nil
}

// DeleteAllPlayers hard-deletes every player
func (a *App) DeleteAllPlayers(ctx context.Context) (int64, error) {
	n, err := a.repo.DeleteAllPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete players: %w", err)
	}
	log.Warn().Int64("deleted", n).Msg("deleted all players")
	return n, nil
}

// ReactivateAllPlayers marks every player active again
func (a *App) ReactivateAllPlayers(ctx context.Context) (int64, error) {
	n, err := a.repo.SetAllPlayersActive(ctx, true, a.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to reactivate players: %w", err)
	}
	return n, nil
}

// CountPlayers counts every player record
func (a *App) CountPlayers(ctx context.Context) (int64, error) {
	n, err := a.repo.CountPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

func (a *App) validateCreatePlayerRequest(req CreatePlayerRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Invalid("name is required", "name")
	}
	return nil
}

func (a *App) validateUpdatePlayer(id int, patch models.PlayerPatch) error {
	if id <= 0 {
		return apperr.Invalid("id must be positive", "id")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return apperr.Invalid("name cannot be empty", "name")
	}
	return nil
}

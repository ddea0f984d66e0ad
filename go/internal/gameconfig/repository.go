package gameconfig

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/sqlutil"
)

const configColumns = `title, subtitle, tagline, event_date, groom_name, welcome_message,
	is_game_active, roasts_revealed, created_at, updated_at`

// Repository stores the game config as a single keyed row in Postgres
type Repository struct {
	db sqlutil.DB
}

// NewRepository creates a new config repository
func NewRepository(db sqlutil.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetConfig(ctx context.Context) (*models.GameConfig, error) {
	return getConfig(ctx, r.db, "")
}

// CreateConfig inserts cfg unless a config exists, returning the stored row
func (r *Repository) CreateConfig(ctx context.Context, cfg models.GameConfig) (*models.GameConfig, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO game_configs (config_key, `+configColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (config_key) DO NOTHING`,
		append([]any{models.ConfigKey}, configArgs(cfg)...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert config: %w", err)
	}
	return r.GetConfig(ctx)
}

func (r *Repository) UpdateConfig(ctx context.Context, patch models.ConfigPatch, updatedAt time.Time) (*models.GameConfig, error) {
	var updated *models.GameConfig
	err := sqlutil.Run(ctx, r.db, func(tx pgx.Tx) sqlutil.DBTX { return tx }, func(q sqlutil.DBTX) error {
		cfg, err := getConfig(ctx, q, "FOR UPDATE")
		if err != nil {
			return err
		}
		patch.Apply(cfg)
		cfg.UpdatedAt = updatedAt

		_, err = q.Exec(ctx, `
			UPDATE game_configs SET
				title = $2, subtitle = $3, tagline = $4, event_date = $5, groom_name = $6,
				welcome_message = $7, is_game_active = $8, roasts_revealed = $9, updated_at = $10
			WHERE config_key = $1`,
			models.ConfigKey, cfg.Title, cfg.Subtitle, cfg.Tagline, cfg.Date, cfg.GroomName,
			cfg.WelcomeMessage, cfg.IsGameActive, cfg.RoastsRevealed, cfg.UpdatedAt,
		)
		updated = cfg
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) ReplaceConfig(ctx context.Context, cfg models.GameConfig) (*models.GameConfig, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO game_configs (config_key, `+configColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (config_key) DO UPDATE SET
			title           = EXCLUDED.title,
			subtitle        = EXCLUDED.subtitle,
			tagline         = EXCLUDED.tagline,
			event_date      = EXCLUDED.event_date,
			groom_name      = EXCLUDED.groom_name,
			welcome_message = EXCLUDED.welcome_message,
			is_game_active  = EXCLUDED.is_game_active,
			roasts_revealed = EXCLUDED.roasts_revealed,
			created_at      = EXCLUDED.created_at,
			updated_at      = EXCLUDED.updated_at`,
		append([]any{models.ConfigKey}, configArgs(cfg)...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to replace config: %w", err)
	}
	return &cfg, nil
}

func (r *Repository) DeleteConfig(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM game_configs`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CountConfigs(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM game_configs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func getConfig(ctx context.Context, q sqlutil.DBTX, lock string) (*models.GameConfig, error) {
	var cfg models.GameConfig
	err := q.QueryRow(ctx, `SELECT `+configColumns+` FROM game_configs WHERE config_key = $1 `+lock, models.ConfigKey).Scan(
		&cfg.Title, &cfg.Subtitle, &cfg.Tagline, &cfg.Date, &cfg.GroomName, &cfg.WelcomeMessage,
		&cfg.IsGameActive, &cfg.RoastsRevealed, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if sqlutil.IsNoRows(err) {
		return nil, apperr.NotFound("config", models.ConfigKey)
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configArgs(cfg models.GameConfig) []any {
	return []any{
		cfg.Title, cfg.Subtitle, cfg.Tagline, cfg.Date, cfg.GroomName, cfg.WelcomeMessage,
		cfg.IsGameActive, cfg.RoastsRevealed, cfg.CreatedAt, cfg.UpdatedAt,
	}
}

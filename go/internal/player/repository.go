package player

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/sqlutil"
)

const playerColumns = `id, name, emoji, is_active, roast, dirty_secret, prediction, created_at, updated_at`

// Repository stores players in Postgres
type Repository struct {
	db sqlutil.DB
}

// NewRepository creates a new player repository
func NewRepository(db sqlutil.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreatePlayer(ctx context.Context, p models.Player) (*models.Player, error) {
	var created *models.Player
	err := sqlutil.Run(ctx, r.db, func(tx pgx.Tx) sqlutil.DBTX { return tx }, func(q sqlutil.DBTX) error {
		id, err := sqlutil.NextID(ctx, q, "players")
		if err != nil {
			return err
		}
		p.ID = id

		row := q.QueryRow(ctx, `
			INSERT INTO players (`+playerColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+playerColumns,
			p.ID, p.Name, p.Emoji, p.IsActive,
			sqlutil.ToPgText(p.Roast), sqlutil.ToPgText(p.DirtySecret), sqlutil.ToPgText(p.Prediction),
			p.CreatedAt, p.UpdatedAt,
		)
		created, err = scanPlayer(row)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	return created, nil
}

func (r *Repository) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	row := r.db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if sqlutil.IsNoRows(err) {
		return nil, apperr.NotFound("player", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) ListPlayers(ctx context.Context, includeInactive bool) ([]models.Player, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE $1 OR is_active
		ORDER BY id`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *Repository) UpdatePlayer(ctx context.Context, id int, patch models.PlayerPatch, updatedAt time.Time) (*models.Player, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE players SET
			name         = COALESCE($2, name),
			emoji        = COALESCE($3, emoji),
			is_active    = COALESCE($4, is_active),
			roast        = COALESCE($5, roast),
			dirty_secret = COALESCE($6, dirty_secret),
			prediction   = COALESCE($7, prediction),
			updated_at   = $8
		WHERE id = $1
		RETURNING `+playerColumns,
		id,
		sqlutil.ToPgText(patch.Name), sqlutil.ToPgText(patch.Emoji), sqlutil.ToPgBool(patch.IsActive),
		sqlutil.ToPgText(patch.Roast), sqlutil.ToPgText(patch.DirtySecret), sqlutil.ToPgText(patch.Prediction),
		updatedAt,
	)
	p, err := scanPlayer(row)
	if sqlutil.IsNoRows(err) {
		return nil, apperr.NotFound("player", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) DeletePlayer(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("player", id)
	}
	return nil
}

func (r *Repository) ReplacePlayers(ctx context.Context, players []models.Player) error {
	return sqlutil.Run(ctx, r.db, func(tx pgx.Tx) pgx.Tx { return tx }, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM players`); err != nil {
			return fmt.Errorf("failed to clear players: %w", err)
		}

		rows := make([][]any, 0, len(players))
		for _, p := range players {
			rows = append(rows, []any{
				p.ID, p.Name, p.Emoji, p.IsActive,
				sqlutil.ToPgText(p.Roast), sqlutil.ToPgText(p.DirtySecret), sqlutil.ToPgText(p.Prediction),
				p.CreatedAt, p.UpdatedAt,
			})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"players"},
			[]string{"id", "name", "emoji", "is_active", "roast", "dirty_secret", "prediction", "created_at", "updated_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy players: %w", err)
		}

		return sqlutil.SyncCounter(ctx, tx, "players")
	})
}

func (r *Repository) DeleteAllPlayers(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM players`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) SetAllPlayersActive(ctx context.Context, active bool, updatedAt time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE players SET is_active = $1, updated_at = $2`, active, updatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CountPlayers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var p models.Player
	var roast, dirtySecret, prediction pgtype.Text
	if err := row.Scan(
		&p.ID, &p.Name, &p.Emoji, &p.IsActive,
		&roast, &dirtySecret, &prediction,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Roast = sqlutil.FromPgText(roast)
	p.DirtySecret = sqlutil.FromPgText(dirtySecret)
	p.Prediction = sqlutil.FromPgText(prediction)
	return &p, nil
}

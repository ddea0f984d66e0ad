package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/sqlutil"
)

const sessionColumns = `current_question_index, current_question_id, question_started_at,
	voting_duration_seconds, status, twist_revealed_at, version, created_at, updated_at`

// Repository stores the game session as a single keyed row in Postgres
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new session repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetSession(ctx context.Context) (*models.GameSession, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM game_sessions
		WHERE session_key = $1`, models.SessionKey)

	s, err := scanSession(row)
	if sqlutil.IsNoRows(err) {
		return nil, apperr.NotFound("session", models.SessionKey)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSession inserts s at version 1. When a concurrent caller created the
// session first, the stored row is returned with created=false.
func (r *Repository) CreateSession(ctx context.Context, s models.GameSession) (*models.GameSession, bool, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO game_sessions (session_key, `+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		ON CONFLICT (session_key) DO NOTHING
		RETURNING `+sessionColumns,
		models.SessionKey, s.CurrentQuestionIndex, s.CurrentQuestionID, s.QuestionStartedAt,
		s.VotingDurationSeconds, string(s.Status), sqlutil.ToPgTimestamptz(s.TwistRevealedAt),
		s.CreatedAt, s.UpdatedAt,
	)

	created, err := scanSession(row)
	if err == nil {
		return created, true, nil
	}
	if !sqlutil.IsNoRows(err) {
		return nil, false, fmt.Errorf("failed to insert session: %w", err)
	}

	existing, err := r.GetSession(ctx)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpdateSession writes s only while the row is still at expectedVersion
func (r *Repository) UpdateSession(ctx context.Context, s models.GameSession, expectedVersion int64) (*models.GameSession, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE game_sessions SET
			current_question_index  = $3,
			current_question_id     = $4,
			question_started_at     = $5,
			voting_duration_seconds = $6,
			status                  = $7,
			twist_revealed_at       = $8,
			updated_at              = $9,
			version                 = version + 1
		WHERE session_key = $1 AND version = $2
		RETURNING `+sessionColumns,
		models.SessionKey, expectedVersion, s.CurrentQuestionIndex, s.CurrentQuestionID,
		s.QuestionStartedAt, s.VotingDurationSeconds, string(s.Status),
		sqlutil.ToPgTimestamptz(s.TwistRevealedAt), s.UpdatedAt,
	)

	updated, err := scanSession(row)
	if err == nil {
		return updated, nil
	}
	if !sqlutil.IsNoRows(err) {
		return nil, err
	}

	// no row matched: either the session is gone or its version moved on
	if _, err := r.GetSession(ctx); err != nil {
		return nil, err
	}
	return nil, apperr.ErrStaleVersion
}

// ReplaceSession overwrites the session in one statement. The version keeps
// counting from the replaced row so stale writers are still rejected.
func (r *Repository) ReplaceSession(ctx context.Context, s models.GameSession) (*models.GameSession, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO game_sessions (session_key, `+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		ON CONFLICT (session_key) DO UPDATE SET
			current_question_index  = EXCLUDED.current_question_index,
			current_question_id     = EXCLUDED.current_question_id,
			question_started_at     = EXCLUDED.question_started_at,
			voting_duration_seconds = EXCLUDED.voting_duration_seconds,
			status                  = EXCLUDED.status,
			twist_revealed_at       = EXCLUDED.twist_revealed_at,
			version                 = game_sessions.version + 1,
			created_at              = EXCLUDED.created_at,
			updated_at              = EXCLUDED.updated_at
		RETURNING `+sessionColumns,
		models.SessionKey, s.CurrentQuestionIndex, s.CurrentQuestionID, s.QuestionStartedAt,
		s.VotingDurationSeconds, string(s.Status), sqlutil.ToPgTimestamptz(s.TwistRevealedAt),
		s.CreatedAt, s.UpdatedAt,
	)

	replaced, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to replace session: %w", err)
	}
	return replaced, nil
}

func (r *Repository) DeleteSession(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM game_sessions WHERE session_key = $1`, models.SessionKey)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM game_sessions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanSession(row pgx.Row) (*models.GameSession, error) {
	var s models.GameSession
	var status string
	var twist pgtype.Timestamptz
	err := row.Scan(
		&s.CurrentQuestionIndex, &s.CurrentQuestionID, &s.QuestionStartedAt,
		&s.VotingDurationSeconds, &status, &twist, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = models.SessionStatus(status)
	if !s.Status.Valid() {
		return nil, errors.New("unknown session status " + status)
	}
	s.TwistRevealedAt = sqlutil.FromPgTimestamptz(twist)
	return &s, nil
}

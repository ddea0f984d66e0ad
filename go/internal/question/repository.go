package question

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

const questionColumns = `id, sort_order, question, hint, vibe, question_type, is_active,
	most_votes, least_votes, collection, hidden_question, bonus, created_at, updated_at`

// Repository stores questions in Postgres. Framings and the collection
// live in JSONB columns.
type Repository struct {
	db sqlutil.DB
}

// NewRepository creates a new question repository
func NewRepository(db sqlutil.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreateQuestion(ctx context.Context, q models.Question) (*models.Question, error) {
	var created *models.Question
	err := sqlutil.Run(ctx, r.db, func(tx pgx.Tx) sqlutil.DBTX { return tx }, func(db sqlutil.DBTX) error {
		id, err := sqlutil.NextID(ctx, db, "questions")
		if err != nil {
			return err
		}
		q.ID = id
		if q.Order == 0 {
			q.Order = id
		}

		created, err = scanQuestion(db.QueryRow(ctx, `
			INSERT INTO questions (`+questionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING `+questionColumns, questionArgs(q)...))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert question: %w", err)
	}
	return created, nil
}

func (r *Repository) GetQuestion(ctx context.Context, id int) (*models.Question, error) {
	q, err := scanQuestion(r.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if sqlutil.IsNoRows(err) {
		return nil, apperr.NotFound("question", id)
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *Repository) ListQuestions(ctx context.Context, includeInactive bool) ([]models.Question, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE $1 OR is_active
		ORDER BY sort_order, id`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// UpdateQuestion locks the row, applies the patch and writes every column back.
func (r *Repository) UpdateQuestion(ctx context.Context, id int, patch models.QuestionPatch, updatedAt time.Time) (*models.Question, error) {
	var updated *models.Question
	err := sqlutil.Run(ctx, r.db, func(tx pgx.Tx) sqlutil.DBTX { return tx }, func(db sqlutil.DBTX) error {
		current, err := scanQuestion(db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1 FOR UPDATE`, id))
		if sqlutil.IsNoRows(err) {
			return apperr.NotFound("question", id)
		}
		if err != nil {
			return err
		}

		patch.Apply(current)
		current.UpdatedAt = updatedAt

		updated, err = scanQuestion(db.QueryRow(ctx, `
			UPDATE questions SET
				sort_order = $2, question = $3, hint = $4, vibe = $5, question_type = $6, is_active = $7,
				most_votes = $8, least_votes = $9, collection = $10, hidden_question = $11, bonus = $12,
				updated_at = $13
			WHERE id = $1
			RETURNING `+questionColumns,
			current.ID, current.Order, current.Question, current.Hint, sqlutil.ToPgText(current.Vibe),
			string(current.Type), current.IsActive,
			current.MostVotes, current.LeastVotes, current.Collection,
			sqlutil.ToPgText(current.HiddenQuestion), sqlutil.ToPgText(current.Bonus),
			current.UpdatedAt,
		))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) DeleteQuestion(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("question", id)
	}
	return nil
}

func (r *Repository) ReplaceQuestions(ctx context.Context, questions []models.Question) error {
	return sqlutil.Run(ctx, r.db, func(tx pgx.Tx) pgx.Tx { return tx }, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM questions`); err != nil {
			return fmt.Errorf("failed to clear questions: %w", err)
		}

		batch := &pgx.Batch{}
		for _, q := range questions {
			batch.Queue(`INSERT INTO questions (`+questionColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`, questionArgs(q)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert questions: %w", err)
		}

		return sqlutil.SyncCounter(ctx, tx, "questions")
	})
}

func (r *Repository) DeleteAllQuestions(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) SetAllQuestionsActive(ctx context.Context, active bool, updatedAt time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE questions SET is_active = $1, updated_at = $2`, active, updatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CountQuestions(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func questionArgs(q models.Question) []any {
	return []any{
		q.ID, q.Order, q.Question, q.Hint, sqlutil.ToPgText(q.Vibe), string(q.Type), q.IsActive,
		q.MostVotes, q.LeastVotes, q.Collection,
		sqlutil.ToPgText(q.HiddenQuestion), sqlutil.ToPgText(q.Bonus),
		q.CreatedAt, q.UpdatedAt,
	}
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	var qType string
	var vibe, hidden, bonus pgtype.Text
	if err := row.Scan(
		&q.ID, &q.Order, &q.Question, &q.Hint, &vibe, &qType, &q.IsActive,
		&q.MostVotes, &q.LeastVotes, &q.Collection,
		&hidden, &bonus, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	q.Type = models.QuestionType(qType)
	q.Vibe = sqlutil.FromPgText(vibe)
	q.HiddenQuestion = sqlutil.FromPgText(hidden)
	q.Bonus = sqlutil.FromPgText(bonus)
	return &q, nil
}

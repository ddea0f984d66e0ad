package vote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/sqlutil"
)

const voteColumns = `id, question_id, voter_id, voter_name, voted_for_id, voted_for_name,
	client_session_id, created_at, updated_at`

// filterClause matches the optional question, voter, client session and
// vote id bound as $1 to $4.
const filterClause = `($1::int IS NULL OR question_id = $1)
	AND ($2::int IS NULL OR voter_id = $2)
	AND ($3::text IS NULL OR client_session_id = $3)
	AND ($4::uuid IS NULL OR id = $4)`

// Repository stores votes in Postgres. The unique index on
// (voter_id, question_id) backs the one-vote-per-question rule.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new vote repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{
		db: db,
	}
}

// UpsertVote inserts v or, on a (voter, question) conflict, overwrites the
// candidate and update time in one statement.
func (r *Repository) UpsertVote(ctx context.Context, v models.Vote) (*models.Vote, bool, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO votes (`+voteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (voter_id, question_id) DO UPDATE SET
			voted_for_id   = EXCLUDED.voted_for_id,
			voted_for_name = EXCLUDED.voted_for_name,
			updated_at     = EXCLUDED.updated_at
		RETURNING `+voteColumns+`, (xmax = 0) AS inserted`,
		pgtype.UUID{Bytes: v.ID, Valid: true}, v.QuestionID, v.VoterID, v.VoterName,
		v.VotedForID, v.VotedForName, v.ClientSessionID, v.CreatedAt, v.UpdatedAt,
	)

	var inserted bool
	stored, err := scanVote(row, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert vote: %w", err)
	}
	return stored, inserted, nil
}

func (r *Repository) ListVotes(ctx context.Context, filter models.VoteFilter) ([]models.Vote, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+voteColumns+`
		FROM votes
		WHERE `+filterClause+`
		ORDER BY question_id, created_at, voter_id`, filterArgs(filter)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := make([]models.Vote, 0)
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		votes = append(votes, *v)
	}
	return votes, rows.Err()
}

func (r *Repository) DeleteVotes(ctx context.Context, filter models.VoteFilter) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM votes WHERE `+filterClause, filterArgs(filter)...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CountVotes(ctx context.Context, filter models.VoteFilter) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE `+filterClause, filterArgs(filter)...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func filterArgs(f models.VoteFilter) []any {
	var id pgtype.UUID
	if f.ID != nil {
		id = pgtype.UUID{Bytes: *f.ID, Valid: true}
	}
	return []any{sqlutil.ToPgInt4(f.QuestionID), sqlutil.ToPgInt4(f.VoterID), sqlutil.ToPgText(f.ClientSessionID), id}
}

func scanVote(row pgx.Row, extra ...any) (*models.Vote, error) {
	var v models.Vote
	var id pgtype.UUID
	dest := append([]any{
		&id, &v.QuestionID, &v.VoterID, &v.VoterName, &v.VotedForID, &v.VotedForName,
		&v.ClientSessionID, &v.CreatedAt, &v.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	v.ID = uuid.UUID(id.Bytes)
	return &v, nil
}

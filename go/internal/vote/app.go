package vote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/events"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// VoteRepository defines what the ledger needs from storage. UpsertVote
// must be a single atomic write keyed on (voter, question).
type VoteRepository interface {
	UpsertVote(ctx context.Context, v models.Vote) (*models.Vote, bool, error)
	ListVotes(ctx context.Context, filter models.VoteFilter) ([]models.Vote, error)
	DeleteVotes(ctx context.Context, filter models.VoteFilter) (int64, error)
	CountVotes(ctx context.Context, filter models.VoteFilter) (int64, error)
}

// PlayerLookup resolves display names at write time
type PlayerLookup interface {
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
}

// EventEmitter receives ledger events
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload any)
}

// Options tunes ledger policy
type Options struct {
	// AllowSelfVote accepts votes where the voter is also the candidate.
	AllowSelfVote bool
}

// App is the vote ledger
type App struct {
	repo    VoteRepository
	players PlayerLookup
	events  EventEmitter
	clock   clockwork.Clock
	opts    Options
}

// NewApp creates a new vote ledger
func NewApp(repo VoteRepository, players PlayerLookup, emitter EventEmitter, clock clockwork.Clock, opts Options) *App {
	return &App{
		repo:    repo,
		players: players,
		events:  emitter,
		clock:   clock,
		opts:    opts,
	}
}

// SubmitVote records the voter's choice for a question. A repeat submission
// for the same voter and question overwrites the candidate in place.
// Player and question ids are not checked against the catalog.
func (a *App) SubmitVote(ctx context.Context, req SubmitVoteRequest) (*SubmitVoteResult, error) {
	if err := a.validateSubmitVoteRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	votedForName, err := a.playerName(ctx, req.VotedForID)
	if err != nil {
		return nil, err
	}
	voterName := strings.TrimSpace(req.VoterName)
	if voterName == "" {
		if voterName, err = a.playerName(ctx, req.VoterID); err != nil {
			return nil, err
		}
	}

	now := a.clock.Now()
	v, created, err := a.repo.UpsertVote(ctx, models.Vote{
		ID:              uuid.New(),
		QuestionID:      req.QuestionID,
		VoterID:         req.VoterID,
		VoterName:       voterName,
		VotedForID:      req.VotedForID,
		VotedForName:    votedForName,
		ClientSessionID: req.ClientSessionID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit vote: %w", err)
	}

	log.Info().
		Int("question_id", v.QuestionID).
		Int("voter_id", v.VoterID).
		Int("voted_for_id", v.VotedForID).
		Bool("created", created).
		Msg("vote submitted")

	a.events.Emit(ctx, events.EventTypeVoteSubmitted, events.VoteSubmittedPayload{
		VoteID:     v.ID.String(),
		QuestionID: v.QuestionID,
		VoterID:    v.VoterID,
		VotedForID: v.VotedForID,
		Created:    created,
	})

	return &SubmitVoteResult{Vote: v, Created: created, Updated: !created}, nil
}

// RetractVote deletes the voter's vote for a question, returning 0 or 1
func (a *App) RetractVote(ctx context.Context, voterID, questionID int) (int64, error) {
	if err := validateIDs(map[string]int{"voter_id": voterID, "question_id": questionID}); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	n, err := a.repo.DeleteVotes(ctx, models.VoteFilter{VoterID: &voterID, QuestionID: &questionID})
	if err != nil {
		return 0, fmt.Errorf("failed to retract vote: %w", err)
	}

	log.Info().Int("question_id", questionID).Int("voter_id", voterID).Int64("deleted", n).Msg("vote retracted")
	return n, nil
}

// Tally counts the votes of a question per candidate
func (a *App) Tally(ctx context.Context, questionID int) (*Tally, error) {
	if questionID <= 0 {
		return nil, apperr.Invalid("question_id must be positive", "question_id")
	}

	votes, err := a.repo.ListVotes(ctx, models.VoteFilter{QuestionID: &questionID})
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	tally := &Tally{QuestionID: questionID, Counts: make(map[int]int), TotalVotes: len(votes)}
	for _, v := range votes {
		tally.Counts[v.VotedForID]++
	}
	return tally, nil
}

// VoterHistory returns every question the voter has voted on and for whom
func (a *App) VoterHistory(ctx context.Context, voterID int) (*VoterHistory, error) {
	if voterID <= 0 {
		return nil, apperr.Invalid("voter_id must be positive", "voter_id")
	}

	votes, err := a.repo.ListVotes(ctx, models.VoteFilter{VoterID: &voterID})
	if err != nil {
		return nil, fmt.Errorf("failed to load voter history: %w", err)
	}

	history := &VoterHistory{VoterID: voterID, Votes: make(map[int]int, len(votes)), TotalVotes: len(votes)}
	for _, v := range votes {
		history.Votes[v.QuestionID] = v.VotedForID
	}
	return history, nil
}

// Stats summarises the whole ledger
func (a *App) Stats(ctx context.Context) (*Stats, error) {
	votes, err := a.repo.ListVotes(ctx, models.VoteFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}

	voters := make(map[int]struct{})
	questions := make(map[int]struct{})
	for _, v := range votes {
		voters[v.VoterID] = struct{}{}
		questions[v.QuestionID] = struct{}{}
	}

	ids := make([]int, 0, len(questions))
	for id := range questions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return &Stats{
		TotalVotes:         len(votes),
		UniqueVoters:       len(voters),
		QuestionsWithVotes: len(questions),
		QuestionIDs:        ids,
	}, nil
}

// ListVotes returns the votes matching the optional question and voter
func (a *App) ListVotes(ctx context.Context, filter models.VoteFilter) ([]models.Vote, error) {
	votes, err := a.repo.ListVotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return votes, nil
}

// CountVotes counts every vote in the ledger
func (a *App) CountVotes(ctx context.Context) (int64, error) {
	n, err := a.repo.CountVotes(ctx, models.VoteFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

// DeleteVotes removes the votes selected by an admin reset scope
func (a *App) DeleteVotes(ctx context.Context, req DeleteVotesRequest) (int64, error) {
	filter, err := filterForScope(req)
	if err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	n, err := a.repo.DeleteVotes(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}

	log.Warn().Str("scope", string(req.Scope)).Int64("deleted", n).Msg("votes deleted")
	a.events.Emit(ctx, events.EventTypeVotesDeleted, events.VotesDeletedPayload{Scope: string(req.Scope), Deleted: n})
	return n, nil
}

func (a *App) playerName(ctx context.Context, id int) (string, error) {
	p, err := a.players.GetPlayer(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up player %d: %w", id, err)
	}
	return p.Name, nil
}

func (a *App) validateSubmitVoteRequest(req SubmitVoteRequest) error {
	if err := validateIDs(map[string]int{
		"question_id":  req.QuestionID,
		"voter_id":     req.VoterID,
		"voted_for_id": req.VotedForID,
	}); err != nil {
		return err
	}
	if !a.opts.AllowSelfVote && req.VoterID == req.VotedForID {
		return apperr.Invalid("players cannot vote for themselves", "voter_id", "voted_for_id")
	}
	return nil
}

func validateIDs(ids map[string]int) error {
	var bad []string
	for field, id := range ids {
		if id <= 0 {
			bad = append(bad, field)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return apperr.Invalid("ids must be positive", bad...)
	}
	return nil
}

func filterForScope(req DeleteVotesRequest) (models.VoteFilter, error) {
	switch req.Scope {
	case DeleteScopeQuestion:
		if req.QuestionID <= 0 {
			return models.VoteFilter{}, apperr.Invalid("question_id is required", "question_id")
		}
		return models.VoteFilter{QuestionID: &req.QuestionID}, nil
	case DeleteScopeVoter:
		if req.VoterID <= 0 {
			return models.VoteFilter{}, apperr.Invalid("voter_id is required", "voter_id")
		}
		return models.VoteFilter{VoterID: &req.VoterID}, nil
	case DeleteScopeVoterQuestion:
		if err := validateIDs(map[string]int{"voter_id": req.VoterID, "question_id": req.QuestionID}); err != nil {
			return models.VoteFilter{}, err
		}
		return models.VoteFilter{VoterID: &req.VoterID, QuestionID: &req.QuestionID}, nil
	case DeleteScopeClientSession:
		if req.ClientSessionID == "" {
			return models.VoteFilter{}, apperr.Invalid("client_session_id is required", "client_session_id")
		}
		return models.VoteFilter{ClientSessionID: &req.ClientSessionID}, nil
	case DeleteScopeClientSessionQuestion:
		if req.ClientSessionID == "" {
			return models.VoteFilter{}, apperr.Invalid("client_session_id is required", "client_session_id")
		}
		if req.QuestionID <= 0 {
			return models.VoteFilter{}, apperr.Invalid("question_id is required", "question_id")
		}
		return models.VoteFilter{ClientSessionID: &req.ClientSessionID, QuestionID: &req.QuestionID}, nil
	case DeleteScopeVote:
		if req.VoteID == uuid.Nil {
			return models.VoteFilter{}, apperr.Invalid("vote_id is required", "vote_id")
		}
		return models.VoteFilter{ID: &req.VoteID}, nil
	case DeleteScopeAll:
		return models.VoteFilter{}, nil
	}
	return models.VoteFilter{}, apperr.Invalid(fmt.Sprintf("unknown delete scope %q", req.Scope), "scope")
}

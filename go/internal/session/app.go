package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/events"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// SessionRepository defines what the session app layer needs from storage.
// UpdateSession must compare the stored version with expectedVersion and
// write atomically, returning apperr.ErrStaleVersion on mismatch.
type SessionRepository interface {
	GetSession(ctx context.Context) (*models.GameSession, error)
	CreateSession(ctx context.Context, s models.GameSession) (*models.GameSession, bool, error)
	UpdateSession(ctx context.Context, s models.GameSession, expectedVersion int64) (*models.GameSession, error)
	ReplaceSession(ctx context.Context, s models.GameSession) (*models.GameSession, error)
	DeleteSession(ctx context.Context) (int64, error)
	CountSessions(ctx context.Context) (int64, error)
}

// QuestionCatalog lists questions in progression order
type QuestionCatalog interface {
	ListQuestions(ctx context.Context, includeInactive bool) ([]models.Question, error)
}

// EventEmitter receives session events
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload any)
}

// App owns the single game session
type App struct {
	repo      SessionRepository
	questions QuestionCatalog
	events    EventEmitter
	clock     clockwork.Clock
}

// NewApp creates a new session App
func NewApp(repo SessionRepository, questions QuestionCatalog, emitter EventEmitter, clock clockwork.Clock) *App {
	return &App{
		repo:      repo,
		questions: questions,
		events:    emitter,
		clock:     clock,
	}
}

// GetSession returns the session and its projection, creating a session at
// the first active question when none exists.
func (a *App) GetSession(ctx context.Context) (*View, error) {
	s, err := a.repo.GetSession(ctx)
	if errors.Is(err, apperr.ErrNotFound) {
		return a.createDefault(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return newView(a.clock.Now(), *s), nil
}

// Transition applies cmd to the session observed at expectedVersion.
// A session that moved on since then is rejected with apperr.ErrStaleVersion.
func (a *App) Transition(ctx context.Context, cmd Command, expectedVersion int64) (*View, error) {
	if cmd == nil {
		return nil, apperr.Invalid("action is required", "action")
	}
	if expectedVersion <= 0 {
		return nil, apperr.Invalid("expected_version is required", "expected_version")
	}

	current, err := a.repo.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if current.Version != expectedVersion {
		return nil, fmt.Errorf("session is at version %d, not %d: %w", current.Version, expectedVersion, apperr.ErrStaleVersion)
	}

	active, err := a.questions.ListQuestions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list active questions: %w", err)
	}

	now := a.clock.Now()
	next, err := apply(cmd, *current, active, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Action(), err)
	}
	next.UpdatedAt = now

	updated, err := a.repo.UpdateSession(ctx, next, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Info().
		Str("action", string(cmd.Action())).
		Int64("version", updated.Version).
		Int("question_index", updated.CurrentQuestionIndex).
		Int("question_id", updated.CurrentQuestionID).
		Str("status", string(updated.Status)).
		Msg("session transitioned")

	a.events.Emit(ctx, events.EventTypeSessionTransitioned, payload(cmd.Action(), *updated))
	return newView(now, *updated), nil
}

// NewGame replaces the session with a fresh one at the first active
// question. Votes are left untouched.
func (a *App) NewGame(ctx context.Context, votingDurationSeconds int) (*View, error) {
	if err := checkDuration(votingDurationSeconds, "voting_duration_seconds"); err != nil {
		return nil, err
	}

	active, err := a.questions.ListQuestions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list active questions: %w", err)
	}

	now := a.clock.Now()
	s, err := a.repo.ReplaceSession(ctx, fresh(active, votingDurationSeconds, now))
	if err != nil {
		return nil, fmt.Errorf("failed to replace session: %w", err)
	}

	log.Info().Int64("version", s.Version).Int("duration", votingDurationSeconds).Msg("new game started")
	a.events.Emit(ctx, events.EventTypeSessionReset, payload("new_game", *s))
	return newView(now, *s), nil
}

// DeleteSession removes the session; the next read recreates it
func (a *App) DeleteSession(ctx context.Context) (int64, error) {
	n, err := a.repo.DeleteSession(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	log.Warn().Int64("deleted", n).Msg("session deleted")
	return n, nil
}

// CountSessions reports whether a session exists (0 or 1)
func (a *App) CountSessions(ctx context.Context) (int64, error) {
	n, err := a.repo.CountSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

func (a *App) createDefault(ctx context.Context) (*View, error) {
	active, err := a.questions.ListQuestions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list active questions: %w", err)
	}

	now := a.clock.Now()
	s, created, err := a.repo.CreateSession(ctx, fresh(active, models.DefaultVotingDurationSeconds, now))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if created {
		log.Info().Int("question_id", s.CurrentQuestionID).Msg("created session")
		a.events.Emit(ctx, events.EventTypeSessionCreated, payload("create", *s))
	}
	return newView(now, *s), nil
}

// apply computes the session after cmd. It has one case per Command.
func apply(cmd Command, s models.GameSession, active []models.Question, now time.Time) (models.GameSession, error) {
	pos := Position(s, active)

	switch c := cmd.(type) {
	case NextQuestion:
		if pos+1 >= len(active) {
			s.CurrentQuestionIndex = pos
			s.Status = models.SessionStatusCompleted
			return s, nil
		}
		return moveTo(s, active, pos+1, now), nil

	case PreviousQuestion:
		if len(active) == 0 {
			return s, fmt.Errorf("no active questions: %w", apperr.ErrPrecondition)
		}
		return moveTo(s, active, max(0, pos-1), now), nil

	case GoToQuestion:
		if c.Index < 0 || c.Index >= len(active) {
			return s, apperr.Invalid(
				fmt.Sprintf("question_index %d is outside 0..%d", c.Index, len(active)-1),
				"question_index")
		}
		return moveTo(s, active, c.Index, now), nil

	case RevealTwist:
		s.Status = models.SessionStatusResults
		s.TwistRevealedAt = &now
		return s, nil

	case StartRevealing:
		s.Status = models.SessionStatusRevealing
		return s, nil

	case ExtendTime:
		if c.Seconds <= 0 {
			return s, apperr.Invalid("seconds must be positive", "seconds")
		}
		if c.Seconds > models.MaxVotingDurationSeconds-s.VotingDurationSeconds {
			return s, apperr.Invalid(
				fmt.Sprintf("voting duration cannot exceed %d seconds", models.MaxVotingDurationSeconds),
				"seconds")
		}
		s.VotingDurationSeconds += c.Seconds
		return s, nil

	case SetDuration:
		if err := checkDuration(c.Seconds, "seconds"); err != nil {
			return s, err
		}
		s.VotingDurationSeconds = c.Seconds
		return s, nil

	case RestartTimer:
		s.QuestionStartedAt = now
		s.Status = models.SessionStatusVoting
		s.TwistRevealedAt = nil
		return s, nil

	case ResetGame:
		next := fresh(active, s.VotingDurationSeconds, now)
		next.CreatedAt = s.CreatedAt
		return next, nil
	}

	return s, fmt.Errorf("unhandled command %T", cmd)
}

func checkDuration(seconds int, field string) error {
	if seconds <= 0 {
		return apperr.Invalid(field+" must be positive", field)
	}
	if seconds > models.MaxVotingDurationSeconds {
		return apperr.Invalid(
			fmt.Sprintf("%s cannot exceed %d", field, models.MaxVotingDurationSeconds), field)
	}
	return nil
}

// Position finds the current question in the active list by id. When that
// question is no longer active, the stored index is clamped into range.
func Position(s models.GameSession, active []models.Question) int {
	for i, q := range active {
		if q.ID == s.CurrentQuestionID {
			return i
		}
	}
	if len(active) == 0 {
		return 0
	}
	return min(max(s.CurrentQuestionIndex, 0), len(active)-1)
}

func moveTo(s models.GameSession, active []models.Question, index int, now time.Time) models.GameSession {
	s.CurrentQuestionIndex = index
	s.CurrentQuestionID = active[index].ID
	s.QuestionStartedAt = now
	s.Status = models.SessionStatusVoting
	s.TwistRevealedAt = nil
	return s
}

// fresh builds a session at the first active question. With no active
// questions the current question id is 0.
func fresh(active []models.Question, votingDurationSeconds int, now time.Time) models.GameSession {
	s := models.GameSession{
		CurrentQuestionIndex:  0,
		QuestionStartedAt:     now,
		VotingDurationSeconds: votingDurationSeconds,
		Status:                models.SessionStatusVoting,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if len(active) > 0 {
		s.CurrentQuestionID = active[0].ID
	}
	return s
}

func payload(action Action, s models.GameSession) events.SessionPayload {
	return events.SessionPayload{
		Action:                string(action),
		Version:               s.Version,
		CurrentQuestionIndex:  s.CurrentQuestionIndex,
		CurrentQuestionID:     s.CurrentQuestionID,
		Status:                string(s.Status),
		VotingDurationSeconds: s.VotingDurationSeconds,
		QuestionStartedAt:     s.QuestionStartedAt,
	}
}

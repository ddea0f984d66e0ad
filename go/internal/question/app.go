package question

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

// QuestionRepository defines what the question app layer needs from storage
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q models.Question) (*models.Question, error)
	GetQuestion(ctx context.Context, id int) (*models.Question, error)
	ListQuestions(ctx context.Context, includeInactive bool) ([]models.Question, error)
	UpdateQuestion(ctx context.Context, id int, patch models.QuestionPatch, updatedAt time.Time) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int) error
	ReplaceQuestions(ctx context.Context, questions []models.Question) error
	DeleteAllQuestions(ctx context.Context) (int64, error)
	SetAllQuestionsActive(ctx context.Context, active bool, updatedAt time.Time) (int64, error)
	CountQuestions(ctx context.Context) (int64, error)
}

// App handles question catalog business logic
type App struct {
	repo  QuestionRepository
	clock clockwork.Clock
}

// NewApp creates a new question App
func NewApp(repo QuestionRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// CreateQuestion appends an active question with the next stable id
func (a *App) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error) {
	if err := a.validateCreateQuestionRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := a.clock.Now()
	q, err := a.repo.CreateQuestion(ctx, models.Question{
		Order:          req.Order,
		Question:       strings.TrimSpace(req.Question),
		Hint:           req.Hint,
		Vibe:           req.Vibe,
		Type:           req.Type,
		IsActive:       true,
		MostVotes:      req.MostVotes,
		LeastVotes:     req.LeastVotes,
		Collection:     req.Collection,
		HiddenQuestion: req.HiddenQuestion,
		Bonus:          req.Bonus,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	log.Info().Int("question_id", q.ID).Int("order", q.Order).Str("type", string(q.Type)).Msg("created question")
	return q, nil
}

// GetQuestion retrieves a question by id, active or not
func (a *App) GetQuestion(ctx context.Context, id int) (*models.Question, error) {
	if id <= 0 {
		return nil, apperr.Invalid("id must be positive", "id")
	}

	q, err := a.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListQuestions returns questions in progression order, active only unless includeInactive
func (a *App) ListQuestions(ctx context.Context, includeInactive bool) ([]models.Question, error) {
	questions, err := a.repo.ListQuestions(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// UpdateQuestion patches a question by id
func (a *App) UpdateQuestion(ctx context.Context, id int, patch models.QuestionPatch) (*models.Question, error) {
	if err := a.validateUpdateQuestion(id, patch); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	q, err := a.repo.UpdateQuestion(ctx, id, patch, a.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	log.Info().Int("question_id", id).Msg("updated question")
	return q, nil
}

// DeleteQuestion deactivates a question, or removes it permanently when hard is set
func (a *App) DeleteQuestion(ctx context.Context, id int, hard bool) (*models.Question, error) {
	if id <= 0 {
		return nil, apperr.Invalid("id must be positive", "id")
	}

	if hard {
		if err := a.repo.DeleteQuestion(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to delete question: %w", err)
		}
		log.Info().Int("question_id", id).Msg("permanently deleted question")
		return nil, nil
	}

	inactive := false
	q, err := a.repo.UpdateQuestion(ctx, id, models.QuestionPatch{IsActive: &inactive}, a.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate question: %w", err)
	}

	log.Info().Int("question_id", id).Msg("deactivated question")
	return q, nil
}

// ReplaceQuestions swaps every question for the given ones, keeping their ids
func (a *App) ReplaceQuestions(ctx context.Context, questions []models.Question) error {
	now := a.clock.Now()
	seen := make(map[int]struct{}, len(questions))
	for i := range questions {
		q := &questions[i]
		if q.ID <= 0 {
			return apperr.Invalid(fmt.Sprintf("question %d: id must be positive", i), "id")
		}
		if _, ok := seen[q.ID]; ok {
			return apperr.Invalid(fmt.Sprintf("question id %d is duplicated", q.ID), "id")
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Question) == "" {
			return apperr.Invalid(fmt.Sprintf("question %d: question is required", q.ID), "question")
		}
		if !q.Type.Valid() {
			return apperr.Invalid(fmt.Sprintf("question %d: unknown type %q", q.ID, q.Type), "type")
		}
		if q.Order == 0 {
			q.Order = q.ID
		}
		q.CreatedAt = now
		q.UpdatedAt = now
	}

	if err := a.repo.ReplaceQuestions(ctx, questions); err != nil {
		return fmt.Errorf("failed to replace questions: %w", err)
	}

	log.Info().Int("count", len(questions)).Msg("replaced questions")
	return nil
}

// DeleteAllQuestions hard-deletes every question
func (a *App) DeleteAllQuestions(ctx context.Context) (int64, error) {
	n, err := a.repo.DeleteAllQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete questions: %w", err)
	}
	log.Warn().Int64("deleted", n).Msg("deleted all questions")
	return n, nil
}

// ReactivateAllQuestions marks every question active again
func (a *App) ReactivateAllQuestions(ctx context.Context) (int64, error) {
	n, err := a.repo.SetAllQuestionsActive(ctx, true, a.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to reactivate questions: %w", err)
	}
	return n, nil
}

// CountQuestions counts every question record
func (a *App) CountQuestions(ctx context.Context) (int64, error) {
	n, err := a.repo.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

func (a *App) validateCreateQuestionRequest(req CreateQuestionRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return apperr.Invalid("question is required", "question")
	}
	if !req.Type.Valid() {
		return apperr.Invalid(fmt.Sprintf("unknown question type %q", req.Type), "type")
	}
	if req.Order < 0 {
		return apperr.Invalid("order cannot be negative", "order")
	}
	return nil
}

func (a *App) validateUpdateQuestion(id int, patch models.QuestionPatch) error {
	if id <= 0 {
		return apperr.Invalid("id must be positive", "id")
	}
	if patch.Question != nil && strings.TrimSpace(*patch.Question) == "" {
		return apperr.Invalid("question cannot be empty", "question")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return apperr.Invalid(fmt.Sprintf("unknown question type %q", *patch.Type), "type")
	}
	if patch.Order != nil && *patch.Order < 0 {
		return apperr.Invalid("order cannot be negative", "order")
	}
	return nil
}

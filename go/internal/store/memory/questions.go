package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// QuestionStore keeps questions in a map
type QuestionStore struct {
	questions map[int]models.Question
	lastID    int
	mu        sync.RWMutex
}

// NewQuestionStore creates an empty question store
func NewQuestionStore() *QuestionStore {
	return &QuestionStore{
		questions: make(map[int]models.Question),
	}
}

// CreateQuestion stores q under the next id. A zero order defaults to the id.
func (s *QuestionStore) CreateQuestion(_ context.Context, q models.Question) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID = max(s.lastID, maxKey(s.questions)) + 1
	q.ID = s.lastID
	if q.Order == 0 {
		q.Order = q.ID
	}
	s.questions[q.ID] = q
	return &q, nil
}

// GetQuestion retrieves a question by id
func (s *QuestionStore) GetQuestion(_ context.Context, id int) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, apperr.NotFound("question", id)
	}
	return &q, nil
}

// ListQuestions returns questions ordered by order, then id
func (s *QuestionStore) ListQuestions(_ context.Context, includeInactive bool) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if includeInactive || q.IsActive {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].ID < questions[j].ID
	})
	return questions, nil
}

// UpdateQuestion applies patch to the question with id
func (s *QuestionStore) UpdateQuestion(_ context.Context, id int, patch models.QuestionPatch, updatedAt time.Time) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, apperr.NotFound("question", id)
	}
	patch.Apply(&q)
	q.UpdatedAt = updatedAt
	s.questions[id] = q
	return &q, nil
}

// DeleteQuestion removes the question with id
func (s *QuestionStore) DeleteQuestion(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return apperr.NotFound("question", id)
	}
	delete(s.questions, id)
	return nil
}

// ReplaceQuestions drops every question and stores the given ones
func (s *QuestionStore) ReplaceQuestions(_ context.Context, questions []models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = make(map[int]models.Question, len(questions))
	for _, q := range questions {
		s.questions[q.ID] = q
	}
	s.lastID = max(s.lastID, maxKey(s.questions))
	return nil
}

// DeleteAllQuestions drops every question
func (s *QuestionStore) DeleteAllQuestions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.questions))
	s.lastID = max(s.lastID, maxKey(s.questions))
	s.questions = make(map[int]models.Question)
	return n, nil
}

// SetAllQuestionsActive sets the active flag of every question
func (s *QuestionStore) SetAllQuestionsActive(_ context.Context, active bool, updatedAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, q := range s.questions {
		q.IsActive = active
		q.UpdatedAt = updatedAt
		s.questions[id] = q
	}
	return int64(len(s.questions)), nil
}

// CountQuestions counts every question
func (s *QuestionStore) CountQuestions(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.questions)), nil
}

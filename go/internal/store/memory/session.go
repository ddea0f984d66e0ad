package memory

import (
	"context"
	"sync"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// SessionStore holds the single game session
type SessionStore struct {
	session *models.GameSession
	mu      sync.Mutex
}

// NewSessionStore creates a store with no session
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// GetSession returns the session, or not-found when none exists
func (s *SessionStore) GetSession(_ context.Context) (*models.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperr.NotFound("session", models.SessionKey)
	}
	out := *s.session
	return &out, nil
}

// CreateSession stores sess at version 1 unless a session already exists,
// in which case the existing one is returned unchanged.
func (s *SessionStore) CreateSession(_ context.Context, sess models.GameSession) (*models.GameSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		out := *s.session
		return &out, false, nil
	}
	sess.Version = 1
	s.session = &sess
	return &sess, true, nil
}

// UpdateSession overwrites the session when its version still equals
// expectedVersion, bumping the version by one.
func (s *SessionStore) UpdateSession(_ context.Context, sess models.GameSession, expectedVersion int64) (*models.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperr.NotFound("session", models.SessionKey)
	}
	if s.session.Version != expectedVersion {
		return nil, apperr.ErrStaleVersion
	}
	sess.Version = expectedVersion + 1
	sess.CreatedAt = s.session.CreatedAt
	s.session = &sess
	return &sess, nil
}

// ReplaceSession deletes any existing session and stores sess. The version
// continues from the deleted session.
func (s *SessionStore) ReplaceSession(_ context.Context, sess models.GameSession) (*models.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.Version = 1
	if s.session != nil {
		sess.Version = s.session.Version + 1
	}
	s.session = &sess
	return &sess, nil
}

// DeleteSession removes the session
func (s *SessionStore) DeleteSession(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return 0, nil
	}
	s.session = nil
	return 1, nil
}

// CountSessions returns 1 when a session exists
func (s *SessionStore) CountSessions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return 0, nil
	}
	return 1, nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// ConfigStore holds the single game config
type ConfigStore struct {
	config *models.GameConfig
	mu     sync.RWMutex
}

// NewConfigStore creates a store with no config
func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// GetConfig returns the config, or not-found when none exists
func (s *ConfigStore) GetConfig(_ context.Context) (*models.GameConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return nil, apperr.NotFound("config", models.ConfigKey)
	}
	out := *s.config
	return &out, nil
}

// CreateConfig stores cfg unless a config exists, returning whichever is stored
func (s *ConfigStore) CreateConfig(_ context.Context, cfg models.GameConfig) (*models.GameConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		s.config = &cfg
	}
	out := *s.config
	return &out, nil
}

// UpdateConfig applies patch to the stored config
func (s *ConfigStore) UpdateConfig(_ context.Context, patch models.ConfigPatch, updatedAt time.Time) (*models.GameConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		return nil, apperr.NotFound("config", models.ConfigKey)
	}
	patch.Apply(s.config)
	s.config.UpdatedAt = updatedAt
	out := *s.config
	return &out, nil
}

// ReplaceConfig overwrites the config
func (s *ConfigStore) ReplaceConfig(_ context.Context, cfg models.GameConfig) (*models.GameConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = &cfg
	out := cfg
	return &out, nil
}

// DeleteConfig removes the config
func (s *ConfigStore) DeleteConfig(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		return 0, nil
	}
	s.config = nil
	return 1, nil
}

// CountConfigs returns 1 when a config exists
func (s *ConfigStore) CountConfigs(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return 0, nil
	}
	return 1, nil
}

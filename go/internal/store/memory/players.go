package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

// PlayerStore keeps players in a map
type PlayerStore struct {
	players map[int]models.Player
	lastID  int
	mu      sync.RWMutex
}

// NewPlayerStore creates an empty player store
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		players: make(map[int]models.Player),
	}
}

// CreatePlayer stores p under the next id, which is never reused
func (s *PlayerStore) CreatePlayer(_ context.Context, p models.Player) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID = max(s.lastID, maxKey(s.players)) + 1
	p.ID = s.lastID
	s.players[p.ID] = p
	return &p, nil
}

// GetPlayer retrieves a player by id
func (s *PlayerStore) GetPlayer(_ context.Context, id int) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, apperr.NotFound("player", id)
	}
	return &p, nil
}

// ListPlayers returns players ordered by id
func (s *PlayerStore) ListPlayers(_ context.Context, includeInactive bool) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]models.Player, 0, len(s.players))
	for _, p := range s.players {
		if includeInactive || p.IsActive {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

// UpdatePlayer applies patch to the player with id
func (s *PlayerStore) UpdatePlayer(_ context.Context, id int, patch models.PlayerPatch, updatedAt time.Time) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return nil, apperr.NotFound("player", id)
	}
	patch.Apply(&p)
	p.UpdatedAt = updatedAt
	s.players[id] = p
	return &p, nil
}

// DeletePlayer removes the player with id
func (s *PlayerStore) DeletePlayer(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return apperr.NotFound("player", id)
	}
	delete(s.players, id)
	return nil
}

// ReplacePlayers drops every player and stores the given ones
func (s *PlayerStore) ReplacePlayers(_ context.Context, players []models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make(map[int]models.Player, len(players))
	for _, p := range players {
		s.players[p.ID] = p
	}
	s.lastID = max(s.lastID, maxKey(s.players))
	return nil
}

// DeleteAllPlayers drops every player
func (s *PlayerStore) DeleteAllPlayers(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.players))
	s.lastID = max(s.lastID, maxKey(s.players))
	s.players = make(map[int]models.Player)
	return n, nil
}

// SetAllPlayersActive sets the active flag of every player
func (s *PlayerStore) SetAllPlayersActive(_ context.Context, active bool, updatedAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.players {
		p.IsActive = active
		p.UpdatedAt = updatedAt
		s.players[id] = p
	}
	return int64(len(s.players)), nil
}

// CountPlayers counts every player
func (s *PlayerStore) CountPlayers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.players)), nil
}

func maxKey[V any](m map[int]V) int {
	highest := 0
	for id := range m {
		if id > highest {
			highest = id
		}
	}
	return highest
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcdev12/partyvote/go/internal/models"
)

type voteKey struct {
	voterID    int
	questionID int
}

// VoteStore keeps votes keyed by (voter, question), so at most one vote
// exists per pair.
type VoteStore struct {
	votes map[voteKey]models.Vote
	mu    sync.RWMutex
}

// NewVoteStore creates an empty vote store
func NewVoteStore() *VoteStore {
	return &VoteStore{
		votes: make(map[voteKey]models.Vote),
	}
}

// UpsertVote inserts v, or overwrites the candidate of the existing vote
// for the same voter and question. It reports whether a record was created.
func (s *VoteStore) UpsertVote(_ context.Context, v models.Vote) (*models.Vote, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{voterID: v.VoterID, questionID: v.QuestionID}
	existing, ok := s.votes[key]
	if !ok {
		s.votes[key] = v
		return &v, true, nil
	}

	existing.VotedForID = v.VotedForID
	existing.VotedForName = v.VotedForName
	existing.UpdatedAt = v.UpdatedAt
	s.votes[key] = existing
	return &existing, false, nil
}

// ListVotes returns the votes matching filter ordered by question, then creation
func (s *VoteStore) ListVotes(_ context.Context, filter models.VoteFilter) ([]models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]models.Vote, 0)
	for _, v := range s.votes {
		if filter.Matches(v) {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].QuestionID != votes[j].QuestionID {
			return votes[i].QuestionID < votes[j].QuestionID
		}
		if !votes[i].CreatedAt.Equal(votes[j].CreatedAt) {
			return votes[i].CreatedAt.Before(votes[j].CreatedAt)
		}
		return votes[i].VoterID < votes[j].VoterID
	})
	return votes, nil
}

// DeleteVotes removes the votes matching filter
func (s *VoteStore) DeleteVotes(_ context.Context, filter models.VoteFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, v := range s.votes {
		if filter.Matches(v) {
			delete(s.votes, key)
			n++
		}
	}
	return n, nil
}

// CountVotes counts the votes matching filter
func (s *VoteStore) CountVotes(_ context.Context, filter models.VoteFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, v := range s.votes {
		if filter.Matches(v) {
			n++
		}
	}
	return n, nil
}

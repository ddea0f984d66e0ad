package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
)

var t0 = time.Date(2025, 12, 26, 20, 0, 0, 0, time.UTC)

func TestVoteStoreKeepsOneVotePerPair(t *testing.T) {
	s := NewVoteStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(candidate int) {
			defer wg.Done()
			_, _, err := s.UpsertVote(ctx, models.Vote{
				ID:         uuid.New(),
				QuestionID: 1,
				VoterID:    7,
				VotedForID: candidate,
				CreatedAt:  t0,
				UpdatedAt:  t0,
			})
			if err != nil {
				t.Error(err)
			}
		}(i%5 + 1)
	}
	wg.Wait()

	if n, _ := s.CountVotes(ctx, models.VoteFilter{}); n != 1 {
		t.Errorf("votes = %d, want 1", n)
	}
}

func TestVoteStoreUpsertKeepsIdentity(t *testing.T) {
	s := NewVoteStore()
	ctx := context.Background()

	first := models.Vote{ID: uuid.New(), QuestionID: 1, VoterID: 2, VotedForID: 3, ClientSessionID: "phone", CreatedAt: t0, UpdatedAt: t0}
	stored, created, err := s.UpsertVote(ctx, first)
	if err != nil || !created {
		t.Fatalf("first upsert = %v, %v", created, err)
	}

	later := t0.Add(time.Minute)
	changed, created, err := s.UpsertVote(ctx, models.Vote{ID: uuid.New(), QuestionID: 1, VoterID: 2, VotedForID: 4, CreatedAt: later, UpdatedAt: later})
	if err != nil || created {
		t.Fatalf("second upsert = %v, %v", created, err)
	}

	want := *stored
	want.VotedForID = 4
	want.UpdatedAt = later
	if diff := cmp.Diff(want, *changed); diff != "" {
		t.Errorf("changed vote mismatch (-want +got):\n%s", diff)
	}
}

func TestVoteStoreFilters(t *testing.T) {
	s := NewVoteStore()
	ctx := context.Background()

	votes := []models.Vote{
		{QuestionID: 2, VoterID: 1, VotedForID: 3, ClientSessionID: "a", CreatedAt: t0},
		{QuestionID: 1, VoterID: 2, VotedForID: 3, ClientSessionID: "b", CreatedAt: t0.Add(time.Second)},
		{QuestionID: 1, VoterID: 1, VotedForID: 2, ClientSessionID: "a", CreatedAt: t0.Add(2 * time.Second)},
	}
	for _, v := range votes {
		v.ID = uuid.New()
		if _, _, err := s.UpsertVote(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListVotes(ctx, models.VoteFilter{})
	if err != nil {
		t.Fatal(err)
	}
	var order [][2]int
	for _, v := range all {
		order = append(order, [2]int{v.QuestionID, v.VoterID})
	}
	if diff := cmp.Diff([][2]int{{1, 2}, {1, 1}, {2, 1}}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	client := "a"
	if n, _ := s.DeleteVotes(ctx, models.VoteFilter{ClientSessionID: &client}); n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	question := 1
	if n, _ := s.CountVotes(ctx, models.VoteFilter{QuestionID: &question}); n != 1 {
		t.Errorf("remaining on question 1 = %d, want 1", n)
	}
}

func TestSessionStoreCompareAndSwap(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	if _, err := s.UpdateSession(ctx, models.GameSession{}, 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("update before create: got %v, want not found", err)
	}

	created, ok, err := s.CreateSession(ctx, models.GameSession{Status: models.SessionStatusVoting, CreatedAt: t0})
	if err != nil || !ok || created.Version != 1 {
		t.Fatalf("CreateSession() = %+v, %v, %v", created, ok, err)
	}
	if again, ok, _ := s.CreateSession(ctx, models.GameSession{Status: models.SessionStatusRevealing}); ok || again.Status != models.SessionStatusVoting {
		t.Errorf("second create replaced the session: %+v", again)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		applied  int
		rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			_, err := s.UpdateSession(ctx, models.GameSession{CurrentQuestionIndex: index, Status: models.SessionStatusVoting}, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				applied++
			case errors.Is(err, apperr.ErrStaleVersion):
				rejected++
			default:
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	if applied != 1 || rejected != 19 {
		t.Errorf("applied = %d, rejected = %d; want 1 and 19", applied, rejected)
	}
	got, err := s.GetSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 2 || !got.CreatedAt.Equal(t0) {
		t.Errorf("version = %d, created_at = %s", got.Version, got.CreatedAt)
	}

	replaced, err := s.ReplaceSession(ctx, models.GameSession{Status: models.SessionStatusVoting})
	if err != nil {
		t.Fatal(err)
	}
	if replaced.Version != 3 {
		t.Errorf("replaced version = %d, want 3", replaced.Version)
	}
	if n, _ := s.DeleteSession(ctx); n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if n, _ := s.CountSessions(ctx); n != 0 {
		t.Errorf("sessions = %d, want 0", n)
	}
}

func TestConfigStore(t *testing.T) {
	s := NewConfigStore()
	ctx := context.Background()

	if _, err := s.GetConfig(ctx); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
	if _, err := s.CreateConfig(ctx, models.GameConfig{Title: "First"}); err != nil {
		t.Fatal(err)
	}
	kept, err := s.CreateConfig(ctx, models.GameConfig{Title: "Second"})
	if err != nil {
		t.Fatal(err)
	}
	if kept.Title != "First" {
		t.Errorf("title = %q, want First", kept.Title)
	}

	revealed := true
	updated, err := s.UpdateConfig(ctx, models.ConfigPatch{RoastsRevealed: &revealed}, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.RoastsRevealed || updated.Title != "First" || !updated.UpdatedAt.Equal(t0) {
		t.Errorf("unexpected config %+v", updated)
	}
}

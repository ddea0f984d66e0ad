package vote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/events"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/store/memory"
)

const (
	alice = 1
	bob   = 2
	carol = 3
	q1    = 10
	q2    = 11
)

type recordingEmitter struct {
	types []string
}

func (e *recordingEmitter) Emit(_ context.Context, eventType string, _ any) {
	e.types = append(e.types, eventType)
}

type fixture struct {
	app     *App
	votes   *memory.VoteStore
	players *memory.PlayerStore
	clock   *clockwork.FakeClock
	events  *recordingEmitter
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	ctx := context.Background()

	players := memory.NewPlayerStore()
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := players.CreatePlayer(ctx, models.Player{Name: name, IsActive: true}); err != nil {
			t.Fatal(err)
		}
	}

	f := &fixture{
		votes:   memory.NewVoteStore(),
		players: players,
		clock:   clockwork.NewFakeClockAt(time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC)),
		events:  &recordingEmitter{},
	}
	f.app = NewApp(f.votes, players, f.events, f.clock, opts)
	return f
}

func (f *fixture) submit(t *testing.T, voter, question, candidate int) *SubmitVoteResult {
	t.Helper()
	res, err := f.app.SubmitVote(context.Background(), SubmitVoteRequest{
		QuestionID: question,
		VoterID:    voter,
		VotedForID: candidate,
	})
	if err != nil {
		t.Fatalf("SubmitVote(%d->%d on %d): %v", voter, candidate, question, err)
	}
	return res
}

func TestTallyScenario(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	f.submit(t, alice, q1, bob)
	f.submit(t, carol, q1, bob)
	f.submit(t, bob, q1, carol)

	tally, err := f.app.Tally(ctx, q1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[int]int{bob: 2, carol: 1}, tally.Counts); diff != "" {
		t.Errorf("tally mismatch (-want +got):\n%s", diff)
	}
	if tally.TotalVotes != 3 {
		t.Errorf("TotalVotes = %d, want 3", tally.TotalVotes)
	}

	stats, err := f.app.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := &Stats{TotalVotes: 3, UniqueVoters: 3, QuestionsWithVotes: 1, QuestionIDs: []int{q1}}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestChangedVoteOverwritesInPlace(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	first := f.submit(t, alice, q1, bob)
	if !first.Created || first.Updated {
		t.Errorf("first submission: created=%v updated=%v", first.Created, first.Updated)
	}

	f.clock.Advance(30 * time.Second)
	second := f.submit(t, alice, q1, carol)
	if second.Created || !second.Updated {
		t.Errorf("second submission: created=%v updated=%v", second.Created, second.Updated)
	}

	votes, err := f.app.ListVotes(ctx, models.VoteFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected exactly one vote, got %d", len(votes))
	}
	got := votes[0]
	if got.VotedForID != carol || got.VotedForName != "Carol" {
		t.Errorf("vote points at %d (%q), want Carol", got.VotedForID, got.VotedForName)
	}
	if got.ID != first.Vote.ID {
		t.Error("vote id changed on update")
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updated_at %v not after created_at %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestIdenticalResubmissionIsIdempotent(t *testing.T) {
	f := newFixture(t, Options{})

	f.submit(t, alice, q1, bob)
	again := f.submit(t, alice, q1, bob)
	if !again.Updated {
		t.Error("expected updated=true on identical resubmission")
	}

	n, err := f.app.CountVotes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("vote count = %d, want 1", n)
	}
}

func TestAtMostOneVotePerVoterAndQuestion(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	sequence := []struct{ voter, question, candidate int }{
		{alice, q1, bob}, {alice, q1, carol}, {bob, q1, alice}, {alice, q2, bob},
		{alice, q1, bob}, {bob, q1, carol}, {carol, q2, alice}, {alice, q2, carol},
	}
	latest := make(map[[2]int]int)
	for _, s := range sequence {
		f.submit(t, s.voter, s.question, s.candidate)
		latest[[2]int{s.voter, s.question}] = s.candidate
	}

	votes, err := f.app.ListVotes(ctx, models.VoteFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(votes) != len(latest) {
		t.Fatalf("got %d votes, want %d", len(votes), len(latest))
	}
	for _, v := range votes {
		if want := latest[[2]int{v.VoterID, v.QuestionID}]; v.VotedForID != want {
			t.Errorf("voter %d on question %d voted for %d, want %d", v.VoterID, v.QuestionID, v.VotedForID, want)
		}
	}

	// Tally sums to the number of votes on the question.
	for _, q := range []int{q1, q2} {
		tally, err := f.app.Tally(ctx, q)
		if err != nil {
			t.Fatal(err)
		}
		sum := 0
		for _, c := range tally.Counts {
			sum += c
		}
		if sum != tally.TotalVotes {
			t.Errorf("question %d: tally sums to %d, total %d", q, sum, tally.TotalVotes)
		}
	}
}

func TestUnknownPlayersAndQuestionsAreAccepted(t *testing.T) {
	f := newFixture(t, Options{})

	// Neither the candidate nor the question exist in any catalog.
	res := f.submit(t, alice, 999, 42)
	if res.Vote.VotedForName != "" {
		t.Errorf("VotedForName = %q, want empty for unknown candidate", res.Vote.VotedForName)
	}
	if res.Vote.VoterName != "Alice" {
		t.Errorf("VoterName = %q, want looked-up Alice", res.Vote.VoterName)
	}
}

func TestCandidateNameIsSnapshotAtWriteTime(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	f.submit(t, alice, q1, bob)
	newName := "Robert"
	if _, err := f.players.UpdatePlayer(ctx, bob, models.PlayerPatch{Name: &newName}, f.clock.Now()); err != nil {
		t.Fatal(err)
	}

	votes, err := f.app.ListVotes(ctx, models.VoteFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if votes[0].VotedForName != "Bob" {
		t.Errorf("VotedForName = %q, want historical Bob", votes[0].VotedForName)
	}
}

func TestSelfVotePolicy(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.app.SubmitVote(context.Background(), SubmitVoteRequest{QuestionID: q1, VoterID: alice, VotedForID: alice})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for self vote, got %v", err)
	}

	permissive := newFixture(t, Options{AllowSelfVote: true})
	if _, err := permissive.app.SubmitVote(context.Background(), SubmitVoteRequest{QuestionID: q1, VoterID: alice, VotedForID: alice}); err != nil {
		t.Fatalf("self vote with AllowSelfVote: %v", err)
	}
}

func TestSubmitVoteValidation(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.app.SubmitVote(context.Background(), SubmitVoteRequest{VoterID: alice})
	var v *apperr.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff([]string{"question_id", "voted_for_id"}, v.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if len(f.events.types) != 0 {
		t.Errorf("rejected vote emitted events: %v", f.events.types)
	}
}

func TestRetractVote(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	f.submit(t, alice, q1, bob)

	n, err := f.app.RetractVote(ctx, alice, q1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	n, err = f.app.RetractVote(ctx, alice, q1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second retract deleted = %d, want 0", n)
	}
}

func TestVoterHistory(t *testing.T) {
	f := newFixture(t, Options{})

	f.submit(t, alice, q1, bob)
	f.submit(t, alice, q2, carol)
	f.submit(t, bob, q1, alice)

	history, err := f.app.VoterHistory(context.Background(), alice)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[int]int{q1: bob, q2: carol}, history.Votes); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteVotesScopes(t *testing.T) {
	tests := []struct {
		name      string
		req       DeleteVotesRequest
		deleted   int64
		remaining int64
	}{
		{"question", DeleteVotesRequest{Scope: DeleteScopeQuestion, QuestionID: q1}, 2, 2},
		{"voter", DeleteVotesRequest{Scope: DeleteScopeVoter, VoterID: alice}, 2, 2},
		{"voter and question", DeleteVotesRequest{Scope: DeleteScopeVoterQuestion, VoterID: alice, QuestionID: q2}, 1, 3},
		{"client session", DeleteVotesRequest{Scope: DeleteScopeClientSession, ClientSessionID: "phone-1"}, 1, 3},
		{"client session and question", DeleteVotesRequest{Scope: DeleteScopeClientSessionQuestion, ClientSessionID: "phone-1", QuestionID: q2}, 1, 3},
		{"client session elsewhere", DeleteVotesRequest{Scope: DeleteScopeClientSessionQuestion, ClientSessionID: "phone-1", QuestionID: q1}, 0, 4},
		{"all", DeleteVotesRequest{Scope: DeleteScopeAll}, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			ctx := context.Background()

			f.submit(t, alice, q1, bob)
			f.submit(t, bob, q1, carol)
			f.submit(t, alice, q2, carol)
			if _, err := f.app.SubmitVote(ctx, SubmitVoteRequest{QuestionID: q2, VoterID: carol, VotedForID: bob, ClientSessionID: "phone-1"}); err != nil {
				t.Fatal(err)
			}

			n, err := f.app.DeleteVotes(ctx, tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.deleted {
				t.Errorf("deleted = %d, want %d", n, tt.deleted)
			}
			left, err := f.app.CountVotes(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if left != tt.remaining {
				t.Errorf("remaining = %d, want %d", left, tt.remaining)
			}
			if last := f.events.types[len(f.events.types)-1]; last != events.EventTypeVotesDeleted {
				t.Errorf("last event = %q", last)
			}
		})
	}
}

func TestDeleteSingleVote(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	first := f.submit(t, alice, q1, bob)
	f.submit(t, bob, q1, carol)

	n, err := f.app.DeleteVotes(ctx, DeleteVotesRequest{Scope: DeleteScopeVote, VoteID: first.Vote.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	history, err := f.app.VoterHistory(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if history.TotalVotes != 0 {
		t.Errorf("alice still has %d votes", history.TotalVotes)
	}

	n, err = f.app.DeleteVotes(ctx, DeleteVotesRequest{Scope: DeleteScopeVote, VoteID: first.Vote.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second delete removed %d votes", n)
	}
	if left, _ := f.app.CountVotes(ctx); left != 1 {
		t.Errorf("remaining = %d, want 1", left)
	}
}

func TestDeleteVotesRejectsIncompleteScope(t *testing.T) {
	f := newFixture(t, Options{})

	for _, req := range []DeleteVotesRequest{
		{Scope: DeleteScopeQuestion},
		{Scope: DeleteScopeVoterQuestion, VoterID: alice},
		{Scope: DeleteScopeClientSession},
		{Scope: DeleteScopeClientSessionQuestion, ClientSessionID: "phone-1"},
		{Scope: DeleteScopeClientSessionQuestion, QuestionID: q1},
		{Scope: DeleteScopeVote},
		{Scope: "everything"},
	} {
		if _, err := f.app.DeleteVotes(context.Background(), req); !apperr.IsValidation(err) {
			t.Errorf("%+v: expected validation error, got %v", req, err)
		}
	}
}

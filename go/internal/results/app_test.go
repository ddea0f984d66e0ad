package results

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/session"
	"github.com/mcdev12/partyvote/go/internal/store/memory"
)

const (
	alice = 1
	bob   = 2
	carol = 3
)

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}

type fixture struct {
	app      *App
	sessions *session.App
	votes    *memory.VoteStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	players := memory.NewPlayerStore()
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := players.CreatePlayer(ctx, models.Player{Name: name, Emoji: "🍻", IsActive: true}); err != nil {
			t.Fatal(err)
		}
	}

	questions := memory.NewQuestionStore()
	hidden := "Who would you call at 3am?"
	seed := []models.Question{
		{
			Question:   "Who is most likely to get lost on the way home?",
			Type:       models.QuestionTypeDirect,
			IsActive:   true,
			MostVotes:  models.Framing{Title: "Lost Cause", Award: "Compass Award"},
			LeastVotes: models.Framing{Title: "Navigator", Award: "Golden Map"},
			Collection: models.Collection{LoserTask: "Buy a round", WinnerTask: "Pick the next song"},
		},
		{
			Question:       "Who would you trust with a secret?",
			Type:           models.QuestionTypeTwist,
			IsActive:       true,
			MostVotes:      models.Framing{Title: "Most Likely To Spill", Award: "Big Mouth"},
			LeastVotes:     models.Framing{Title: "The Vault", Award: "Lockbox"},
			HiddenQuestion: &hidden,
		},
		{
			Question: "Who gives the best toast?",
			Type:     models.QuestionTypeBlind,
			IsActive: true,
		},
	}
	for _, q := range seed {
		if _, err := questions.CreateQuestion(ctx, q); err != nil {
			t.Fatal(err)
		}
	}

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 14, 22, 0, 0, 0, time.UTC))
	f := &fixture{
		sessions: session.NewApp(memory.NewSessionStore(), questions, nopEmitter{}, clock),
		votes:    memory.NewVoteStore(),
	}
	f.app = NewApp(players, questions, f.votes, f.sessions)
	return f
}

func (f *fixture) vote(t *testing.T, question, voter, candidate int) {
	t.Helper()
	_, _, err := f.votes.UpsertVote(context.Background(), models.Vote{QuestionID: question, VoterID: voter, VotedForID: candidate})
	if err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) transition(t *testing.T, cmd session.Command) {
	t.Helper()
	ctx := context.Background()
	v, err := f.sessions.GetSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.sessions.Transition(ctx, cmd, v.Version); err != nil {
		t.Fatal(err)
	}
}

func TestQuestionResultsDirect(t *testing.T) {
	f := newFixture(t)
	f.vote(t, 1, alice, bob)
	f.vote(t, 1, carol, bob)
	f.vote(t, 1, bob, carol)

	res, err := f.app.QuestionResults(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}

	wantStandings := []Standing{
		{PlayerID: bob, Name: "Bob", Emoji: "🍻", Votes: 2},
		{PlayerID: carol, Name: "Carol", Emoji: "🍻", Votes: 1},
		{PlayerID: alice, Name: "Alice", Emoji: "🍻", Votes: 0},
	}
	if diff := cmp.Diff(wantStandings, res.Standings); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
	if res.Progress != ProgressCurrent || !res.FramingVisible || res.TotalVotes != 3 {
		t.Errorf("progress=%s visible=%v total=%d", res.Progress, res.FramingVisible, res.TotalVotes)
	}
	if res.Loser == nil || res.Loser.PlayerID != bob || res.Loser.Framing.Award != "Compass Award" || res.Loser.Task != "Buy a round" {
		t.Errorf("loser = %+v", res.Loser)
	}
	if res.Winner == nil || res.Winner.PlayerID != alice || res.Winner.Framing.Title != "Navigator" {
		t.Errorf("winner = %+v", res.Winner)
	}
}

func TestQuestionResultsTwistHiddenUntilRevealed(t *testing.T) {
	f := newFixture(t)
	f.vote(t, 2, alice, carol)
	f.vote(t, 2, bob, carol)
	f.transition(t, session.NextQuestion{})

	res, err := f.app.QuestionResults(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.FramingVisible || res.HiddenQuestion != nil {
		t.Errorf("twist visible before reveal: visible=%v hidden=%v", res.FramingVisible, res.HiddenQuestion)
	}
	if res.Loser == nil || res.Loser.PlayerID != carol || res.Loser.Framing != nil {
		t.Errorf("loser = %+v, want carol without framing", res.Loser)
	}
	if res.Winner == nil || res.Winner.PlayerID != bob {
		t.Errorf("winner = %+v, want bob on the id tie-break", res.Winner)
	}

	f.transition(t, session.RevealTwist{})
	res, err = f.app.QuestionResults(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.FramingVisible || res.HiddenQuestion == nil || *res.HiddenQuestion != "Who would you call at 3am?" {
		t.Errorf("after reveal: visible=%v hidden=%v", res.FramingVisible, res.HiddenQuestion)
	}
	if res.Loser.Framing == nil || res.Loser.Framing.Award != "Big Mouth" {
		t.Errorf("loser framing = %+v", res.Loser.Framing)
	}
}

func TestQuestionResultsWithoutVotes(t *testing.T) {
	f := newFixture(t)

	res, err := f.app.QuestionResults(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Loser != nil || res.Winner != nil {
		t.Errorf("placements without votes: loser=%v winner=%v", res.Loser, res.Winner)
	}
	if res.Progress != ProgressUpcoming {
		t.Errorf("progress = %s, want upcoming", res.Progress)
	}
}

func TestQuestionResultsErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.app.QuestionResults(ctx, 0); !apperr.IsValidation(err) {
		t.Errorf("zero id: got %v, want validation error", err)
	}
	if _, err := f.app.QuestionResults(ctx, 99); err == nil {
		t.Error("unknown question: expected error")
	}
}

func TestScoreboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.vote(t, 1, alice, bob)
	f.vote(t, 1, carol, bob)
	f.vote(t, 1, bob, carol)
	f.vote(t, 2, alice, carol)
	f.vote(t, 2, bob, carol)

	board, err := f.app.Scoreboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if board.MostDestroyed != nil {
		t.Error("scoreboard scored before any question completed")
	}

	f.transition(t, session.NextQuestion{})
	f.transition(t, session.NextQuestion{})

	board, err = f.app.Scoreboard(ctx)
	if err != nil {
		t.Fatal(err)
	}

	wantRows := []ScoreRow{
		{PlayerID: bob, Name: "Bob", Emoji: "🍻", Bad: 1, Good: 1, Awards: []string{"Compass Award", "Lockbox"}},
		{PlayerID: carol, Name: "Carol", Emoji: "🍻", Bad: 1, Good: 0, Awards: []string{"Big Mouth"}},
		{PlayerID: alice, Name: "Alice", Emoji: "🍻", Bad: 0, Good: 1, Awards: []string{"Golden Map"}},
	}
	if diff := cmp.Diff(wantRows, board.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	wantProgress := []Progress{ProgressCompleted, ProgressCompleted, ProgressCurrent}
	for i, qp := range board.Questions {
		if qp.Progress != wantProgress[i] {
			t.Errorf("question %d progress = %s, want %s", qp.QuestionID, qp.Progress, wantProgress[i])
		}
	}
	if board.MostDestroyed == nil || board.MostDestroyed.PlayerID != bob {
		t.Errorf("most destroyed = %+v, want bob", board.MostDestroyed)
	}
	if board.MostLoved == nil || board.MostLoved.PlayerID != alice {
		t.Errorf("most loved = %+v, want alice", board.MostLoved)
	}
}

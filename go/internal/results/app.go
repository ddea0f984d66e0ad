package results

import (
	"context"
	"fmt"
	"sort"

	"github.com/mcdev12/partyvote/go/internal/apperr"
	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/session"
)

// PlayerCatalog lists the players that can be ranked
type PlayerCatalog interface {
	ListPlayers(ctx context.Context, includeInactive bool) ([]models.Player, error)
}

// QuestionCatalog reads questions in progression order
type QuestionCatalog interface {
	GetQuestion(ctx context.Context, id int) (*models.Question, error)
	ListQuestions(ctx context.Context, includeInactive bool) ([]models.Question, error)
}

// VoteReader reads the ledger
type VoteReader interface {
	ListVotes(ctx context.Context, filter models.VoteFilter) ([]models.Vote, error)
}

// SessionReader reads the current session
type SessionReader interface {
	GetSession(ctx context.Context) (*session.View, error)
}

// App derives results from the ledger, the catalog and the session.
// It never writes.
type App struct {
	players   PlayerCatalog
	questions QuestionCatalog
	votes     VoteReader
	sessions  SessionReader
}

// NewApp creates a new results App
func NewApp(players PlayerCatalog, questions QuestionCatalog, votes VoteReader, sessions SessionReader) *App {
	return &App{
		players:   players,
		questions: questions,
		votes:     votes,
		sessions:  sessions,
	}
}

// QuestionResults ranks the active players on one question. The loser has
// the most votes and the winner the fewest; equal counts rank by player id.
func (a *App) QuestionResults(ctx context.Context, questionID int) (*QuestionResults, error) {
	if questionID <= 0 {
		return nil, apperr.Invalid("question_id must be positive", "question_id")
	}

	q, err := a.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	snap, err := a.snapshot(ctx, &questionID)
	if err != nil {
		return nil, err
	}

	pos := -1
	for i, active := range snap.active {
		if active.ID == q.ID {
			pos = i
			break
		}
	}
	progress := progressOf(pos, snap.current, snap.session)
	visible := framingVisible(*q, progress, snap.session)

	standings := rank(snap.players, snap.votes)
	out := &QuestionResults{
		QuestionID:     q.ID,
		Question:       q.Question,
		Type:           q.Type,
		Progress:       progress,
		TotalVotes:     len(snap.votes),
		Standings:      standings,
		FramingVisible: visible,
	}
	if visible {
		out.HiddenQuestion = q.HiddenQuestion
		out.Bonus = q.Bonus
	}

	if len(snap.votes) > 0 && len(standings) > 0 {
		loser := &Placement{Standing: standings[0]}
		winner := &Placement{Standing: standings[len(standings)-1]}
		if visible {
			loser.Framing, loser.Task = &q.MostVotes, q.Collection.LoserTask
			winner.Framing, winner.Task = &q.LeastVotes, q.Collection.WinnerTask
		}
		out.Loser, out.Winner = loser, winner
	}
	return out, nil
}

// Scoreboard counts, for every active player, how often they lost (bad) or
// won (good) a completed question that received votes.
func (a *App) Scoreboard(ctx context.Context) (*Scoreboard, error) {
	snap, err := a.snapshot(ctx, nil)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[int][]models.Vote)
	for _, v := range snap.votes {
		byQuestion[v.QuestionID] = append(byQuestion[v.QuestionID], v)
	}

	rows := make(map[int]*ScoreRow, len(snap.players))
	for _, p := range snap.players {
		rows[p.ID] = &ScoreRow{PlayerID: p.ID, Name: p.Name, Emoji: p.Emoji, Awards: []string{}}
	}

	board := &Scoreboard{Questions: make([]QuestionProgress, 0, len(snap.active))}
	scored := false
	for i, q := range snap.active {
		votes := byQuestion[q.ID]
		progress := progressOf(i, snap.current, snap.session)
		qp := QuestionProgress{
			Position:   i,
			QuestionID: q.ID,
			Question:   q.Question,
			Progress:   progress,
			TotalVotes: len(votes),
		}

		standings := rank(snap.players, votes)
		if progress == ProgressCompleted && len(votes) > 0 && len(standings) > 0 {
			loser, winner := standings[0], standings[len(standings)-1]
			qp.LoserID, qp.WinnerID = loser.PlayerID, winner.PlayerID

			rows[loser.PlayerID].Bad++
			rows[winner.PlayerID].Good++
			if q.MostVotes.Award != "" {
				rows[loser.PlayerID].Awards = append(rows[loser.PlayerID].Awards, q.MostVotes.Award)
			}
			if q.LeastVotes.Award != "" {
				rows[winner.PlayerID].Awards = append(rows[winner.PlayerID].Awards, q.LeastVotes.Award)
			}
			scored = true
		}
		board.Questions = append(board.Questions, qp)
	}

	board.Rows = make([]ScoreRow, 0, len(rows))
	for _, p := range snap.players {
		board.Rows = append(board.Rows, *rows[p.ID])
	}
	sort.SliceStable(board.Rows, func(i, j int) bool {
		ri, rj := board.Rows[i], board.Rows[j]
		if ri.Bad != rj.Bad {
			return ri.Bad > rj.Bad
		}
		if ri.Good != rj.Good {
			return ri.Good > rj.Good
		}
		return ri.PlayerID < rj.PlayerID
	})

	if scored {
		destroyed := board.Rows[0]
		board.MostDestroyed = &destroyed
		board.MostLoved = mostLoved(board.Rows)
	}
	return board, nil
}

type snapshot struct {
	players []models.Player
	active  []models.Question
	session models.GameSession
	current int
	votes   []models.Vote
}

func (a *App) snapshot(ctx context.Context, questionID *int) (*snapshot, error) {
	players, err := a.players.ListPlayers(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	active, err := a.questions.ListQuestions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	view, err := a.sessions.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	votes, err := a.votes.ListVotes(ctx, models.VoteFilter{QuestionID: questionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	return &snapshot{
		players: players,
		active:  active,
		session: view.GameSession,
		current: session.Position(view.GameSession, active),
		votes:   votes,
	}, nil
}

// rank orders active players by votes received, most first. Votes for
// players outside the list still count towards the question total.
func rank(players []models.Player, votes []models.Vote) []Standing {
	counts := make(map[int]int, len(players))
	for _, v := range votes {
		counts[v.VotedForID]++
	}

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{PlayerID: p.ID, Name: p.Name, Emoji: p.Emoji, Votes: counts[p.ID]})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Votes != standings[j].Votes {
			return standings[i].Votes > standings[j].Votes
		}
		return standings[i].PlayerID < standings[j].PlayerID
	})
	return standings
}

func progressOf(pos, current int, s models.GameSession) Progress {
	switch {
	case pos < 0:
		return ProgressInactive
	case pos < current:
		return ProgressCompleted
	case pos == current && s.Status == models.SessionStatusCompleted:
		return ProgressCompleted
	case pos == current:
		return ProgressCurrent
	}
	return ProgressUpcoming
}

// framingVisible: DIRECT questions show their framing at once; the others
// wait for the twist on the current question or for the question to be done.
func framingVisible(q models.Question, progress Progress, s models.GameSession) bool {
	if !q.Type.NeedsTwist() {
		return true
	}
	switch progress {
	case ProgressCompleted:
		return true
	case ProgressCurrent:
		return s.TwistRevealedAt != nil
	}
	return false
}

func mostLoved(rows []ScoreRow) *ScoreRow {
	best := rows[0]
	for _, r := range rows[1:] {
		if r.Good > best.Good || (r.Good == best.Good && r.Bad < best.Bad) {
			best = r
		}
	}
	return &best
}

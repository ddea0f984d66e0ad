package session

import (
	"time"

	"github.com/mcdev12/partyvote/go/internal/models"
)

// Projection holds the timer fields derived from a session at a point in time.
// It is never stored.
type Projection struct {
	ElapsedSeconds   int64     `json:"elapsed_seconds"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	IsVotingOpen     bool      `json:"is_voting_open"`
	CanRevealTwist   bool      `json:"can_reveal_twist"`
	ServerTime       time.Time `json:"server_time"`
}

// Project computes the timer view of s at now. Elapsed time is floored to
// whole seconds and clamped at zero, so a start time ahead of now reads as
// a full window.
func Project(now time.Time, s models.GameSession) Projection {
	elapsed := now.Sub(s.QuestionStartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsedSeconds := int64(elapsed / time.Second)

	remaining := int64(s.VotingDurationSeconds) - elapsedSeconds
	if remaining < 0 {
		remaining = 0
	}

	return Projection{
		ElapsedSeconds:   elapsedSeconds,
		RemainingSeconds: remaining,
		IsVotingOpen:     remaining > 0 && s.Status == models.SessionStatusVoting,
		CanRevealTwist: remaining == 0 ||
			s.Status == models.SessionStatusRevealing ||
			s.Status == models.SessionStatusResults,
		ServerTime: now,
	}
}

// View is a session together with its projection at read time
type View struct {
	models.GameSession
	Projection
}

func newView(now time.Time, s models.GameSession) *View {
	return &View{GameSession: s, Projection: Project(now, s)}
}

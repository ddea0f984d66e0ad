package models

import (
	"time"
)

// SessionKey identifies the single game session record.
const SessionKey = "main"

// DefaultVotingDurationSeconds is the voting window of a new game.
const DefaultVotingDurationSeconds = 180

// MaxVotingDurationSeconds caps the voting window at one day.
const MaxVotingDurationSeconds = 24 * 60 * 60

// SessionStatus is the lifecycle state of the game session.
type SessionStatus string

const (
	SessionStatusVoting    SessionStatus = "voting"
	SessionStatusRevealing SessionStatus = "revealing"
	SessionStatusResults   SessionStatus = "results"
	SessionStatusCompleted SessionStatus = "completed"
)

// Valid reports whether s is a known session status
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusVoting, SessionStatusRevealing, SessionStatusResults, SessionStatusCompleted:
		return true
	}
	return false
}

// GameSession is the authoritative record of game progress.
type GameSession struct {
	CurrentQuestionIndex  int           `json:"current_question_index"`
	CurrentQuestionID     int           `json:"current_question_id"`
	QuestionStartedAt     time.Time     `json:"question_started_at"`
	VotingDurationSeconds int           `json:"voting_duration_seconds"`
	Status                SessionStatus `json:"status"`
	TwistRevealedAt       *time.Time    `json:"twist_revealed_at,omitempty"`
	Version               int64         `json:"version"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

package events

import (
	"time"
)

// Event types published on the game event stream
const (
	EventTypeSessionCreated      = "session.created"
	EventTypeSessionTransitioned = "session.transitioned"
	EventTypeSessionReset        = "session.reset"
	EventTypeVoteSubmitted       = "vote.submitted"
	EventTypeVotesDeleted        = "vote.deleted"
)

// SessionPayload is the payload of every session event
type SessionPayload struct {
	Action                string    `json:"action"`
	Version               int64     `json:"version"`
	CurrentQuestionIndex  int       `json:"current_question_index"`
	CurrentQuestionID     int       `json:"current_question_id"`
	Status                string    `json:"status"`
	VotingDurationSeconds int       `json:"voting_duration_seconds"`
	QuestionStartedAt     time.Time `json:"question_started_at"`
}

// VoteSubmittedPayload is the payload of a VoteSubmitted event
type VoteSubmittedPayload struct {
	VoteID     string `json:"vote_id"`
	QuestionID int    `json:"question_id"`
	VoterID    int    `json:"voter_id"`
	VotedForID int    `json:"voted_for_id"`
	Created    bool   `json:"created"`
}

// VotesDeletedPayload is the payload of a VotesDeleted event
type VotesDeletedPayload struct {
	Scope   string `json:"scope"`
	Deleted int64  `json:"deleted"`
}

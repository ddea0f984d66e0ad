package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one voter's choice for one question. At most one exists per
// (VoterID, QuestionID).
type Vote struct {
	ID              uuid.UUID `json:"id"`
	QuestionID      int       `json:"question_id"`
	VoterID         int       `json:"voter_id"`
	VoterName       string    `json:"voter_name"`
	VotedForID      int       `json:"voted_for_id"`
	VotedForName    string    `json:"voted_for_name"`
	ClientSessionID string    `json:"client_session_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VoteFilter selects votes. Nil fields match everything, so the zero
// value selects the whole ledger.
type VoteFilter struct {
	ID              *uuid.UUID `json:"id,omitempty"`
	QuestionID      *int    `json:"question_id,omitempty"`
	VoterID         *int    `json:"voter_id,omitempty"`
	ClientSessionID *string `json:"client_session_id,omitempty"`
}

// Matches reports whether v is selected by the filter
func (f VoteFilter) Matches(v Vote) bool {
	if f.ID != nil && v.ID != *f.ID {
		return false
	}
	if f.QuestionID != nil && v.QuestionID != *f.QuestionID {
		return false
	}
	if f.VoterID != nil && v.VoterID != *f.VoterID {
		return false
	}
	if f.ClientSessionID != nil && v.ClientSessionID != *f.ClientSessionID {
		return false
	}
	return true
}

package session

// GetSessionRequest reads the session, creating it on first use
type GetSessionRequest struct{}

// TransitionRequest is the wire form of a Command. ExpectedVersion is the
// session version the caller last observed.
type TransitionRequest struct {
	Action          string `json:"action"`
	ExpectedVersion int64  `json:"expected_version"`
	QuestionIndex   *int   `json:"question_index,omitempty"`
	Seconds         *int   `json:"seconds,omitempty"`
}

// NewGameRequest replaces the session with a fresh one
type NewGameRequest struct {
	VotingDurationSeconds *int `json:"voting_duration_seconds,omitempty"`
}

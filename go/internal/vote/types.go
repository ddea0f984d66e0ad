package vote

import (
	"github.com/google/uuid"

	"github.com/mcdev12/partyvote/go/internal/models"
)

// SubmitVoteRequest casts or changes a vote. VoterName is looked up from
// the catalog when left empty.
type SubmitVoteRequest struct {
	QuestionID      int    `json:"question_id"`
	VoterID         int    `json:"voter_id"`
	VoterName       string `json:"voter_name"`
	VotedForID      int    `json:"voted_for_id"`
	ClientSessionID string `json:"client_session_id,omitempty"`
}

// SubmitVoteResult is the stored vote and whether it was newly created
type SubmitVoteResult struct {
	Vote    *models.Vote `json:"vote"`
	Created bool         `json:"created"`
	Updated bool         `json:"updated"`
}

type RetractVoteRequest struct {
	VoterID    int `json:"voter_id"`
	QuestionID int `json:"question_id"`
}

type RetractVoteResponse struct {
	Deleted int64 `json:"deleted"`
}

type GetTallyRequest struct {
	QuestionID int `json:"question_id"`
}

// Tally counts votes per candidate for one question
type Tally struct {
	QuestionID int         `json:"question_id"`
	Counts     map[int]int `json:"counts"`
	TotalVotes int         `json:"total_votes"`
}

type GetVoterHistoryRequest struct {
	VoterID int `json:"voter_id"`
}

// VoterHistory maps question id to the candidate the voter chose
type VoterHistory struct {
	VoterID    int         `json:"voter_id"`
	Votes      map[int]int `json:"votes"`
	TotalVotes int         `json:"total_votes"`
}

type GetStatsRequest struct{}

// Stats summarises the whole ledger
type Stats struct {
	TotalVotes         int   `json:"total_votes"`
	UniqueVoters       int   `json:"unique_voters"`
	QuestionsWithVotes int   `json:"questions_with_votes"`
	QuestionIDs        []int `json:"question_ids"`
}

type ListVotesRequest struct {
	QuestionID *int `json:"question_id,omitempty"`
	VoterID    *int `json:"voter_id,omitempty"`
}

type ListVotesResponse struct {
	Votes []models.Vote `json:"votes"`
}

// DeleteScope names which votes an admin reset removes
type DeleteScope string

const (
	DeleteScopeQuestion      DeleteScope = "question"
	DeleteScopeVoter         DeleteScope = "voter"
	DeleteScopeVoterQuestion DeleteScope = "voter_question"
	DeleteScopeClientSession DeleteScope = "client_session"
	DeleteScopeAll           DeleteScope = "all"

	// DeleteScopeVote removes one vote by id
	DeleteScopeVote DeleteScope = "vote"
	// DeleteScopeClientSessionQuestion removes one device's votes on one question
	DeleteScopeClientSessionQuestion DeleteScope = "client_session_question"
)

// DeleteVotesRequest selects the votes of an admin reset
type DeleteVotesRequest struct {
	Scope           DeleteScope `json:"scope"`
	VoteID          uuid.UUID   `json:"vote_id,omitempty"`
	QuestionID      int         `json:"question_id,omitempty"`
	VoterID         int         `json:"voter_id,omitempty"`
	ClientSessionID string      `json:"client_session_id,omitempty"`
}

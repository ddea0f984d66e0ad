package admin

import (
	"time"

	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/vote"
)

// Collection names a stored record set
type Collection string

const (
	CollectionPlayers   Collection = "players"
	CollectionQuestions Collection = "questions"
	CollectionVotes     Collection = "votes"
	CollectionConfig    Collection = "config"
	CollectionSession   Collection = "session"
	CollectionAll       Collection = "all"
)

// SeedTarget names what a reseed restores
type SeedTarget string

const (
	SeedPlayers    SeedTarget = "players"
	SeedQuestions  SeedTarget = "questions"
	SeedConfig     SeedTarget = "config"
	SeedSession    SeedTarget = "session"
	SeedFreshStart SeedTarget = "fresh_start"
	SeedAll        SeedTarget = "all"
)

// ResetAction names a game reset
type ResetAction string

const (
	ResetVotes          ResetAction = "reset_votes"
	ResetGame           ResetAction = "reset_game"
	ResetAll            ResetAction = "reset_all"
	ResetFlushQuestions ResetAction = "flush_questions"
	ResetFlushPlayers   ResetAction = "flush_players"
)

type WipeRequest struct {
	Collection Collection `json:"collection"`
}

// WipeResult reports the records removed per collection
type WipeResult struct {
	Collection Collection           `json:"collection"`
	Deleted    map[Collection]int64 `json:"deleted"`
	Total      int64                `json:"total"`
}

type ReseedRequest struct {
	Target SeedTarget `json:"target"`
}

// ReseedResult reports what a reseed wrote and cleared
type ReseedResult struct {
	Target  SeedTarget           `json:"target"`
	Seeded  map[Collection]int64 `json:"seeded"`
	Cleared []Collection         `json:"cleared"`
}

type ResetVotesRequest struct {
	vote.DeleteVotesRequest
}

type ResetVotesResult struct {
	Scope   vote.DeleteScope `json:"scope"`
	Deleted int64            `json:"deleted"`
}

type ResetRequest struct {
	Action ResetAction `json:"action"`
}

// ResetResult reports the effect of a game reset
type ResetResult struct {
	Action            ResetAction `json:"action"`
	Message           string      `json:"message"`
	VotesDeleted      int64       `json:"votes_deleted"`
	QuestionsDeleted  int64       `json:"questions_deleted"`
	PlayersDeleted    int64       `json:"players_deleted"`
	QuestionsRestored int64       `json:"questions_restored"`
	PlayersRestored   int64       `json:"players_restored"`
}

type CollectionCountsRequest struct{}

// CollectionCounts is the record count of every collection
type CollectionCounts struct {
	Counts map[Collection]int64 `json:"counts"`
	Total  int64                `json:"total"`
}

type GameStatsRequest struct{}

// GameStats summarises the game for the admin dashboard
type GameStats struct {
	Title                string               `json:"title"`
	IsGameActive         bool                 `json:"is_game_active"`
	CurrentQuestionIndex int                  `json:"current_question_index"`
	SessionStatus        models.SessionStatus `json:"session_status"`
	TotalVotes           int                  `json:"total_votes"`
	TotalQuestions       int                  `json:"total_questions"`
	ActiveQuestions      int                  `json:"active_questions"`
	TotalPlayers         int                  `json:"total_players"`
	ActivePlayers        int                  `json:"active_players"`
	UniqueVoters         int                  `json:"unique_voters"`
	UniqueSessions       int                  `json:"unique_sessions"`
	VotesPerQuestion     map[int]int          `json:"votes_per_question"`
	VotesReceived        map[int]int          `json:"votes_received"`
}

type VoteTrackingRequest struct {
	QuestionID *int `json:"question_id,omitempty"`
}

// TrackedVote is one voter's choice on a question
type TrackedVote struct {
	VoterID      int       `json:"voter_id"`
	VoterName    string    `json:"voter_name"`
	VotedForID   int       `json:"voted_for_id"`
	VotedForName string    `json:"voted_for_name"`
	Time         time.Time `json:"time"`
}

// QuestionTracking lists who voted for whom on one active question
type QuestionTracking struct {
	QuestionID int                 `json:"question_id"`
	Question   string              `json:"question"`
	Type       models.QuestionType `json:"type"`
	Order      int                 `json:"order"`
	TotalVotes int                 `json:"total_votes"`
	Votes      []TrackedVote       `json:"votes"`
}

// TrackedPlayer is the short form of an active player
type TrackedPlayer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// VoteTracking groups the ledger by active question
type VoteTracking struct {
	Questions  []QuestionTracking `json:"questions"`
	Players    []TrackedPlayer    `json:"players"`
	TotalVotes int                `json:"total_votes"`
}

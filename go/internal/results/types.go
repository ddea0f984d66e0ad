package results

import (
	"github.com/mcdev12/partyvote/go/internal/models"
)

// Progress places a question relative to the session's current position
type Progress string

const (
	ProgressCompleted Progress = "completed"
	ProgressCurrent   Progress = "current"
	ProgressUpcoming  Progress = "upcoming"
	ProgressInactive  Progress = "inactive"
)

// Standing is a player's vote count on one question
type Standing struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Votes    int    `json:"votes"`
}

// Placement is the loser or winner of a question with its framing.
// Framing and Task are empty until the framing is visible.
type Placement struct {
	Standing
	Framing *models.Framing `json:"framing,omitempty"`
	Task    string          `json:"task,omitempty"`
}

// QuestionResults is the ranked outcome of one question
type QuestionResults struct {
	QuestionID     int                 `json:"question_id"`
	Question       string              `json:"question"`
	Type           models.QuestionType `json:"type"`
	Progress       Progress            `json:"progress"`
	TotalVotes     int                 `json:"total_votes"`
	Standings      []Standing          `json:"standings"`
	Loser          *Placement          `json:"loser,omitempty"`
	Winner         *Placement          `json:"winner,omitempty"`
	FramingVisible bool                `json:"framing_visible"`
	HiddenQuestion *string             `json:"hidden_question,omitempty"`
	Bonus          *string             `json:"bonus,omitempty"`
}

// ScoreRow is one player's line on the scoreboard
type ScoreRow struct {
	PlayerID int      `json:"player_id"`
	Name     string   `json:"name"`
	Emoji    string   `json:"emoji"`
	Bad      int      `json:"bad"`
	Good     int      `json:"good"`
	Awards   []string `json:"awards"`
}

// QuestionProgress summarises one active question on the scoreboard
type QuestionProgress struct {
	Position   int      `json:"position"`
	QuestionID int      `json:"question_id"`
	Question   string   `json:"question"`
	Progress   Progress `json:"progress"`
	TotalVotes int      `json:"total_votes"`
	LoserID    int      `json:"loser_id,omitempty"`
	WinnerID   int      `json:"winner_id,omitempty"`
}

// Scoreboard aggregates the completed questions of the game
type Scoreboard struct {
	Rows          []ScoreRow         `json:"rows"`
	Questions     []QuestionProgress `json:"questions"`
	MostDestroyed *ScoreRow          `json:"most_destroyed,omitempty"`
	MostLoved     *ScoreRow          `json:"most_loved,omitempty"`
}

// GetQuestionResultsRequest asks for the results of one question
type GetQuestionResultsRequest struct {
	QuestionID int `json:"question_id"`
}

// GetScoreboardRequest asks for the scoreboard
type GetScoreboardRequest struct{}

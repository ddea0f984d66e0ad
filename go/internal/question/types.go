package question

import (
	"github.com/mcdev12/partyvote/go/internal/models"
)

// CreateQuestionRequest represents a request to add a question.
// A zero Order defaults to the assigned id.
type CreateQuestionRequest struct {
	Order          int                 `json:"order"`
	Question       string              `json:"question"`
	Hint           string              `json:"hint"`
	Vibe           *string             `json:"vibe,omitempty"`
	Type           models.QuestionType `json:"type"`
	MostVotes      models.Framing      `json:"most_votes"`
	LeastVotes     models.Framing      `json:"least_votes"`
	Collection     models.Collection   `json:"collection"`
	HiddenQuestion *string             `json:"hidden_question,omitempty"`
	Bonus          *string             `json:"bonus,omitempty"`
}

type ListQuestionsRequest struct {
	IncludeInactive bool `json:"include_inactive"`
}

type ListQuestionsResponse struct {
	Questions []models.Question `json:"questions"`
}

type GetQuestionRequest struct {
	ID int `json:"id"`
}

type QuestionResponse struct {
	Question *models.Question `json:"question"`
}

type UpdateQuestionRequest struct {
	ID    int                  `json:"id"`
	Patch models.QuestionPatch `json:"patch"`
}

// DeleteQuestionRequest deactivates a question, or removes it when Hard is set
type DeleteQuestionRequest struct {
	ID   int  `json:"id"`
	Hard bool `json:"hard"`
}

type DeleteQuestionResponse struct {
	Success  bool             `json:"success"`
	Hard     bool             `json:"hard"`
	Question *models.Question `json:"question,omitempty"`
}

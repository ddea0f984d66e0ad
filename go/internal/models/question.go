package models

import (
	"time"
)

// QuestionType decides how results of a question are revealed.
type QuestionType string

const (
	QuestionTypeTwist   QuestionType = "TWIST"
	QuestionTypeDirect  QuestionType = "DIRECT"
	QuestionTypeBlind   QuestionType = "BLIND"
	QuestionTypeRanking QuestionType = "RANKING"
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeTwist, QuestionTypeDirect, QuestionTypeBlind, QuestionTypeRanking:
		return true
	}
	return false
}

// NeedsTwist reports whether the winner/loser framing stays hidden until
// the twist is revealed.
func (t QuestionType) NeedsTwist() bool {
	return t != QuestionTypeDirect
}

// Framing is the title shown for one extreme of a question's result.
type Framing struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	Award    string `json:"award" yaml:"award"`
}

// Collection holds the forfeit for the loser and the reward for the winner.
type Collection struct {
	LoserTask  string `json:"loser_task" yaml:"loser_task"`
	WinnerTask string `json:"winner_task" yaml:"winner_task"`
}

// Question represents one round of the game
type Question struct {
	ID             int          `json:"id" yaml:"id"`
	Order          int          `json:"order" yaml:"order"`
	Question       string       `json:"question" yaml:"question"`
	Hint           string       `json:"hint" yaml:"hint"`
	Vibe           *string      `json:"vibe,omitempty" yaml:"vibe,omitempty"`
	Type           QuestionType `json:"type" yaml:"type"`
	IsActive       bool         `json:"is_active" yaml:"-"`
	MostVotes      Framing      `json:"most_votes" yaml:"most_votes"`
	LeastVotes     Framing      `json:"least_votes" yaml:"least_votes"`
	Collection     Collection   `json:"collection" yaml:"collection"`
	HiddenQuestion *string      `json:"hidden_question,omitempty" yaml:"hidden_question,omitempty"`
	Bonus          *string      `json:"bonus,omitempty" yaml:"bonus,omitempty"`
	CreatedAt      time.Time    `json:"created_at" yaml:"-"`
	UpdatedAt      time.Time    `json:"updated_at" yaml:"-"`
}

// QuestionPatch holds the optional fields of a question update.
type QuestionPatch struct {
	Order          *int          `json:"order,omitempty"`
	Question       *string       `json:"question,omitempty"`
	Hint           *string       `json:"hint,omitempty"`
	Vibe           *string       `json:"vibe,omitempty"`
	Type           *QuestionType `json:"type,omitempty"`
	IsActive       *bool         `json:"is_active,omitempty"`
	MostVotes      *Framing      `json:"most_votes,omitempty"`
	LeastVotes     *Framing      `json:"least_votes,omitempty"`
	Collection     *Collection   `json:"collection,omitempty"`
	HiddenQuestion *string       `json:"hidden_question,omitempty"`
	Bonus          *string       `json:"bonus,omitempty"`
}

// Apply copies the set fields of the patch onto q
func (patch QuestionPatch) Apply(q *Question) {
	if patch.Order != nil {
		q.Order = *patch.Order
	}
	if patch.Question != nil {
		q.Question = *patch.Question
	}
	if patch.Hint != nil {
		q.Hint = *patch.Hint
	}
	if patch.Vibe != nil {
		q.Vibe = patch.Vibe
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.IsActive != nil {
		q.IsActive = *patch.IsActive
	}
	if patch.MostVotes != nil {
		q.MostVotes = *patch.MostVotes
	}
	if patch.LeastVotes != nil {
		q.LeastVotes = *patch.LeastVotes
	}
	if patch.Collection != nil {
		q.Collection = *patch.Collection
	}
	if patch.HiddenQuestion != nil {
		q.HiddenQuestion = patch.HiddenQuestion
	}
	if patch.Bonus != nil {
		q.Bonus = patch.Bonus
	}
}

package models

import (
	"time"
)

// DefaultPlayerEmoji is used when a player is created without one
const DefaultPlayerEmoji = "😀"

// Player represents a participant who both votes and receives votes
type Player struct {
	ID          int       `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Emoji       string    `json:"emoji" yaml:"emoji"`
	IsActive    bool      `json:"is_active" yaml:"-"`
	Roast       *string   `json:"roast,omitempty" yaml:"roast,omitempty"`
	DirtySecret *string   `json:"dirty_secret,omitempty" yaml:"dirty_secret,omitempty"`
	Prediction  *string   `json:"prediction,omitempty" yaml:"prediction,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// PlayerPatch holds the optional fields of a player update.
// Nil fields are left unchanged.
type PlayerPatch struct {
	Name        *string `json:"name,omitempty"`
	Emoji       *string `json:"emoji,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Roast       *string `json:"roast,omitempty"`
	DirtySecret *string `json:"dirty_secret,omitempty"`
	Prediction  *string `json:"prediction,omitempty"`
}

// Apply copies the set fields of the patch onto p
func (patch PlayerPatch) Apply(p *Player) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Emoji != nil {
		p.Emoji = *patch.Emoji
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.Roast != nil {
		p.Roast = patch.Roast
	}
	if patch.DirtySecret != nil {
		p.DirtySecret = patch.DirtySecret
	}
	if patch.Prediction != nil {
		p.Prediction = patch.Prediction
	}
}

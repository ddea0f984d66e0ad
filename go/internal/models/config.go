package models

import (
	"time"
)

// ConfigKey identifies the single game config record.
const ConfigKey = "main"

// GameConfig holds presentation text and visibility switches.
type GameConfig struct {
	Title          string    `json:"title" yaml:"title"`
	Subtitle       string    `json:"subtitle" yaml:"subtitle"`
	Tagline        string    `json:"tagline" yaml:"tagline"`
	Date           string    `json:"date" yaml:"date"`
	GroomName      string    `json:"groom_name" yaml:"groom_name"`
	WelcomeMessage string    `json:"welcome_message" yaml:"welcome_message"`
	IsGameActive   bool      `json:"is_game_active" yaml:"is_game_active"`
	RoastsRevealed bool      `json:"roasts_revealed" yaml:"roasts_revealed"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"-"`
}

// ConfigPatch holds the optional fields of a config update.
type ConfigPatch struct {
	Title          *string `json:"title,omitempty"`
	Subtitle       *string `json:"subtitle,omitempty"`
	Tagline        *string `json:"tagline,omitempty"`
	Date           *string `json:"date,omitempty"`
	GroomName      *string `json:"groom_name,omitempty"`
	WelcomeMessage *string `json:"welcome_message,omitempty"`
	IsGameActive   *bool   `json:"is_game_active,omitempty"`
	RoastsRevealed *bool   `json:"roasts_revealed,omitempty"`
}

// Apply copies the set fields of the patch onto c
func (patch ConfigPatch) Apply(c *GameConfig) {
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		c.Subtitle = *patch.Subtitle
	}
	if patch.Tagline != nil {
		c.Tagline = *patch.Tagline
	}
	if patch.Date != nil {
		c.Date = *patch.Date
	}
	if patch.GroomName != nil {
		c.GroomName = *patch.GroomName
	}
	if patch.WelcomeMessage != nil {
		c.WelcomeMessage = *patch.WelcomeMessage
	}
	if patch.IsGameActive != nil {
		c.IsGameActive = *patch.IsGameActive
	}
	if patch.RoastsRevealed != nil {
		c.RoastsRevealed = *patch.RoastsRevealed
	}
}

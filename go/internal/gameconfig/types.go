package gameconfig

import (
	"github.com/mcdev12/partyvote/go/internal/models"
)

// Roast is one player's roast card. The text fields are nil while hidden.
type Roast struct {
	PlayerID    int     `json:"player_id"`
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Roast       *string `json:"roast"`
	DirtySecret *string `json:"dirty_secret"`
	Prediction  *string `json:"prediction"`
	IsRevealed  bool    `json:"is_revealed"`
}

// RoastList is the roast board of every active player
type RoastList struct {
	Players      []Roast `json:"players"`
	GlobalReveal bool    `json:"global_reveal"`
}

// GetConfigRequest reads the config, creating it on first use
type GetConfigRequest struct{}

// UpdateConfigRequest is an admin patch of the config
type UpdateConfigRequest struct {
	models.ConfigPatch
}

// SetRoastsRevealedRequest reveals or hides every roast
type SetRoastsRevealedRequest struct {
	Revealed bool `json:"revealed"`
}

// ListRoastsRequest lists roast cards. RevealPlayerID shows that one
// player's card even while roasts are hidden.
type ListRoastsRequest struct {
	RevealPlayerID *int `json:"reveal_player_id,omitempty"`
}

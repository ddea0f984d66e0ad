package player

import (
	"github.com/mcdev12/partyvote/go/internal/models"
)

// CreatePlayerRequest represents a request to add a player
type CreatePlayerRequest struct {
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Roast       *string `json:"roast,omitempty"`
	DirtySecret *string `json:"dirty_secret,omitempty"`
	Prediction  *string `json:"prediction,omitempty"`
}

// ListPlayersRequest selects active players, or all of them
type ListPlayersRequest struct {
	IncludeInactive bool `json:"include_inactive"`
}

type ListPlayersResponse struct {
	Players []models.Player `json:"players"`
}

type GetPlayerRequest struct {
	ID int `json:"id"`
}

type PlayerResponse struct {
	Player *models.Player `json:"player"`
}

type UpdatePlayerRequest struct {
	ID    int                `json:"id"`
	Patch models.PlayerPatch `json:"patch"`
}

// DeletePlayerRequest deactivates a player, or removes it when Hard is set
type DeletePlayerRequest struct {
	ID   int  `json:"id"`
	Hard bool `json:"hard"`
}

type DeletePlayerResponse struct {
	Success bool           `json:"success"`
	Hard    bool           `json:"hard"`
	Player  *models.Player `json:"player,omitempty"`
}

package player

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/rpc"
)

// ServiceName is the fully-qualified name of the player service
const ServiceName = "partyvote.player.v1.PlayerService"

// PlayerApp defines what the service layer needs from the player application
type PlayerApp interface {
	CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context, includeInactive bool) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, id int, patch models.PlayerPatch) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int, hard bool) (*models.Player, error)
}

// Service exposes the player catalog over connect
type Service struct {
	app PlayerApp
}

// NewService creates a new player service
func NewService(app PlayerApp) *Service {
	return &Service{
		app: app,
	}
}

// Register mounts every player procedure on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(procedure("ListPlayers"), connect.NewUnaryHandler(procedure("ListPlayers"), s.ListPlayers, rpc.ReadOptions()...))
	mux.Handle(procedure("GetPlayer"), connect.NewUnaryHandler(procedure("GetPlayer"), s.GetPlayer, rpc.ReadOptions()...))
	mux.Handle(procedure("CreatePlayer"), connect.NewUnaryHandler(procedure("CreatePlayer"), s.CreatePlayer, rpc.HandlerOptions()...))
	mux.Handle(procedure("UpdatePlayer"), connect.NewUnaryHandler(procedure("UpdatePlayer"), s.UpdatePlayer, rpc.HandlerOptions()...))
	mux.Handle(procedure("DeletePlayer"), connect.NewUnaryHandler(procedure("DeletePlayer"), s.DeletePlayer, rpc.HandlerOptions()...))
}

func procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

// ListPlayers lists players ordered by id
func (s *Service) ListPlayers(ctx context.Context, req *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	players, err := s.app.ListPlayers(ctx, req.Msg.IncludeInactive)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&ListPlayersResponse{Players: players}), nil
}

// GetPlayer retrieves a player by id
func (s *Service) GetPlayer(ctx context.Context, req *connect.Request[GetPlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.app.GetPlayer(ctx, req.Msg.ID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&PlayerResponse{Player: player}), nil
}

// CreatePlayer adds a new player
func (s *Service) CreatePlayer(ctx context.Context, req *connect.Request[CreatePlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.app.CreatePlayer(ctx, *req.Msg)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&PlayerResponse{Player: player}), nil
}

// UpdatePlayer patches an existing player
func (s *Service) UpdatePlayer(ctx context.Context, req *connect.Request[UpdatePlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.app.UpdatePlayer(ctx, req.Msg.ID, req.Msg.Patch)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&PlayerResponse{Player: player}), nil
}

// DeletePlayer soft- or hard-deletes a player
func (s *Service) DeletePlayer(ctx context.Context, req *connect.Request[DeletePlayerRequest]) (*connect.Response[DeletePlayerResponse], error) {
	player, err := s.app.DeletePlayer(ctx, req.Msg.ID, req.Msg.Hard)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&DeletePlayerResponse{
		Success: true,
		Hard:    req.Msg.Hard,
		Player:  player,
	}), nil
}

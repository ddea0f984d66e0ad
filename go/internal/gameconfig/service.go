package gameconfig

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/rpc"
)

// ServiceName is the fully-qualified name of the config service
const ServiceName = "partyvote.config.v1.ConfigService"

// ConfigApp defines what the service layer needs from the config app
type ConfigApp interface {
	GetConfig(ctx context.Context) (*models.GameConfig, error)
	UpdateConfig(ctx context.Context, secret string, patch models.ConfigPatch) (*models.GameConfig, error)
	SetRoastsRevealed(ctx context.Context, secret string, revealed bool) (*models.GameConfig, error)
	ListRoasts(ctx context.Context, revealPlayerID *int) (*RoastList, error)
}

// Service exposes the game config and roasts over connect
type Service struct {
	app ConfigApp
}

// NewService creates a new config service
func NewService(app ConfigApp) *Service {
	return &Service{
		app: app,
	}
}

// Register mounts every config procedure on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(procedure("GetConfig"), connect.NewUnaryHandler(procedure("GetConfig"), s.GetConfig, rpc.ReadOptions()...))
	mux.Handle(procedure("UpdateConfig"), connect.NewUnaryHandler(procedure("UpdateConfig"), s.UpdateConfig, rpc.HandlerOptions()...))
	mux.Handle(procedure("SetRoastsRevealed"), connect.NewUnaryHandler(procedure("SetRoastsRevealed"), s.SetRoastsRevealed, rpc.HandlerOptions()...))
	mux.Handle(procedure("ListRoasts"), connect.NewUnaryHandler(procedure("ListRoasts"), s.ListRoasts, rpc.ReadOptions()...))
}

func procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

func (s *Service) GetConfig(ctx context.Context, _ *connect.Request[GetConfigRequest]) (*connect.Response[models.GameConfig], error) {
	cfg, err := s.app.GetConfig(ctx)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(cfg), nil
}

func (s *Service) UpdateConfig(ctx context.Context, req *connect.Request[UpdateConfigRequest]) (*connect.Response[models.GameConfig], error) {
	cfg, err := s.app.UpdateConfig(ctx, rpc.AdminSecret(req.Header()), req.Msg.ConfigPatch)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(cfg), nil
}

func (s *Service) SetRoastsRevealed(ctx context.Context, req *connect.Request[SetRoastsRevealedRequest]) (*connect.Response[models.GameConfig], error) {
	cfg, err := s.app.SetRoastsRevealed(ctx, rpc.AdminSecret(req.Header()), req.Msg.Revealed)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(cfg), nil
}

func (s *Service) ListRoasts(ctx context.Context, req *connect.Request[ListRoastsRequest]) (*connect.Response[RoastList], error) {
	roasts, err := s.app.ListRoasts(ctx, req.Msg.RevealPlayerID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(roasts), nil
}

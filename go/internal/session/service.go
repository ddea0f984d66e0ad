package session

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/rpc"
)

// ServiceName is the fully-qualified name of the session service
const ServiceName = "partyvote.session.v1.SessionService"

// SessionApp defines what the service layer needs from the state machine
type SessionApp interface {
	GetSession(ctx context.Context) (*View, error)
	Transition(ctx context.Context, cmd Command, expectedVersion int64) (*View, error)
	NewGame(ctx context.Context, votingDurationSeconds int) (*View, error)
}

// Service exposes the game session over connect
type Service struct {
	app SessionApp
}

// NewService creates a new session service
func NewService(app SessionApp) *Service {
	return &Service{
		app: app,
	}
}

// Register mounts every session procedure on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(procedure("GetSession"), connect.NewUnaryHandler(procedure("GetSession"), s.GetSession, rpc.ReadOptions()...))
	mux.Handle(procedure("Transition"), connect.NewUnaryHandler(procedure("Transition"), s.Transition, rpc.HandlerOptions()...))
	mux.Handle(procedure("NewGame"), connect.NewUnaryHandler(procedure("NewGame"), s.NewGame, rpc.HandlerOptions()...))
}

func procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

// GetSession returns the session with its timer projection
func (s *Service) GetSession(ctx context.Context, _ *connect.Request[GetSessionRequest]) (*connect.Response[View], error) {
	view, err := s.app.GetSession(ctx)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(view), nil
}

// Transition applies a host command
func (s *Service) Transition(ctx context.Context, req *connect.Request[TransitionRequest]) (*connect.Response[View], error) {
	cmd, err := ParseCommand(*req.Msg)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	view, err := s.app.Transition(ctx, cmd, req.Msg.ExpectedVersion)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(view), nil
}

// NewGame starts over at the first active question
func (s *Service) NewGame(ctx context.Context, req *connect.Request[NewGameRequest]) (*connect.Response[View], error) {
	duration := models.DefaultVotingDurationSeconds
	if req.Msg.VotingDurationSeconds != nil {
		duration = *req.Msg.VotingDurationSeconds
	}

	view, err := s.app.NewGame(ctx, duration)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(view), nil
}

package admin

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/rpc"
	"github.com/mcdev12/partyvote/go/internal/vote"
)

// ServiceName is the fully-qualified name of the admin service
const ServiceName = "partyvote.admin.v1.AdminService"

// AdminApp defines what the service layer needs from the admin app
type AdminApp interface {
	Wipe(ctx context.Context, secret string, collection Collection) (*WipeResult, error)
	Reseed(ctx context.Context, secret string, target SeedTarget) (*ReseedResult, error)
	ResetVotes(ctx context.Context, secret string, req vote.DeleteVotesRequest) (*ResetVotesResult, error)
	Reset(ctx context.Context, secret string, action ResetAction) (*ResetResult, error)
	CollectionCounts(ctx context.Context) (*CollectionCounts, error)
	GameStats(ctx context.Context) (*GameStats, error)
	VoteTracking(ctx context.Context, questionID *int) (*VoteTracking, error)
}

// Service exposes admin operations over connect. The admin secret travels
// in the X-Admin-Secret header.
type Service struct {
	app AdminApp
}

// NewService creates a new admin service
func NewService(app AdminApp) *Service {
	return &Service{
		app: app,
	}
}

// Register mounts every admin procedure on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(procedure("Wipe"), connect.NewUnaryHandler(procedure("Wipe"), s.Wipe, rpc.HandlerOptions()...))
	mux.Handle(procedure("Reseed"), connect.NewUnaryHandler(procedure("Reseed"), s.Reseed, rpc.HandlerOptions()...))
	mux.Handle(procedure("ResetVotes"), connect.NewUnaryHandler(procedure("ResetVotes"), s.ResetVotes, rpc.HandlerOptions()...))
	mux.Handle(procedure("Reset"), connect.NewUnaryHandler(procedure("Reset"), s.Reset, rpc.HandlerOptions()...))
	mux.Handle(procedure("GetCollectionCounts"), connect.NewUnaryHandler(procedure("GetCollectionCounts"), s.GetCollectionCounts, rpc.ReadOptions()...))
	mux.Handle(procedure("GetGameStats"), connect.NewUnaryHandler(procedure("GetGameStats"), s.GetGameStats, rpc.ReadOptions()...))
	mux.Handle(procedure("GetVoteTracking"), connect.NewUnaryHandler(procedure("GetVoteTracking"), s.GetVoteTracking, rpc.ReadOptions()...))
}

func procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

// Wipe deletes a collection
func (s *Service) Wipe(ctx context.Context, req *connect.Request[WipeRequest]) (*connect.Response[WipeResult], error) {
	res, err := s.app.Wipe(ctx, rpc.AdminSecret(req.Header()), req.Msg.Collection)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

// Reseed restores default data
func (s *Service) Reseed(ctx context.Context, req *connect.Request[ReseedRequest]) (*connect.Response[ReseedResult], error) {
	res, err := s.app.Reseed(ctx, rpc.AdminSecret(req.Header()), req.Msg.Target)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

// ResetVotes deletes votes by scope
func (s *Service) ResetVotes(ctx context.Context, req *connect.Request[ResetVotesRequest]) (*connect.Response[ResetVotesResult], error) {
	res, err := s.app.ResetVotes(ctx, rpc.AdminSecret(req.Header()), req.Msg.DeleteVotesRequest)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

// Reset runs a game reset action
func (s *Service) Reset(ctx context.Context, req *connect.Request[ResetRequest]) (*connect.Response[ResetResult], error) {
	res, err := s.app.Reset(ctx, rpc.AdminSecret(req.Header()), req.Msg.Action)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

func (s *Service) GetCollectionCounts(ctx context.Context, _ *connect.Request[CollectionCountsRequest]) (*connect.Response[CollectionCounts], error) {
	res, err := s.app.CollectionCounts(ctx)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

func (s *Service) GetGameStats(ctx context.Context, _ *connect.Request[GameStatsRequest]) (*connect.Response[GameStats], error) {
	res, err := s.app.GameStats(ctx)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

func (s *Service) GetVoteTracking(ctx context.Context, req *connect.Request[VoteTrackingRequest]) (*connect.Response[VoteTracking], error) {
	res, err := s.app.VoteTracking(ctx, req.Msg.QuestionID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

package vote

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/rpc"
)

// ServiceName is the fully-qualified name of the vote service
const ServiceName = "partyvote.vote.v1.VoteService"

// VoteApp defines what the service layer needs from the ledger
type VoteApp interface {
	SubmitVote(ctx context.Context, req SubmitVoteRequest) (*SubmitVoteResult, error)
	RetractVote(ctx context.Context, voterID, questionID int) (int64, error)
	Tally(ctx context.Context, questionID int) (*Tally, error)
	VoterHistory(ctx context.Context, voterID int) (*VoterHistory, error)
	Stats(ctx context.Context) (*Stats, error)
	ListVotes(ctx context.Context, filter models.VoteFilter) ([]models.Vote, error)
}

// Service exposes the vote ledger over connect
type Service struct {
	app VoteApp
}

// NewService creates a new vote service
func NewService(app VoteApp) *Service {
	return &Service{
		app: app,
	}
}

// Register mounts every vote procedure on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(procedure("SubmitVote"), connect.NewUnaryHandler(procedure("SubmitVote"), s.SubmitVote, rpc.HandlerOptions()...))
	mux.Handle(procedure("RetractVote"), connect.NewUnaryHandler(procedure("RetractVote"), s.RetractVote, rpc.HandlerOptions()...))
	mux.Handle(procedure("GetTally"), connect.NewUnaryHandler(procedure("GetTally"), s.GetTally, rpc.ReadOptions()...))
	mux.Handle(procedure("GetVoterHistory"), connect.NewUnaryHandler(procedure("GetVoterHistory"), s.GetVoterHistory, rpc.ReadOptions()...))
	mux.Handle(procedure("GetStats"), connect.NewUnaryHandler(procedure("GetStats"), s.GetStats, rpc.ReadOptions()...))
	mux.Handle(procedure("ListVotes"), connect.NewUnaryHandler(procedure("ListVotes"), s.ListVotes, rpc.ReadOptions()...))
}

func procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

// SubmitVote casts or changes a vote
func (s *Service) SubmitVote(ctx context.Context, req *connect.Request[SubmitVoteRequest]) (*connect.Response[SubmitVoteResult], error) {
	result, err := s.app.SubmitVote(ctx, *req.Msg)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(result), nil
}

// RetractVote deletes one voter's vote for one question
func (s *Service) RetractVote(ctx context.Context, req *connect.Request[RetractVoteRequest]) (*connect.Response[RetractVoteResponse], error) {
	n, err := s.app.RetractVote(ctx, req.Msg.VoterID, req.Msg.QuestionID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&RetractVoteResponse{Deleted: n}), nil
}

// GetTally counts the votes of a question per candidate
func (s *Service) GetTally(ctx context.Context, req *connect.Request[GetTallyRequest]) (*connect.Response[Tally], error) {
	tally, err := s.app.Tally(ctx, req.Msg.QuestionID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(tally), nil
}

// GetVoterHistory returns a voter's previous choices
func (s *Service) GetVoterHistory(ctx context.Context, req *connect.Request[GetVoterHistoryRequest]) (*connect.Response[VoterHistory], error) {
	history, err := s.app.VoterHistory(ctx, req.Msg.VoterID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(history), nil
}

// GetStats summarises the ledger
func (s *Service) GetStats(ctx context.Context, _ *connect.Request[GetStatsRequest]) (*connect.Response[Stats], error) {
	stats, err := s.app.Stats(ctx)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(stats), nil
}

// ListVotes lists votes, optionally narrowed to a question or voter
func (s *Service) ListVotes(ctx context.Context, req *connect.Request[ListVotesRequest]) (*connect.Response[ListVotesResponse], error) {
	votes, err := s.app.ListVotes(ctx, models.VoteFilter{QuestionID: req.Msg.QuestionID, VoterID: req.Msg.VoterID})
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&ListVotesResponse{Votes: votes}), nil
}

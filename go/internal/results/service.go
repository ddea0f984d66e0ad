package results

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/rpc"
)

// ServiceName is the fully-qualified name of the results service
const ServiceName = "partyvote.results.v1.ResultsService"

// ResultsApp defines what the service layer needs from the results app
type ResultsApp interface {
	QuestionResults(ctx context.Context, questionID int) (*QuestionResults, error)
	Scoreboard(ctx context.Context) (*Scoreboard, error)
}

// Service exposes results over connect
type Service struct {
	app ResultsApp
}

// NewService creates a new results service
func NewService(app ResultsApp) *Service {
	return &Service{
		app: app,
	}
}

// Register mounts every results procedure on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(procedure("GetQuestionResults"), connect.NewUnaryHandler(procedure("GetQuestionResults"), s.GetQuestionResults, rpc.ReadOptions()...))
	mux.Handle(procedure("GetScoreboard"), connect.NewUnaryHandler(procedure("GetScoreboard"), s.GetScoreboard, rpc.ReadOptions()...))
}

func procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

func (s *Service) GetQuestionResults(ctx context.Context, req *connect.Request[GetQuestionResultsRequest]) (*connect.Response[QuestionResults], error) {
	res, err := s.app.QuestionResults(ctx, req.Msg.QuestionID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(res), nil
}

func (s *Service) GetScoreboard(ctx context.Context, _ *connect.Request[GetScoreboardRequest]) (*connect.Response[Scoreboard], error) {
	board, err := s.app.Scoreboard(ctx)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(board), nil
}

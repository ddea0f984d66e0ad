package question

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mcdev12/partyvote/go/internal/models"
	"github.com/mcdev12/partyvote/go/internal/rpc"
)

// ServiceName is the fully-qualified name of the question service
const ServiceName = "partyvote.question.v1.QuestionService"

// QuestionApp defines what the service layer needs from the question application
type QuestionApp interface {
	CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error)
	GetQuestion(ctx context.Context, id int) (*models.Question, error)
	ListQuestions(ctx context.Context, includeInactive bool) ([]models.Question, error)
	UpdateQuestion(ctx context.Context, id int, patch models.QuestionPatch) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int, hard bool) (*models.Question, error)
}

// Service exposes the question catalog over connect
type Service struct {
	app QuestionApp
}

// NewService creates a new question service
func NewService(app QuestionApp) *Service {
	return &Service{
		app: app,
	}
}

// Register mounts every question procedure on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(procedure("ListQuestions"), connect.NewUnaryHandler(procedure("ListQuestions"), s.ListQuestions, rpc.ReadOptions()...))
	mux.Handle(procedure("GetQuestion"), connect.NewUnaryHandler(procedure("GetQuestion"), s.GetQuestion, rpc.ReadOptions()...))
	mux.Handle(procedure("CreateQuestion"), connect.NewUnaryHandler(procedure("CreateQuestion"), s.CreateQuestion, rpc.HandlerOptions()...))
	mux.Handle(procedure("UpdateQuestion"), connect.NewUnaryHandler(procedure("UpdateQuestion"), s.UpdateQuestion, rpc.HandlerOptions()...))
	mux.Handle(procedure("DeleteQuestion"), connect.NewUnaryHandler(procedure("DeleteQuestion"), s.DeleteQuestion, rpc.HandlerOptions()...))
}

func procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

// ListQuestions lists questions in progression order
func (s *Service) ListQuestions(ctx context.Context, req *connect.Request[ListQuestionsRequest]) (*connect.Response[ListQuestionsResponse], error) {
	questions, err := s.app.ListQuestions(ctx, req.Msg.IncludeInactive)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&ListQuestionsResponse{Questions: questions}), nil
}

// GetQuestion retrieves a question by id
func (s *Service) GetQuestion(ctx context.Context, req *connect.Request[GetQuestionRequest]) (*connect.Response[QuestionResponse], error) {
	q, err := s.app.GetQuestion(ctx, req.Msg.ID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&QuestionResponse{Question: q}), nil
}

// CreateQuestion adds a new question
func (s *Service) CreateQuestion(ctx context.Context, req *connect.Request[CreateQuestionRequest]) (*connect.Response[QuestionResponse], error) {
	q, err := s.app.CreateQuestion(ctx, *req.Msg)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&QuestionResponse{Question: q}), nil
}

// UpdateQuestion patches an existing question
func (s *Service) UpdateQuestion(ctx context.Context, req *connect.Request[UpdateQuestionRequest]) (*connect.Response[QuestionResponse], error) {
	q, err := s.app.UpdateQuestion(ctx, req.Msg.ID, req.Msg.Patch)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&QuestionResponse{Question: q}), nil
}

// DeleteQuestion soft- or hard-deletes a question
func (s *Service) DeleteQuestion(ctx context.Context, req *connect.Request[DeleteQuestionRequest]) (*connect.Response[DeleteQuestionResponse], error) {
	q, err := s.app.DeleteQuestion(ctx, req.Msg.ID, req.Msg.Hard)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&DeleteQuestionResponse{
		Success:  true,
		Hard:     req.Msg.Hard,
		Question: q,
	}), nil
}

package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/models"
)

// MockGateway is a mock implementation of client.GatewayClient.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) RoleFromToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateQuiz(ctx context.Context, creds client.Credentials, req models.QuizCreateRequest) (string, error) {
	args := m.Called(ctx, creds, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) GetQuizQuestions(ctx context.Context, creds client.Credentials, quizID int) ([]models.QuizQuestion, error) {
	args := m.Called(ctx, creds, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizQuestion), args.Error(1)
}

func (m *MockGateway) SubmitQuiz(ctx context.Context, creds client.Credentials, quizID int, answers []models.AnswerSubmit) (int, error) {
	args := m.Called(ctx, creds, quizID, answers)
	return args.Int(0), args.Error(1)
}

func (m *MockGateway) TeacherQuizzes(ctx context.Context, creds client.Credentials) ([]models.TeacherQuiz, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeacherQuiz), args.Error(1)
}

func (m *MockGateway) QuizAnalytics(ctx context.Context, creds client.Credentials, quizID int) ([]models.SubmissionResult, error) {
	args := m.Called(ctx, creds, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubmissionResult), args.Error(1)
}

func (m *MockGateway) StudentHistory(ctx context.Context, creds client.Credentials) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryEntry), args.Error(1)
}

func (m *MockGateway) SubmissionResult(ctx context.Context, creds client.Credentials, submissionID int) (*models.SubmissionResult, error) {
	args := m.Called(ctx, creds, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmissionResult), args.Error(1)
}

func (m *MockGateway) AllQuestions(ctx context.Context, creds client.Credentials) ([]models.Question, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockGateway) QuestionsByCategory(ctx context.Context, creds client.Credentials, category string) ([]models.Question, error) {
	args := m.Called(ctx, creds, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockGateway) AddQuestion(ctx context.Context, creds client.Credentials, question models.Question) (string, error) {
	args := m.Called(ctx, creds, question)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) AddQuestions(ctx context.Context, creds client.Credentials, questions []models.Question) (string, error) {
	args := m.Called(ctx, creds, questions)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) QuestionsByIDs(ctx context.Context, creds client.Credentials, ids []int) ([]models.QuizQuestion, error) {
	args := m.Called(ctx, creds, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizQuestion), args.Error(1)
}

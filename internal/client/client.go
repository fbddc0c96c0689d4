package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/utils"
)

// Credentials carries the session identity attached to outgoing requests.
// The zero value means anonymous: no auth headers are sent.
type Credentials struct {
	Token    string
	Username string
}

func (c Credentials) empty() bool {
	return c.Token == "" && c.Username == ""
}

// GatewayClient is the typed surface of the remote quiz gateway, one
// method per backend operation. Every call is fire-once: no retries, no
// caching, no deduplication.
type GatewayClient interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	RoleFromToken(ctx context.Context, token string) (string, error)

	CreateQuiz(ctx context.Context, creds Credentials, req models.QuizCreateRequest) (string, error)
	GetQuizQuestions(ctx context.Context, creds Credentials, quizID int) ([]models.QuizQuestion, error)
	SubmitQuiz(ctx context.Context, creds Credentials, quizID int, answers []models.AnswerSubmit) (int, error)
	TeacherQuizzes(ctx context.Context, creds Credentials) ([]models.TeacherQuiz, error)
	QuizAnalytics(ctx context.Context, creds Credentials, quizID int) ([]models.SubmissionResult, error)
	StudentHistory(ctx context.Context, creds Credentials) ([]models.HistoryEntry, error)
	SubmissionResult(ctx context.Context, creds Credentials, submissionID int) (*models.SubmissionResult, error)

	AllQuestions(ctx context.Context, creds Credentials) ([]models.Question, error)
	QuestionsByCategory(ctx context.Context, creds Credentials, category string) ([]models.Question, error)
	AddQuestion(ctx context.Context, creds Credentials, question models.Question) (string, error)
	AddQuestions(ctx context.Context, creds Credentials, questions []models.Question) (string, error)
	QuestionsByIDs(ctx context.Context, creds Credentials, ids []int) ([]models.QuizQuestion, error)
}

// HTTPClient implements GatewayClient over net/http.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     utils.Logger
}

// NewHTTPClient creates a gateway client for the given base URL.
func NewHTTPClient(baseURL string, logger utils.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ===== AUTH =====

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var token string
	if err := c.do(ctx, http.MethodPost, "/auth/login", Credentials{}, req, &token); err != nil {
		return "", err
	}
	return token, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var message string
	if err := c.do(ctx, http.MethodPost, "/auth/register", Credentials{}, req, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (c *HTTPClient) RoleFromToken(ctx context.Context, token string) (string, error) {
	path := "/auth/role?token=" + url.QueryEscape(token)
	var role string
	if err := c.do(ctx, http.MethodGet, path, Credentials{}, nil, &role); err != nil {
		return "", err
	}
	return role, nil
}

// ===== QUIZ =====

func (c *HTTPClient) CreateQuiz(ctx context.Context, creds Credentials, req models.QuizCreateRequest) (string, error) {
	var message string
	if err := c.do(ctx, http.MethodPost, "/quiz/create", creds, req, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (c *HTTPClient) GetQuizQuestions(ctx context.Context, creds Credentials, quizID int) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	path := fmt.Sprintf("/quiz/get/%d", quizID)
	if err := c.do(ctx, http.MethodGet, path, creds, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *HTTPClient) SubmitQuiz(ctx context.Context, creds Credentials, quizID int, answers []models.AnswerSubmit) (int, error) {
	var score int
	path := fmt.Sprintf("/quiz/submit/%d", quizID)
	if err := c.do(ctx, http.MethodPost, path, creds, answers, &score); err != nil {
		return 0, err
	}
	return score, nil
}

func (c *HTTPClient) TeacherQuizzes(ctx context.Context, creds Credentials) ([]models.TeacherQuiz, error) {
	var quizzes []models.TeacherQuiz
	if err := c.do(ctx, http.MethodGet, "/quiz/teacher/quizzes", creds, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *HTTPClient) QuizAnalytics(ctx context.Context, creds Credentials, quizID int) ([]models.SubmissionResult, error) {
	var results []models.SubmissionResult
	path := fmt.Sprintf("/quiz/analytics/%d", quizID)
	if err := c.do(ctx, http.MethodGet, path, creds, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *HTTPClient) StudentHistory(ctx context.Context, creds Credentials) ([]models.HistoryEntry, error) {
	var history []models.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/quiz/student/history", creds, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *HTTPClient) SubmissionResult(ctx context.Context, creds Credentials, submissionID int) (*models.SubmissionResult, error) {
	var result models.SubmissionResult
	path := fmt.Sprintf("/quiz/student/result/%d", submissionID)
	if err := c.do(ctx, http.MethodGet, path, creds, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ===== QUESTIONS =====

func (c *HTTPClient) AllQuestions(ctx context.Context, creds Credentials) ([]models.Question, error) {
	var questions []models.Question
	if err := c.do(ctx, http.MethodGet, "/question/allQuestions", creds, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *HTTPClient) QuestionsByCategory(ctx context.Context, creds Credentials, category string) ([]models.Question, error) {
	var questions []models.Question
	path := "/question/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, creds, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *HTTPClient) AddQuestion(ctx context.Context, creds Credentials, question models.Question) (string, error) {
	var message string
	if err := c.do(ctx, http.MethodPost, "/question/add", creds, question, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (c *HTTPClient) AddQuestions(ctx context.Context, creds Credentials, questions []models.Question) (string, error) {
	var message string
	if err := c.do(ctx, http.MethodPost, "/question/addMultiple", creds, questions, &message); err != nil {
		return "", err
	}
	return message, nil
}

func (c *HTTPClient) QuestionsByIDs(ctx context.Context, creds Credentials, ids []int) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := c.do(ctx, http.MethodPost, "/question/getQuestions", creds, ids, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// do performs one request against the gateway. body is JSON-encoded when
// non-nil. out is either *string, which receives the raw text body (the
// auth and message-style endpoints respond with plain text), or a JSON
// target. Non-2xx responses become *APIError, failures to reach the
// gateway become *TransportError.
func (c *HTTPClient) do(ctx context.Context, method, path string, creds Credentials, body, out interface{}) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request for %s: %w", op, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !creds.empty() {
		if creds.Token != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
		}
		if creds.Username != "" {
			req.Header.Set("username", creds.Username)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Gateway request failed", "op", op, "error", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody),
		}
		c.logger.Warn("Gateway request rejected", "op", op, "status_code", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}

	if text, ok := out.(*string); ok {
		*text = decodeText(respBody)
		return nil
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response for %s: %w", op, err)
	}
	return nil
}

// decodeText unwraps a plain-text response that may or may not be
// JSON-quoted, depending on which gateway revision is answering.
func decodeText(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	var quoted string
	if err := json.Unmarshal(body, &quoted); err == nil {
		return quoted
	}
	return trimmed
}

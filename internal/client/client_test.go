package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/utils"
)

func newTestClient(handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewHTTPClient(server.URL, utils.NewDevelopmentLogger()), server
}

func TestClientAuthHeaders(t *testing.T) {
	t.Run("attaches token and username when a session exists", func(t *testing.T) {
		var gotAuth, gotUsername string
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotUsername = r.Header.Get("username")
			w.Write([]byte("[]"))
		})
		defer server.Close()

		_, err := c.TeacherQuizzes(context.Background(), Credentials{Token: "tok-123", Username: "ada"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", gotAuth)
		assert.Equal(t, "ada", gotUsername)
	})

	t.Run("omits auth headers for anonymous calls", func(t *testing.T) {
		var gotAuth, gotUsername string
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotUsername = r.Header.Get("username")
			w.Write([]byte("sometoken"))
		})
		defer server.Close()

		_, err := c.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "pw"})
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
		assert.Empty(t, gotUsername)
	})
}

func TestClientTextResponses(t *testing.T) {
	t.Run("accepts raw text", func(t *testing.T) {
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("eyJhbGciOi.token.body"))
		})
		defer server.Close()

		token, err := c.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "eyJhbGciOi.token.body", token)
	})

	t.Run("accepts JSON-quoted text", func(t *testing.T) {
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"Quiz created with ID: 12"`))
		})
		defer server.Close()

		msg, err := c.CreateQuiz(context.Background(), Credentials{Username: "ada"}, models.QuizCreateRequest{
			CategoryName: "science", NumQuestions: 5, Title: "Midterm",
		})
		require.NoError(t, err)
		assert.Equal(t, "Quiz created with ID: 12", msg)
	})
}

func TestClientSubmitQuiz(t *testing.T) {
	var received []models.AnswerSubmit
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte("2"))
	})
	defer server.Close()

	answers := []models.AnswerSubmit{{ID: 1, Response: "a"}, {ID: 2, Response: ""}}
	score, err := c.SubmitQuiz(context.Background(), Credentials{Username: "bob"}, 7, answers)
	require.NoError(t, err)
	assert.Equal(t, 2, score)
	assert.Equal(t, answers, received, "unanswered entries must survive the wire")
}

func TestClientErrorShapes(t *testing.T) {
	t.Run("non-2xx with structured body", func(t *testing.T) {
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"Username already exists"}`))
		})
		defer server.Close()

		_, err := c.Register(context.Background(), models.RegisterRequest{Username: "ada", Password: "pw", Role: "STUDENT"})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, "Username already exists", apiErr.Message)
		assert.Equal(t, http.StatusConflict, StatusCode(err))
		assert.False(t, IsTransport(err))
	})

	t.Run("non-2xx with plain string body", func(t *testing.T) {
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Bad credentials"))
		})
		defer server.Close()

		_, err := c.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "pw"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Bad credentials", apiErr.Message)
	})

	t.Run("unreachable gateway is a transport error", func(t *testing.T) {
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := c.StudentHistory(context.Background(), Credentials{Username: "bob"})
		require.Error(t, err)
		assert.True(t, IsTransport(err))
		assert.Zero(t, StatusCode(err))
	})
}

func TestClientJSONDecoding(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quiz/get/7", r.URL.Path)
		w.Write([]byte(`[{"id":1,"questionTitle":"q1","option1":"a","option2":"b","option3":"c","option4":"d"}]`))
	})
	defer server.Close()

	questions, err := c.GetQuizQuestions(context.Background(), Credentials{Username: "bob"}, 7)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q1", questions[0].QuestionTitle)
	assert.Equal(t, []string{"a", "b", "c", "d"}, questions[0].Options())
}

func TestClientQuestionsByIDs(t *testing.T) {
	var received []int
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/question/getQuestions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`[{"id":3,"questionTitle":"three"}]`))
	})
	defer server.Close()

	questions, err := c.QuestionsByIDs(context.Background(), Credentials{Username: "ada"}, []int{3, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, received)
	require.Len(t, questions, 1)
	assert.Equal(t, 3, questions[0].ID)
}

func TestClientRoleFromToken(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/role", r.URL.Path)
		assert.Equal(t, "tok+1", r.URL.Query().Get("token"))
		w.Write([]byte("ROLE_TEACHER"))
	})
	defer server.Close()

	role, err := c.RoleFromToken(context.Background(), "tok+1")
	require.NoError(t, err)
	assert.Equal(t, "ROLE_TEACHER", role)
}

package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quiz-web/internal/models"
)

func threeQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{ID: 10, QuestionTitle: "first"},
		{ID: 20, QuestionTitle: "second"},
		{ID: 30, QuestionTitle: "third"},
	}
}

func TestAttemptLifecycle(t *testing.T) {
	t.Run("starts idle", func(t *testing.T) {
		a := NewAttempt()
		assert.Equal(t, AttemptIdle, a.State)
		_, err := a.Submission()
		assert.ErrorIs(t, err, ErrAttemptNotLoaded)
	})

	t.Run("load installs questions and clears error", func(t *testing.T) {
		a := NewAttempt()
		a.Fail("gateway down")
		assert.Equal(t, AttemptError, a.State)

		a.Load(7, threeQuestions())
		assert.Equal(t, AttemptLoaded, a.State)
		assert.Equal(t, 7, a.QuizID)
		assert.Equal(t, 3, a.Total())
		assert.Empty(t, a.LastError)
	})

	t.Run("complete records the score", func(t *testing.T) {
		a := NewAttempt()
		a.Load(7, threeQuestions())
		require.NoError(t, a.Complete(2))
		assert.Equal(t, AttemptSubmitted, a.State)
		assert.Equal(t, 2, a.Score)
		assert.Equal(t, 67, a.Percentage())
	})

	t.Run("complete requires a loaded attempt", func(t *testing.T) {
		a := NewAttempt()
		assert.ErrorIs(t, a.Complete(1), ErrAttemptNotLoaded)
	})
}

func TestAttemptAnswer(t *testing.T) {
	t.Run("overwrites prior choice", func(t *testing.T) {
		a := NewAttempt()
		a.Load(1, threeQuestions())

		require.NoError(t, a.Answer(10, "alpha"))
		require.NoError(t, a.Answer(10, "beta"))
		assert.Equal(t, "beta", a.AnswerFor(10))
		assert.Equal(t, 1, a.Answered())
	})

	t.Run("rejects questions outside the quiz", func(t *testing.T) {
		a := NewAttempt()
		a.Load(1, threeQuestions())
		assert.ErrorIs(t, a.Answer(99, "alpha"), ErrUnknownQuestion)
	})

	t.Run("rejects answers before load and after submit", func(t *testing.T) {
		a := NewAttempt()
		assert.ErrorIs(t, a.Answer(10, "alpha"), ErrAttemptNotLoaded)

		a.Load(1, threeQuestions())
		require.NoError(t, a.Complete(0))
		assert.ErrorIs(t, a.Answer(10, "alpha"), ErrAttemptSubmitted)
	})
}

func TestAttemptSubmission(t *testing.T) {
	t.Run("one entry per question in fetch order", func(t *testing.T) {
		a := NewAttempt()
		a.Load(1, threeQuestions())
		require.NoError(t, a.Answer(30, "gamma"))
		require.NoError(t, a.Answer(10, "alpha"))

		payload, err := a.Submission()
		require.NoError(t, err)
		require.Len(t, payload, 3)
		assert.Equal(t, models.AnswerSubmit{ID: 10, Response: "alpha"}, payload[0])
		assert.Equal(t, models.AnswerSubmit{ID: 20, Response: ""}, payload[1])
		assert.Equal(t, models.AnswerSubmit{ID: 30, Response: "gamma"}, payload[2])
	})

	t.Run("empty quiz has nothing to submit", func(t *testing.T) {
		a := NewAttempt()
		a.Load(1, nil)
		_, err := a.Submission()
		assert.ErrorIs(t, err, ErrNothingToSubmit)
	})

	t.Run("submitting twice is rejected", func(t *testing.T) {
		a := NewAttempt()
		a.Load(1, threeQuestions())
		require.NoError(t, a.Complete(1))
		_, err := a.Submission()
		assert.ErrorIs(t, err, ErrAttemptSubmitted)
	})
}

func TestAttemptSurvivesSerialization(t *testing.T) {
	a := NewAttempt()
	a.Load(5, threeQuestions())
	require.NoError(t, a.Answer(20, "beta"))

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	restored := NewAttempt()
	require.NoError(t, json.Unmarshal(raw, restored))

	assert.Equal(t, AttemptLoaded, restored.State)
	assert.Equal(t, "beta", restored.AnswerFor(20))

	payload, err := restored.Submission()
	require.NoError(t, err)
	assert.Len(t, payload, 3)
}

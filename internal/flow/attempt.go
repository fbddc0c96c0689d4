package flow

import (
	"errors"
	"time"

	"github.com/quizhub/quiz-web/internal/models"
)

// AttemptState is the quiz-taking lifecycle.
type AttemptState string

const (
	// AttemptIdle means no quiz is loaded yet.
	AttemptIdle AttemptState = "IDLE"
	// AttemptLoaded means questions are fetched and answers are collecting.
	AttemptLoaded AttemptState = "LOADED"
	// AttemptSubmitted means the gateway accepted the submission and
	// returned a score.
	AttemptSubmitted AttemptState = "SUBMITTED"
	// AttemptError is terminal until a fresh load.
	AttemptError AttemptState = "ERROR"
)

var (
	ErrAttemptNotLoaded = errors.New("no quiz loaded for this attempt")
	ErrAttemptSubmitted = errors.New("attempt already submitted")
	ErrUnknownQuestion  = errors.New("question is not part of the loaded quiz")
	ErrNothingToSubmit  = errors.New("attempt has no questions to submit")
)

// Attempt is one student's run through a quiz. It is JSON-serializable so
// it can ride in the session store between requests.
type Attempt struct {
	State     AttemptState          `json:"state"`
	QuizID    int                   `json:"quizId"`
	Questions []models.QuizQuestion `json:"questions"`
	Answers   map[int]string        `json:"answers"`
	Score     int                   `json:"score"`
	StartedAt time.Time             `json:"startedAt"`
	LastError string                `json:"lastError,omitempty"`
}

// NewAttempt returns an idle attempt.
func NewAttempt() *Attempt {
	return &Attempt{State: AttemptIdle}
}

// Load installs freshly fetched questions. A fresh load is the only way
// out of the error state, and it discards any previous answers or score.
func (a *Attempt) Load(quizID int, questions []models.QuizQuestion) {
	a.State = AttemptLoaded
	a.QuizID = quizID
	a.Questions = questions
	a.Answers = make(map[int]string)
	a.Score = 0
	a.StartedAt = time.Now()
	a.LastError = ""
}

// Fail moves the attempt to the error state with a display message.
func (a *Attempt) Fail(message string) {
	a.State = AttemptError
	a.LastError = message
}

// Answer records the choice for a question, overwriting any prior choice.
// Questions may be left unanswered; Submission fills those with empty
// strings.
func (a *Attempt) Answer(questionID int, choice string) error {
	switch a.State {
	case AttemptLoaded:
	case AttemptSubmitted:
		return ErrAttemptSubmitted
	default:
		return ErrAttemptNotLoaded
	}

	if !a.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	a.Answers[questionID] = choice
	return nil
}

// AnswerFor returns the recorded choice for a question, empty when
// unanswered.
func (a *Attempt) AnswerFor(questionID int) string {
	return a.Answers[questionID]
}

// Submission builds the payload for /quiz/submit: exactly one entry per
// fetched question, in fetch order, with unanswered questions sent as
// empty strings rather than omitted. The gateway counts payload length as
// totalQuestions, so dropping entries would corrupt the recorded total.
func (a *Attempt) Submission() ([]models.AnswerSubmit, error) {
	if a.State != AttemptLoaded {
		if a.State == AttemptSubmitted {
			return nil, ErrAttemptSubmitted
		}
		return nil, ErrAttemptNotLoaded
	}
	if len(a.Questions) == 0 {
		return nil, ErrNothingToSubmit
	}

	payload := make([]models.AnswerSubmit, 0, len(a.Questions))
	for _, q := range a.Questions {
		payload = append(payload, models.AnswerSubmit{
			ID:       q.ID,
			Response: a.Answers[q.ID],
		})
	}
	return payload, nil
}

// Complete records the score returned by the gateway.
func (a *Attempt) Complete(score int) error {
	if a.State != AttemptLoaded {
		return ErrAttemptNotLoaded
	}
	a.State = AttemptSubmitted
	a.Score = score
	return nil
}

// Total returns the number of fetched questions.
func (a *Attempt) Total() int {
	return len(a.Questions)
}

// Answered returns how many questions have a recorded choice.
func (a *Attempt) Answered() int {
	count := 0
	for _, q := range a.Questions {
		if a.Answers[q.ID] != "" {
			count++
		}
	}
	return count
}

// Percentage returns the attempt score as a rounded percentage.
func (a *Attempt) Percentage() int {
	return models.Percentage(a.Score, len(a.Questions))
}

func (a *Attempt) hasQuestion(id int) bool {
	for _, q := range a.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

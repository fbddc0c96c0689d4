package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of activity events
type EventType string

const (
	EventUserRegistered   EventType = "user.registered"
	EventUserLoggedIn     EventType = "user.logged_in"
	EventQuizCreated      EventType = "quiz.created"
	EventQuestionsAdded   EventType = "question.added"
	EventAttemptSubmitted EventType = "attempt.submitted"
)

// ActivityEvent is the base event structure for all activity events
type ActivityEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type UserRegisteredEvent struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type UserLoggedInEvent struct {
	Username string    `json:"username"`
	Role     string    `json:"role"`
	LoginAt  time.Time `json:"login_at"`
}

type QuizCreatedEvent struct {
	CreatedBy    string `json:"created_by"`
	Title        string `json:"title"`
	CategoryName string `json:"category_name"`
	NumQuestions int    `json:"num_questions"`
	Custom       bool   `json:"custom"` // true when built from hand-picked question IDs
}

type QuestionsAddedEvent struct {
	AddedBy  string `json:"added_by"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type AttemptSubmittedEvent struct {
	QuizID         int       `json:"quiz_id"`
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Event factory functions

func NewUserRegisteredEvent(username, role string) *ActivityEvent {
	return newEvent(EventUserRegistered, UserRegisteredEvent{
		Username: username,
		Role:     role,
	})
}

func NewUserLoggedInEvent(username, role string) *ActivityEvent {
	return newEvent(EventUserLoggedIn, UserLoggedInEvent{
		Username: username,
		Role:     role,
		LoginAt:  time.Now(),
	})
}

func NewQuizCreatedEvent(createdBy, title, category string, numQuestions int, custom bool) *ActivityEvent {
	return newEvent(EventQuizCreated, QuizCreatedEvent{
		CreatedBy:    createdBy,
		Title:        title,
		CategoryName: category,
		NumQuestions: numQuestions,
		Custom:       custom,
	})
}

func NewQuestionsAddedEvent(addedBy, category string, count int) *ActivityEvent {
	return newEvent(EventQuestionsAdded, QuestionsAddedEvent{
		AddedBy:  addedBy,
		Category: category,
		Count:    count,
	})
}

func NewAttemptSubmittedEvent(quizID int, username string, score, totalQuestions int) *ActivityEvent {
	return newEvent(EventAttemptSubmitted, AttemptSubmittedEvent{
		QuizID:         quizID,
		Username:       username,
		Score:          score,
		TotalQuestions: totalQuestions,
		SubmittedAt:    time.Now(),
	})
}

func newEvent(eventType EventType, data interface{}) *ActivityEvent {
	return &ActivityEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "quiz-web",
		Version:   "1.0",
		Data:      data,
	}
}

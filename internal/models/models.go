package models

import "time"

type UserRole string

const (
	RoleStudent UserRole = "ROLE_STUDENT"
	RoleTeacher UserRole = "ROLE_TEACHER"
)

// ParseRole normalizes the bare role names used by the register form
// ("STUDENT", "TEACHER") and the prefixed names carried in JWT claims
// ("ROLE_STUDENT", "ROLE_TEACHER") to a single representation.
func ParseRole(s string) UserRole {
	switch s {
	case "STUDENT", "ROLE_STUDENT":
		return RoleStudent
	case "TEACHER", "ROLE_TEACHER":
		return RoleTeacher
	}
	return UserRole(s)
}

// Profile is the cached identity attached to a session. The gateway is the
// source of truth; this is only what the UI needs between requests.
type Profile struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// Question is the full authoring shape, including the right answer.
// Field names follow the gateway's JSON contract.
type Question struct {
	ID            int    `json:"id"`
	QuestionTitle string `json:"questionTitle" validate:"required"`
	Option1       string `json:"option1" validate:"required"`
	Option2       string `json:"option2" validate:"required"`
	Option3       string `json:"option3" validate:"required"`
	Option4       string `json:"option4" validate:"required"`
	RightAnswer   string `json:"rightAnswer" validate:"required"`
	Difficulty    string `json:"difficultylevel" validate:"omitempty,difficulty_level"`
	Category      string `json:"category" validate:"required"`
}

// Options returns the four answer options in display order.
func (q Question) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// QuizQuestion is the student-facing shape served by /quiz/get/{id}.
// It deliberately omits the right answer.
type QuizQuestion struct {
	ID            int    `json:"id"`
	QuestionTitle string `json:"questionTitle"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
}

func (q QuizQuestion) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// AnswerSubmit is one entry of the submission payload for /quiz/submit/{id}.
// The gateway expects an entry per served question, response may be empty.
type AnswerSubmit struct {
	ID       int    `json:"id"`
	Response string `json:"response"`
}

// QuizCreateRequest is the JSON body for /quiz/create. QuestionIDs is set
// by the advanced creator; when empty the gateway picks random questions
// from the category.
type QuizCreateRequest struct {
	CategoryName string `json:"categoryName" validate:"required"`
	NumQuestions int    `json:"numQuestions" validate:"required,min=1,max=20"`
	Title        string `json:"title" validate:"required,min=1,max=200"`
	QuestionIDs  []int  `json:"questionIds,omitempty"`
}

// TeacherQuiz is one row of the teacher dashboard.
type TeacherQuiz struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CategoryName string    `json:"categoryName"`
	NumQuestions int       `json:"numQuestions"`
	CreatedDate  time.Time `json:"createdDate"`
	AttemptCount int64     `json:"attemptCount"`
}

// HistoryEntry is one row of the student quiz history.
type HistoryEntry struct {
	ID             int       `json:"id"`
	QuizID         int       `json:"quizId"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	DateTaken      time.Time `json:"dateTaken"`
	TimeSpent      string    `json:"timeSpent"`
	Status         string    `json:"status"`
}

// ResponseAnswer is one graded question inside a submission result.
type ResponseAnswer struct {
	QuestionID      int    `json:"questionId"`
	QuestionTitle   string `json:"questionTitle"`
	Option1         string `json:"option1"`
	Option2         string `json:"option2"`
	Option3         string `json:"option3"`
	Option4         string `json:"option4"`
	RightAnswer     string `json:"rightAnswer"`
	StudentResponse string `json:"studentResponse"`
	IsCorrect       bool   `json:"isCorrect"`
}

// SubmissionResult is the full record of one student attempt, as returned
// by /quiz/student/result/{id} and listed by /quiz/analytics/{quizId}.
type SubmissionResult struct {
	SubmissionID   int              `json:"submissionId"`
	QuizID         int              `json:"quizId"`
	Username       string           `json:"username"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	DateTaken      time.Time        `json:"dateTaken"`
	TimeSpent      string           `json:"timeSpent"`
	Responses      []ResponseAnswer `json:"responses"`
}

// Percentage returns round(100*score/total), with an empty quiz scoring 0
// rather than dividing by zero.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(score)/float64(total)*100 + 0.5)
}

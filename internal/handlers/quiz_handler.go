package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/events"
	"github.com/quizhub/quiz-web/internal/export"
	"github.com/quizhub/quiz-web/internal/flow"
	"github.com/quizhub/quiz-web/internal/guard"
	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/session"
	"github.com/quizhub/quiz-web/internal/utils"
	"github.com/quizhub/quiz-web/internal/validator"
)

// attemptSlot is the session state slot holding the in-progress attempt.
const attemptSlot = "attempt"

type QuizHandler struct {
	BaseHandler
	gateway   client.GatewayClient
	store     *session.Store
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewQuizHandler(
	gateway client.GatewayClient,
	store *session.Store,
	validator *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		gateway:     gateway,
		store:       store,
		validator:   validator,
		publisher:   publisher,
	}
}

// TakeQuiz fetches the quiz questions and starts a fresh attempt. A fresh
// fetch is also the only way out of a failed attempt, so this handler
// always reloads rather than resuming error state.
func (h *QuizHandler) TakeQuiz(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	h.LogRequest(c, "Starting quiz attempt", "quiz_id", quizID)

	ctx := c.Request.Context()
	sess := guard.Current(c)

	attempt := flow.NewAttempt()
	questions, err := h.gateway.GetQuizQuestions(ctx, credentials(sess), quizID)
	if err != nil {
		h.LogError(c, err, "Quiz fetch failed", "quiz_id", quizID)
		attempt.Fail(userMessage(err))
		h.saveAttempt(c, sess, attempt)
		h.Render(c, http.StatusBadGateway, "take_quiz.html", gin.H{
			"Attempt": attempt,
			"Error":   attempt.LastError,
		})
		return
	}

	attempt.Load(quizID, questions)
	h.saveAttempt(c, sess, attempt)
	h.Render(c, http.StatusOK, "take_quiz.html", gin.H{
		"Attempt": attempt,
	})
}

// Answer records one choice on the running attempt and re-renders the
// quiz. Choosing again for the same question overwrites the earlier
// choice.
func (h *QuizHandler) Answer(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	sess := guard.Current(c)
	attempt, ok := h.loadAttempt(c, sess, quizID)
	if !ok {
		return
	}

	questionID, err := strconv.Atoi(c.PostForm("question_id"))
	if err != nil {
		h.Render(c, http.StatusBadRequest, "take_quiz.html", gin.H{
			"Attempt": attempt,
			"Error":   "Unknown question",
		})
		return
	}

	if err := attempt.Answer(questionID, c.PostForm("choice")); err != nil {
		h.Render(c, http.StatusBadRequest, "take_quiz.html", gin.H{
			"Attempt": attempt,
			"Error":   err.Error(),
		})
		return
	}

	h.saveAttempt(c, sess, attempt)
	h.Render(c, http.StatusOK, "take_quiz.html", gin.H{
		"Attempt": attempt,
	})
}

// Submit sends the attempt to the gateway for grading. The payload
// always carries one entry per fetched question, so unanswered questions
// go over the wire as empty responses instead of being dropped.
func (h *QuizHandler) Submit(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	h.LogRequest(c, "Submitting quiz attempt", "quiz_id", quizID)

	ctx := c.Request.Context()
	sess := guard.Current(c)
	attempt, ok := h.loadAttempt(c, sess, quizID)
	if !ok {
		return
	}

	payload, err := attempt.Submission()
	if err != nil {
		if errors.Is(err, flow.ErrAttemptSubmitted) {
			h.Render(c, http.StatusOK, "quiz_result.html", gin.H{
				"Attempt":    attempt,
				"Percentage": attempt.Percentage(),
			})
			return
		}
		h.Render(c, http.StatusConflict, "error.html", gin.H{
			"Message": err.Error(),
		})
		return
	}

	score, err := h.gateway.SubmitQuiz(ctx, credentials(sess), quizID, payload)
	if err != nil {
		h.LogError(c, err, "Quiz submission failed", "quiz_id", quizID)
		attempt.Fail(userMessage(err))
		h.saveAttempt(c, sess, attempt)
		h.Render(c, http.StatusBadGateway, "take_quiz.html", gin.H{
			"Attempt": attempt,
			"Error":   attempt.LastError,
		})
		return
	}

	if err := attempt.Complete(score); err != nil {
		h.LogError(c, err, "Attempt completion failed", "quiz_id", quizID)
	}
	h.saveAttempt(c, sess, attempt)

	username := sess.User().Username
	if err := h.publisher.PublishActivityEvent(ctx, events.NewAttemptSubmittedEvent(quizID, username, score, attempt.Total())); err != nil {
		h.LogError(c, err, "Attempt event publish failed")
	}

	h.Render(c, http.StatusOK, "quiz_result.html", gin.H{
		"Attempt":    attempt,
		"Percentage": attempt.Percentage(),
	})
}

// CreateForm renders the quick quiz creation form, where the gateway
// picks random questions from a category.
func (h *QuizHandler) CreateForm(c *gin.Context) {
	h.Render(c, http.StatusOK, "create_quiz.html", gin.H{
		"Form": models.QuizCreateRequest{},
	})
}

// Create submits the quick creation form. Validation runs before any
// network call.
func (h *QuizHandler) Create(c *gin.Context) {
	h.LogRequest(c, "Creating quiz")

	numQuestions, _ := strconv.Atoi(c.PostForm("numQuestions"))
	req := models.QuizCreateRequest{
		CategoryName: c.PostForm("categoryName"),
		NumQuestions: numQuestions,
		Title:        c.PostForm("title"),
	}
	if err := h.validator.Validate(req); err != nil {
		h.Render(c, http.StatusBadRequest, "create_quiz.html", gin.H{
			"Error": userMessage(err),
			"Form":  req,
		})
		return
	}

	ctx := c.Request.Context()
	sess := guard.Current(c)
	message, err := h.gateway.CreateQuiz(ctx, credentials(sess), req)
	if err != nil {
		h.LogError(c, err, "Quiz creation failed")
		h.Render(c, http.StatusBadGateway, "create_quiz.html", gin.H{
			"Error": userMessage(err),
			"Form":  req,
		})
		return
	}

	if err := h.publisher.PublishActivityEvent(ctx, events.NewQuizCreatedEvent(sess.User().Username, req.Title, req.CategoryName, req.NumQuestions, false)); err != nil {
		h.LogError(c, err, "Quiz created event publish failed")
	}

	h.Render(c, http.StatusOK, "create_quiz.html", gin.H{
		"Notice": message,
		"Form":   models.QuizCreateRequest{},
	})
}

// analyticsView is the aggregate block rendered above the attempt rows.
type analyticsView struct {
	Attempts          []analyticsRow
	AttemptCount      int
	AveragePercentage int
}

type analyticsRow struct {
	models.SubmissionResult
	Percentage int
}

// Analytics shows every graded attempt for one of the teacher's quizzes.
func (h *QuizHandler) Analytics(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	h.LogRequest(c, "Loading quiz analytics", "quiz_id", quizID)

	sess := guard.Current(c)
	results, err := h.gateway.QuizAnalytics(c.Request.Context(), credentials(sess), quizID)
	if err != nil {
		h.LogError(c, err, "Analytics fetch failed", "quiz_id", quizID)
		h.Render(c, http.StatusBadGateway, "analytics.html", gin.H{
			"Error":  userMessage(err),
			"QuizID": quizID,
		})
		return
	}

	h.Render(c, http.StatusOK, "analytics.html", gin.H{
		"QuizID":    quizID,
		"Analytics": buildAnalytics(results),
	})
}

// AnalyticsExport streams the same analytics as an Excel workbook.
func (h *QuizHandler) AnalyticsExport(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	h.LogRequest(c, "Exporting quiz analytics", "quiz_id", quizID)

	sess := guard.Current(c)
	results, err := h.gateway.QuizAnalytics(c.Request.Context(), credentials(sess), quizID)
	if err != nil {
		h.LogError(c, err, "Analytics fetch failed", "quiz_id", quizID)
		h.Render(c, http.StatusBadGateway, "error.html", gin.H{
			"Message": userMessage(err),
		})
		return
	}

	workbook, err := export.AnalyticsWorkbook(quizID, results)
	if err != nil {
		h.LogError(c, err, "Workbook build failed", "quiz_id", quizID)
		h.Render(c, http.StatusInternalServerError, "error.html", gin.H{
			"Message": "Could not build the export file.",
		})
		return
	}

	filename := fmt.Sprintf("quiz-%d-analytics.xlsx", quizID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

func buildAnalytics(results []models.SubmissionResult) analyticsView {
	view := analyticsView{
		Attempts:     make([]analyticsRow, 0, len(results)),
		AttemptCount: len(results),
	}
	sum := 0
	for _, r := range results {
		pct := models.Percentage(r.Score, r.TotalQuestions)
		sum += pct
		view.Attempts = append(view.Attempts, analyticsRow{SubmissionResult: r, Percentage: pct})
	}
	if len(results) > 0 {
		// Rounded like the per-attempt percentages.
		view.AveragePercentage = int(float64(sum)/float64(len(results)) + 0.5)
	}
	return view
}

// loadAttempt restores the running attempt from the session, rejecting
// requests whose quiz ID does not match the attempt being worked on.
func (h *QuizHandler) loadAttempt(c *gin.Context, sess session.Session, quizID int) (*flow.Attempt, bool) {
	attempt := flow.NewAttempt()
	if !h.store.LoadState(c.Request.Context(), sess.ID, attemptSlot, attempt) || attempt.QuizID != quizID {
		h.Render(c, http.StatusConflict, "error.html", gin.H{
			"Message": "No quiz in progress. Start the quiz again.",
		})
		return nil, false
	}
	return attempt, true
}

func (h *QuizHandler) saveAttempt(c *gin.Context, sess session.Session, attempt *flow.Attempt) {
	if err := h.store.SaveState(c.Request.Context(), sess.ID, attemptSlot, attempt); err != nil {
		h.LogError(c, err, "Attempt state persistence failed")
	}
}

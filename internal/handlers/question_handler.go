package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/events"
	"github.com/quizhub/quiz-web/internal/guard"
	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/utils"
	"github.com/quizhub/quiz-web/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	gateway   client.GatewayClient
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewQuestionHandler(
	gateway client.GatewayClient,
	validator *validator.Validator,
	publisher events.EventPublisher,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: NewBaseHandler(logger),
		gateway:     gateway,
		validator:   validator,
		publisher:   publisher,
	}
}

// List shows the question bank, optionally filtered to one category via
// the category query parameter.
func (h *QuestionHandler) List(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	h.LogRequest(c, "Listing questions", "category", category)

	ctx := c.Request.Context()
	sess := guard.Current(c)

	var (
		questions []models.Question
		err       error
	)
	if category == "" {
		questions, err = h.gateway.AllQuestions(ctx, credentials(sess))
	} else {
		questions, err = h.gateway.QuestionsByCategory(ctx, credentials(sess), category)
	}
	if err != nil {
		h.LogError(c, err, "Question list fetch failed", "category", category)
		h.Render(c, http.StatusBadGateway, "questions.html", gin.H{
			"Error":    userMessage(err),
			"Category": category,
		})
		return
	}

	h.Render(c, http.StatusOK, "questions.html", gin.H{
		"Questions": questions,
		"Category":  category,
	})
}

// NewForm renders the single question authoring form.
func (h *QuestionHandler) NewForm(c *gin.Context) {
	h.Render(c, http.StatusOK, "add_question.html", gin.H{
		"Form": models.Question{},
	})
}

// Add submits a single authored question. Validation runs before any
// network call so a half-filled form never reaches the gateway.
func (h *QuestionHandler) Add(c *gin.Context) {
	h.LogRequest(c, "Adding question")

	question := questionFromForm(c, "")
	if err := h.validator.Validate(question); err != nil {
		h.Render(c, http.StatusBadRequest, "add_question.html", gin.H{
			"Error": userMessage(err),
			"Form":  question,
		})
		return
	}

	ctx := c.Request.Context()
	sess := guard.Current(c)
	message, err := h.gateway.AddQuestion(ctx, credentials(sess), question)
	if err != nil {
		h.LogError(c, err, "Question add failed")
		h.Render(c, http.StatusBadGateway, "add_question.html", gin.H{
			"Error": userMessage(err),
			"Form":  question,
		})
		return
	}

	if err := h.publisher.PublishActivityEvent(ctx, events.NewQuestionsAddedEvent(sess.User().Username, question.Category, 1)); err != nil {
		h.LogError(c, err, "Question event publish failed")
	}

	h.Render(c, http.StatusOK, "add_question.html", gin.H{
		"Notice": message,
		"Form":   models.Question{},
	})
}

// BulkForm renders the batch authoring form with a fixed number of rows.
func (h *QuestionHandler) BulkForm(c *gin.Context) {
	h.Render(c, http.StatusOK, "add_questions.html", gin.H{
		"Rows": make([]int, 5),
	})
}

// BulkAdd submits the batch form. Rows left entirely blank are skipped;
// partially filled rows fail validation with the row number in the
// message.
func (h *QuestionHandler) BulkAdd(c *gin.Context) {
	h.LogRequest(c, "Adding question batch")

	questions, err := h.questionsFromBulkForm(c)
	if err != nil {
		h.Render(c, http.StatusBadRequest, "add_questions.html", gin.H{
			"Error": userMessage(err),
			"Rows":  make([]int, 5),
		})
		return
	}
	if len(questions) == 0 {
		h.Render(c, http.StatusBadRequest, "add_questions.html", gin.H{
			"Error": "Fill in at least one question",
			"Rows":  make([]int, 5),
		})
		return
	}

	ctx := c.Request.Context()
	sess := guard.Current(c)
	message, err := h.gateway.AddQuestions(ctx, credentials(sess), questions)
	if err != nil {
		h.LogError(c, err, "Question batch add failed")
		h.Render(c, http.StatusBadGateway, "add_questions.html", gin.H{
			"Error": userMessage(err),
			"Rows":  make([]int, 5),
		})
		return
	}

	if err := h.publisher.PublishActivityEvent(ctx, events.NewQuestionsAddedEvent(sess.User().Username, questions[0].Category, len(questions))); err != nil {
		h.LogError(c, err, "Question event publish failed")
	}

	h.Render(c, http.StatusOK, "add_questions.html", gin.H{
		"Notice": message,
		"Rows":   make([]int, 5),
	})
}

// questionFromForm reads one question's fields, prefixed for batch rows
// ("0_questionTitle") or bare for the single form.
func questionFromForm(c *gin.Context, prefix string) models.Question {
	return models.Question{
		QuestionTitle: strings.TrimSpace(c.PostForm(prefix + "questionTitle")),
		Option1:       strings.TrimSpace(c.PostForm(prefix + "option1")),
		Option2:       strings.TrimSpace(c.PostForm(prefix + "option2")),
		Option3:       strings.TrimSpace(c.PostForm(prefix + "option3")),
		Option4:       strings.TrimSpace(c.PostForm(prefix + "option4")),
		RightAnswer:   strings.TrimSpace(c.PostForm(prefix + "rightAnswer")),
		Difficulty:    strings.TrimSpace(c.PostForm(prefix + "difficultylevel")),
		Category:      strings.TrimSpace(c.PostForm(prefix + "category")),
	}
}

func (h *QuestionHandler) questionsFromBulkForm(c *gin.Context) ([]models.Question, error) {
	prefixes := []string{"0_", "1_", "2_", "3_", "4_"}
	questions := make([]models.Question, 0, len(prefixes))
	for _, prefix := range prefixes {
		q := questionFromForm(c, prefix)
		// The difficulty select always submits a value, so it does not
		// count towards a row being filled in.
		blank := q
		blank.Difficulty = ""
		if (blank == models.Question{}) {
			continue
		}
		if err := h.validator.Validate(q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

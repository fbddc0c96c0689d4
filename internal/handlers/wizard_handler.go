package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/events"
	"github.com/quizhub/quiz-web/internal/flow"
	"github.com/quizhub/quiz-web/internal/guard"
	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/session"
	"github.com/quizhub/quiz-web/internal/utils"
)

// wizardSlot is the session state slot holding the creation wizard.
const wizardSlot = "wizard"

// WizardHandler drives the three-step advanced quiz creator. Every POST
// mutates the wizard held in the session and re-renders the current
// step, so refreshes and back-navigation never lose the selection.
type WizardHandler struct {
	BaseHandler
	gateway   client.GatewayClient
	store     *session.Store
	publisher events.EventPublisher
}

func NewWizardHandler(
	gateway client.GatewayClient,
	store *session.Store,
	publisher events.EventPublisher,
	logger utils.Logger,
) *WizardHandler {
	return &WizardHandler{
		BaseHandler: NewBaseHandler(logger),
		gateway:     gateway,
		store:       store,
		publisher:   publisher,
	}
}

// Show renders the wizard at its current step.
func (h *WizardHandler) Show(c *gin.Context) {
	wizard := h.loadWizard(c)
	h.renderStep(c, http.StatusOK, wizard, "")
}

// ChooseCategory fetches the category's questions and moves to the
// selection step. This is the only wizard transition that talks to the
// gateway, and the category is validated before the fetch so a blank
// form never produces one.
func (h *WizardHandler) ChooseCategory(c *gin.Context) {
	wizard := h.loadWizard(c)
	category := strings.TrimSpace(c.PostForm("category"))
	if category == "" {
		h.renderStep(c, http.StatusBadRequest, wizard, flow.ErrNoCategory.Error())
		return
	}
	h.LogRequest(c, "Wizard category chosen", "category", category)

	sess := guard.Current(c)
	questions, err := h.gateway.QuestionsByCategory(c.Request.Context(), credentials(sess), category)
	if err != nil {
		h.LogError(c, err, "Wizard question fetch failed", "category", category)
		h.renderStep(c, http.StatusBadGateway, wizard, userMessage(err))
		return
	}

	if err := wizard.ChooseCategory(category, questions); err != nil {
		h.renderStep(c, http.StatusBadRequest, wizard, err.Error())
		return
	}
	h.saveWizard(c, wizard)
	h.renderStep(c, http.StatusOK, wizard, "")
}

// Toggle flips one question in or out of the selection.
func (h *WizardHandler) Toggle(c *gin.Context) {
	wizard := h.loadWizard(c)
	id, err := strconv.Atoi(c.PostForm("question_id"))
	if err != nil {
		h.renderStep(c, http.StatusBadRequest, wizard, "Unknown question")
		return
	}

	// A selected question may come from an earlier category and no
	// longer be in the available list, so check the selection first.
	var question *models.Question
	for i, q := range wizard.Selected {
		if q.ID == id {
			question = &wizard.Selected[i]
			break
		}
	}
	if question == nil {
		for i, q := range wizard.Available {
			if q.ID == id {
				question = &wizard.Available[i]
				break
			}
		}
	}
	if question == nil {
		h.renderStep(c, http.StatusBadRequest, wizard, "Unknown question")
		return
	}
	if err := wizard.Toggle(*question); err != nil {
		h.renderStep(c, http.StatusBadRequest, wizard, err.Error())
		return
	}

	h.saveWizard(c, wizard)
	h.renderStep(c, http.StatusOK, wizard, "")
}

// Next advances to the details step once at least one question is
// selected.
func (h *WizardHandler) Next(c *gin.Context) {
	wizard := h.loadWizard(c)
	if err := wizard.Next(); err != nil {
		h.renderStep(c, http.StatusBadRequest, wizard, err.Error())
		return
	}
	h.saveWizard(c, wizard)
	h.renderStep(c, http.StatusOK, wizard, "")
}

// Back steps backward without losing any collected state.
func (h *WizardHandler) Back(c *gin.Context) {
	wizard := h.loadWizard(c)
	wizard.Back()
	h.saveWizard(c, wizard)
	h.renderStep(c, http.StatusOK, wizard, "")
}

// Cancel abandons the wizard entirely.
func (h *WizardHandler) Cancel(c *gin.Context) {
	sess := guard.Current(c)
	if err := h.store.ClearState(c.Request.Context(), sess.ID, wizardSlot); err != nil {
		h.LogError(c, err, "Wizard state clear failed")
	}
	c.Redirect(http.StatusFound, "/teacher")
}

// Create builds the creation request from the selection and submits it.
func (h *WizardHandler) Create(c *gin.Context) {
	wizard := h.loadWizard(c)
	h.LogRequest(c, "Wizard quiz creation")

	req, err := wizard.Request(c.PostForm("title"))
	if err != nil {
		h.renderStep(c, http.StatusBadRequest, wizard, err.Error())
		return
	}

	ctx := c.Request.Context()
	sess := guard.Current(c)
	message, err := h.gateway.CreateQuiz(ctx, credentials(sess), req)
	if err != nil {
		h.LogError(c, err, "Wizard quiz creation failed")
		h.renderStep(c, http.StatusBadGateway, wizard, userMessage(err))
		return
	}

	if err := h.publisher.PublishActivityEvent(ctx, events.NewQuizCreatedEvent(sess.User().Username, req.Title, req.CategoryName, req.NumQuestions, true)); err != nil {
		h.LogError(c, err, "Quiz created event publish failed")
	}

	if err := h.store.ClearState(ctx, sess.ID, wizardSlot); err != nil {
		h.LogError(c, err, "Wizard state clear failed")
	}
	h.Render(c, http.StatusOK, "wizard_done.html", gin.H{
		"Notice": message,
	})
}

func (h *WizardHandler) loadWizard(c *gin.Context) *flow.Wizard {
	sess := guard.Current(c)
	wizard := flow.NewWizard()
	h.store.LoadState(c.Request.Context(), sess.ID, wizardSlot, wizard)
	if wizard.Step == 0 {
		wizard.Reset()
	}
	return wizard
}

func (h *WizardHandler) saveWizard(c *gin.Context, wizard *flow.Wizard) {
	if err := h.store.SaveState(c.Request.Context(), guard.Current(c).ID, wizardSlot, wizard); err != nil {
		h.LogError(c, err, "Wizard state persistence failed")
	}
}

func (h *WizardHandler) renderStep(c *gin.Context, status int, wizard *flow.Wizard, errMsg string) {
	data := gin.H{
		"Wizard":    wizard,
		"Breakdown": wizard.DifficultyBreakdown(),
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.Render(c, status, "wizard.html", data)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/guard"
	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	gateway client.GatewayClient
}

func NewDashboardHandler(gateway client.GatewayClient, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		gateway:     gateway,
	}
}

// Home routes the signed-in user to their role's dashboard.
func (h *DashboardHandler) Home(c *gin.Context) {
	switch guard.Current(c).User().Role {
	case models.RoleTeacher:
		c.Redirect(http.StatusFound, "/teacher")
	default:
		c.Redirect(http.StatusFound, "/student")
	}
}

// historyRow pairs a history entry with its display percentage.
type historyRow struct {
	models.HistoryEntry
	Percentage int
}

// StudentDashboard lists the student's past attempts.
func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	h.LogRequest(c, "Loading student history")

	sess := guard.Current(c)
	entries, err := h.gateway.StudentHistory(c.Request.Context(), credentials(sess))
	if err != nil {
		h.LogError(c, err, "Student history fetch failed")
		h.Render(c, http.StatusBadGateway, "student_dashboard.html", gin.H{
			"Error": userMessage(err),
		})
		return
	}

	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow{
			HistoryEntry: e,
			Percentage:   models.Percentage(e.Score, e.TotalQuestions),
		})
	}
	h.Render(c, http.StatusOK, "student_dashboard.html", gin.H{
		"History": rows,
	})
}

// StudentResult shows one graded attempt question by question.
func (h *DashboardHandler) StudentResult(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Loading submission result", "submission_id", id)

	sess := guard.Current(c)
	result, err := h.gateway.SubmissionResult(c.Request.Context(), credentials(sess), id)
	if err != nil {
		h.LogError(c, err, "Submission result fetch failed", "submission_id", id)
		status := http.StatusBadGateway
		if client.StatusCode(err) == http.StatusNotFound {
			status = http.StatusNotFound
		}
		h.Render(c, status, "error.html", gin.H{
			"Message": userMessage(err),
		})
		return
	}

	h.Render(c, http.StatusOK, "result_detail.html", gin.H{
		"Result":     result,
		"Percentage": models.Percentage(result.Score, result.TotalQuestions),
	})
}

// TeacherDashboard lists the teacher's quizzes with attempt counts.
func (h *DashboardHandler) TeacherDashboard(c *gin.Context) {
	h.LogRequest(c, "Loading teacher quizzes")

	sess := guard.Current(c)
	quizzes, err := h.gateway.TeacherQuizzes(c.Request.Context(), credentials(sess))
	if err != nil {
		h.LogError(c, err, "Teacher quizzes fetch failed")
		h.Render(c, http.StatusBadGateway, "teacher_dashboard.html", gin.H{
			"Error": userMessage(err),
		})
		return
	}

	h.Render(c, http.StatusOK, "teacher_dashboard.html", gin.H{
		"Quizzes": quizzes,
	})
}

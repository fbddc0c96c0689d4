package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	apperrors "github.com/quizhub/quiz-web/internal/errors"
	"github.com/quizhub/quiz-web/internal/guard"
	"github.com/quizhub/quiz-web/internal/session"
	"github.com/quizhub/quiz-web/internal/utils"
)

// BaseHandler provides common logging functionality for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability.
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs incoming HTTP requests with context information.
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	sess := guard.Current(c)

	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"username", sess.User().Username,
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// LogError logs error details with context information.
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// Render writes an HTML view with the session merged into the template
// data, so every screen can show the signed-in user and role-aware
// navigation.
func (h *BaseHandler) Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := guard.Current(c)
	data["Session"] = sess
	data["User"] = sess.User()
	c.HTML(status, name, data)
}

// userMessage turns a failed gateway call or validation result into the
// text shown inline on the screen. Transport failures get a generic
// message since there is no response body to quote; application errors
// surface whatever the gateway said.
func userMessage(err error) string {
	var verrs apperrors.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			parts = append(parts, ve.Field+" "+ve.Message)
		}
		return strings.Join(parts, "; ")
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr.Field + " " + verr.Message
	}

	if client.IsTransport(err) {
		return "The quiz service is unreachable. Please try again."
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "The quiz service rejected the request."
	}

	return err.Error()
}

// parseIDParam reads a positive integer path parameter, rendering a 404
// when it does not parse. Returns 0 on failure, matched by the caller.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) int {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		h.Render(c, http.StatusNotFound, "error.html", gin.H{
			"Message": "Invalid " + param,
		})
		return 0
	}
	return id
}

// credentials adapts the session to what the gateway client attaches to
// requests. An anonymous session yields empty credentials and the client
// sends no auth headers at all.
func credentials(sess session.Session) client.Credentials {
	token, username := sess.Credentials()
	return client.Credentials{Token: token, Username: username}
}

// setSessionCookie installs the session ID cookie for the browser.
func setSessionCookie(c *gin.Context, id string, maxAge int) {
	c.SetCookie(session.CookieName, id, maxAge, "/", "", false, true)
}

// clearSessionCookie expires the session ID cookie.
func clearSessionCookie(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}

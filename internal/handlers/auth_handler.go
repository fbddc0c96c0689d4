package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/events"
	"github.com/quizhub/quiz-web/internal/guard"
	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/session"
	"github.com/quizhub/quiz-web/internal/utils"
	"github.com/quizhub/quiz-web/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	gateway   client.GatewayClient
	store     *session.Store
	validator *validator.Validator
	publisher events.EventPublisher
	cookieTTL time.Duration
}

func NewAuthHandler(
	gateway client.GatewayClient,
	store *session.Store,
	validator *validator.Validator,
	publisher events.EventPublisher,
	cookieTTL time.Duration,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		gateway:     gateway,
		store:       store,
		validator:   validator,
		publisher:   publisher,
		cookieTTL:   cookieTTL,
	}
}

// ShowLogin renders the login form. A signed-in visitor is sent home.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if guard.Current(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.Render(c, http.StatusOK, "login.html", gin.H{
		"Notice":   c.Query("notice"),
		"Username": "",
	})
}

// Login exchanges the form credentials for a gateway token and opens a
// session. Validation failures and gateway rejections stay on the form.
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Login attempt")

	req := models.LoginRequest{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}
	if err := h.validator.Validate(req); err != nil {
		h.Render(c, http.StatusBadRequest, "login.html", gin.H{
			"Error":    userMessage(err),
			"Username": req.Username,
		})
		return
	}

	ctx := c.Request.Context()
	token, err := h.gateway.Login(ctx, req)
	if err != nil {
		h.LogError(c, err, "Login rejected", "username", req.Username)
		status := http.StatusUnauthorized
		if client.IsTransport(err) {
			status = http.StatusBadGateway
		}
		h.Render(c, status, "login.html", gin.H{
			"Error":    userMessage(err),
			"Username": req.Username,
		})
		return
	}

	profile := h.resolveProfile(c, token, req.Username)

	id, err := session.NewID()
	if err != nil {
		h.LogError(c, err, "Session ID generation failed")
		h.Render(c, http.StatusInternalServerError, "login.html", gin.H{
			"Error":    "Could not open a session. Please try again.",
			"Username": req.Username,
		})
		return
	}
	if err := h.store.Login(ctx, id, token, profile); err != nil {
		h.LogError(c, err, "Session persistence failed")
		h.Render(c, http.StatusInternalServerError, "login.html", gin.H{
			"Error":    "Could not open a session. Please try again.",
			"Username": req.Username,
		})
		return
	}
	setSessionCookie(c, id, int(h.cookieTTL.Seconds()))

	if err := h.publisher.PublishActivityEvent(ctx, events.NewUserLoggedInEvent(profile.Username, string(profile.Role))); err != nil {
		h.LogError(c, err, "Login event publish failed")
	}

	h.logger.Info("User logged in", "username", profile.Username, "role", profile.Role)
	c.Redirect(http.StatusFound, "/")
}

// resolveProfile decodes the role and username from the token claims.
// When the token is not a parseable JWT it falls back to asking the
// gateway for the role directly.
func (h *AuthHandler) resolveProfile(c *gin.Context, token, username string) models.Profile {
	profile, err := session.ProfileFromToken(token)
	if err == nil {
		return profile
	}

	role, roleErr := h.gateway.RoleFromToken(c.Request.Context(), token)
	if roleErr != nil {
		h.LogError(c, roleErr, "Role lookup failed, session continues without a role", "username", username)
		return models.Profile{Username: username}
	}
	return models.Profile{Username: username, Role: models.ParseRole(role)}
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if guard.Current(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.Render(c, http.StatusOK, "register.html", gin.H{
		"Username": "",
		"Role":     "STUDENT",
	})
}

// Register creates an account on the gateway and bounces to the login
// form. A duplicate username comes back as a 409 and is shown inline.
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registration attempt")

	req := models.RegisterRequest{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
		Role:     c.PostForm("role"),
	}
	if err := h.validator.Validate(req); err != nil {
		h.Render(c, http.StatusBadRequest, "register.html", gin.H{
			"Error":    userMessage(err),
			"Username": req.Username,
			"Role":     req.Role,
		})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.gateway.Register(ctx, req); err != nil {
		h.LogError(c, err, "Registration rejected", "username", req.Username)
		status := http.StatusBadRequest
		if client.StatusCode(err) == http.StatusConflict {
			status = http.StatusConflict
		} else if client.IsTransport(err) {
			status = http.StatusBadGateway
		}
		h.Render(c, status, "register.html", gin.H{
			"Error":    userMessage(err),
			"Username": req.Username,
			"Role":     req.Role,
		})
		return
	}

	if err := h.publisher.PublishActivityEvent(ctx, events.NewUserRegisteredEvent(req.Username, req.Role)); err != nil {
		h.LogError(c, err, "Registration event publish failed")
	}

	c.Redirect(http.StatusFound, "/login?notice=Account+created.+Please+sign+in.")
}

// Logout closes the session. It always deauthenticates: even when the
// store delete fails the cookie is dropped, so the browser holds no
// usable session ID.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := guard.Current(c)
	if sess.ID != "" {
		if err := h.store.Logout(c.Request.Context(), sess.ID); err != nil {
			h.LogError(c, err, "Session delete failed during logout")
		}
	}
	clearSessionCookie(c)
	h.logger.Info("User logged out", "username", sess.User().Username)
	c.Redirect(http.StatusFound, "/login")
}

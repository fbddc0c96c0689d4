package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/session"
)

// Decision is the outcome of evaluating a session against a route's
// access requirement.
type Decision int

const (
	// Allow renders the screen.
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated visitor to the login page.
	RedirectLogin
	// Deny renders an access-denied view in place. Authenticated users
	// with the wrong role are told so, not bounced to login.
	Deny
)

// Requirement is one row of the route table.
type Requirement struct {
	// Role is the role required to view the route. Empty means any
	// authenticated user.
	Role models.UserRole
}

// RouteTable maps route paths to their access requirements. Routes absent
// from the table are public.
type RouteTable map[string]Requirement

// Decide evaluates the access rule: allow when authenticated and the role
// matches (or no role is required), redirect to login when anonymous,
// deny in place on a role mismatch.
func Decide(authenticated bool, role models.UserRole, required models.UserRole) Decision {
	if !authenticated {
		return RedirectLogin
	}
	if required != "" && role != required {
		return Deny
	}
	return Allow
}

// ContextKey is the gin context key the middleware stores the loaded
// session under.
const ContextKey = "session"

// Current returns the session the middleware attached to the request.
func Current(c *gin.Context) session.Session {
	if v, ok := c.Get(ContextKey); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Session{}
}

// Middleware loads the session from the cookie and enforces the route
// table. The decision is re-evaluated on every request; nothing is
// cached. Guarded handlers never run for a denied request, so no gateway
// call can be issued on their behalf.
func Middleware(store *session.Store, table RouteTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := loadSession(c, store)
		c.Set(ContextKey, sess)

		req, guarded := table[c.FullPath()]
		if !guarded {
			c.Next()
			return
		}

		switch Decide(sess.IsAuthenticated(), sess.User().Role, req.Role) {
		case RedirectLogin:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		case Deny:
			c.HTML(http.StatusForbidden, "access_denied.html", gin.H{
				"Session":      sess,
				"RequiredRole": req.Role,
			})
			c.Abort()
		default:
			c.Next()
		}
	}
}

func loadSession(c *gin.Context, store *session.Store) session.Session {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie == "" {
		return session.Session{}
	}
	return store.Load(c.Request.Context(), cookie)
}

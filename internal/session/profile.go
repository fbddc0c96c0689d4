package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"

	"github.com/quizhub/quiz-web/internal/models"
)

var errNotJWT = errors.New("session: token is not a parseable JWT")

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ProfileFromToken decodes the username and role the gateway embedded in
// the JWT claims (sub, role). The parse is unverified: signature checking
// is the gateway's job, this app only needs the claims to label the
// session. Callers fall back to the /auth/role endpoint when the token is
// opaque.
func ProfileFromToken(token string) (models.Profile, error) {
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return models.Profile{}, errNotJWT
	}
	if claims.Subject == "" {
		return models.Profile{}, errNotJWT
	}

	return models.Profile{
		Username: claims.Subject,
		Role:     models.ParseRole(claims.Role),
	}, nil
}

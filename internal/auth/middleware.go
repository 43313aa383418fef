package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vectorvault/internal/domain"
	apperrors "github.com/spec-kit/vectorvault/pkg/util"
)

const userKey = "auth_user"

// Authenticator resolves a bearer token to a credential record.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Middleware validates bearer tokens and loads the current user.
type Middleware struct {
	auth Authenticator
}

// NewMiddleware constructs middleware.
func NewMiddleware(auth Authenticator) *Middleware {
	return &Middleware{auth: auth}
}

// Handle enforces authentication for protected routes. The token is taken
// from the Authorization header in "Bearer <token>" form; every failure mode
// of the token itself is passed through the service's tagged errors.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("missing or invalid authorization header")
	}

	user, err := m.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(userKey, user)
	return c.Next()
}

// UserFromContext retrieves the authenticated user set by Handle.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

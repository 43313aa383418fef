package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vectorvault/internal/api/dto"
	"github.com/spec-kit/vectorvault/internal/auth"
	"github.com/spec-kit/vectorvault/internal/service"
)

// UsersHandler exposes endpoints about the authenticated user.
type UsersHandler struct{}

// NewUsersHandler constructs handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return service.ErrUnauthenticated
	}
	return c.JSON(dto.NewUserResponse(user))
}

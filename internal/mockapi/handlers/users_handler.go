package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/mockapi/service"
)

// UsersHandler lists accounts for assignee pickers.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := pagination(c, 100)
	result, err := h.auth.ListUsers(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

// Roles granted by the development backend.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
	RoleUser  = "user"
)

// RequireRole ensures the caller holds one of the allowed roles.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, role := range principal.Roles {
			if slices.Contains(allowed, role) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}

// Package handlers maps the development backend's REST routes onto the services.
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/auth"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

const maxPageLimit = 100

// pagination reads page and limit, clamping them into a usable range.
func pagination(c *fiber.Ctx, defaultLimit int) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func int64Param(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name + " must be a positive integer")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	return nil
}

func currentUserID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.UserID == "" {
		return "", apperrors.NewUnauthorized("user required")
	}
	return principal.UserID, nil
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(domain.MessageResponse{Message: msg})
}

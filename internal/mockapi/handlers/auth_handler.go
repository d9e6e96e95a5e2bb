package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/service"
)

// RefreshCookieName is the HttpOnly cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

// AuthHandler exposes the /auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	setRefreshCookie(c, session.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(domain.RegisterResponse{
		Message: "registration successful",
		User:    session.User,
		Tokens:  session.Tokens,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.auth.Login(c.UserContext(), req.LoginID, req.Password)
	if err != nil {
		return err
	}
	setRefreshCookie(c, session.RefreshToken)
	return c.JSON(domain.LoginResponse{User: session.User, Tokens: session.Tokens})
}

// Refresh handles POST /auth/refresh using the refresh cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	session, err := h.auth.Refresh(c.UserContext(), c.Cookies(RefreshCookieName))
	if err != nil {
		clearRefreshCookie(c)
		return err
	}
	setRefreshCookie(c, session.RefreshToken)
	return c.JSON(session.Tokens)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), c.Cookies(RefreshCookieName)); err != nil {
		return err
	}
	clearRefreshCookie(c)
	return message(c, "logged out")
}

// LogoutAll handles POST /auth/logout-all.
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if _, err := h.auth.LogoutAll(c.UserContext(), userID); err != nil {
		return err
	}
	clearRefreshCookie(c)
	return message(c, "logged out from all sessions")
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, roles, err := h.auth.Me(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(domain.MeResponse{User: *user, Roles: roles})
}

func setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(service.RefreshTokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

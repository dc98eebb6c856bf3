package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// AuthHandler exposes login, logout and the current user.
type AuthHandler struct {
	authService *service.AuthService
	cfg         config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// Login handles POST /auth/login. The token is set as an httpOnly cookie and
// also returned for bearer use.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	user, token, session, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User: userResponse(user),
		Auth: dto.AuthResponse{Token: token, ExpiresAt: session.ExpiresAt},
	}})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.UserContext(), session); err != nil {
		return err
	}
	c.ClearCookie(h.cfg.CookieName)
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	user, err := h.authService.CurrentUser(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

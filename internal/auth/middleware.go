package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	apperrors "github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

const sessionKey = "auth_session"

// RevocationChecker reports sessions ended by logout.
type RevocationChecker interface {
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware validates the session cookie or bearer token.
type AuthMiddleware struct {
	tokens     *TokenManager
	revoked    RevocationChecker
	cookieName string
}

// NewAuthMiddleware constructs middleware. revoked may be nil.
func NewAuthMiddleware(tokens *TokenManager, revoked RevocationChecker, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revoked: revoked, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := m.extractToken(c)
	if err != nil {
		return err
	}

	session, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsSessionRevoked(c.UserContext(), session.TokenID)
		if err != nil {
			return apperrors.ToDomainError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("session ended")
		}
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// RawToken returns the token presented with the request, if any.
func (m *AuthMiddleware) RawToken(c *fiber.Ctx) string {
	raw, _ := m.extractToken(c)
	return raw
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie, nil
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing session")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	session, ok := c.Locals(sessionKey).(*domain.Session)
	return session, ok && session != nil
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	apperrors "github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// RequireRole ensures the session holds one of the allowed roles. With no
// roles it only requires a session.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("unauthorized")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[session.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

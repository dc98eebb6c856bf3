package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/auth"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	apperrors "github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// bindBody decodes the JSON body into req and checks its validate tags.
func bindBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

func requireSession(c *fiber.Ctx) (*domain.Session, error) {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return session, nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(key, val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError("invalid date", map[string]any{key: "datetime"})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func typedQuery[T ~string](c *fiber.Ctx, key string) *T {
	val := optionalQuery(c, key)
	if val == nil {
		return nil
	}
	typed := T(*val)
	return &typed
}

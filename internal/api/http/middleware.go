package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/observability"
	apperrors "github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// RegisterMiddlewares installs, outermost first: request ids, the optional
// per-request deadline, error rendering and the request log.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestIDMiddleware())
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

// requestIDMiddleware keeps a caller-supplied X-Request-ID or mints one.
func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Locals(observability.RequestIDKey, id)
		c.Set(fiber.HeaderXRequestID, id)
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("request_id", observability.RequestID(c)),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			domainErr := toDomainError(err)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("request_id", observability.RequestID(c)),
					zap.Error(domainErr))
			}
			err = renderError(c, domainErr)
		}()
		return c.Next()
	}
}

// renderError writes the error envelope. A failed document export may have
// set attachment headers already; those are dropped so clients get JSON.
func renderError(c *fiber.Ctx, domainErr *apperrors.DomainError) error {
	c.Response().Header.Del(fiber.HeaderContentDisposition)
	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	_ = c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
	return nil
}

// toDomainError also covers errors raised by fiber itself, such as an
// unmatched route or an oversized body.
func toDomainError(err error) *apperrors.DomainError {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_"))
		if fe.Code == http.StatusNotFound {
			code = apperrors.CodeNotFound
		}
		return apperrors.NewDomainError(code, fe.Message, fe.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

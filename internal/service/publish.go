package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/events"
)

// publishEvent delivers event to subscribers. Handler failures are logged and
// never fail the operation that raised the event.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/events"
)

func newObservedNotifier(cfg config.NotificationConfig) (events.Dispatcher, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), cfg).RegisterHandlers()
	return dispatcher, logs
}

func TestNotificationsRouteToSinks(t *testing.T) {
	dispatcher, logs := newObservedNotifier(config.NotificationConfig{
		EmailFrom:  "noc@example.com",
		WebhookURL: "https://hooks.example.com/ops",
	})
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTicketExported, "t1", "u1",
		events.TicketExportedPayload{TemplateType: "pir", Format: "docx"})))
	assert.Equal(t, 1, logs.FilterMessage("TicketExported").Len())
	assert.Equal(t, 1, logs.FilterMessage("webhook notification").Len())
	assert.Zero(t, logs.FilterMessage("email notification").Len())

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTicketCreated, "t2", "u1",
		events.TicketCreatedPayload{Priority: domain.TicketPriorityCritical, IsOutage: true})))
	assert.Equal(t, 1, logs.FilterMessage("email notification").Len())

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventTemplateSaved, "", "u1", nil)))
	assert.Equal(t, 1, logs.FilterMessage("TemplateSaved").Len())
	assert.Equal(t, 2, logs.FilterMessage("webhook notification").Len())
}

func TestNotificationsSkipUnconfiguredSinks(t *testing.T) {
	dispatcher, logs := newObservedNotifier(config.NotificationConfig{})

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventTaskDue, "", "", events.TaskDuePayload{TaskID: "task-1"})))

	assert.Equal(t, 1, logs.FilterMessage("TaskDue").Len())
	assert.Zero(t, logs.FilterMessage("email notification").Len())
	assert.Zero(t, logs.FilterMessage("webhook notification").Len())
}

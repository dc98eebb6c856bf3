package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/events"
)

// channel is a notification sink an event can be routed to.
type channel uint8

const (
	channelEmail channel = 1 << iota
	channelWebhook
)

// notifyRoutes lists, per event, the log label and the sinks it reaches.
// Outage tickets additionally go out by email; see wantsEmail.
var notifyRoutes = map[events.EventType]struct {
	label    string
	channels channel
}{
	events.EventTicketCreated:       {"TicketCreated", channelWebhook},
	events.EventTicketStatusChanged: {"TicketStatusChanged", channelWebhook},
	events.EventTicketResolved:      {"ResolutionSaved", 0},
	events.EventTicketExported:      {"TicketExported", channelWebhook},
	events.EventTemplateSaved:       {"TemplateSaved", 0},
	events.EventTaskDue:             {"TaskDue", channelEmail | channelWebhook},
}

// NotificationService logs dashboard events and forwards them to the email
// and webhook sinks. Both sinks are stubs that only log what they would send.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes the service to every routed event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for eventType := range notifyRoutes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	route, ok := notifyRoutes[event.Type]
	if !ok {
		return nil
	}
	n.logger.Info(route.label,
		zap.String("event_id", event.ID),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))

	if route.channels&channelEmail != 0 || wantsEmail(event) {
		n.sendEmail(ctx, event)
	}
	if route.channels&channelWebhook != 0 {
		return n.sendWebhook(ctx, event)
	}
	return nil
}

func wantsEmail(event events.Event) bool {
	p, ok := event.Payload.(events.TicketCreatedPayload)
	return ok && p.IsOutage
}

func (n *NotificationService) sendEmail(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhook(_ context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)),
		zap.ByteString("body", body))
	return nil
}

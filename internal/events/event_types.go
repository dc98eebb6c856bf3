package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketResolved      EventType = "ticket_resolution_saved"
	EventTicketExported      EventType = "ticket_exported"
	EventTemplateSaved       EventType = "template_saved"
	EventTaskDue             EventType = "task_due"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps a fresh id and time onto an event.
func NewEvent(eventType EventType, ticketID, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientID string                `json:"client_id"`
	Priority domain.TicketPriority `json:"priority"`
	Title    string                `json:"title"`
	IsOutage bool                  `json:"is_outage"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketResolutionSavedPayload payload.
type TicketResolutionSavedPayload struct {
	TimeSpentMinutes int `json:"time_spent_minutes"`
}

// TicketExportedPayload payload.
type TicketExportedPayload struct {
	TemplateType  string `json:"template_type"`
	TemplateName  string `json:"template_name"`
	Format        string `json:"format"`
	Redacted      bool   `json:"redacted"`
	HasRedactions bool   `json:"has_redactions"`
}

// TemplateSavedPayload payload.
type TemplateSavedPayload struct {
	TemplateID string `json:"template_id"`
	Type       string `json:"type"`
	IsDefault  bool   `json:"is_default"`
}

// TaskDuePayload payload.
type TaskDuePayload struct {
	TaskID   string                `json:"task_id"`
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	DueDate  time.Time             `json:"due_date"`
	UserID   string                `json:"user_id"`
}

package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusWaiting    TicketStatus = "waiting"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "critical"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityLow      TicketPriority = "low"
)

// TicketCategory classifies the kind of work.
type TicketCategory string

const (
	TicketCategoryIncident       TicketCategory = "incident"
	TicketCategoryServiceRequest TicketCategory = "service_request"
	TicketCategoryProblem        TicketCategory = "problem"
	TicketCategoryChange         TicketCategory = "change"
)

// Sensitivity marks whether content may leave the MSP.
type Sensitivity string

const (
	SensitivityInternal        Sensitivity = "internal"
	SensitivityClientShareable Sensitivity = "client_shareable"
)

// Ticket is the aggregate for client work items.
type Ticket struct {
	ID              string
	ExternalID      *string
	Title           string
	ClientID        string
	UserID          string
	Category        TicketCategory
	Priority        TicketPriority
	Status          TicketStatus
	Sensitivity     Sensitivity
	Symptoms        *string
	ImpactedService *string
	QuickNotes      *string
	Description     *string
	AffectedUsers   *int
	IsOutage        bool
	Tags            []string
	Pillars         []PillarRef
	DetectedAt      *time.Time
	AcknowledgedAt  *time.Time
	MitigatedAt     *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayID returns the external reference when one exists.
func (t *Ticket) DisplayID() string {
	if t.ExternalID != nil && *t.ExternalID != "" {
		return *t.ExternalID
	}
	return t.ID
}

// IsActive reports whether the ticket still needs work.
func (t *Ticket) IsActive() bool {
	switch t.Status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting:
		return true
	default:
		return false
	}
}

// StampStatus records the lifecycle timestamp that belongs to status. Each
// timestamp is written at most once, except closedAt which tracks the latest close.
func (t *Ticket) StampStatus(status TicketStatus, now time.Time) {
	switch status {
	case TicketStatusInProgress:
		if t.AcknowledgedAt == nil {
			t.AcknowledgedAt = &now
		}
	case TicketStatusWaiting:
		if t.MitigatedAt == nil {
			t.MitigatedAt = &now
		}
	case TicketStatusResolved:
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
	case TicketStatusClosed:
		t.ClosedAt = &now
	}
}

// Resolution captures how a ticket was resolved.
type Resolution struct {
	TicketID         string
	Summary          string
	RootCause        *string
	FixApplied       *string
	ValidationSteps  *string
	Prevention       *string
	TimeSpentMinutes *int
	Collaborators    *string
	HandoffNotes     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TicketGraph is a ticket with every relation the export path needs, fetched
// in a single read.
type TicketGraph struct {
	Ticket     Ticket
	Client     Client
	User       User
	Resolution *Resolution
	Tasks      []Task
}

// TicketListItem is a ticket row with the client columns list views show.
type TicketListItem struct {
	Ticket
	ClientName    string
	ClientAcronym string
	TaskCount     int
}

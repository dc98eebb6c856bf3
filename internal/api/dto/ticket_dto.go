package dto

import (
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ExternalID      *string               `json:"externalId"`
	Title           string                `json:"title" validate:"required,max=500"`
	ClientID        string                `json:"clientId" validate:"required"`
	Category        domain.TicketCategory `json:"category" validate:"required,oneof=incident service_request problem change"`
	Priority        domain.TicketPriority `json:"priority" validate:"omitempty,oneof=critical high medium low"`
	Sensitivity     domain.Sensitivity    `json:"sensitivity" validate:"omitempty,oneof=internal client_shareable"`
	Symptoms        *string               `json:"symptoms"`
	ImpactedService *string               `json:"impactedService"`
	QuickNotes      *string               `json:"quickNotes"`
	Description     *string               `json:"description"`
	AffectedUsers   *int                  `json:"affectedUsers" validate:"omitempty,gte=0"`
	IsOutage        bool                  `json:"isOutage"`
	Tags            []string              `json:"tags"`
	PillarIDs       []string              `json:"pillarIds" validate:"omitempty,dive,required"`
}

// UpdateTicketRequest is a partial update; absent fields are left alone.
type UpdateTicketRequest struct {
	ExternalID      *string                `json:"externalId"`
	Title           *string                `json:"title" validate:"omitempty,max=500"`
	ClientID        *string                `json:"clientId"`
	Category        *domain.TicketCategory `json:"category" validate:"omitempty,oneof=incident service_request problem change"`
	Priority        *domain.TicketPriority `json:"priority" validate:"omitempty,oneof=critical high medium low"`
	Status          *domain.TicketStatus   `json:"status" validate:"omitempty,oneof=open in_progress waiting resolved closed"`
	Sensitivity     *domain.Sensitivity    `json:"sensitivity" validate:"omitempty,oneof=internal client_shareable"`
	Symptoms        *string                `json:"symptoms"`
	ImpactedService *string                `json:"impactedService"`
	QuickNotes      *string                `json:"quickNotes"`
	Description     *string                `json:"description"`
	AffectedUsers   *int                   `json:"affectedUsers" validate:"omitempty,gte=0"`
	IsOutage        *bool                  `json:"isOutage"`
	Tags            []string               `json:"tags"`
	PillarIDs       []string               `json:"pillarIds" validate:"omitempty,dive,required"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID              string                `json:"id"`
	ExternalID      *string               `json:"externalId"`
	Title           string                `json:"title"`
	ClientID        string                `json:"clientId"`
	UserID          string                `json:"userId"`
	Category        domain.TicketCategory `json:"category"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	Sensitivity     domain.Sensitivity    `json:"sensitivity"`
	Symptoms        *string               `json:"symptoms"`
	ImpactedService *string               `json:"impactedService"`
	QuickNotes      *string               `json:"quickNotes"`
	Description     *string               `json:"description"`
	AffectedUsers   *int                  `json:"affectedUsers"`
	IsOutage        bool                  `json:"isOutage"`
	Tags            []string              `json:"tags"`
	Pillars         []PillarRefResponse   `json:"pillars"`
	DetectedAt      *time.Time            `json:"detectedAt"`
	AcknowledgedAt  *time.Time            `json:"acknowledgedAt"`
	MitigatedAt     *time.Time            `json:"mitigatedAt"`
	ResolvedAt      *time.Time            `json:"resolvedAt"`
	ClosedAt        *time.Time            `json:"closedAt"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// TicketListItemResponse is a list row.
type TicketListItemResponse struct {
	TicketResponse
	Client    ClientRef `json:"client"`
	TaskCount int       `json:"taskCount"`
}

// ClientRef names a ticket's client in list rows.
type ClientRef struct {
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

// TicketListResponse is one page of tickets.
type TicketListResponse struct {
	Tickets []TicketListItemResponse `json:"tickets"`
	Total   int                      `json:"total"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
}

// TicketDetailResponse is a ticket with its relations.
type TicketDetailResponse struct {
	TicketResponse
	Client     *ClientResponse        `json:"client"`
	Resolution *ResolutionResponse    `json:"resolution"`
	Tasks      []TaskResponse         `json:"tasks"`
	KBArticles []KBArticleRefResponse `json:"kbArticles"`
}

// ResolutionRequest payload for PUT /api/tickets/:id/resolution.
type ResolutionRequest struct {
	Summary          string  `json:"summary" validate:"required"`
	RootCause        *string `json:"rootCause"`
	FixApplied       *string `json:"fixApplied"`
	ValidationSteps  *string `json:"validationSteps"`
	Prevention       *string `json:"prevention"`
	TimeSpentMinutes *int    `json:"timeSpentMinutes" validate:"omitempty,gte=0"`
	Collaborators    *string `json:"collaborators"`
	HandoffNotes     *string `json:"handoffNotes"`
}

// ResolutionResponse representation.
type ResolutionResponse struct {
	TicketID         string    `json:"ticketId"`
	Summary          string    `json:"summary"`
	RootCause        *string   `json:"rootCause"`
	FixApplied       *string   `json:"fixApplied"`
	ValidationSteps  *string   `json:"validationSteps"`
	Prevention       *string   `json:"prevention"`
	TimeSpentMinutes *int      `json:"timeSpentMinutes"`
	Collaborators    *string   `json:"collaborators"`
	HandoffNotes     *string   `json:"handoffNotes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

package dto

import (
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// ClientRequest is used for create (name and acronym required by the
// service) and partial update.
type ClientRequest struct {
	Name     *string         `json:"name" validate:"omitempty,max=200"`
	Acronym  *string         `json:"acronym" validate:"omitempty,max=20"`
	Notes    *string         `json:"notes"`
	EnvType  *domain.EnvType `json:"envType" validate:"omitempty,oneof=azure on-prem hybrid"`
	EnvTags  []string        `json:"envTags"`
	IsActive *bool           `json:"isActive"`
}

// ClientResponse representation.
type ClientResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Acronym     string         `json:"acronym"`
	Notes       *string        `json:"notes"`
	EnvType     domain.EnvType `json:"envType"`
	EnvTags     []string       `json:"envTags"`
	IsActive    bool           `json:"isActive"`
	TicketCount int            `json:"ticketCount"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

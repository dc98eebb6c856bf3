package dto

import (
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string                `json:"title" validate:"required,max=500"`
	Description *string               `json:"description"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=critical high medium low"`
	Category    domain.TaskCategory   `json:"category" validate:"omitempty,oneof=follow_up monitoring client_action internal"`
	DueDate     *time.Time            `json:"dueDate"`
	TicketID    *string               `json:"ticketId"`
	ClientID    *string               `json:"clientId"`
}

// UpdateTaskRequest is a partial update.
type UpdateTaskRequest struct {
	Title       *string                `json:"title" validate:"omitempty,max=500"`
	Description *string                `json:"description"`
	Status      *domain.TaskStatus     `json:"status" validate:"omitempty,oneof=todo in_progress done blocked"`
	Priority    *domain.TicketPriority `json:"priority" validate:"omitempty,oneof=critical high medium low"`
	Category    *domain.TaskCategory   `json:"category" validate:"omitempty,oneof=follow_up monitoring client_action internal"`
	DueDate     *time.Time             `json:"dueDate"`
}

// TaskResponse representation.
type TaskResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description *string               `json:"description"`
	Status      domain.TaskStatus     `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TaskCategory   `json:"category"`
	DueDate     *time.Time            `json:"dueDate"`
	TicketID    *string               `json:"ticketId"`
	ClientID    *string               `json:"clientId"`
	UserID      string                `json:"userId"`
	CompletedAt *time.Time            `json:"completedAt"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

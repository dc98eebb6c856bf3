package dto

import (
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// CreateSnippetRequest payload.
type CreateSnippetRequest struct {
	Title       string                 `json:"title" validate:"required,max=500"`
	Language    domain.SnippetLanguage `json:"language" validate:"required,oneof=powershell terraform bash sql python cli other"`
	Code        string                 `json:"code" validate:"required"`
	Description *string                `json:"description"`
	UsageNotes  *string                `json:"usageNotes"`
	Tags        []string               `json:"tags"`
	PillarIDs   []string               `json:"pillarIds" validate:"omitempty,dive,required"`
}

// UpdateSnippetRequest is a partial update.
type UpdateSnippetRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,max=500"`
	Language    *domain.SnippetLanguage `json:"language" validate:"omitempty,oneof=powershell terraform bash sql python cli other"`
	Code        *string                 `json:"code"`
	Description *string                 `json:"description"`
	UsageNotes  *string                 `json:"usageNotes"`
	Tags        []string                `json:"tags"`
	PillarIDs   []string                `json:"pillarIds" validate:"omitempty,dive,required"`
}

// SnippetResponse representation.
type SnippetResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Language    domain.SnippetLanguage `json:"language"`
	Code        string                 `json:"code"`
	Description *string                `json:"description"`
	UsageNotes  *string                `json:"usageNotes"`
	Tags        []string               `json:"tags"`
	UserID      string                 `json:"userId"`
	Pillars     []PillarRefResponse    `json:"pillars"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

package dto

import "time"

// TemplateRequest is used for create and partial update.
type TemplateRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	Type      *string `json:"type" validate:"omitempty,max=50"`
	Content   *string `json:"content"`
	IsDefault *bool   `json:"isDefault"`
}

// TemplateResponse representation.
type TemplateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlaceholderResponse reports a template's placeholders.
type PlaceholderResponse struct {
	Placeholders []string `json:"placeholders"`
	Unknown      []string `json:"unknown"`
	Available    []string `json:"available"`
}

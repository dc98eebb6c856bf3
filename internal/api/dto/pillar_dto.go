package dto

import "time"

// PillarRequest creates or updates a pillar. On update absent fields are
// left alone.
type PillarRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color     *string `json:"color" validate:"omitempty,max=32"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,gte=0"`
	IsActive  *bool   `json:"isActive"`
}

// PillarResponse representation.
type PillarResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	SortOrder int       `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PillarRefResponse names a pillar on tickets, articles and snippets.
type PillarRefResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

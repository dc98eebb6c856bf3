package domain

import "time"

// EnvType describes where a client's estate runs.
type EnvType string

const (
	EnvTypeAzure  EnvType = "azure"
	EnvTypeOnPrem EnvType = "on-prem"
	EnvTypeHybrid EnvType = "hybrid"
)

// Client is a managed customer.
type Client struct {
	ID          string
	Name        string
	Acronym     string
	Notes       *string
	EnvType     EnvType
	EnvTags     []string
	IsActive    bool
	TicketCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

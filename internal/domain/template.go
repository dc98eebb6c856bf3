package domain

import "time"

// Export template types shipped with the dashboard. Operators may add others.
const (
	TemplateTypeTicketNote = "ticket_note"
	TemplateTypeHandoff    = "handoff"
	TemplateTypeChangePlan = "change_plan"
	TemplateTypePIR        = "pir"
)

// ExportTemplate is operator-authored Markdown with {{path}} placeholders.
// Exactly one template per type is the default.
type ExportTemplate struct {
	ID        string
	Name      string
	Type      string
	Content   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

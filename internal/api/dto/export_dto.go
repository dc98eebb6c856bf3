package dto

// ExportRequest payload for POST /api/export.
type ExportRequest struct {
	TicketID     string `json:"ticketId" validate:"required"`
	TemplateType string `json:"templateType" validate:"required"`
	Format       string `json:"format" validate:"omitempty,oneof=markdown docx html"`
	Redact       bool   `json:"redact"`
}

// MarkdownExportResponse is the markdown export body.
type MarkdownExportResponse struct {
	Markdown      string   `json:"markdown"`
	TemplateName  string   `json:"templateName"`
	HasRedactions bool     `json:"hasRedactions"`
	Filename      string   `json:"filename"`
	Unresolved    []string `json:"unresolved,omitempty"`
}

// HTMLExportResponse is the preview body.
type HTMLExportResponse struct {
	HTML          string `json:"html"`
	Markdown      string `json:"markdown"`
	TemplateName  string `json:"templateName"`
	HasRedactions bool   `json:"hasRedactions"`
}

// RedactRequest payload for POST /api/redact.
type RedactRequest struct {
	Text string `json:"text"`
}

// RedactResponse reports a redaction pass.
type RedactResponse struct {
	Text          string         `json:"text"`
	HasRedactions bool           `json:"hasRedactions"`
	Counts        map[string]int `json:"counts"`
	Total         int            `json:"total"`
}

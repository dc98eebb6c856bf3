package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/redact"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// ExportHandler renders tickets and scrubs ad-hoc text.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export handles POST /api/export.
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.ExportRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	exportReq := service.ExportRequest{
		TicketID:     req.TicketID,
		TemplateType: req.TemplateType,
		Redact:       req.Redact,
		ActorID:      session.UserID,
	}

	switch req.Format {
	case service.FormatDOCX:
		doc, err := h.exports.RenderDocument(c.UserContext(), exportReq)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.docx"`, doc.Filename))
		return c.Send(doc.Data)
	case service.FormatHTML:
		res, err := h.exports.RenderHTML(c.UserContext(), exportReq)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.HTMLExportResponse{
			HTML:          res.HTML,
			Markdown:      res.Markdown,
			TemplateName:  res.TemplateName,
			HasRedactions: res.HasRedactions,
		}})
	default:
		res, err := h.exports.Render(c.UserContext(), exportReq)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.MarkdownExportResponse{
			Markdown:      res.Text,
			TemplateName:  res.TemplateName,
			HasRedactions: res.HasRedactions,
			Filename:      res.Filename,
			Unresolved:    res.Missing,
		}})
	}
}

// Redact handles POST /api/redact.
func (h *ExportHandler) Redact(c *fiber.Ctx) error {
	var req dto.RedactRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	report := redact.Scan(req.Text)
	return c.JSON(fiber.Map{"data": dto.RedactResponse{
		Text:          report.Text,
		HasRedactions: report.Total > 0,
		Counts:        report.Counts,
		Total:         report.Total,
	}})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// TemplatesHandler manages export templates.
type TemplatesHandler struct {
	service *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templateService *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{service: templateService}
}

// ListTemplates GET /api/templates.
func (h *TemplatesHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.service.ListTemplates(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		items = append(items, templateResponse(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTemplate GET /api/templates/:id.
func (h *TemplatesHandler) GetTemplate(c *fiber.Ctx) error {
	tpl, err := h.service.GetTemplate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templateResponse(tpl)})
}

// CreateTemplate POST /api/templates (admin).
func (h *TemplatesHandler) CreateTemplate(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.TemplateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	tpl, err := h.service.CreateTemplate(c.UserContext(), session, templateInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": templateResponse(tpl)})
}

// UpdateTemplate PATCH /api/templates/:id (admin).
func (h *TemplatesHandler) UpdateTemplate(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.TemplateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	tpl, err := h.service.UpdateTemplate(c.UserContext(), session, c.Params("id"), templateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templateResponse(tpl)})
}

// Placeholders GET /api/templates/:id/placeholders.
func (h *TemplatesHandler) Placeholders(c *fiber.Ctx) error {
	report, err := h.service.InspectPlaceholders(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PlaceholderResponse{
		Placeholders: report.Placeholders,
		Unknown:      report.Unknown,
		Available:    report.Available,
	}})
}

func templateInput(req dto.TemplateRequest) service.TemplateInput {
	return service.TemplateInput{
		Name:      req.Name,
		Type:      req.Type,
		Content:   req.Content,
		IsDefault: req.IsDefault,
	}
}

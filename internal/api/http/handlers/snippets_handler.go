package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// SnippetsHandler serves the script library.
type SnippetsHandler struct {
	service *service.SnippetService
}

func NewSnippetsHandler(snippetService *service.SnippetService) *SnippetsHandler {
	return &SnippetsHandler{service: snippetService}
}

// ListSnippets GET /api/snippets?language&search.
func (h *SnippetsHandler) ListSnippets(c *fiber.Ctx) error {
	snippets, err := h.service.ListSnippets(c.UserContext(), repository.SnippetFilter{
		Language: typedQuery[domain.SnippetLanguage](c, "language"),
		Search:   optionalQuery(c, "search"),
	})
	if err != nil {
		return err
	}
	out := make([]dto.SnippetResponse, 0, len(snippets))
	for i := range snippets {
		out = append(out, snippetResponse(&snippets[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetSnippet GET /api/snippets/:id.
func (h *SnippetsHandler) GetSnippet(c *fiber.Ctx) error {
	snippet, err := h.service.GetSnippet(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snippetResponse(snippet)})
}

// CreateSnippet POST /api/snippets.
func (h *SnippetsHandler) CreateSnippet(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateSnippetRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	snippet, err := h.service.CreateSnippet(c.UserContext(), session, service.SnippetCreateInput{
		Title:       req.Title,
		Language:    req.Language,
		Code:        req.Code,
		Description: req.Description,
		UsageNotes:  req.UsageNotes,
		Tags:        req.Tags,
		PillarIDs:   req.PillarIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": snippetResponse(snippet)})
}

// UpdateSnippet PATCH /api/snippets/:id.
func (h *SnippetsHandler) UpdateSnippet(c *fiber.Ctx) error {
	var req dto.UpdateSnippetRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	snippet, err := h.service.UpdateSnippet(c.UserContext(), c.Params("id"), service.SnippetUpdateInput{
		Title:       req.Title,
		Language:    req.Language,
		Code:        req.Code,
		Description: req.Description,
		UsageNotes:  req.UsageNotes,
		Tags:        req.Tags,
		PillarIDs:   req.PillarIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snippetResponse(snippet)})
}

// DeleteSnippet DELETE /api/snippets/:id.
func (h *SnippetsHandler) DeleteSnippet(c *fiber.Ctx) error {
	if err := h.service.DeleteSnippet(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// KBHandler serves the knowledge base.
type KBHandler struct {
	service *service.KBService
}

func NewKBHandler(kbService *service.KBService) *KBHandler {
	return &KBHandler{service: kbService}
}

// ListArticles GET /api/kb?search&tag&pillarId.
func (h *KBHandler) ListArticles(c *fiber.Ctx) error {
	items, err := h.service.ListArticles(c.UserContext(), repository.KBFilter{
		Search:   optionalQuery(c, "search"),
		Tag:      optionalQuery(c, "tag"),
		PillarID: optionalQuery(c, "pillarId"),
	})
	if err != nil {
		return err
	}
	out := make([]dto.KBArticleListItemResponse, 0, len(items))
	for i := range items {
		out = append(out, kbArticleListItem(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetArticle GET /api/kb/:id.
func (h *KBHandler) GetArticle(c *fiber.Ctx) error {
	item, err := h.service.GetArticle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": kbArticleListItem(item)})
}

// CreateArticle POST /api/kb.
func (h *KBHandler) CreateArticle(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateKBArticleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	article, err := h.service.CreateArticle(c.UserContext(), session, service.KBCreateInput{
		Title:       req.Title,
		Problem:     req.Problem,
		Environment: req.Environment,
		Symptoms:    req.Symptoms,
		Cause:       req.Cause,
		Resolution:  req.Resolution,
		Commands:    req.Commands,
		References:  req.References,
		Sensitivity: req.Sensitivity,
		TicketID:    req.TicketID,
		ClientID:    req.ClientID,
		Tags:        req.Tags,
		PillarIDs:   req.PillarIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": kbArticleResponse(article)})
}

// UpdateArticle PATCH /api/kb/:id.
func (h *KBHandler) UpdateArticle(c *fiber.Ctx) error {
	var req dto.UpdateKBArticleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	article, err := h.service.UpdateArticle(c.UserContext(), c.Params("id"), service.KBUpdateInput{
		Title:       req.Title,
		Problem:     req.Problem,
		Environment: req.Environment,
		Symptoms:    req.Symptoms,
		Cause:       req.Cause,
		Resolution:  req.Resolution,
		Commands:    req.Commands,
		References:  req.References,
		Sensitivity: req.Sensitivity,
		TicketID:    req.TicketID,
		ClientID:    req.ClientID,
		Tags:        req.Tags,
		PillarIDs:   req.PillarIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": kbArticleResponse(article)})
}

// DeleteArticle DELETE /api/kb/:id.
func (h *KBHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

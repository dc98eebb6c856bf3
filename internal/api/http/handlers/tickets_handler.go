package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	page, err := h.service.ListTickets(c.UserContext(), service.TicketListInput{
		ClientID: optionalQuery(c, "clientId"),
		Status:   typedQuery[domain.TicketStatus](c, "status"),
		Priority: typedQuery[domain.TicketPriority](c, "priority"),
		Category: typedQuery[domain.TicketCategory](c, "category"),
		Search:   optionalQuery(c, "search"),
		Page:     parseInt(c.Query("page"), 1),
		Limit:    parseInt(c.Query("limit"), 0),
	})
	if err != nil {
		return err
	}
	items := make([]dto.TicketListItemResponse, 0, len(page.Tickets))
	for i := range page.Tickets {
		items = append(items, ticketListItem(&page.Tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Tickets: items,
		Total:   page.Total,
		Page:    page.Page,
		Limit:   page.Limit,
	}})
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), session, service.TicketCreateInput{
		ExternalID:      req.ExternalID,
		Title:           req.Title,
		ClientID:        req.ClientID,
		Category:        req.Category,
		Priority:        req.Priority,
		Sensitivity:     req.Sensitivity,
		Symptoms:        req.Symptoms,
		ImpactedService: req.ImpactedService,
		QuickNotes:      req.QuickNotes,
		Description:     req.Description,
		AffectedUsers:   req.AffectedUsers,
		IsOutage:        req.IsOutage,
		Tags:            req.Tags,
		PillarIDs:       req.PillarIDs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.TicketDetailResponse{
		TicketResponse: ticketResponse(detail.Ticket),
		Resolution:     resolutionResponse(detail.Resolution),
		Tasks:          taskResponses(detail.Tasks),
		KBArticles:     kbArticleRefs(detail.KBArticles),
	}
	if detail.Client != nil {
		client := clientResponse(detail.Client)
		resp.Client = &client
	}
	return c.JSON(fiber.Map{"data": resp})
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), session, c.Params("id"), service.TicketUpdateInput{
		ExternalID:      req.ExternalID,
		Title:           req.Title,
		ClientID:        req.ClientID,
		Category:        req.Category,
		Priority:        req.Priority,
		Status:          req.Status,
		Sensitivity:     req.Sensitivity,
		Symptoms:        req.Symptoms,
		ImpactedService: req.ImpactedService,
		QuickNotes:      req.QuickNotes,
		Description:     req.Description,
		AffectedUsers:   req.AffectedUsers,
		IsOutage:        req.IsOutage,
		Tags:            req.Tags,
		PillarIDs:       req.PillarIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// SaveResolution PUT /api/tickets/:id/resolution.
func (h *TicketsHandler) SaveResolution(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.ResolutionRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.service.SaveResolution(c.UserContext(), session, c.Params("id"), service.ResolutionInput{
		Summary:          req.Summary,
		RootCause:        req.RootCause,
		FixApplied:       req.FixApplied,
		ValidationSteps:  req.ValidationSteps,
		Prevention:       req.Prevention,
		TimeSpentMinutes: req.TimeSpentMinutes,
		Collaborators:    req.Collaborators,
		HandoffNotes:     req.HandoffNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resolutionResponse(res)})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// ClientsHandler manages customers.
type ClientsHandler struct {
	service *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{service: clientService}
}

// ListClients GET /api/clients.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.service.ListClients(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateClient POST /api/clients.
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	client, err := h.service.CreateClient(c.UserContext(), clientInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": clientResponse(client)})
}

// UpdateClient PATCH /api/clients/:id.
func (h *ClientsHandler) UpdateClient(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	client, err := h.service.UpdateClient(c.UserContext(), c.Params("id"), clientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		Name:     req.Name,
		Acronym:  req.Acronym,
		Notes:    req.Notes,
		EnvType:  req.EnvType,
		EnvTags:  req.EnvTags,
		IsActive: req.IsActive,
	}
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// PillarsHandler serves technology pillars.
type PillarsHandler struct {
	service *service.PillarService
}

func NewPillarsHandler(pillarService *service.PillarService) *PillarsHandler {
	return &PillarsHandler{service: pillarService}
}

// ListPillars GET /api/pillars?all=true includes retired pillars.
func (h *PillarsHandler) ListPillars(c *fiber.Ctx) error {
	pillars, err := h.service.ListPillars(c.UserContext(), c.QueryBool("all", false))
	if err != nil {
		return err
	}
	out := make([]dto.PillarResponse, 0, len(pillars))
	for i := range pillars {
		out = append(out, pillarResponse(&pillars[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// CreatePillar POST /api/pillars.
func (h *PillarsHandler) CreatePillar(c *fiber.Ctx) error {
	var req dto.PillarRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	pillar, err := h.service.CreatePillar(c.UserContext(), pillarInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": pillarResponse(pillar)})
}

// UpdatePillar PATCH /api/pillars/:id.
func (h *PillarsHandler) UpdatePillar(c *fiber.Ctx) error {
	var req dto.PillarRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	pillar, err := h.service.UpdatePillar(c.UserContext(), c.Params("id"), pillarInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pillarResponse(pillar)})
}

func pillarInput(req dto.PillarRequest) service.PillarInput {
	return service.PillarInput{Name: req.Name, Color: req.Color, SortOrder: req.SortOrder, IsActive: req.IsActive}
}

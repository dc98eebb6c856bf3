package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// TasksHandler manages follow-up tasks.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// ListTasks GET /api/tasks.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.service.ListTasks(c.UserContext(), repository.TaskFilter{
		Status:   typedQuery[domain.TaskStatus](c, "status"),
		ClientID: optionalQuery(c, "clientId"),
		TicketID: optionalQuery(c, "ticketId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks)})
}

// CreateTask POST /api/tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.CreateTask(c.UserContext(), session, service.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
		TicketID:    req.TicketID,
		ClientID:    req.ClientID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// UpdateTask PATCH /api/tasks/:id.
func (h *TasksHandler) UpdateTask(c *fiber.Ctx) error {
	var req dto.UpdateTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.UpdateTask(c.UserContext(), c.Params("id"), service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// DeleteTask DELETE /api/tasks/:id.
func (h *TasksHandler) DeleteTask(c *fiber.Ctx) error {
	if err := h.service.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

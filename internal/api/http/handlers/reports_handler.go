package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/service"
)

// ReportsHandler serves reports and the dashboard summary.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Report GET /api/reports?startDate&endDate.
func (h *ReportsHandler) Report(c *fiber.Ctx) error {
	start, err := parseDate("startDate", c.Query("startDate"))
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", c.Query("endDate"))
	if err != nil {
		return err
	}
	report, err := h.service.PeriodReport(c.UserContext(), start, end)
	if err != nil {
		return err
	}

	rows := make([]dto.ReportTicketResponse, 0, len(report.Tickets))
	for _, row := range report.Tickets {
		pillars := row.Pillars
		if pillars == nil {
			pillars = []string{}
		}
		rows = append(rows, dto.ReportTicketResponse{
			ID:               row.ID,
			Title:            row.Title,
			ClientAcronym:    row.ClientAcronym,
			Priority:         row.Priority,
			Status:           row.Status,
			CreatedAt:        row.CreatedAt,
			TimeSpentMinutes: row.TimeSpentMinutes,
			Pillars:          pillars,
		})
	}
	sum := report.Summary
	return c.JSON(fiber.Map{"data": dto.ReportResponse{
		Period: dto.PeriodResponse{Start: report.Start, End: report.End},
		Summary: dto.ReportSummaryResponse{
			TotalTickets:      sum.TotalTickets,
			ResolvedTickets:   sum.ResolvedTickets,
			OpenTickets:       sum.OpenTickets,
			TotalTimeMinutes:  sum.TotalTimeMinutes,
			TotalTasks:        sum.TotalTasks,
			CompletedTasks:    sum.CompletedTasks,
			KBArticlesCreated: sum.KBArticlesCreated,
		},
		ByClient:   report.ByClient,
		ByPriority: report.ByPriority,
		ByPillar:   report.ByPillar,
		Tickets:    rows,
		KBArticles: kbArticleRefs(report.KBArticles),
	}})
}

// Dashboard GET /api/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		OpenTickets:  dash.OpenTickets,
		StatusCounts: dash.StatusCounts,
		DueTasks:     taskResponses(dash.DueTasks),
	}})
}

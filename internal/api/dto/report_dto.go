package dto

import (
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// ReportResponse is a period report.
type ReportResponse struct {
	Period     PeriodResponse                `json:"period"`
	Summary    ReportSummaryResponse         `json:"summary"`
	ByClient   map[string]int                `json:"byClient"`
	ByPriority map[domain.TicketPriority]int `json:"byPriority"`
	ByPillar   map[string]int                `json:"byPillar"`
	Tickets    []ReportTicketResponse        `json:"tickets"`
	KBArticles []KBArticleRefResponse        `json:"kbArticles"`
}

// ReportSummaryResponse aggregates a period.
type ReportSummaryResponse struct {
	TotalTickets      int `json:"totalTickets"`
	ResolvedTickets   int `json:"resolvedTickets"`
	OpenTickets       int `json:"openTickets"`
	TotalTimeMinutes  int `json:"totalTimeMinutes"`
	TotalTasks        int `json:"totalTasks"`
	CompletedTasks    int `json:"completedTasks"`
	KBArticlesCreated int `json:"kbArticlesCreated"`
}

// PeriodResponse bounds a report.
type PeriodResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportTicketResponse is a ticket row in a report.
type ReportTicketResponse struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	ClientAcronym    string                `json:"clientAcronym"`
	Priority         domain.TicketPriority `json:"priority"`
	Status           domain.TicketStatus   `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
	TimeSpentMinutes int                   `json:"timeSpentMinutes"`
	Pillars          []string              `json:"pillars"`
}

// DashboardResponse is the landing summary.
type DashboardResponse struct {
	OpenTickets  int                         `json:"openTickets"`
	StatusCounts map[domain.TicketStatus]int `json:"statusCounts"`
	DueTasks     []TaskResponse              `json:"dueTasks"`
}

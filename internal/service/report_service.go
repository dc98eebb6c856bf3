package service

import (
	"context"
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

const (
	defaultReportWindow = 7 * 24 * time.Hour
	dueSoonWindow       = 2 * 24 * time.Hour
)

// ReportService computes period reports and the dashboard summary.
type ReportService struct {
	tickets repository.TicketRepository
	tasks   repository.TaskRepository
	kb      repository.KBRepository
	now     func() time.Time
}

// ReportSummary aggregates a period.
type ReportSummary struct {
	TotalTickets      int
	ResolvedTickets   int
	OpenTickets       int
	TotalTimeMinutes  int
	TotalTasks        int
	CompletedTasks    int
	KBArticlesCreated int
}

// Report is a period report.
type Report struct {
	Start      time.Time
	End        time.Time
	Summary    ReportSummary
	ByClient   map[string]int
	ByPriority map[domain.TicketPriority]int
	ByPillar   map[string]int
	Tickets    []repository.ReportRow
	KBArticles []domain.KBArticleRef
}

// Dashboard is the landing page summary.
type Dashboard struct {
	OpenTickets  int
	StatusCounts map[domain.TicketStatus]int
	DueTasks     []domain.Task
}

// NewReportService constructs the service. kb may be nil, in which case
// reports count no articles.
func NewReportService(tickets repository.TicketRepository, tasks repository.TaskRepository, kb repository.KBRepository, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{tickets: tickets, tasks: tasks, kb: kb, now: now}
}

// PeriodReport summarises tickets created and tasks touched between start
// and end. Nil bounds default to the last seven days.
func (s *ReportService) PeriodReport(ctx context.Context, start, end *time.Time) (*Report, error) {
	to := s.now()
	if end != nil {
		to = *end
	}
	from := to.Add(-defaultReportWindow)
	if start != nil {
		from = *start
	}
	if from.After(to) {
		return nil, errorutil.NewValidationError("startDate must not be after endDate", map[string]any{"startDate": "ltefield=endDate"})
	}

	rows, err := s.tickets.ListForReport(ctx, from, to)
	if err != nil {
		return nil, err
	}
	taskCounts, err := s.tasks.CountForPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	articles := []domain.KBArticleRef{}
	if s.kb != nil {
		if articles, err = s.kb.ListCreated(ctx, from, to); err != nil {
			return nil, err
		}
	}

	report := &Report{
		Start:      from,
		End:        to,
		ByClient:   map[string]int{},
		ByPriority: map[domain.TicketPriority]int{},
		ByPillar:   map[string]int{},
		Tickets:    rows,
		KBArticles: articles,
	}
	for _, row := range rows {
		report.Summary.TotalTickets++
		if row.Status == domain.TicketStatusResolved || row.Status == domain.TicketStatusClosed {
			report.Summary.ResolvedTickets++
		}
		report.Summary.TotalTimeMinutes += row.TimeSpentMinutes
		report.ByClient[row.ClientAcronym]++
		report.ByPriority[row.Priority]++
		for _, pillar := range row.Pillars {
			report.ByPillar[pillar]++
		}
	}
	report.Summary.OpenTickets = report.Summary.TotalTickets - report.Summary.ResolvedTickets
	report.Summary.TotalTasks = taskCounts.Total
	report.Summary.CompletedTasks = taskCounts.Completed
	report.Summary.KBArticlesCreated = len(articles)
	return report, nil
}

// Dashboard returns open ticket counts and tasks due within two days.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	dueBefore := s.now().Add(dueSoonWindow)
	due, err := s.tasks.List(ctx, repository.TaskFilter{DueBefore: &dueBefore, OpenOnly: true})
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{StatusCounts: counts, DueTasks: due}
	for status, n := range counts {
		if (&domain.Ticket{Status: status}).IsActive() {
			dash.OpenTickets += n
		}
	}
	return dash, nil
}

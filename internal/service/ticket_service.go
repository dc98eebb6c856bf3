package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/events"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	clients     repository.ClientRepository
	resolutions repository.ResolutionRepository
	tasks       repository.TaskRepository
	pillars     repository.PillarRepository
	articles    repository.KBRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	ClientRepo     repository.ClientRepository
	ResolutionRepo repository.ResolutionRepository
	TaskRepo       repository.TaskRepository
	// PillarRepo and KBRepo are optional; without them tickets carry no
	// pillars or linked articles.
	PillarRepo repository.PillarRepository
	KBRepo     repository.KBRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	ExternalID      *string
	Title           string
	ClientID        string
	Category        domain.TicketCategory
	Priority        domain.TicketPriority
	Sensitivity     domain.Sensitivity
	Symptoms        *string
	ImpactedService *string
	QuickNotes      *string
	Description     *string
	AffectedUsers   *int
	IsOutage        bool
	Tags            []string
	PillarIDs       []string
}

// TicketUpdateInput carries a partial update; nil fields are left alone.
type TicketUpdateInput struct {
	ExternalID      *string
	Title           *string
	ClientID        *string
	Category        *domain.TicketCategory
	Priority        *domain.TicketPriority
	Status          *domain.TicketStatus
	Sensitivity     *domain.Sensitivity
	Symptoms        *string
	ImpactedService *string
	QuickNotes      *string
	Description     *string
	AffectedUsers   *int
	IsOutage        *bool
	Tags            []string
	PillarIDs       []string
}

// TicketListInput describes list filters and paging. Page is 1-based.
type TicketListInput struct {
	ClientID *string
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Category *domain.TicketCategory
	Search   *string
	Page     int
	Limit    int
}

// TicketPage is one page of a ticket listing.
type TicketPage struct {
	Tickets []domain.TicketListItem
	Total   int
	Page    int
	Limit   int
}

// TicketDetail is a ticket with its relations.
type TicketDetail struct {
	Ticket     *domain.Ticket
	Client     *domain.Client
	Resolution *domain.Resolution
	Tasks      []domain.Task
	KBArticles []domain.KBArticleRef
}

// ResolutionInput describes how a ticket was resolved.
type ResolutionInput struct {
	Summary          string
	RootCause        *string
	FixApplied       *string
	ValidationSteps  *string
	Prevention       *string
	TimeSpentMinutes *int
	Collaborators    *string
	HandoffNotes     *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		clients:     deps.ClientRepo,
		resolutions: deps.ResolutionRepo,
		tasks:       deps.TaskRepo,
		pillars:     deps.PillarRepo,
		articles:    deps.KBRepo,
		dispatcher:  deps.Dispatcher,
		logger:      orNop(deps.Logger),
		now:         now,
	}
}

// ListTickets returns one page of tickets, newest first.
func (s *TicketService) ListTickets(ctx context.Context, input TicketListInput) (*TicketPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repository.TicketFilter{
		ClientID:   input.ClientID,
		Status:     input.Status,
		Priority:   input.Priority,
		Category:   input.Category,
		SearchTerm: input.Search,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.pillars != nil {
		ids := make([]string, len(tickets))
		for i := range tickets {
			ids[i] = tickets[i].ID
		}
		refs, err := s.pillars.RefsFor(ctx, domain.PillarOwnerTicket, ids)
		if err != nil {
			return nil, err
		}
		for i := range tickets {
			tickets[i].Pillars = pillarsOrEmpty(refs[tickets[i].ID])
		}
	}
	return &TicketPage{Tickets: tickets, Total: total, Page: page, Limit: limit}, nil
}

// CreateTicket opens a ticket owned by the acting engineer. Detection time is
// the moment of capture.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.Session, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errorutil.NewValidationError("title is required", map[string]any{"title": "required"})
	}
	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		if errorutil.IsNotFound(err) {
			return nil, errorutil.NewValidationError("unknown client", map[string]any{"clientId": "not found"})
		}
		return nil, err
	}
	refs, pillarIDs, err := s.resolveTicketPillars(ctx, input.PillarIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ticket := &domain.Ticket{
		ExternalID:      trimmedOrNil(input.ExternalID),
		Title:           title,
		ClientID:        input.ClientID,
		UserID:          actor.UserID,
		Category:        input.Category,
		Priority:        input.Priority,
		Status:          domain.TicketStatusOpen,
		Sensitivity:     input.Sensitivity,
		Symptoms:        input.Symptoms,
		ImpactedService: input.ImpactedService,
		QuickNotes:      input.QuickNotes,
		Description:     input.Description,
		AffectedUsers:   input.AffectedUsers,
		IsOutage:        input.IsOutage,
		Tags:            normalizeTags(input.Tags),
		DetectedAt:      &now,
	}
	if ticket.Sensitivity == "" {
		ticket.Sensitivity = domain.SensitivityInternal
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	if len(pillarIDs) > 0 {
		if err := s.pillars.Assign(ctx, domain.PillarOwnerTicket, ticket.ID, pillarIDs); err != nil {
			return nil, err
		}
	}
	ticket.Pillars = refs
	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketCreated, ticket.ID, actor.UserID,
		events.TicketCreatedPayload{
			ClientID: ticket.ClientID,
			Priority: ticket.Priority,
			Title:    ticket.Title,
			IsOutage: ticket.IsOutage,
		}))
	return ticket, nil
}

// GetTicket loads a ticket with its client, resolution and tasks.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "ticket")
	}
	client, err := s.clients.GetByID(ctx, ticket.ClientID)
	if err != nil {
		return nil, err
	}
	detail := &TicketDetail{Ticket: ticket, Client: client}

	res, err := s.resolutions.GetByTicketID(ctx, id)
	switch {
	case err == nil:
		detail.Resolution = res
	case !errorutil.IsNotFound(err):
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, repository.TaskFilter{TicketID: &ticket.ID})
	if err != nil {
		return nil, err
	}
	detail.Tasks = tasks

	if s.pillars != nil {
		refs, err := s.pillars.RefsFor(ctx, domain.PillarOwnerTicket, []string{ticket.ID})
		if err != nil {
			return nil, err
		}
		ticket.Pillars = pillarsOrEmpty(refs[ticket.ID])
	}
	detail.KBArticles = []domain.KBArticleRef{}
	if s.articles != nil {
		if detail.KBArticles, err = s.articles.ListByTicket(ctx, ticket.ID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// UpdateTicket applies a partial update. A status change stamps the matching
// lifecycle timestamp.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.Session, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "ticket")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errorutil.NewValidationError("title is required", map[string]any{"title": "required"})
		}
		ticket.Title = title
	}
	if input.ClientID != nil && *input.ClientID != ticket.ClientID {
		if _, err := s.clients.GetByID(ctx, *input.ClientID); err != nil {
			if errorutil.IsNotFound(err) {
				return nil, errorutil.NewValidationError("unknown client", map[string]any{"clientId": "not found"})
			}
			return nil, err
		}
		ticket.ClientID = *input.ClientID
	}
	if input.ExternalID != nil {
		ticket.ExternalID = trimmedOrNil(input.ExternalID)
	}
	if input.Category != nil {
		ticket.Category = *input.Category
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.Sensitivity != nil {
		ticket.Sensitivity = *input.Sensitivity
	}
	if input.Symptoms != nil {
		ticket.Symptoms = input.Symptoms
	}
	if input.ImpactedService != nil {
		ticket.ImpactedService = input.ImpactedService
	}
	if input.QuickNotes != nil {
		ticket.QuickNotes = input.QuickNotes
	}
	if input.Description != nil {
		ticket.Description = input.Description
	}
	if input.AffectedUsers != nil {
		ticket.AffectedUsers = input.AffectedUsers
	}
	if input.IsOutage != nil {
		ticket.IsOutage = *input.IsOutage
	}
	if input.Tags != nil {
		ticket.Tags = normalizeTags(input.Tags)
	}
	var (
		refs      []domain.PillarRef
		pillarIDs []string
	)
	if input.PillarIDs != nil {
		if refs, pillarIDs, err = s.resolveTicketPillars(ctx, input.PillarIDs); err != nil {
			return nil, err
		}
	}

	oldStatus := ticket.Status
	statusChanged := input.Status != nil && *input.Status != oldStatus
	if statusChanged {
		ticket.Status = *input.Status
		ticket.StampStatus(ticket.Status, s.now())
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, notFoundAs(err, "ticket")
	}
	if input.PillarIDs != nil && s.pillars != nil {
		if err := s.pillars.Assign(ctx, domain.PillarOwnerTicket, ticket.ID, pillarIDs); err != nil {
			return nil, err
		}
		ticket.Pillars = refs
	}
	if statusChanged {
		publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketStatusChanged, ticket.ID, actor.UserID,
			events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: ticket.Status}))
	}
	return ticket, nil
}

// DeleteTicket removes a ticket with its resolution and tasks.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	return notFoundAs(s.tickets.Delete(ctx, id), "ticket")
}

// SaveResolution creates or replaces the ticket's resolution.
func (s *TicketService) SaveResolution(ctx context.Context, actor *domain.Session, ticketID string, input ResolutionInput) (*domain.Resolution, error) {
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		return nil, errorutil.NewValidationError("summary is required", map[string]any{"summary": "required"})
	}
	if input.TimeSpentMinutes != nil && *input.TimeSpentMinutes < 0 {
		return nil, errorutil.NewValidationError("timeSpentMinutes must not be negative", map[string]any{"timeSpentMinutes": "gte=0"})
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, notFoundAs(err, "ticket")
	}

	res := &domain.Resolution{
		TicketID:         ticketID,
		Summary:          summary,
		RootCause:        input.RootCause,
		FixApplied:       input.FixApplied,
		ValidationSteps:  input.ValidationSteps,
		Prevention:       input.Prevention,
		TimeSpentMinutes: input.TimeSpentMinutes,
		Collaborators:    input.Collaborators,
		HandoffNotes:     input.HandoffNotes,
	}
	if err := s.resolutions.Upsert(ctx, res); err != nil {
		return nil, err
	}

	minutes := 0
	if res.TimeSpentMinutes != nil {
		minutes = *res.TimeSpentMinutes
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketResolved, ticketID, actor.UserID,
		events.TicketResolutionSavedPayload{TimeSpentMinutes: minutes}))
	return res, nil
}

// resolveTicketPillars validates requested pillars. Without a pillar store
// any non-empty request is rejected.
func (s *TicketService) resolveTicketPillars(ctx context.Context, ids []string) ([]domain.PillarRef, []string, error) {
	if s.pillars == nil {
		if len(ids) > 0 {
			return nil, nil, errorutil.NewValidationError("unknown pillar", map[string]any{"pillarIds": "not found"})
		}
		return []domain.PillarRef{}, nil, nil
	}
	return resolvePillars(ctx, s.pillars, ids)
}

// notFoundAs names the missing resource in NOT_FOUND errors and passes other
// errors through.
func notFoundAs(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errorutil.IsNotFound(err) {
		return errorutil.NewNotFound(resource, nil)
	}
	return err
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

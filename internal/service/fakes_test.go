package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/events"
	"github.com/spec-kit/msp-dashboard/internal/repository"
)

type idSeq struct {
	mu sync.Mutex
	n  int
}

func (s *idSeq) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

type fakeTickets struct {
	ids         idSeq
	items       map[string]*domain.Ticket
	clients     *fakeClients
	users       map[string]domain.User
	resolutions *fakeResolutions
	tasks       *fakeTasks
	pillars     *fakePillars
	graphReads  int
}

func newFakeTickets(clients *fakeClients, resolutions *fakeResolutions, tasks *fakeTasks) *fakeTickets {
	return &fakeTickets{
		items:       map[string]*domain.Ticket{},
		clients:     clients,
		users:       map[string]domain.User{},
		resolutions: resolutions,
		tasks:       tasks,
	}
}

func (f *fakeTickets) Create(_ context.Context, t *domain.Ticket) error {
	t.ID = f.ids.next("ticket")
	t.CreatedAt = time.Now()
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTickets) Update(_ context.Context, t *domain.Ticket) error {
	if _, ok := f.items[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTickets) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTickets) GetExportGraph(ctx context.Context, id string) (*domain.TicketGraph, error) {
	f.graphReads++
	t, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	graph := &domain.TicketGraph{Ticket: *t, User: f.users[t.UserID]}
	if c, ok := f.clients.items[t.ClientID]; ok {
		graph.Client = *c
	}
	if r, ok := f.resolutions.items[id]; ok {
		cp := *r
		graph.Resolution = &cp
	}
	tasks, _ := f.tasks.List(ctx, repository.TaskFilter{TicketID: &id})
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	graph.Tasks = tasks
	return graph, nil
}

func (f *fakeTickets) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.TicketListItem, error) {
	var out []domain.TicketListItem
	for _, t := range f.items {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, domain.TicketListItem{Ticket: *t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset >= len(out) {
		return []domain.TicketListItem{}, nil
	}
	out = out[filter.Offset:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeTickets) Count(_ context.Context, filter repository.TicketFilter) (int, error) {
	n := 0
	for _, t := range f.items {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeTickets) CountByStatus(_ context.Context) (map[domain.TicketStatus]int, error) {
	counts := map[domain.TicketStatus]int{}
	for _, t := range f.items {
		counts[t.Status]++
	}
	return counts, nil
}

func (f *fakeTickets) ListForReport(_ context.Context, from, to time.Time) ([]repository.ReportRow, error) {
	var rows []repository.ReportRow
	for _, t := range f.items {
		if t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		row := repository.ReportRow{ID: t.ID, Title: t.Title, Priority: t.Priority, Status: t.Status, CreatedAt: t.CreatedAt}
		if c, ok := f.clients.items[t.ClientID]; ok {
			row.ClientAcronym = c.Acronym
		}
		if r, ok := f.resolutions.items[t.ID]; ok && r.TimeSpentMinutes != nil {
			row.TimeSpentMinutes = *r.TimeSpentMinutes
		}
		if f.pillars != nil {
			for _, id := range f.pillars.links[domain.PillarOwnerTicket][t.ID] {
				row.Pillars = append(row.Pillars, f.pillars.items[id].Name)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type fakeClients struct {
	ids   idSeq
	items map[string]*domain.Client
}

func newFakeClients() *fakeClients { return &fakeClients{items: map[string]*domain.Client{}} }

func (f *fakeClients) Create(_ context.Context, c *domain.Client) error {
	c.ID = f.ids.next("client")
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeClients) Update(_ context.Context, c *domain.Client) error {
	if _, ok := f.items[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeClients) GetByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClients) ListActive(_ context.Context) ([]domain.Client, error) {
	var out []domain.Client
	for _, c := range f.items {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeResolutions struct {
	items map[string]*domain.Resolution
}

func newFakeResolutions() *fakeResolutions {
	return &fakeResolutions{items: map[string]*domain.Resolution{}}
}

func (f *fakeResolutions) Upsert(_ context.Context, r *domain.Resolution) error {
	cp := *r
	f.items[r.TicketID] = &cp
	return nil
}

func (f *fakeResolutions) GetByTicketID(_ context.Context, id string) (*domain.Resolution, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

type fakeTasks struct {
	ids   idSeq
	items map[string]*domain.Task
	clock time.Time
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{items: map[string]*domain.Task{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeTasks) Create(_ context.Context, t *domain.Task) error {
	t.ID = f.ids.next("task")
	f.clock = f.clock.Add(time.Minute)
	t.CreatedAt = f.clock
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTasks) Update(_ context.Context, t *domain.Task) error {
	if _, ok := f.items[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeTasks) GetByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTasks) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	out := []domain.Task{}
	for _, t := range f.items {
		if filter.TicketID != nil && (t.TicketID == nil || *t.TicketID != *filter.TicketID) {
			continue
		}
		if filter.OpenOnly && t.Done() {
			continue
		}
		if filter.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*filter.DueBefore)) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTasks) CountForPeriod(_ context.Context, from, to time.Time) (repository.TaskCounts, error) {
	var counts repository.TaskCounts
	for _, t := range f.items {
		counts.Total++
		if t.Done() {
			counts.Completed++
		}
	}
	return counts, nil
}

type fakeTemplates struct {
	ids          idSeq
	items        map[string]*domain.ExportTemplate
	defaultReads int
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{items: map[string]*domain.ExportTemplate{}}
}

func (f *fakeTemplates) demote(tpl *domain.ExportTemplate) {
	if !tpl.IsDefault {
		return
	}
	for _, other := range f.items {
		if other.Type == tpl.Type && other.ID != tpl.ID {
			other.IsDefault = false
		}
	}
}

func (f *fakeTemplates) Create(_ context.Context, tpl *domain.ExportTemplate) error {
	tpl.ID = f.ids.next("tpl")
	f.demote(tpl)
	cp := *tpl
	f.items[tpl.ID] = &cp
	return nil
}

func (f *fakeTemplates) Update(_ context.Context, tpl *domain.ExportTemplate) error {
	if _, ok := f.items[tpl.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.demote(tpl)
	cp := *tpl
	f.items[tpl.ID] = &cp
	return nil
}

func (f *fakeTemplates) GetByID(_ context.Context, id string) (*domain.ExportTemplate, error) {
	tpl, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *tpl
	return &cp, nil
}

func (f *fakeTemplates) GetDefaultByType(_ context.Context, templateType string) (*domain.ExportTemplate, error) {
	f.defaultReads++
	for _, tpl := range f.items {
		if tpl.Type == templateType && tpl.IsDefault {
			cp := *tpl
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTemplates) List(_ context.Context) ([]domain.ExportTemplate, error) {
	var out []domain.ExportTemplate
	for _, tpl := range f.items {
		out = append(out, *tpl)
	}
	return out, nil
}

func (f *fakeTemplates) Count(_ context.Context) (int, error) {
	return len(f.items), nil
}

type fakeUsers struct {
	ids   idSeq
	items map[string]*domain.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{items: map[string]*domain.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	u.ID = f.ids.next("user")
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	if _, ok := f.items[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakePillars struct {
	ids   idSeq
	items map[string]*domain.Pillar
	links map[domain.PillarOwner]map[string][]string
}

func newFakePillars() *fakePillars {
	return &fakePillars{items: map[string]*domain.Pillar{}, links: map[domain.PillarOwner]map[string][]string{}}
}

func (f *fakePillars) Create(_ context.Context, p *domain.Pillar) error {
	p.ID = f.ids.next("pillar")
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePillars) Update(_ context.Context, p *domain.Pillar) error {
	if _, ok := f.items[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePillars) GetByID(_ context.Context, id string) (*domain.Pillar, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePillars) List(_ context.Context, includeInactive bool) ([]domain.Pillar, error) {
	out := []domain.Pillar{}
	for _, p := range f.items {
		if p.IsActive || includeInactive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakePillars) Resolve(_ context.Context, ids []string) ([]domain.PillarRef, error) {
	out := []domain.PillarRef{}
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out = append(out, p.Ref())
		}
	}
	return out, nil
}

func (f *fakePillars) RefsFor(_ context.Context, owner domain.PillarOwner, ownerIDs []string) (map[string][]domain.PillarRef, error) {
	out := map[string][]domain.PillarRef{}
	for _, ownerID := range ownerIDs {
		for _, id := range f.links[owner][ownerID] {
			out[ownerID] = append(out[ownerID], f.items[id].Ref())
		}
	}
	return out, nil
}

func (f *fakePillars) Assign(_ context.Context, owner domain.PillarOwner, ownerID string, pillarIDs []string) error {
	if f.links[owner] == nil {
		f.links[owner] = map[string][]string{}
	}
	f.links[owner][ownerID] = append([]string(nil), pillarIDs...)
	return nil
}

type fakeKB struct {
	ids   idSeq
	items map[string]*domain.KBArticleListItem
	now   time.Time
}

func newFakeKB(now time.Time) *fakeKB {
	return &fakeKB{items: map[string]*domain.KBArticleListItem{}, now: now}
}

func (f *fakeKB) Create(_ context.Context, a *domain.KBArticle) error {
	a.ID = f.ids.next("kb")
	a.CreatedAt = f.now
	a.UpdatedAt = f.now
	f.items[a.ID] = &domain.KBArticleListItem{KBArticle: *a}
	return nil
}

func (f *fakeKB) Update(_ context.Context, a *domain.KBArticle) error {
	item, ok := f.items[a.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	item.KBArticle = *a
	return nil
}

func (f *fakeKB) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeKB) GetByID(_ context.Context, id string) (*domain.KBArticleListItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (f *fakeKB) List(_ context.Context, filter repository.KBFilter) ([]domain.KBArticleListItem, error) {
	out := []domain.KBArticleListItem{}
	for _, item := range f.items {
		if filter.Tag != nil && !slices.Contains(item.Tags, *filter.Tag) {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeKB) ListByTicket(_ context.Context, ticketID string) ([]domain.KBArticleRef, error) {
	out := []domain.KBArticleRef{}
	for _, item := range f.items {
		if item.TicketID != nil && *item.TicketID == ticketID {
			out = append(out, domain.KBArticleRef{ID: item.ID, Title: item.Title, CreatedAt: item.CreatedAt})
		}
	}
	return out, nil
}

func (f *fakeKB) ListCreated(_ context.Context, from, to time.Time) ([]domain.KBArticleRef, error) {
	out := []domain.KBArticleRef{}
	for _, item := range f.items {
		if item.CreatedAt.Before(from) || item.CreatedAt.After(to) {
			continue
		}
		out = append(out, domain.KBArticleRef{ID: item.ID, Title: item.Title, CreatedAt: item.CreatedAt})
	}
	return out, nil
}

type fakeSnippets struct {
	ids   idSeq
	items map[string]*domain.Snippet
}

func newFakeSnippets() *fakeSnippets { return &fakeSnippets{items: map[string]*domain.Snippet{}} }

func (f *fakeSnippets) Create(_ context.Context, s *domain.Snippet) error {
	s.ID = f.ids.next("snippet")
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeSnippets) Update(_ context.Context, s *domain.Snippet) error {
	if _, ok := f.items[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeSnippets) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeSnippets) GetByID(_ context.Context, id string) (*domain.Snippet, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSnippets) List(_ context.Context, filter repository.SnippetFilter) ([]domain.Snippet, error) {
	out := []domain.Snippet{}
	for _, s := range f.items {
		if filter.Language != nil && s.Language != *filter.Language {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

var (
	_ repository.TicketRepository     = (*fakeTickets)(nil)
	_ repository.ClientRepository     = (*fakeClients)(nil)
	_ repository.ResolutionRepository = (*fakeResolutions)(nil)
	_ repository.TaskRepository       = (*fakeTasks)(nil)
	_ repository.TemplateRepository   = (*fakeTemplates)(nil)
	_ repository.UserRepository       = (*fakeUsers)(nil)
	_ repository.PillarRepository     = (*fakePillars)(nil)
	_ repository.KBRepository         = (*fakeKB)(nil)
	_ repository.SnippetRepository    = (*fakeSnippets)(nil)
)

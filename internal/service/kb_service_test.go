package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

type kbFixture struct {
	svc      *KBService
	kb       *fakeKB
	pillars  *fakePillars
	tickets  *fakeTickets
	clientID string
	actor    *domain.Session
}

func newKBFixture(t *testing.T) *kbFixture {
	t.Helper()
	clients := newFakeClients()
	tasks := newFakeTasks()
	f := &kbFixture{
		kb:      newFakeKB(time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)),
		pillars: newFakePillars(),
		tickets: newFakeTickets(clients, newFakeResolutions(), tasks),
		actor:   &domain.Session{UserID: "user-1", Role: domain.UserRoleEngineer},
	}
	client := &domain.Client{Name: "Fabrikam", Acronym: "FAB", IsActive: true}
	require.NoError(t, clients.Create(context.Background(), client))
	f.clientID = client.ID
	f.svc = NewKBService(KBDependencies{
		KBRepo:     f.kb,
		PillarRepo: f.pillars,
		TicketRepo: f.tickets,
		ClientRepo: clients,
	})
	return f
}

func TestCreateArticle(t *testing.T) {
	f := newKBFixture(t)
	ctx := context.Background()
	network := &domain.Pillar{Name: "Networking", IsActive: true}
	require.NoError(t, f.pillars.Create(ctx, network))
	ticket := &domain.Ticket{Title: "Site-to-site tunnel flaps", ClientID: f.clientID}
	require.NoError(t, f.tickets.Create(ctx, ticket))

	article, err := f.svc.CreateArticle(ctx, f.actor, KBCreateInput{
		Title:      " IPsec rekey mismatch ",
		Problem:    "Tunnel drops every 8 hours",
		Resolution: "Align phase 2 lifetimes",
		TicketID:   &ticket.ID,
		ClientID:   ptrTo(" "),
		Tags:       []string{"VPN", "vpn", "Firewall"},
		PillarIDs:  []string{network.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "IPsec rekey mismatch", article.Title)
	assert.Equal(t, domain.SensitivityInternal, article.Sensitivity)
	assert.Equal(t, "user-1", article.UserID)
	assert.Equal(t, []string{"vpn", "firewall"}, article.Tags)
	assert.Nil(t, article.ClientID)
	assert.Equal(t, []domain.PillarRef{network.Ref()}, article.Pillars)

	detail, err := f.svc.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.PillarRef{network.Ref()}, detail.Pillars)
	require.NotNil(t, detail.TicketID)
	assert.Equal(t, ticket.ID, *detail.TicketID)
}

func TestCreateArticleValidation(t *testing.T) {
	f := newKBFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateArticle(ctx, f.actor, KBCreateInput{Title: "t", Problem: " "})
	de := errorutil.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, map[string]any{"problem": "required", "resolution": "required"}, de.Details)

	_, err = f.svc.CreateArticle(ctx, f.actor, KBCreateInput{Title: "t", Problem: "p", Resolution: "r", TicketID: ptrTo("ticket-404")})
	assert.Equal(t, "not found", errorutil.ToDomainError(err).Details["ticketId"])

	_, err = f.svc.CreateArticle(ctx, f.actor, KBCreateInput{Title: "t", Problem: "p", Resolution: "r", PillarIDs: []string{"pillar-404"}})
	assert.Equal(t, "not found", errorutil.ToDomainError(err).Details["pillarIds"])
	assert.Empty(t, f.kb.items)
}

func TestUpdateArticle(t *testing.T) {
	f := newKBFixture(t)
	ctx := context.Background()
	cloud := &domain.Pillar{Name: "Cloud", IsActive: true}
	require.NoError(t, f.pillars.Create(ctx, cloud))

	article, err := f.svc.CreateArticle(ctx, f.actor, KBCreateInput{
		Title: "t", Problem: "p", Resolution: "r", ClientID: &f.clientID, PillarIDs: []string{cloud.ID},
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateArticle(ctx, article.ID, KBUpdateInput{
		Sensitivity: ptrTo(domain.SensitivityClientShareable),
		Tags:        []string{"Azure"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SensitivityClientShareable, updated.Sensitivity)
	assert.Equal(t, []string{"azure"}, updated.Tags)
	assert.Equal(t, []domain.PillarRef{cloud.Ref()}, updated.Pillars)
	require.NotNil(t, updated.ClientID)

	updated, err = f.svc.UpdateArticle(ctx, article.ID, KBUpdateInput{PillarIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Pillars)

	_, err = f.svc.UpdateArticle(ctx, article.ID, KBUpdateInput{Resolution: ptrTo("")})
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)

	_, err = f.svc.UpdateArticle(ctx, "kb-404", KBUpdateInput{})
	assert.Equal(t, "kb article not found", errorutil.ToDomainError(err).Message)
}

func TestListAndDeleteArticles(t *testing.T) {
	f := newKBFixture(t)
	ctx := context.Background()
	for _, tag := range []string{"dns", "dhcp"} {
		_, err := f.svc.CreateArticle(ctx, f.actor, KBCreateInput{Title: tag, Problem: "p", Resolution: "r", Tags: []string{tag}})
		require.NoError(t, err)
	}

	items, err := f.svc.ListArticles(ctx, repository.KBFilter{Tag: ptrTo("dns")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "dns", items[0].Title)
	assert.NotNil(t, items[0].Pillars)

	require.NoError(t, f.svc.DeleteArticle(ctx, items[0].ID))
	assert.True(t, errorutil.IsNotFound(f.svc.DeleteArticle(ctx, items[0].ID)))
}

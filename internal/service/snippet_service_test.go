package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

func TestSnippetLifecycle(t *testing.T) {
	ctx := context.Background()
	pillars := newFakePillars()
	snippets := newFakeSnippets()
	svc := NewSnippetService(snippets, pillars)
	actor := &domain.Session{UserID: "user-7"}
	identity := &domain.Pillar{Name: "Identity", IsActive: true}
	require.NoError(t, pillars.Create(ctx, identity))

	snippet, err := svc.CreateSnippet(ctx, actor, SnippetCreateInput{
		Title:     " Stale AD accounts ",
		Language:  domain.SnippetLanguagePowerShell,
		Code:      "Search-ADAccount -AccountInactive -TimeSpan 90",
		Tags:      []string{"AD"},
		PillarIDs: []string{identity.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Stale AD accounts", snippet.Title)
	assert.Equal(t, "user-7", snippet.UserID)
	assert.Equal(t, []string{"ad"}, snippet.Tags)
	assert.Equal(t, []domain.PillarRef{identity.Ref()}, snippet.Pillars)

	updated, err := svc.UpdateSnippet(ctx, snippet.ID, SnippetUpdateInput{UsageNotes: ptrTo("Run as domain admin")})
	require.NoError(t, err)
	assert.Equal(t, "Run as domain admin", *updated.UsageNotes)
	assert.Equal(t, []domain.PillarRef{identity.Ref()}, updated.Pillars)

	lang := domain.SnippetLanguageBash
	list, err := svc.ListSnippets(ctx, repository.SnippetFilter{Language: &lang})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.ListSnippets(ctx, repository.SnippetFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []domain.PillarRef{identity.Ref()}, list[0].Pillars)

	require.NoError(t, svc.DeleteSnippet(ctx, snippet.ID))
	_, err = svc.GetSnippet(ctx, snippet.ID)
	assert.Equal(t, "snippet not found", errorutil.ToDomainError(err).Message)
}

func TestSnippetValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewSnippetService(newFakeSnippets(), newFakePillars())
	actor := &domain.Session{UserID: "user-7"}

	cases := map[string]struct {
		input SnippetCreateInput
		field string
	}{
		"missing title": {SnippetCreateInput{Language: domain.SnippetLanguageSQL, Code: "SELECT 1"}, "title"},
		"blank code":    {SnippetCreateInput{Title: "t", Language: domain.SnippetLanguageSQL, Code: "  "}, "code"},
		"bad language":  {SnippetCreateInput{Title: "t", Language: "cobol", Code: "DISPLAY"}, "language"},
		"bad pillar":    {SnippetCreateInput{Title: "t", Language: domain.SnippetLanguageCLI, Code: "az login", PillarIDs: []string{"p-404"}}, "pillarIds"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateSnippet(ctx, actor, tc.input)
			de := errorutil.ToDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, "VALIDATION_FAILED", de.Code)
			assert.Contains(t, de.Details, tc.field)
		})
	}
}

func TestPillarService(t *testing.T) {
	ctx := context.Background()
	pillars := newFakePillars()
	svc := NewPillarService(pillars)

	_, err := svc.CreatePillar(ctx, PillarInput{Name: ptrTo(" ")})
	assert.Equal(t, "VALIDATION_FAILED", errorutil.ToDomainError(err).Code)

	security, err := svc.CreatePillar(ctx, PillarInput{Name: ptrTo("Security"), Color: ptrTo("#d33"), SortOrder: ptrTo(2)})
	require.NoError(t, err)
	assert.True(t, security.IsActive)
	_, err = svc.CreatePillar(ctx, PillarInput{Name: ptrTo("Backup")})
	require.NoError(t, err)

	retired, err := svc.UpdatePillar(ctx, security.ID, PillarInput{IsActive: ptrTo(false)})
	require.NoError(t, err)
	assert.False(t, retired.IsActive)
	assert.Equal(t, "Security", retired.Name)

	active, err := svc.ListPillars(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Backup", active[0].Name)

	all, err := svc.ListPillars(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.UpdatePillar(ctx, "pillar-404", PillarInput{})
	assert.Equal(t, "pillar not found", errorutil.ToDomainError(err).Message)
}

package service

import (
	"context"
	"strings"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// SnippetService manages the script library.
type SnippetService struct {
	snippets repository.SnippetRepository
	pillars  repository.PillarRepository
}

// SnippetCreateInput describes a new snippet.
type SnippetCreateInput struct {
	Title       string
	Language    domain.SnippetLanguage
	Code        string
	Description *string
	UsageNotes  *string
	Tags        []string
	PillarIDs   []string
}

// SnippetUpdateInput carries a partial update; nil PillarIDs keeps the
// current pillars.
type SnippetUpdateInput struct {
	Title       *string
	Language    *domain.SnippetLanguage
	Code        *string
	Description *string
	UsageNotes  *string
	Tags        []string
	PillarIDs   []string
}

func NewSnippetService(snippets repository.SnippetRepository, pillars repository.PillarRepository) *SnippetService {
	return &SnippetService{snippets: snippets, pillars: pillars}
}

func (s *SnippetService) ListSnippets(ctx context.Context, filter repository.SnippetFilter) ([]domain.Snippet, error) {
	snippets, err := s.snippets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(snippets))
	for i := range snippets {
		ids[i] = snippets[i].ID
	}
	refs, err := s.pillars.RefsFor(ctx, domain.PillarOwnerSnippet, ids)
	if err != nil {
		return nil, err
	}
	for i := range snippets {
		snippets[i].Pillars = pillarsOrEmpty(refs[snippets[i].ID])
	}
	return snippets, nil
}

func (s *SnippetService) GetSnippet(ctx context.Context, id string) (*domain.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "snippet")
	}
	refs, err := s.pillars.RefsFor(ctx, domain.PillarOwnerSnippet, []string{snippet.ID})
	if err != nil {
		return nil, err
	}
	snippet.Pillars = pillarsOrEmpty(refs[snippet.ID])
	return snippet, nil
}

func (s *SnippetService) CreateSnippet(ctx context.Context, actor *domain.Session, input SnippetCreateInput) (*domain.Snippet, error) {
	snippet := &domain.Snippet{
		Title:       strings.TrimSpace(input.Title),
		Language:    input.Language,
		Code:        input.Code,
		Description: input.Description,
		UsageNotes:  input.UsageNotes,
		Tags:        normalizeTags(input.Tags),
		UserID:      actor.UserID,
	}
	if err := checkSnippet(snippet); err != nil {
		return nil, err
	}
	refs, ids, err := resolvePillars(ctx, s.pillars, input.PillarIDs)
	if err != nil {
		return nil, err
	}
	if err := s.snippets.Create(ctx, snippet); err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := s.pillars.Assign(ctx, domain.PillarOwnerSnippet, snippet.ID, ids); err != nil {
			return nil, err
		}
	}
	snippet.Pillars = refs
	return snippet, nil
}

func (s *SnippetService) UpdateSnippet(ctx context.Context, id string, input SnippetUpdateInput) (*domain.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "snippet")
	}
	if input.Title != nil {
		snippet.Title = strings.TrimSpace(*input.Title)
	}
	if input.Language != nil {
		snippet.Language = *input.Language
	}
	if input.Code != nil {
		snippet.Code = *input.Code
	}
	if input.Description != nil {
		snippet.Description = input.Description
	}
	if input.UsageNotes != nil {
		snippet.UsageNotes = input.UsageNotes
	}
	if input.Tags != nil {
		snippet.Tags = normalizeTags(input.Tags)
	}
	if err := checkSnippet(snippet); err != nil {
		return nil, err
	}

	var (
		refs []domain.PillarRef
		ids  []string
	)
	if input.PillarIDs != nil {
		if refs, ids, err = resolvePillars(ctx, s.pillars, input.PillarIDs); err != nil {
			return nil, err
		}
	}
	if err := s.snippets.Update(ctx, snippet); err != nil {
		return nil, notFoundAs(err, "snippet")
	}
	if input.PillarIDs == nil {
		current, err := s.pillars.RefsFor(ctx, domain.PillarOwnerSnippet, []string{snippet.ID})
		if err != nil {
			return nil, err
		}
		snippet.Pillars = pillarsOrEmpty(current[snippet.ID])
		return snippet, nil
	}
	if err := s.pillars.Assign(ctx, domain.PillarOwnerSnippet, snippet.ID, ids); err != nil {
		return nil, err
	}
	snippet.Pillars = refs
	return snippet, nil
}

func (s *SnippetService) DeleteSnippet(ctx context.Context, id string) error {
	return notFoundAs(s.snippets.Delete(ctx, id), "snippet")
}

func checkSnippet(snippet *domain.Snippet) error {
	switch {
	case snippet.Title == "":
		return errorutil.NewValidationError("title is required", map[string]any{"title": "required"})
	case strings.TrimSpace(snippet.Code) == "":
		return errorutil.NewValidationError("code is required", map[string]any{"code": "required"})
	case !snippet.Language.Valid():
		return errorutil.NewValidationError("unsupported language", map[string]any{"language": "oneof"})
	}
	return nil
}

package service

import (
	"context"
	"strings"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// KBService manages knowledge-base articles.
type KBService struct {
	articles repository.KBRepository
	pillars  repository.PillarRepository
	tickets  repository.TicketRepository
	clients  repository.ClientRepository
}

// KBDependencies bundles repositories for the KB service.
type KBDependencies struct {
	KBRepo     repository.KBRepository
	PillarRepo repository.PillarRepository
	TicketRepo repository.TicketRepository
	ClientRepo repository.ClientRepository
}

// KBCreateInput describes a new article.
type KBCreateInput struct {
	Title       string
	Problem     string
	Environment *string
	Symptoms    *string
	Cause       *string
	Resolution  string
	Commands    *string
	References  *string
	Sensitivity domain.Sensitivity
	TicketID    *string
	ClientID    *string
	Tags        []string
	PillarIDs   []string
}

// KBUpdateInput carries a partial update. Nil Tags or PillarIDs leave the
// current sets in place; a non-nil slice replaces them.
type KBUpdateInput struct {
	Title       *string
	Problem     *string
	Environment *string
	Symptoms    *string
	Cause       *string
	Resolution  *string
	Commands    *string
	References  *string
	Sensitivity *domain.Sensitivity
	TicketID    *string
	ClientID    *string
	Tags        []string
	PillarIDs   []string
}

func NewKBService(deps KBDependencies) *KBService {
	return &KBService{
		articles: deps.KBRepo,
		pillars:  deps.PillarRepo,
		tickets:  deps.TicketRepo,
		clients:  deps.ClientRepo,
	}
}

// ListArticles returns matching articles, most recently updated first.
func (s *KBService) ListArticles(ctx context.Context, filter repository.KBFilter) ([]domain.KBArticleListItem, error) {
	items, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	refs, err := s.pillars.RefsFor(ctx, domain.PillarOwnerKBArticle, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Pillars = pillarsOrEmpty(refs[items[i].ID])
	}
	return items, nil
}

func (s *KBService) GetArticle(ctx context.Context, id string) (*domain.KBArticleListItem, error) {
	item, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "kb article")
	}
	refs, err := s.pillars.RefsFor(ctx, domain.PillarOwnerKBArticle, []string{item.ID})
	if err != nil {
		return nil, err
	}
	item.Pillars = pillarsOrEmpty(refs[item.ID])
	return item, nil
}

// CreateArticle records an article authored by the acting engineer.
func (s *KBService) CreateArticle(ctx context.Context, actor *domain.Session, input KBCreateInput) (*domain.KBArticle, error) {
	article := &domain.KBArticle{
		Title:       strings.TrimSpace(input.Title),
		Problem:     strings.TrimSpace(input.Problem),
		Environment: input.Environment,
		Symptoms:    input.Symptoms,
		Cause:       input.Cause,
		Resolution:  strings.TrimSpace(input.Resolution),
		Commands:    input.Commands,
		References:  input.References,
		Sensitivity: input.Sensitivity,
		UserID:      actor.UserID,
		Tags:        normalizeTags(input.Tags),
	}
	if err := requireArticleText(article); err != nil {
		return nil, err
	}
	if article.Sensitivity == "" {
		article.Sensitivity = domain.SensitivityInternal
	}
	if err := s.linkSources(ctx, article, input.TicketID, input.ClientID); err != nil {
		return nil, err
	}
	refs, ids, err := resolvePillars(ctx, s.pillars, input.PillarIDs)
	if err != nil {
		return nil, err
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := s.pillars.Assign(ctx, domain.PillarOwnerKBArticle, article.ID, ids); err != nil {
			return nil, err
		}
	}
	article.Pillars = refs
	return article, nil
}

func (s *KBService) UpdateArticle(ctx context.Context, id string, input KBUpdateInput) (*domain.KBArticle, error) {
	item, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "kb article")
	}
	article := &item.KBArticle

	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Problem != nil {
		article.Problem = strings.TrimSpace(*input.Problem)
	}
	if input.Resolution != nil {
		article.Resolution = strings.TrimSpace(*input.Resolution)
	}
	if err := requireArticleText(article); err != nil {
		return nil, err
	}
	if input.Environment != nil {
		article.Environment = input.Environment
	}
	if input.Symptoms != nil {
		article.Symptoms = input.Symptoms
	}
	if input.Cause != nil {
		article.Cause = input.Cause
	}
	if input.Commands != nil {
		article.Commands = input.Commands
	}
	if input.References != nil {
		article.References = input.References
	}
	if input.Sensitivity != nil {
		article.Sensitivity = *input.Sensitivity
	}
	if input.Tags != nil {
		article.Tags = normalizeTags(input.Tags)
	}
	ticketID, clientID := article.TicketID, article.ClientID
	if input.TicketID != nil {
		ticketID = input.TicketID
	}
	if input.ClientID != nil {
		clientID = input.ClientID
	}
	if err := s.linkSources(ctx, article, ticketID, clientID); err != nil {
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

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, notFoundAs(err, "kb article")
	}
	if input.PillarIDs != nil {
		if err := s.pillars.Assign(ctx, domain.PillarOwnerKBArticle, article.ID, ids); err != nil {
			return nil, err
		}
		article.Pillars = refs
	} else {
		current, err := s.pillars.RefsFor(ctx, domain.PillarOwnerKBArticle, []string{article.ID})
		if err != nil {
			return nil, err
		}
		article.Pillars = pillarsOrEmpty(current[article.ID])
	}
	return article, nil
}

func (s *KBService) DeleteArticle(ctx context.Context, id string) error {
	return notFoundAs(s.articles.Delete(ctx, id), "kb article")
}

// linkSources sets the optional source ticket and client after checking
// that they exist. Blank ids clear the link.
func (s *KBService) linkSources(ctx context.Context, article *domain.KBArticle, ticketID, clientID *string) error {
	article.TicketID = trimmedOrNil(ticketID)
	article.ClientID = trimmedOrNil(clientID)
	if article.TicketID != nil {
		if _, err := s.tickets.GetByID(ctx, *article.TicketID); err != nil {
			if errorutil.IsNotFound(err) {
				return errorutil.NewValidationError("unknown ticket", map[string]any{"ticketId": "not found"})
			}
			return err
		}
	}
	if article.ClientID != nil {
		if _, err := s.clients.GetByID(ctx, *article.ClientID); err != nil {
			if errorutil.IsNotFound(err) {
				return errorutil.NewValidationError("unknown client", map[string]any{"clientId": "not found"})
			}
			return err
		}
	}
	return nil
}

func requireArticleText(article *domain.KBArticle) error {
	missing := map[string]any{}
	if article.Title == "" {
		missing["title"] = "required"
	}
	if article.Problem == "" {
		missing["problem"] = "required"
	}
	if article.Resolution == "" {
		missing["resolution"] = "required"
	}
	if len(missing) > 0 {
		return errorutil.NewValidationError("title, problem and resolution are required", missing)
	}
	return nil
}

func pillarsOrEmpty(refs []domain.PillarRef) []domain.PillarRef {
	if refs == nil {
		return []domain.PillarRef{}
	}
	return refs
}

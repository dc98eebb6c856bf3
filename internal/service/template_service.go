package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/events"
	"github.com/spec-kit/msp-dashboard/internal/export"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/internal/seed"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// TemplateCache is told when a template type's default may have changed.
type TemplateCache interface {
	InvalidateTemplate(templateType string)
}

// TemplateService manages export templates.
type TemplateService struct {
	templates  repository.TemplateRepository
	cache      TemplateCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TemplateDependencies bundles collaborators for the template service.
type TemplateDependencies struct {
	TemplateRepo repository.TemplateRepository
	Cache        TemplateCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TemplateInput describes a template create or partial update.
type TemplateInput struct {
	Name      *string
	Type      *string
	Content   *string
	IsDefault *bool
}

// PlaceholderReport lists what a template references and which references no
// export field provides.
type PlaceholderReport struct {
	Placeholders []string
	Unknown      []string
	Available    []string
}

// NewTemplateService constructs the service.
func NewTemplateService(deps TemplateDependencies) *TemplateService {
	return &TemplateService{
		templates:  deps.TemplateRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     orNop(deps.Logger),
	}
}

// ListTemplates returns every template ordered by type and name.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]domain.ExportTemplate, error) {
	return s.templates.List(ctx)
}

// GetTemplate loads a template.
func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*domain.ExportTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "template")
	}
	return tpl, nil
}

// CreateTemplate stores a template. Marking it default demotes the previous
// default of the same type.
func (s *TemplateService) CreateTemplate(ctx context.Context, actor *domain.Session, input TemplateInput) (*domain.ExportTemplate, error) {
	tpl := &domain.ExportTemplate{}
	if input.Name != nil {
		tpl.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		tpl.Type = strings.TrimSpace(*input.Type)
	}
	if input.Content != nil {
		tpl.Content = *input.Content
	}
	if input.IsDefault != nil {
		tpl.IsDefault = *input.IsDefault
	}
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	s.saved(ctx, actor, tpl, "")
	return tpl, nil
}

// UpdateTemplate applies a partial update.
func (s *TemplateService) UpdateTemplate(ctx context.Context, actor *domain.Session, id string, input TemplateInput) (*domain.ExportTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "template")
	}
	previousType := tpl.Type
	if input.Name != nil {
		tpl.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		tpl.Type = strings.TrimSpace(*input.Type)
	}
	if input.Content != nil {
		tpl.Content = *input.Content
	}
	if input.IsDefault != nil {
		tpl.IsDefault = *input.IsDefault
	}
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}
	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, notFoundAs(err, "template")
	}
	s.saved(ctx, actor, tpl, previousType)
	return tpl, nil
}

// InspectPlaceholders reports the template's placeholders and flags those
// that would be left verbatim in every export.
func (s *TemplateService) InspectPlaceholders(ctx context.Context, id string) (*PlaceholderReport, error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return InspectTemplate(tpl.Content), nil
}

// InspectTemplate checks content against the fields an export provides.
func InspectTemplate(content string) *PlaceholderReport {
	sample := export.SampleRecord()
	compiled := export.Compile(content)
	report := &PlaceholderReport{
		Placeholders: compiled.Placeholders(),
		Unknown:      compiled.Missing(sample),
		Available:    sample.Paths(),
	}
	if report.Unknown == nil {
		report.Unknown = []string{}
	}
	return report
}

// SeedDefaults installs the built-in templates when none exist yet.
func (s *TemplateService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.templates.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	defaults, err := seed.DefaultTemplates()
	if err != nil {
		return 0, err
	}
	for i := range defaults {
		if err := s.templates.Create(ctx, &defaults[i]); err != nil {
			return i, err
		}
	}
	s.logger.Info("seeded export templates", zap.Int("count", len(defaults)))
	return len(defaults), nil
}

func (s *TemplateService) saved(ctx context.Context, actor *domain.Session, tpl *domain.ExportTemplate, previousType string) {
	if s.cache != nil {
		s.cache.InvalidateTemplate(tpl.Type)
		if previousType != "" && previousType != tpl.Type {
			s.cache.InvalidateTemplate(previousType)
		}
	}
	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTemplateSaved, "", actorID,
		events.TemplateSavedPayload{TemplateID: tpl.ID, Type: tpl.Type, IsDefault: tpl.IsDefault}))
}

func validateTemplate(tpl *domain.ExportTemplate) error {
	details := map[string]any{}
	if tpl.Name == "" {
		details["name"] = "required"
	}
	if tpl.Type == "" {
		details["type"] = "required"
	}
	if strings.TrimSpace(tpl.Content) == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return errorutil.NewValidationError("invalid template", details)
	}
	return nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/document"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/events"
	"github.com/spec-kit/msp-dashboard/internal/export"
	"github.com/spec-kit/msp-dashboard/internal/observability"
	"github.com/spec-kit/msp-dashboard/internal/redact"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// Export output formats.
const (
	FormatMarkdown = "markdown"
	FormatDOCX     = "docx"
	FormatHTML     = "html"
)

// DefaultTemplateSource finds the default template for a type.
type DefaultTemplateSource interface {
	GetDefaultByType(ctx context.Context, templateType string) (*domain.ExportTemplate, error)
}

// ExportService renders tickets through operator templates.
type ExportService struct {
	templates  DefaultTemplateSource
	assembler  *export.Assembler
	cache      *ttlcache.Cache[string, *domain.ExportTemplate]
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// ExportDependencies bundles collaborators for the export service.
type ExportDependencies struct {
	Templates  DefaultTemplateSource
	Tickets    export.GraphSource
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// ExportRequest identifies what to render.
type ExportRequest struct {
	TicketID     string
	TemplateType string
	Redact       bool
	ActorID      string
}

// ExportResult is a rendered Markdown export.
type ExportResult struct {
	Text          string
	TemplateName  string
	TemplateType  string
	HasRedactions bool
	Filename      string
	Missing       []string
}

// DocumentResult is a packaged DOCX export.
type DocumentResult struct {
	Data          []byte
	Filename      string
	TemplateName  string
	ContentType   string
	HasRedactions bool
}

// HTMLResult is a sanitized preview of an export.
type HTMLResult struct {
	HTML          string
	Markdown      string
	TemplateName  string
	HasRedactions bool
}

// NewExportService constructs the service. A zero TemplateCacheTTL disables
// the default template cache.
func NewExportService(cfg config.ExportConfig, deps ExportDependencies) *ExportService {
	svc := &ExportService{
		templates: deps.Templates,
		assembler: export.NewAssembler(deps.Tickets, export.AssemblerOptions{
			Location:     cfg.Location(),
			RedactAlways: cfg.RedactAlways,
			Now:          deps.Now,
		}),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     orNop(deps.Logger),
	}
	if ttl := cfg.TemplateCacheTTL(); ttl > 0 {
		svc.cache = ttlcache.New(
			ttlcache.WithTTL[string, *domain.ExportTemplate](ttl),
			ttlcache.WithDisableTouchOnHit[string, *domain.ExportTemplate](),
		)
	}
	return svc
}

// Render resolves the default template for the requested type, assembles the
// ticket record and substitutes it into the template.
func (s *ExportService) Render(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	result, err := s.render(ctx, req)
	if err != nil {
		return nil, err
	}
	s.finish(ctx, req, result, FormatMarkdown)
	return result, nil
}

// RenderDocument renders and packages the export as DOCX.
func (s *ExportService) RenderDocument(ctx context.Context, req ExportRequest) (*DocumentResult, error) {
	result, err := s.render(ctx, req)
	if err != nil {
		return nil, err
	}
	model := document.Parse(result.Text)
	model.Title = result.TemplateName
	data, err := document.DOCX(model)
	if err != nil {
		return nil, err
	}
	s.finish(ctx, req, result, FormatDOCX)
	return &DocumentResult{
		Data:          data,
		Filename:      result.Filename,
		TemplateName:  result.TemplateName,
		ContentType:   document.ContentType,
		HasRedactions: result.HasRedactions,
	}, nil
}

// RenderHTML renders the export for in-browser preview.
func (s *ExportService) RenderHTML(ctx context.Context, req ExportRequest) (*HTMLResult, error) {
	result, err := s.render(ctx, req)
	if err != nil {
		return nil, err
	}
	html, err := document.HTML(result.Text)
	if err != nil {
		return nil, err
	}
	s.finish(ctx, req, result, FormatHTML)
	return &HTMLResult{
		HTML:          html,
		Markdown:      result.Text,
		TemplateName:  result.TemplateName,
		HasRedactions: result.HasRedactions,
	}, nil
}

// InvalidateTemplate drops a cached default so the next export rereads it.
func (s *ExportService) InvalidateTemplate(templateType string) {
	if s.cache != nil {
		s.cache.Delete(templateType)
	}
}

func (s *ExportService) render(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	req.TicketID = strings.TrimSpace(req.TicketID)
	req.TemplateType = strings.TrimSpace(req.TemplateType)
	if err := validateExportRequest(req); err != nil {
		return nil, err
	}

	tpl, err := s.defaultTemplate(ctx, req.TemplateType)
	if err != nil {
		return nil, err
	}

	rec, err := s.assembler.Assemble(ctx, req.TicketID, req.Redact)
	if err != nil {
		if errorutil.IsNotFound(err) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticketId": req.TicketID})
		}
		return nil, err
	}

	compiled := export.Compile(tpl.Content)
	text := compiled.Render(rec)

	leaves := rec.Leaves()
	return &ExportResult{
		Text:          text,
		TemplateName:  tpl.Name,
		TemplateType:  tpl.Type,
		HasRedactions: redact.HasRedactions(text),
		Filename:      export.Filename(leaves["ticketId"] + " " + leaves["title"]),
		Missing:       compiled.Missing(rec),
	}, nil
}

func validateExportRequest(req ExportRequest) error {
	details := map[string]any{}
	if req.TicketID == "" {
		details["ticketId"] = "required"
	}
	if req.TemplateType == "" {
		details["templateType"] = "required"
	}
	if len(details) > 0 {
		return errorutil.NewValidationError("ticketId and templateType are required", details)
	}
	return nil
}

func (s *ExportService) defaultTemplate(ctx context.Context, templateType string) (*domain.ExportTemplate, error) {
	if s.cache != nil {
		if item := s.cache.Get(templateType); item != nil {
			return item.Value(), nil
		}
	}
	tpl, err := s.templates.GetDefaultByType(ctx, templateType)
	if err != nil {
		if errorutil.IsNotFound(err) {
			return nil, errorutil.NewNotFound("template", map[string]any{"templateType": templateType})
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(templateType, tpl, ttlcache.DefaultTTL)
	}
	return tpl, nil
}

func (s *ExportService) finish(ctx context.Context, req ExportRequest, result *ExportResult, format string) {
	s.metrics.RecordExport(result.TemplateType, format)
	if len(result.Missing) > 0 {
		s.logger.Debug("export left placeholders unresolved",
			zap.String("template_type", result.TemplateType),
			zap.Strings("paths", result.Missing))
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketExported, req.TicketID, req.ActorID,
		events.TicketExportedPayload{
			TemplateType:  result.TemplateType,
			TemplateName:  result.TemplateName,
			Format:        format,
			Redacted:      req.Redact,
			HasRedactions: result.HasRedactions,
		}))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/msp-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/msp-dashboard/internal/auth"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	apperrors "github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Export         *handlers.ExportHandler
	Tickets        *handlers.TicketsHandler
	Tasks          *handlers.TasksHandler
	Clients        *handlers.ClientsHandler
	Templates      *handlers.TemplatesHandler
	Reports        *handlers.ReportsHandler
	KB             *handlers.KBHandler
	Snippets       *handlers.SnippetsHandler
	Pillars        *handlers.PillarsHandler
	AuthMiddleware *auth.AuthMiddleware
	// StorageReady is false when the service runs without a database. Only
	// health and metrics are served then; every other handler may be nil.
	StorageReady bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	if !cfg.StorageReady {
		app.Use("/auth", storageUnavailable)
		app.Use("/api", storageUnavailable)
		return
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireRole())
	adminOnly := auth.RequireRole(domain.UserRoleAdmin)

	api.Post("/export", cfg.Export.Export)
	api.Post("/redact", cfg.Export.Redact)

	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	api.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	api.Put("/tickets/:id/resolution", cfg.Tickets.SaveResolution)

	api.Get("/tasks", cfg.Tasks.ListTasks)
	api.Post("/tasks", cfg.Tasks.CreateTask)
	api.Patch("/tasks/:id", cfg.Tasks.UpdateTask)
	api.Delete("/tasks/:id", cfg.Tasks.DeleteTask)

	api.Get("/clients", cfg.Clients.ListClients)
	api.Post("/clients", cfg.Clients.CreateClient)
	api.Patch("/clients/:id", cfg.Clients.UpdateClient)

	api.Get("/templates", cfg.Templates.ListTemplates)
	api.Get("/templates/:id", cfg.Templates.GetTemplate)
	api.Get("/templates/:id/placeholders", cfg.Templates.Placeholders)
	api.Post("/templates", adminOnly, cfg.Templates.CreateTemplate)
	api.Patch("/templates/:id", adminOnly, cfg.Templates.UpdateTemplate)

	api.Get("/reports", cfg.Reports.Report)
	api.Get("/dashboard", cfg.Reports.Dashboard)

	api.Get("/kb", cfg.KB.ListArticles)
	api.Post("/kb", cfg.KB.CreateArticle)
	api.Get("/kb/:id", cfg.KB.GetArticle)
	api.Patch("/kb/:id", cfg.KB.UpdateArticle)
	api.Delete("/kb/:id", cfg.KB.DeleteArticle)

	api.Get("/snippets", cfg.Snippets.ListSnippets)
	api.Post("/snippets", cfg.Snippets.CreateSnippet)
	api.Get("/snippets/:id", cfg.Snippets.GetSnippet)
	api.Patch("/snippets/:id", cfg.Snippets.UpdateSnippet)
	api.Delete("/snippets/:id", cfg.Snippets.DeleteSnippet)

	api.Get("/pillars", cfg.Pillars.ListPillars)
	api.Post("/pillars", adminOnly, cfg.Pillars.CreatePillar)
	api.Patch("/pillars/:id", adminOnly, cfg.Pillars.UpdatePillar)
}

func storageUnavailable(*fiber.Ctx) error {
	return apperrors.NewDependencyUnavailable(map[string]any{"postgres": "not configured"})
}

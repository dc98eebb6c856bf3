package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/msp-dashboard/internal/api/http"
	"github.com/spec-kit/msp-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/msp-dashboard/internal/auth"
	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/events"
	"github.com/spec-kit/msp-dashboard/internal/observability"
	"github.com/spec-kit/msp-dashboard/internal/persistence"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/internal/service"
	"github.com/spec-kit/msp-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	routes := httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Metrics: handlers.NewMetricsHandler(metrics),
	}
	if pool := pg.PoolHandle(); pool != nil {
		wireStorage(ctx, cfg, pool, redis, dispatcher, metrics, logger, &routes)
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.ShutdownWithTimeout(10 * time.Second)
}

// wireStorage builds the database-backed repositories, services and handlers
// and marks the routes as storage-ready.
func wireStorage(
	ctx context.Context,
	cfg *config.Config,
	pool *pgxpool.Pool,
	redis *persistence.Redis,
	dispatcher events.Dispatcher,
	metrics *observability.Metrics,
	logger *zap.Logger,
	routes *httptransport.RouteConfig,
) {
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	resolutionRepo := repository.NewResolutionRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	pillarRepo := repository.NewPillarRepository(pool)
	kbRepo := repository.NewKBRepository(pool)
	snippetRepo := repository.NewSnippetRepository(pool)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Revoker:  redis,
	})
	exportService := service.NewExportService(cfg.Export, service.ExportDependencies{
		Templates:  templateRepo,
		Tickets:    ticketRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	templateService := service.NewTemplateService(service.TemplateDependencies{
		TemplateRepo: templateRepo,
		Cache:        exportService,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		ClientRepo:     clientRepo,
		ResolutionRepo: resolutionRepo,
		TaskRepo:       taskRepo,
		PillarRepo:     pillarRepo,
		KBRepo:         kbRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	kbService := service.NewKBService(service.KBDependencies{
		KBRepo:     kbRepo,
		PillarRepo: pillarRepo,
		TicketRepo: ticketRepo,
		ClientRepo: clientRepo,
	})

	if _, err := templateService.SeedDefaults(ctx); err != nil {
		logger.Fatal("failed to seed export templates", zap.Error(err))
	}
	reminder := worker.NewTaskReminder(taskRepo, dispatcher, logger, cfg.Notification.ReminderInterval(), nil)
	go reminder.Run(ctx)

	routes.StorageReady = true
	routes.AuthMiddleware = auth.NewAuthMiddleware(authService.TokenManager(), redis, cfg.Auth.CookieName)
	routes.Auth = handlers.NewAuthHandler(authService, cfg.Auth)
	routes.Export = handlers.NewExportHandler(exportService)
	routes.Tickets = handlers.NewTicketsHandler(ticketService)
	routes.Tasks = handlers.NewTasksHandler(service.NewTaskService(taskRepo, nil))
	routes.Clients = handlers.NewClientsHandler(service.NewClientService(clientRepo))
	routes.Templates = handlers.NewTemplatesHandler(templateService)
	routes.Reports = handlers.NewReportsHandler(service.NewReportService(ticketRepo, taskRepo, kbRepo, nil))
	routes.KB = handlers.NewKBHandler(kbService)
	routes.Snippets = handlers.NewSnippetsHandler(service.NewSnippetService(snippetRepo, pillarRepo))
	routes.Pillars = handlers.NewPillarsHandler(service.NewPillarService(pillarRepo))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

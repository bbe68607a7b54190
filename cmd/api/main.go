package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-platform/internal/api/http"
	"github.com/spec-kit/helpdesk-platform/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-platform/internal/auth"
	"github.com/spec-kit/helpdesk-platform/internal/config"
	"github.com/spec-kit/helpdesk-platform/internal/events"
	"github.com/spec-kit/helpdesk-platform/internal/observability"
	"github.com/spec-kit/helpdesk-platform/internal/persistence"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
	"github.com/spec-kit/helpdesk-platform/internal/service"
	"github.com/spec-kit/helpdesk-platform/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisConn := persistence.NewRedis(cfg.Redis, logger)
	defer redisConn.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	societyRepo := repository.NewSocietyRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)
	triggerRepo := repository.NewTriggerRepository(pool)
	macroRepo := repository.NewMacroRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	competencyRepo := repository.NewCompetencyRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	auditService := service.NewAuditService(auditRepo, logger)
	accessService := service.NewAccessService(categoryRepo, societyRepo)
	statusDirectory := service.NewStatusDirectory(statusRepo, redisConn.Client, cfg.Redis.StatusCacheTTL, logger)

	triggerService := service.NewTriggerService(service.TriggerDependencies{
		TriggerRepo: triggerRepo,
		TicketRepo:  ticketRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CategoryRepo: categoryRepo,
		CommentRepo:  commentRepo,
		SequenceRepo: sequenceRepo,
		Access:       accessService,
		Triggers:     triggerService,
		Audit:        auditService,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	macroService := service.NewMacroService(service.MacroDependencies{
		MacroRepo:   macroRepo,
		TicketRepo:  ticketRepo,
		UserRepo:    userRepo,
		CommentRepo: commentRepo,
		Statuses:    statusDirectory,
		Audit:       auditService,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	queueService := service.NewQueueService(ticketRepo, competencyRepo)
	categoryService := service.NewCategoryService(categoryRepo, auditService, logger)
	authService := service.NewAuthService(*cfg, userRepo, societyRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Macros:         handlers.NewMacrosHandler(macroService),
		Queue:          handlers.NewQueueHandler(queueService),
		Categories:     handlers.NewCategoriesHandler(accessService, categoryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

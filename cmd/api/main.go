package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/cfc-helpdesk/helpdesk-service/internal/api/http"
	"github.com/cfc-helpdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/cfc-helpdesk/helpdesk-service/internal/auth"
	"github.com/cfc-helpdesk/helpdesk-service/internal/config"
	"github.com/cfc-helpdesk/helpdesk-service/internal/directory"
	"github.com/cfc-helpdesk/helpdesk-service/internal/events"
	"github.com/cfc-helpdesk/helpdesk-service/internal/observability"
	"github.com/cfc-helpdesk/helpdesk-service/internal/persistence"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	"github.com/cfc-helpdesk/helpdesk-service/internal/service"
	"github.com/cfc-helpdesk/helpdesk-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	agentProfileRepo := repository.NewAgentProfileRepository(pool)
	customerProfileRepo := repository.NewCustomerProfileRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	slaRepo := repository.NewSLARepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	emailLogRepo := repository.NewEmailLogRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo, customerProfileRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CategoryRepo:   categoryRepo,
		HistoryRepo:    historyRepo,
		UserRepo:       userRepo,
		SLARepo:        slaRepo,
		AttachmentRepo: attachmentRepo,
		Dispatcher:     dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:  ticketRepo,
		UserRepo:    userRepo,
		ProfileRepo: agentProfileRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
	})
	slaService := service.NewSLAService(slaRepo, ticketRepo, logger)
	commentService := service.NewCommentService(commentRepo, ticketRepo, dispatcher)
	articleService := service.NewArticleService(articleRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	profileService := service.NewProfileService(userRepo, agentProfileRepo, categoryRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, redis.Client, logger)

	notifier := service.NewNotificationService(cfg.Notification, service.NotificationDependencies{
		Dispatcher: dispatcher,
		EmailLogs:  emailLogRepo,
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Mailer:     &service.LogMailer{Logger: logger},
	}, logger)
	notifier.RegisterHandlers()

	var directorySync *directory.SyncService
	if cfg.Directory.Enabled {
		lookup := directory.NewLDAPLookup(cfg.Directory, logger)
		directorySync = directory.NewSyncService(lookup, userRepo, agentProfileRepo, customerProfileRepo, directory.RoleMapping{
			AdminGroups: cfg.Directory.AdminGroups,
			AgentGroups: cfg.Directory.AgentGroups,
		}, logger)
	}

	breachWorker := worker.NewSLABreachWorker(slaService, cfg.SLA.BreachCheckInterval(), logger)
	go breachWorker.Run(ctx)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, time.Duration(cfg.App.RequestTimeoutSeconds)*time.Second)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Articles:       handlers.NewArticlesHandler(articleService),
		SLAs:           handlers.NewSLAsHandler(slaService),
		Profiles:       handlers.NewProfilesHandler(profileService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Directory:      handlers.NewDirectoryHandler(directorySync),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

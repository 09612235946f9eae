package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/uofr/urcourses-teststudent/internal/api/http"
	"github.com/uofr/urcourses-teststudent/internal/api/http/handlers"
	"github.com/uofr/urcourses-teststudent/internal/auth"
	"github.com/uofr/urcourses-teststudent/internal/config"
	"github.com/uofr/urcourses-teststudent/internal/events"
	"github.com/uofr/urcourses-teststudent/internal/mail"
	"github.com/uofr/urcourses-teststudent/internal/observability"
	"github.com/uofr/urcourses-teststudent/internal/persistence"
	"github.com/uofr/urcourses-teststudent/internal/repository"
	"github.com/uofr/urcourses-teststudent/internal/service"
	"github.com/uofr/urcourses-teststudent/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	directoryRepo := repository.NewDirectoryRepository(pool)
	roleRepo := repository.NewRoleAssignmentRepository(pool)
	enrolmentRepo := repository.NewEnrolmentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.NewSMTPMailer(cfg.Mail, logger)

	eligibility := service.NewEligibilityService(roleRepo, redis.Client, cfg.Auth.CacheTTL(), logger)
	authService := service.NewAuthService(*cfg, directoryRepo)
	studentService := service.NewTestStudentService(*cfg, service.TestStudentDependencies{
		DirectoryRepo: directoryRepo,
		Eligibility:   eligibility,
		Mailer:        mailer,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	enrolmentService := service.NewEnrolmentService(service.EnrolmentDependencies{
		DirectoryRepo: directoryRepo,
		EnrolmentRepo: enrolmentRepo,
		Dispatcher:    dispatcher,
	})

	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), directoryRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	staffHandler := handlers.NewStaffHandler(authService)
	testStudentHandler := handlers.NewTestStudentHandler(studentService, enrolmentService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Staff:          staffHandler,
		TestStudent:    testStudentHandler,
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

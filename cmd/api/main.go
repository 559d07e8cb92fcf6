package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-admin/internal/api/http"
	"github.com/spec-kit/support-admin/internal/api/http/handlers"
	"github.com/spec-kit/support-admin/internal/auth"
	"github.com/spec-kit/support-admin/internal/config"
	"github.com/spec-kit/support-admin/internal/dashboard"
	"github.com/spec-kit/support-admin/internal/events"
	"github.com/spec-kit/support-admin/internal/observability"
	"github.com/spec-kit/support-admin/internal/persistence"
	"github.com/spec-kit/support-admin/internal/repository"
	"github.com/spec-kit/support-admin/internal/service"
	"github.com/spec-kit/support-admin/internal/session"
	"github.com/spec-kit/support-admin/internal/view"
	"github.com/spec-kit/support-admin/internal/worker"
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	meetingLoc, err := cfg.Dashboard.MeetingLocation()
	if err != nil {
		logger.Fatal("invalid meeting time zone", zap.String("tz", cfg.Dashboard.MeetingTimeZone), zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	groupRepo := repository.NewSupportGroupRepository(pool)
	revocations := session.NewRedisStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		Revocations: revocations,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	groupService := service.NewSupportGroupService(groupRepo, dispatcher, meetingLoc)

	if cfg.Seed.Enabled() {
		admin, err := authService.EnsureAdmin(ctx, service.RegisterInput{
			Email:     cfg.Seed.AdminEmail,
			Password:  cfg.Seed.AdminPassword,
			FirstName: cfg.Seed.AdminFirstName,
			LastName:  cfg.Seed.AdminLastName,
		})
		if err != nil {
			logger.Fatal("failed to seed admin", zap.Error(err))
		}
		logger.Info("seed admin ready", zap.String("user_id", admin.ID))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revocations, cfg.Auth.SessionCookieName, logger)

	paths := dashboard.DefaultPaths()
	paths.Dashboard = cfg.Dashboard.DashboardPath
	paths.Login = cfg.Dashboard.LoginPath
	pageCfg := handlers.PageConfig{
		Title:         cfg.Dashboard.Title,
		Paths:         paths,
		CookieName:    cfg.Auth.SessionCookieName,
		SecureCookies: cfg.Auth.SecureCookies,
	}

	engine := view.NewEngine()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		Views:                 engine,
		DisableStartupMessage: true,
	})
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.Dashboard.Title)

	sessionContexts := func(p *auth.Principal) dashboard.AuthContext {
		return service.NewSessionContext(authService, groupService, p.User, p.Session)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService, logger, pageCfg),
		Admin:          handlers.NewAdminHandler(sessionContexts, engine, logger, pageCfg),
		Users:          handlers.NewUsersHandler(authService),
		SupportGroups:  handlers.NewSupportGroupsHandler(groupService),
		AuthMiddleware: authMiddleware,
		Paths:          paths,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

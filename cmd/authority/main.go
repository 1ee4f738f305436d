package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/northgate-io/northgate/internal/app"
	"github.com/northgate-io/northgate/internal/auth"
	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/observability"
	"github.com/northgate-io/northgate/internal/platform/cache"
	"github.com/northgate-io/northgate/internal/platform/db"
	"github.com/northgate-io/northgate/internal/roles"
	"github.com/northgate-io/northgate/internal/tenants"
	"github.com/northgate-io/northgate/internal/token"
	"github.com/northgate-io/northgate/internal/users"
	"github.com/northgate-io/northgate/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The identity cache degrades to pass-through when Redis is down.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, identity caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, logger)
	defer func() {
		if err := auditClient.Close(); err != nil {
			logger.Warn("audit client close", slog.Any("error", err))
		}
	}()

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)

	identityRepo := identity.NewRepository(dbpool)
	identityCache := identity.NewCache(redisClient, cfg.IdentityCacheTTL)
	identityService := identity.NewService(identityRepo, identityCache, logger)
	identityHandler := identity.NewHandler(logger, identityService, codec)

	authService := auth.NewService(identityRepo, codec, auditClient, logger)
	authHandler := auth.NewHandler(logger, authService)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, identityService)
	usersHandler := users.NewHandler(logger, usersService)

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo, identityService, logger)
	rolesHandler := roles.NewHandler(logger, rolesService)

	tenantsRepo := tenants.NewRepository(dbpool)
	tenantsService := tenants.NewService(tenantsRepo)
	tenantsHandler := tenants.NewHandler(logger, tenantsService)

	metrics := observability.NewMetrics()

	router := app.NewAuthorityRouter(app.AuthorityRouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		IdentityHandler: identityHandler,
		UsersHandler:    usersHandler,
		RolesHandler:    rolesHandler,
		TenantsHandler:  tenantsHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AuthorityAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting authority server", slog.String("addr", cfg.AuthorityAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

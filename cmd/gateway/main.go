package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/northgate-io/northgate/internal/app"
	"github.com/northgate-io/northgate/internal/gateway"
	"github.com/northgate-io/northgate/internal/observability"
	"github.com/northgate-io/northgate/internal/token"
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

	routes, err := gateway.ParseRoutes(cfg.GatewayRoutes)
	if err != nil {
		logger.Error("parse gateway routes", slog.Any("error", err))
		os.Exit(1)
	}

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	resolver := gateway.NewClient(cfg.AuthorityURL, cfg.ResolveTimeout)
	metrics := observability.NewMetrics()

	filter := gateway.NewFilter(codec, resolver, cfg.PublicPaths, cfg.ResolveTimeout, metrics, logger)
	proxy := gateway.NewProxy(routes, logger)

	router := app.NewGatewayRouter(app.GatewayRouterParams{
		Logger:  logger,
		Config:  cfg,
		Filter:  filter,
		Proxy:   proxy,
		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.GatewayAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting gateway server", slog.String("addr", cfg.GatewayAddr))
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

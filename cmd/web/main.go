package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

const limiterSweepInterval = time.Minute

func newDashboard(cfg *config.Config, logger *slog.Logger) *services.Dashboard {
	return services.NewDashboard(cfg.Dashboard.Seed,
		services.WithLocation(cfg.Dashboard.Location()),
		services.WithPreviewRows(cfg.Dashboard.PreviewRows),
		services.WithLogger(logger),
	)
}

func newHandler(cfg *config.Config, logger *slog.Logger, dashboard *services.Dashboard, limiter *middleware.RateLimiter) http.Handler {
	srv := server.NewServer(dashboard, logger, server.Options{
		Title: cfg.Dashboard.Title,
		ChartSize: charts.Size{
			Width:  cfg.Dashboard.ChartWidth,
			Height: cfg.Dashboard.ChartHeight,
		},
	})

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)
	return chain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"seed", cfg.Dashboard.Seed,
		"timezone", cfg.Dashboard.Timezone,
	)

	dashboard := newDashboard(cfg, logger)
	// Generate up front so the first request does not pay for it.
	dashboard.Dataset()

	limiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go limiter.Run(sweepCtx, limiterSweepInterval)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, logger, dashboard, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stopSweep()
		logger.Info("rate limiter sweeper stopped")
		return nil
	})
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("dashboard stats at shutdown", "stats", dashboard.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

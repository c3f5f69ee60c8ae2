package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/config"
)

const hookTimeout = 10 * time.Second

type ShutdownHook func(ctx context.Context) error

type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	config *config.Config

	mu    sync.Mutex
	hooks []ShutdownHook
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, cfg *config.Config) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: cfg,
	}
}

func (gs *GracefulServer) RegisterShutdownHook(fn ShutdownHook) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.hooks = append(gs.hooks, fn)
}

// ListenAndServe blocks until the server fails or SIGINT/SIGTERM arrives,
// then shuts down within the configured timeout.
func (gs *GracefulServer) ListenAndServe() error {
	serverErrors := make(chan error, 1)

	go func() {
		gs.logger.Info("starting server",
			"addr", gs.server.Addr,
			"read_timeout", gs.config.Server.ReadTimeout,
			"write_timeout", gs.config.Server.WriteTimeout,
		)
		serverErrors <- gs.server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case sig := <-stop:
		gs.logger.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), gs.config.Server.ShutdownTimeout)
		defer cancel()

		return gs.Shutdown(ctx)
	}
}

// Shutdown stops the HTTP server and runs every hook concurrently. The first
// failure is returned once all of them have finished.
func (gs *GracefulServer) Shutdown(ctx context.Context) error {
	gs.logger.Info("starting graceful shutdown", "timeout", gs.config.Server.ShutdownTimeout)

	gs.mu.Lock()
	hooks := make([]ShutdownHook, len(gs.hooks))
	copy(hooks, gs.hooks)
	gs.mu.Unlock()

	var g errgroup.Group

	for i, hook := range hooks {
		g.Go(func() error {
			hookCtx, cancel := context.WithTimeout(ctx, hookTimeout)
			defer cancel()

			if err := hook(hookCtx); err != nil {
				gs.logger.Error("shutdown hook failed", "hook_index", i, "error", err)
				return fmt.Errorf("shutdown hook %d failed: %w", i, err)
			}
			gs.logger.Debug("shutdown hook completed", "hook_index", i)
			return nil
		})
	}

	g.Go(func() error {
		if err := gs.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		gs.logger.Info("HTTP server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	gs.logger.Info("graceful shutdown completed")
	return nil
}

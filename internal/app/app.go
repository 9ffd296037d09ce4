// Package app provides the top-level application lifecycle for the market
// scanner. It wires together the upstream clients, caches, and services, and
// runs the HTTP server and WebSocket hub until the context is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polyscan/polyscan/internal/config"
	"github.com/polyscan/polyscan/internal/server"
	"github.com/polyscan/polyscan/internal/server/handler"
)

// shutdownTimeout bounds how long in-flight requests may run during shutdown.
const shutdownTimeout = 10 * time.Second

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the HTTP
// server and WebSocket hub, and blocks until the context is cancelled or a
// subsystem fails. On return it runs all registered cleanup functions.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.logger.InfoContext(ctx, "starting application",
		slog.Int("port", a.cfg.Server.Port),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(),
		Markets: handler.NewMarketHandler(
			deps.Enricher,
			deps.Gamma,
			a.logger,
		),
		News:   handler.NewNewsHandler(deps.Feed, a.cfg.News.MaxItems, a.logger),
		Prices: handler.NewPricesHandler(deps.Quotes, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:           a.cfg.Server.Port,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		RateLimitRPS:   a.cfg.Server.RateLimitRPS,
		RateLimitBurst: a.cfg.Server.RateLimitBurst,
	}, handlers, deps.Hub, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := deps.Hub.Run(ctx); err != nil && err != context.Canceled {
			return fmt.Errorf("app: websocket hub: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

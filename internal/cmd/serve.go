package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akopian/portfolio/internal/api"
	"github.com/akopian/portfolio/internal/cleanup"
	"github.com/akopian/portfolio/internal/config"
	"github.com/akopian/portfolio/internal/content"
	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/shell"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Run the HTTP server. Configuration is read from the environment; see internal/config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("content-dir"); dir != "" {
				cfg.Content.Dir = dir
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	slog.Info("starting portfolio",
		"version", Version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Load content
	catalog, err := content.Load(cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("failed to load content catalog: %w", err)
	}
	for _, problem := range catalog.AssetProblems() {
		slog.Warn("content asset problem", "problem", problem)
	}

	table, err := i18n.NewTable(catalog.Trees)
	if err != nil {
		return fmt.Errorf("failed to build localization table: %w", err)
	}
	slog.Info("content catalog loaded",
		"languages", len(catalog.Trees),
		"riddles", len(catalog.Riddles),
	)

	// Initialize submit limiter
	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	defer initCancel()

	limiter, pruner, closeLimiter, err := newLimiter(initCtx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// Initialize shell registry
	registry := shell.NewRegistry(table, catalog.Riddles, gate.Options{
		RejectDelay: cfg.Gate.RejectDelay,
		AcceptDelay: cfg.Gate.AcceptDelay,
	})
	defer registry.Close()

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start cleanup worker
	cleaner := cleanup.NewCleaner(registry, pruner, cfg.Cleanup.Interval, cfg.Cleanup.IdleTTL)
	cleaner.Start(workerCtx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, catalog, table, registry, limiter, cfg.Content.StaticDir)
	httpServer := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down gracefully...")

	// Stop background workers
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("portfolio stopped")
	return nil
}

// newLimiter builds the submit limiter the configuration asks for. The
// returned pruner is nil unless the limiter keeps state in memory.
func newLimiter(ctx context.Context, cfg *config.Config) (gate.Limiter, cleanup.Pruner, func(), error) {
	noop := func() {}

	if cfg.Gate.SubmitLimit == 0 {
		slog.Info("submit throttling disabled")
		return gate.NoopLimiter{}, nil, noop, nil
	}

	if cfg.Redis.Enabled {
		rl, err := gate.NewRedisLimiter(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB,
			cfg.Gate.SubmitLimit, cfg.Gate.SubmitWindow)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create redis limiter: %w", err)
		}
		slog.Info("submit limiter backed by redis", "address", cfg.Redis.Address)
		return rl, nil, func() {
			if err := rl.Close(); err != nil {
				slog.Error("redis limiter close error", "error", err)
			}
		}, nil
	}

	ml := gate.NewMemoryLimiter(cfg.Gate.SubmitLimit, cfg.Gate.SubmitWindow)
	return ml, ml, noop, nil
}

// @title Excel Aggregator API
// @version 1.0
// @description Upload a spreadsheet, then group and reduce its columns.
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"excel-aggregator/internal/api"
	"excel-aggregator/internal/api/handler"
	"excel-aggregator/internal/config"
	"excel-aggregator/internal/logging"
	"excel-aggregator/internal/metrics"
	"excel-aggregator/internal/store"
	"excel-aggregator/pkg/router"
	"excel-aggregator/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	// Init DB
	st, err := store.Open(cfg.Storage.DBPath, cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	h := handler.NewAggregateHandler(st, m, logger, cfg.Server.MaxUploadBytes)

	r := router.New()
	r.Use(
		router.CORS(cfg.Security.AllowedOrigins),
		router.RateLimit(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger),
	)
	api.RegisterRoutes(r, h, web.Static(), m.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go cleanupLoop(ctx, st, m, cfg.Storage, logger)

	logger.Info("starting server",
		slog.String("addr", cfg.Server.Addr),
		slog.String("storage", st.BaseDir()),
		slog.Int("routes", len(r.Routes())),
	)
	return r.Start(ctx, cfg.Server.Addr, router.ServerConfig{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
}

// cleanupLoop removes uploads older than the retention window
func cleanupLoop(ctx context.Context, st *store.Store, m *metrics.Metrics, cfg config.StorageConfig, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := st.Cleanup(ctx, time.Now().Add(-cfg.Retention))
			if err != nil {
				logger.Warn("upload cleanup failed", slog.String("error", err.Error()))
				continue
			}
			m.ObserveCleanup(removed)
			if removed > 0 {
				logger.Info("expired uploads removed", slog.Int("count", removed))
			}
		}
	}
}

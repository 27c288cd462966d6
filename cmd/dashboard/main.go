// Command dashboard serves the US traffic accidents dashboard API.
// It loads the accident CSV once at startup (downloading it first when a
// source URL is configured and the file is missing), then serves filtered
// aggregates and rendered charts until shut down.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "accidentdash/internal/adapter/http"
	"accidentdash/internal/config"
	"accidentdash/internal/dataset"
	"accidentdash/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.FetchEnabled() {
		fetcher := dataset.NewFetcher(cfg.DatasetURL, cfg.DatasetFetchTimeout, logger)
		if err := fetcher.EnsureLocal(ctx, cfg.DatasetPath); err != nil {
			logger.Error("dataset fetch failed", "error", err)
			os.Exit(1)
		}
	}

	snap, err := dataset.Load(cfg.DatasetPath, cfg.DatasetMaxRows, logger)
	if err != nil {
		logger.Error("dataset load failed", "error", err)
		os.Exit(1)
	}

	metrics.DatasetRowsLoaded.Set(float64(len(snap.Records)))
	metrics.DatasetRowsSkipped.Set(float64(snap.Skipped))
	metrics.DatasetReady.Set(1)

	handler := httpadapter.NewHandler(snap, metrics, logger, cfg.GeoPointCap)
	srv := httpadapter.NewServer(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

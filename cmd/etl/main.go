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

	httpadapter "github.com/couchcryptid/weather-warehouse/internal/adapter/http"
	"github.com/couchcryptid/weather-warehouse/internal/config"
	"github.com/couchcryptid/weather-warehouse/internal/observability"
	"github.com/couchcryptid/weather-warehouse/internal/pipeline"
	"github.com/couchcryptid/weather-warehouse/internal/scheduler"
	"github.com/couchcryptid/weather-warehouse/internal/warehouse"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store selection: Postgres when configured, in-memory otherwise.
	var store warehouse.Store
	if cfg.DatabaseURL != "" {
		pg, err := warehouse.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open warehouse", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		logger.Info("warehouse ready", "backend", "postgres")
	} else {
		store = warehouse.NewMemory()
		logger.Warn("DATABASE_URL not set, using in-memory warehouse")
	}

	p := pipeline.New(store, nil, logger, metrics, cfg.RawLookback, cfg.ForecastHorizon)
	sched := scheduler.New(p, cfg.RunInterval, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, sched, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the schedule, if enabled; manual runs via POST /v1/runs work
	// either way.
	if cfg.ScheduleEnabled {
		if err := sched.Start(); err != nil {
			logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("scheduled runs disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	sched.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

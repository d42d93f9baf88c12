// Command ingestd runs the ingestion pipeline on a fixed interval and
// serves /healthz, /readyz, and /metrics. Each tick is the same isolated
// one-pass run that cmd/ingest performs; ticks are not coordinated with
// each other, and a failed pass is simply retried at the next tick.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/MadhiG/Real-time-data-pipeline/internal/adapter/openmeteo"
	"github.com/MadhiG/Real-time-data-pipeline/internal/adapter/web"
	"github.com/MadhiG/Real-time-data-pipeline/internal/adapter/yahoo"
	"github.com/MadhiG/Real-time-data-pipeline/internal/config"
	"github.com/MadhiG/Real-time-data-pipeline/internal/observability"
	"github.com/MadhiG/Real-time-data-pipeline/internal/pipeline"
	"github.com/MadhiG/Real-time-data-pipeline/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.DBURL, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	stocks := yahoo.NewClient(cfg.StockBaseURL, logger, metrics)
	weather := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, logger, metrics)
	p := pipeline.New(stocks, weather, st, cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(cfg.FetchInterval).Do(func() {
		if _, err := p.Run(ctx); err != nil {
			logger.Error("pipeline pass failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("failed to schedule pipeline", "error", err)
		os.Exit(1)
	}
	scheduler.StartAsync()

	srv := web.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("ingest daemon started", "interval", cfg.FetchInterval, "addr", cfg.HTTPAddr)
	<-ctx.Done()
	logger.Info("shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// Command ingest runs one full pipeline pass and exits: ensure schema,
// fetch stocks, fetch weather, append both to the store. All behavior is
// configured through environment variables (see internal/config); there are
// no flags. A non-zero exit means the store was unreachable or rejected a
// write; source failures only reduce the pass to an empty insert.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MadhiG/Real-time-data-pipeline/internal/adapter/openmeteo"
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

	if _, err := p.Run(ctx); err != nil {
		logger.Error("pipeline pass failed", "error", err)
		st.Close()
		os.Exit(1)
	}
}

// Package pipeline sequences one ingestion pass: ensure schema, then for
// each source fetch, normalize, and sink.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/MadhiG/Real-time-data-pipeline/internal/config"
	"github.com/MadhiG/Real-time-data-pipeline/internal/domain"
	"github.com/MadhiG/Real-time-data-pipeline/internal/observability"
)

// StockSource fetches raw per-symbol bars. Per-symbol failures are handled
// inside the source; an all-fail run surfaces as an empty batch.
type StockSource interface {
	Fetch(ctx context.Context, symbols []string) domain.RawStockBatch
}

// WeatherSource fetches an hourly series for one coordinate pair. Failures
// surface as an empty batch.
type WeatherSource interface {
	Fetch(ctx context.Context, lat, lon float64, location string) domain.RawWeatherBatch
}

// Sink owns schema creation and append-only persistence.
type Sink interface {
	EnsureSchema(ctx context.Context) error
	Append(ctx context.Context, table string, columns []string, rows []domain.Row) error
}

// LegOutcome reports one source's counts for a pass.
type LegOutcome struct {
	Fetched  int
	Dropped  int
	Inserted int
}

// Report aggregates per-source outcomes of one pass.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Stocks     LegOutcome
	Weather    LegOutcome
}

// Pipeline runs the linear ingestion state machine. One Run call is one
// pass; there is no retry loop, and scheduling is the caller's concern.
type Pipeline struct {
	stocks  StockSource
	weather WeatherSource
	sink    Sink

	symbols  []string
	lat, lon float64
	location string

	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline wired to the given sources and sink.
func New(stocks StockSource, weather WeatherSource, sink Sink, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		stocks:   stocks,
		weather:  weather,
		sink:     sink,
		symbols:  cfg.StockSymbols,
		lat:      cfg.WeatherLat,
		lon:      cfg.WeatherLon,
		location: cfg.WeatherLocation,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one pass has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a pass yet")
	}
	return nil
}

// Run executes one full pass. The two source legs are isolated: an empty
// stock batch never blocks the weather leg, and vice versa. Only schema or
// persistence failures abort the pass; they are the store's hard dependency.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{StartedAt: domain.Now()}

	if err := p.sink.EnsureSchema(ctx); err != nil {
		return report, err
	}

	if err := p.runStockLeg(ctx, &report.Stocks); err != nil {
		return report, err
	}
	if err := p.runWeatherLeg(ctx, &report.Weather); err != nil {
		return report, err
	}

	report.FinishedAt = domain.Now()
	p.metrics.RunsTotal.Inc()
	p.metrics.RunDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	p.metrics.LastRunSuccess.SetToCurrentTime()
	p.ready.Store(true)

	p.logger.Info("pass complete",
		"stocks_inserted", report.Stocks.Inserted,
		"weather_inserted", report.Weather.Inserted,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report, nil
}

func (p *Pipeline) runStockLeg(ctx context.Context, outcome *LegOutcome) error {
	p.logger.Info("fetching stocks", "symbols", p.symbols)
	raw := p.stocks.Fetch(ctx, p.symbols)
	outcome.Fetched = len(raw.Rows)
	p.metrics.RowsFetched.WithLabelValues("stocks").Add(float64(outcome.Fetched))

	batch := domain.NormalizeStocks(raw)
	outcome.Dropped = outcome.Fetched - len(batch.Bars)
	p.metrics.RowsDropped.WithLabelValues("stocks").Add(float64(outcome.Dropped))

	if batch.Empty() {
		p.logger.Info("no stock data fetched, nothing to insert")
		return nil
	}

	if err := p.sink.Append(ctx, "stocks", batch.Columns, batch.Rows()); err != nil {
		return err
	}
	outcome.Inserted = len(batch.Bars)
	p.metrics.RowsInserted.WithLabelValues("stocks").Add(float64(outcome.Inserted))
	p.logger.Info("inserted stock rows", "rows", outcome.Inserted)
	return nil
}

func (p *Pipeline) runWeatherLeg(ctx context.Context, outcome *LegOutcome) error {
	p.logger.Info("fetching weather", "lat", p.lat, "lon", p.lon, "location", p.location)
	raw := p.weather.Fetch(ctx, p.lat, p.lon, p.location)
	outcome.Fetched = len(raw.Rows)
	p.metrics.RowsFetched.WithLabelValues("weather").Add(float64(outcome.Fetched))

	batch := domain.NormalizeWeather(raw)
	if batch.Empty() {
		p.logger.Info("no weather data fetched, nothing to insert")
		return nil
	}

	if err := p.sink.Append(ctx, "weather", batch.Columns, batch.Rows()); err != nil {
		return err
	}
	outcome.Inserted = len(batch.Samples)
	p.metrics.RowsInserted.WithLabelValues("weather").Add(float64(outcome.Inserted))
	p.logger.Info("inserted weather rows", "rows", outcome.Inserted)
	return nil
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline. Source label values are "stocks" and "weather".
type Metrics struct {
	RowsFetched  *prometheus.CounterVec // labels: source
	RowsInserted *prometheus.CounterVec // labels: source
	RowsDropped  *prometheus.CounterVec // labels: source
	FetchErrors  *prometheus.CounterVec // labels: source

	RunsTotal      prometheus.Counter
	RunDuration    prometheus.Histogram
	LastRunSuccess prometheus.Gauge // unix seconds of the last completed pass
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsFetched,
		m.RowsInserted,
		m.RowsDropped,
		m.FetchErrors,
		m.RunsTotal,
		m.RunDuration,
		m.LastRunSuccess,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "rows_fetched_total",
			Help:      "Raw rows fetched from a source before normalization.",
		}, []string{"source"}),
		RowsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "rows_inserted_total",
			Help:      "Normalized rows appended to the store.",
		}, []string{"source"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "rows_dropped_total",
			Help:      "Raw rows dropped during normalization (missing timestamp).",
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "fetch_errors_total",
			Help:      "Provider fetch failures, per source.",
		}, []string{"source"}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "runs_total",
			Help:      "Completed pipeline passes.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-sink pass.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ingest",
			Name:      "last_run_success_timestamp_seconds",
			Help:      "Unix time of the last pass that reached Done.",
		}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// warehouse pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: status={success,failure}
	RunDuration     prometheus.Histogram
	LastRunUnix     prometheus.Gauge
	PipelineRunning prometheus.Gauge

	// Loader metrics.
	RowsLoaded    *prometheus.CounterVec // labels: stream={observations,forecast}
	DuplicateRows prometheus.Counter

	// Transformation graph metrics.
	NodeBuilds        *prometheus.CounterVec   // labels: node, outcome={built,cached,skipped,failed}
	NodeBuildDuration *prometheus.HistogramVec // labels: node
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.LastRunUnix,
		m.PipelineRunning,
		m.RowsLoaded,
		m.DuplicateRows,
		m.NodeBuilds,
		m.NodeBuildDuration,
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
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "runs_total",
			Help:      "Pipeline runs by terminal status.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-transform-materialize run.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastRunUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_etl",
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix time of the last successful pipeline run.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_etl",
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is in progress, 0 otherwise.",
		}),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "rows_loaded_total",
			Help:      "Rows written to the raw store by input stream.",
		}, []string{"stream"}),
		DuplicateRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "duplicate_rows_total",
			Help:      "Observation rows skipped because their natural key already existed.",
		}),
		NodeBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "node_builds_total",
			Help:      "Transformation node executions by outcome.",
		}, []string{"node", "outcome"}),
		NodeBuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "node_build_duration_seconds",
			Help:      "Build duration per transformation node.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"node"}),
	}
}

// Package pipeline orchestrates one warehouse run: apply incoming batches to
// the raw store, then rebuild the derived tables by executing the
// transformation graph in dependency order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/couchcryptid/weather-warehouse/internal/observability"
	"github.com/couchcryptid/weather-warehouse/internal/warehouse"
)

// LocationBatch carries one location's freshly extracted records. The
// location is identified by its natural key; warehouse IDs are assigned
// during the run.
type LocationBatch struct {
	Location     domain.Location
	Observations []domain.Observation
	Forecasts    []domain.ForecastPoint
}

// Source supplies the raw input for a run. Extraction transport and cadence
// belong to the collaborator behind this interface, not the pipeline.
type Source interface {
	Fetch(ctx context.Context) ([]LocationBatch, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]LocationBatch, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) ([]LocationBatch, error) { return f(ctx) }

// Pipeline runs the load-transform-materialize cycle against the warehouse.
type Pipeline struct {
	store   warehouse.Store
	source  Source
	loader  *Loader
	logger  *slog.Logger
	metrics *observability.Metrics

	lookback time.Duration
	horizon  time.Duration

	mu    sync.Mutex
	ready atomic.Bool
}

// New creates a Pipeline. A nil source makes every run transform-only:
// derived tables are rebuilt from whatever the raw store already holds.
func New(store warehouse.Store, source Source, logger *slog.Logger, metrics *observability.Metrics, lookback, horizon time.Duration) *Pipeline {
	return &Pipeline{
		store:    store,
		source:   source,
		loader:   NewLoader(store, logger, metrics),
		logger:   logger,
		metrics:  metrics,
		lookback: lookback,
		horizon:  horizon,
	}
}

// CheckReadiness returns nil once at least one run has completed
// successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no pipeline run has completed yet")
	}
	return nil
}

// Run executes one full cycle. Concurrent calls serialize; the raw store is
// never touched by two overlapping runs from the same process.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	logger.Info("pipeline run started")

	err := p.run(ctx, logger)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("failure").Inc()
		logger.Error("pipeline run failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("run %s: %w", runID, err)
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRunUnix.Set(float64(domain.Now().Unix()))
	p.ready.Store(true)
	logger.Info("pipeline run complete", "duration", time.Since(start))
	return nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger) error {
	// Observations are append-only, so their staging view is always stale.
	// The forecast branch only recomputes when a fresh pull replaced it.
	changed := []string{nodeStgObservations}

	if p.source != nil {
		forecastLoaded, err := p.ingest(ctx, logger)
		if err != nil {
			return err
		}
		if forecastLoaded {
			changed = append(changed, nodeStgForecast)
		}
	}

	g, err := p.buildGraph()
	if err != nil {
		return err
	}

	stale := g.Closure(changed...)
	observe := func(node, outcome string, err error) {
		p.metrics.NodeBuilds.WithLabelValues(node, outcome).Inc()
		switch outcome {
		case "failed":
			logger.Error("node build failed", "node", node, "error", err)
		case "built":
			logger.Debug("node built", "node", node)
		}
	}

	return g.Execute(ctx, stale, observe)
}

// ingest pulls one batch from the source and applies it to the raw store.
// Reports whether a forecast window was replaced.
func (p *Pipeline) ingest(ctx context.Context, logger *slog.Logger) (bool, error) {
	batches, err := p.source.Fetch(ctx)
	if err != nil {
		return false, fmt.Errorf("fetch batch: %w", err)
	}
	if len(batches) == 0 {
		logger.Info("source returned no batches")
		return false, nil
	}

	locs := make([]domain.Location, len(batches))
	for i, b := range batches {
		locs[i] = b.Location
	}
	upserted, err := p.store.UpsertLocations(ctx, locs)
	if err != nil {
		return false, fmt.Errorf("upsert locations: %w", err)
	}

	var observations []domain.Observation
	var forecasts []domain.ForecastPoint
	for i, b := range batches {
		id := upserted[i].ID
		for _, o := range b.Observations {
			o.LocationID = id
			observations = append(observations, o)
		}
		for _, f := range b.Forecasts {
			f.LocationID = id
			forecasts = append(forecasts, f)
		}
	}

	if _, err := p.loader.LoadObservations(ctx, observations); err != nil {
		return false, err
	}
	if len(forecasts) == 0 {
		return false, nil
	}
	if err := p.loader.LoadForecasts(ctx, forecasts, p.horizon); err != nil {
		return false, err
	}
	return true, nil
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/couchcryptid/weather-warehouse/internal/observability"
	"github.com/couchcryptid/weather-warehouse/internal/warehouse"
)

// Loader applies incoming batches to the raw store. Observations use
// per-row conflict-ignore inserts so re-delivery is idempotent; forecasts
// replace the whole future window in one transaction.
type Loader struct {
	store   warehouse.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader writing to the given store.
func NewLoader(store warehouse.Store, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{store: store, logger: logger, metrics: metrics}
}

// LoadObservations inserts a batch of observations, skipping rows whose
// natural key already exists. Referenced date rows are created first so the
// fact insert never trips a foreign key. Returns the inserted count.
func (l *Loader) LoadObservations(ctx context.Context, obs []domain.Observation) (int, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	times := make([]time.Time, len(obs))
	for i, o := range obs {
		times[i] = o.ObservationTime
	}
	if err := l.ensureDates(ctx, times); err != nil {
		return 0, err
	}

	inserted, err := l.store.InsertObservations(ctx, obs)
	if err != nil {
		return inserted, fmt.Errorf("load observations: %w", err)
	}

	duplicates := len(obs) - inserted
	l.metrics.RowsLoaded.WithLabelValues("observations").Add(float64(inserted))
	l.metrics.DuplicateRows.Add(float64(duplicates))
	l.logger.Info("observations loaded",
		"batch_size", len(obs), "inserted", inserted, "duplicates", duplicates)
	return inserted, nil
}

// LoadForecasts replaces the forecast window [now, now+horizon) with the
// given points. Points outside the window are dropped before the replace.
// A failed replace rolls back to the prior window and is a hard error.
func (l *Loader) LoadForecasts(ctx context.Context, points []domain.ForecastPoint, horizon time.Duration) error {
	from := domain.Now().Truncate(time.Hour)
	to := from.Add(horizon)

	inWindow := make([]domain.ForecastPoint, 0, len(points))
	for _, f := range points {
		at := f.ForecastTime.UTC()
		if at.Before(from) || !at.Before(to) {
			continue
		}
		inWindow = append(inWindow, f)
	}
	if dropped := len(points) - len(inWindow); dropped > 0 {
		l.logger.Warn("forecast points outside window dropped",
			"dropped", dropped, "window_start", from, "window_end", to)
	}

	times := make([]time.Time, len(inWindow))
	for i, f := range inWindow {
		times[i] = f.ForecastTime
	}
	if err := l.ensureDates(ctx, times); err != nil {
		return err
	}

	if err := l.store.ReplaceForecastWindow(ctx, from, to, inWindow); err != nil {
		return fmt.Errorf("load forecasts: %w", err)
	}

	l.metrics.RowsLoaded.WithLabelValues("forecast").Add(float64(len(inWindow)))
	l.logger.Info("forecast window replaced",
		"points", len(inWindow), "window_start", from, "window_end", to)
	return nil
}

// ensureDates creates any missing date dimension rows for the UTC dates the
// given timestamps fall on.
func (l *Loader) ensureDates(ctx context.Context, times []time.Time) error {
	seen := make(map[time.Time]bool)
	var dims []domain.DateDim
	for _, t := range times {
		dim := domain.NewDateDim(t.UTC())
		if seen[dim.Date] {
			continue
		}
		seen[dim.Date] = true
		dims = append(dims, dim)
	}
	if err := l.store.EnsureDates(ctx, dims); err != nil {
		return fmt.Errorf("ensure dates: %w", err)
	}
	return nil
}

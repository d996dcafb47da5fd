package pipeline

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/couchcryptid/weather-warehouse/internal/observability"
	"github.com/couchcryptid/weather-warehouse/internal/warehouse"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestLoader_LoadObservationsIdempotent(t *testing.T) {
	store := warehouse.NewMemory()
	loader := NewLoader(store, discardLogger(), observability.NewMetricsForTesting())
	ctx := t.Context()
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	batch := []domain.Observation{
		{LocationID: 1, ObservationTime: at, TemperatureC: 3},
		{LocationID: 1, ObservationTime: at.Add(15 * time.Minute), TemperatureC: 3.5},
	}

	inserted, err := loader.LoadObservations(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Full-batch retry is safe: nothing is inserted twice.
	inserted, err = loader.LoadObservations(ctx, batch)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	got, err := store.ObservationsSince(ctx, at)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLoader_LoadObservationsEmpty(t *testing.T) {
	loader := NewLoader(warehouse.NewMemory(), discardLogger(), observability.NewMetricsForTesting())

	inserted, err := loader.LoadObservations(t.Context(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestLoader_LoadForecastsWindow(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	freezeTime(t, now)

	store := warehouse.NewMemory()
	loader := NewLoader(store, discardLogger(), observability.NewMetricsForTesting())
	ctx := t.Context()

	windowStart := now.Truncate(time.Hour)
	points := []domain.ForecastPoint{
		{LocationID: 1, ForecastTime: windowStart},
		{LocationID: 1, ForecastTime: windowStart.Add(167 * time.Hour)},
		{LocationID: 1, ForecastTime: windowStart.Add(-time.Hour)},    // before the window
		{LocationID: 1, ForecastTime: windowStart.Add(168 * time.Hour)}, // at the horizon, exclusive
	}

	require.NoError(t, loader.LoadForecasts(ctx, points, 168*time.Hour))

	got, err := store.ForecastsBetween(ctx, windowStart, windowStart.Add(168*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2, "out-of-window points are dropped")
	assert.Equal(t, windowStart, got[0].ForecastTime)
	assert.Equal(t, windowStart.Add(167*time.Hour), got[1].ForecastTime)
}

func TestLoader_LoadForecastsSupersedesPriorWindow(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	freezeTime(t, now)

	store := warehouse.NewMemory()
	loader := NewLoader(store, discardLogger(), observability.NewMetricsForTesting())
	ctx := t.Context()

	require.NoError(t, loader.LoadForecasts(ctx, []domain.ForecastPoint{
		{LocationID: 1, ForecastTime: now, TemperatureC: 5},
		{LocationID: 2, ForecastTime: now, TemperatureC: 6},
	}, 168*time.Hour))

	// A fresh pull replaces the entire window, including rows for
	// locations absent from the new set.
	require.NoError(t, loader.LoadForecasts(ctx, []domain.ForecastPoint{
		{LocationID: 1, ForecastTime: now, TemperatureC: 7},
	}, 168*time.Hour))

	got, err := store.ForecastsBetween(ctx, now, now.Add(168*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7.0, got[0].TemperatureC)
}

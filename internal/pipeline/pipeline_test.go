package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/couchcryptid/weather-warehouse/internal/observability"
	"github.com/couchcryptid/weather-warehouse/internal/warehouse"
)

func testBatches(now time.Time) []LocationBatch {
	return []LocationBatch{
		{
			Location: domain.Location{Name: "Brooklyn - Williamsburg", Latitude: 40.71, Longitude: -73.95},
			Observations: []domain.Observation{
				{ObservationTime: now.Add(-30 * time.Minute), TemperatureC: 0, WeatherCode: 71, SnowfallCM: 1.2, PrecipitationMM: 1.2, IsDay: 1},
				{ObservationTime: now.Add(-15 * time.Minute), TemperatureC: -1, WeatherCode: 71, SnowfallCM: 0.8, PrecipitationMM: 0.8, IsDay: 1},
			},
			Forecasts: []domain.ForecastPoint{
				{ForecastTime: now.Truncate(time.Hour).Add(time.Hour), TemperatureC: -2, WeatherCode: 73},
			},
		},
		{
			Location: domain.Location{Name: "Queens - Astoria", Latitude: 40.77, Longitude: -73.92},
			Observations: []domain.Observation{
				{ObservationTime: now.Add(-20 * time.Minute), TemperatureC: 12, WeatherCode: 0, IsDay: 1},
			},
		},
	}
}

func newTestPipeline(store warehouse.Store, source Source) *Pipeline {
	return New(store, source, discardLogger(), observability.NewMetricsForTesting(), 720*time.Hour, 168*time.Hour)
}

func TestPipeline_RunEndToEnd(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 45, 0, 0, time.UTC)
	freezeTime(t, now)

	store := warehouse.NewMemory()
	source := SourceFunc(func(_ context.Context) ([]LocationBatch, error) {
		return testBatches(now), nil
	})
	p := newTestPipeline(store, source)

	require.Error(t, p.CheckReadiness(t.Context()), "not ready before the first run")
	require.NoError(t, p.Run(t.Context()))
	assert.NoError(t, p.CheckReadiness(t.Context()))

	// Raw store holds the ingested facts.
	obs, err := store.ObservationsSince(t.Context(), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, obs, 3)

	fcs, err := store.ForecastsBetween(t.Context(), now.Truncate(time.Hour), now.Add(168*time.Hour))
	require.NoError(t, err)
	assert.Len(t, fcs, 1)

	// Derived tables are materialized from the enriched readings.
	hourly := store.HourlySummaries()
	require.Len(t, hourly, 2, "one hourly row per location")

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "Brooklyn - Williamsburg", snapshot[0].LocationName)
	assert.Equal(t, "Snow", snapshot[0].Condition, "latest Brooklyn reading is snowing")
	assert.Equal(t, "Queens - Astoria", snapshot[1].LocationName)
	assert.Equal(t, "Clear", snapshot[1].Condition)

	daily := store.DailySummaries()
	require.Len(t, daily, 2)

	weekly := store.WeeklySummaries()
	require.Len(t, weekly, 2)

	boroughs := store.BoroughDailySummaries()
	require.Len(t, boroughs, 2)
	assert.Equal(t, "Brooklyn", boroughs[0].Borough)
	assert.Equal(t, "Queens", boroughs[1].Borough)
}

func TestPipeline_RunIdempotentReIngestion(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 45, 0, 0, time.UTC)
	freezeTime(t, now)

	store := warehouse.NewMemory()
	source := SourceFunc(func(_ context.Context) ([]LocationBatch, error) {
		return testBatches(now), nil
	})
	p := newTestPipeline(store, source)

	require.NoError(t, p.Run(t.Context()))
	require.NoError(t, p.Run(t.Context()))

	obs, err := store.ObservationsSince(t.Context(), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, obs, 3, "re-delivered observations are deduplicated")

	locs, err := store.Locations(t.Context())
	require.NoError(t, err)
	assert.Len(t, locs, 2, "locations upsert in place")
}

func TestPipeline_TransformOnlyWithoutSource(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 45, 0, 0, time.UTC)
	freezeTime(t, now)

	store := warehouse.NewMemory()

	// Seed the raw store directly, then run without a source.
	locs, err := store.UpsertLocations(t.Context(), []domain.Location{
		{Name: "Bronx - Riverdale", Latitude: 40.90, Longitude: -73.91},
	})
	require.NoError(t, err)
	_, err = store.InsertObservations(t.Context(), []domain.Observation{
		{LocationID: locs[0].ID, ObservationTime: now.Add(-10 * time.Minute), TemperatureC: 25, IsDay: 1},
	})
	require.NoError(t, err)

	p := newTestPipeline(store, nil)
	require.NoError(t, p.Run(t.Context()))

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Warm", snapshot[0].TempCategory)
	assert.Equal(t, 77.0, snapshot[0].TemperatureF)
}

func TestPipeline_SourceFailureFailsRun(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 45, 0, 0, time.UTC)
	freezeTime(t, now)

	store := warehouse.NewMemory()
	source := SourceFunc(func(_ context.Context) ([]LocationBatch, error) {
		return nil, errors.New("upstream unavailable")
	})
	p := newTestPipeline(store, source)

	err := p.Run(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch batch")
	assert.Error(t, p.CheckReadiness(t.Context()), "failed run does not mark the service ready")
}

func TestPipeline_FailedRunLeavesPriorMartsUntouched(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 45, 0, 0, time.UTC)
	freezeTime(t, now)

	store := warehouse.NewMemory()
	good := SourceFunc(func(_ context.Context) ([]LocationBatch, error) {
		return testBatches(now), nil
	})
	require.NoError(t, newTestPipeline(store, good).Run(t.Context()))
	before := store.Snapshot()
	require.NotEmpty(t, before)

	bad := SourceFunc(func(_ context.Context) ([]LocationBatch, error) {
		return nil, errors.New("upstream unavailable")
	})
	require.Error(t, newTestPipeline(store, bad).Run(t.Context()))

	assert.Equal(t, before, store.Snapshot(), "prior mart contents survive a failed run")
}

package warehouse_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/couchcryptid/weather-warehouse/internal/warehouse"
)

func obsAt(locID int64, at time.Time, tempC float64) domain.Observation {
	return domain.Observation{
		LocationID:      locID,
		ObservationTime: at,
		TemperatureC:    tempC,
	}
}

func forecastAt(locID int64, at time.Time) domain.ForecastPoint {
	return domain.ForecastPoint{LocationID: locID, ForecastTime: at}
}

func TestMemory_UpsertLocations(t *testing.T) {
	store := warehouse.NewMemory()
	ctx := t.Context()

	first, err := store.UpsertLocations(ctx, []domain.Location{
		{Name: "Brooklyn - Williamsburg", Latitude: 40.71, Longitude: -73.95},
		{Name: "Queens - Astoria", Latitude: 40.77, Longitude: -73.92},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.NotZero(t, first[0].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
	assert.Equal(t, "UTC", first[0].Timezone, "timezone defaults when unset")

	// Same coordinates, new name: refreshes in place, keeps the ID.
	second, err := store.UpsertLocations(ctx, []domain.Location{
		{Name: "Brooklyn - Greenpoint", Latitude: 40.71, Longitude: -73.95},
	})
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)

	locs, err := store.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Brooklyn - Greenpoint", locs[0].Name)
}

func TestMemory_InsertObservationsIdempotent(t *testing.T) {
	store := warehouse.NewMemory()
	ctx := t.Context()
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	batch := []domain.Observation{
		obsAt(1, at, 2.0),
		obsAt(1, at.Add(15*time.Minute), 2.5),
		obsAt(2, at, -1.0),
	}

	n, err := store.InsertObservations(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Re-delivering the same batch inserts nothing and changes nothing.
	for range 3 {
		n, err = store.InsertObservations(ctx, batch)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	got, err := store.ObservationsSince(ctx, at)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got[0].TemperatureC, "first write wins for a duplicate key")
}

func TestMemory_ObservationsSinceOrdering(t *testing.T) {
	store := warehouse.NewMemory()
	ctx := t.Context()
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	_, err := store.InsertObservations(ctx, []domain.Observation{
		obsAt(2, at.Add(time.Hour), 1),
		obsAt(1, at.Add(2*time.Hour), 2),
		obsAt(1, at, 3),
		obsAt(2, at.Add(-time.Hour), 4), // before the cutoff
	})
	require.NoError(t, err)

	got, err := store.ObservationsSince(ctx, at)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].LocationID)
	assert.Equal(t, at, got[0].ObservationTime)
	assert.Equal(t, int64(1), got[1].LocationID)
	assert.Equal(t, int64(2), got[2].LocationID)
}

func TestMemory_ReplaceForecastWindow(t *testing.T) {
	store := warehouse.NewMemory()
	ctx := t.Context()
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.Add(168 * time.Hour)

	// A point before the window survives every replace.
	historical := forecastAt(1, from.Add(-time.Hour))
	require.NoError(t, store.ReplaceForecastWindow(ctx, from.Add(-2*time.Hour), from, []domain.ForecastPoint{historical}))

	require.NoError(t, store.ReplaceForecastWindow(ctx, from, to, []domain.ForecastPoint{
		forecastAt(1, from),
		forecastAt(1, from.Add(time.Hour)),
		forecastAt(2, from),
	}))

	// Replacing the window drops all prior rows in [from, to), including
	// those for locations absent from the new set.
	require.NoError(t, store.ReplaceForecastWindow(ctx, from, to, []domain.ForecastPoint{
		forecastAt(1, from.Add(2 * time.Hour)),
	}))

	inWindow, err := store.ForecastsBetween(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, inWindow, 1)
	assert.Equal(t, from.Add(2*time.Hour), inWindow[0].ForecastTime)

	all, err := store.ForecastsBetween(ctx, from.Add(-24*time.Hour), to)
	require.NoError(t, err)
	assert.Len(t, all, 2, "row outside the window is untouched")
}

func TestMemory_ReplaceForecastWindowRejectsDuplicates(t *testing.T) {
	store := warehouse.NewMemory()
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	err := store.ReplaceForecastWindow(t.Context(), from, from.Add(time.Hour), []domain.ForecastPoint{
		forecastAt(1, from),
		forecastAt(1, from),
	})
	assert.Error(t, err)
}

func TestMemory_DeleteLocationCascades(t *testing.T) {
	store := warehouse.NewMemory()
	ctx := t.Context()
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	locs, err := store.UpsertLocations(ctx, []domain.Location{
		{Name: "A", Latitude: 1, Longitude: 1},
		{Name: "B", Latitude: 2, Longitude: 2},
	})
	require.NoError(t, err)

	_, err = store.InsertObservations(ctx, []domain.Observation{
		obsAt(locs[0].ID, at, 1),
		obsAt(locs[1].ID, at, 2),
	})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceForecastWindow(ctx, at, at.Add(time.Hour), []domain.ForecastPoint{
		forecastAt(locs[0].ID, at),
		forecastAt(locs[1].ID, at),
	}))

	require.NoError(t, store.DeleteLocation(ctx, locs[0].ID))

	remaining, err := store.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, locs[1].ID, remaining[0].ID)

	obs, err := store.ObservationsSince(ctx, at)
	require.NoError(t, err)
	require.Len(t, obs, 1, "cascade removes only the deleted location's facts")
	assert.Equal(t, locs[1].ID, obs[0].LocationID)

	fcs, err := store.ForecastsBetween(ctx, at, at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, fcs, 1)
	assert.Equal(t, locs[1].ID, fcs[0].LocationID)
}

func TestMemory_DeleteLocationUnknown(t *testing.T) {
	store := warehouse.NewMemory()
	err := store.DeleteLocation(t.Context(), 42)
	assert.ErrorIs(t, err, warehouse.ErrNotFound)
}

func TestMemory_ReplaceDerivedTables(t *testing.T) {
	store := warehouse.NewMemory()
	ctx := t.Context()
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.ReplaceDailySummaries(ctx, []domain.DailySummary{
		{LocationID: 1, Date: day},
		{LocationID: 2, Date: day},
	}))
	assert.Len(t, store.DailySummaries(), 2)

	// A replace swaps contents wholesale, never appends.
	require.NoError(t, store.ReplaceDailySummaries(ctx, []domain.DailySummary{
		{LocationID: 3, Date: day},
	}))
	got := store.DailySummaries()
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].LocationID)

	require.NoError(t, store.ReplaceDailySummaries(ctx, nil))
	assert.Empty(t, store.DailySummaries())
}

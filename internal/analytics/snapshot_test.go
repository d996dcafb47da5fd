package analytics_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/analytics"
	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentSnapshot(t *testing.T) {
	locations := []domain.Location{
		{ID: 1, Name: "Queens - Astoria"},
		{ID: 2, Name: "Bronx - Riverdale"},
		{ID: 3, Name: "Staten Island - St. George"},
	}

	early := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)

	obs := []domain.EnrichedObservation{
		enrichedAt(1, early, func(s *domain.StagedObservation) { s.TemperatureF = 30 }),
		enrichedAt(1, late, func(s *domain.StagedObservation) { s.TemperatureF = 38 }),
		enrichedAt(2, early, func(s *domain.StagedObservation) { s.TemperatureF = 25 }),
		// Location 3 has no readings and must not appear.
	}

	rows := analytics.CurrentSnapshot(locations, obs)
	require.Len(t, rows, 2)

	// Ordered by location name: Bronx before Queens.
	assert.Equal(t, "Bronx - Riverdale", rows[0].LocationName)
	assert.Equal(t, "Bronx", rows[0].Borough)
	assert.Equal(t, 25.0, rows[0].TemperatureF)

	assert.Equal(t, "Queens - Astoria", rows[1].LocationName)
	assert.Equal(t, late, rows[1].ObservationTime, "latest reading wins")
	assert.Equal(t, 38.0, rows[1].TemperatureF)
}

func TestCurrentSnapshot_NoObservations(t *testing.T) {
	locations := []domain.Location{{ID: 1, Name: "Somewhere"}}
	assert.Empty(t, analytics.CurrentSnapshot(locations, nil))
}

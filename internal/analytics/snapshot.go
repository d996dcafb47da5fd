package analytics

import (
	"sort"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

// CurrentSnapshot joins the latest enriched observation per location to the
// location dimension. One row per location with at least one reading,
// ordered by location name.
func CurrentSnapshot(locations []domain.Location, observations []domain.EnrichedObservation) []domain.SnapshotRow {
	latest := make(map[int64]domain.EnrichedObservation, len(locations))
	for _, o := range observations {
		cur, ok := latest[o.LocationID]
		if !ok || !o.ObservationTime.Before(cur.ObservationTime) {
			latest[o.LocationID] = o
		}
	}

	out := make([]domain.SnapshotRow, 0, len(latest))
	for _, loc := range locations {
		o, ok := latest[loc.ID]
		if !ok {
			continue
		}
		out = append(out, domain.SnapshotRow{
			LocationID:      loc.ID,
			LocationName:    loc.Name,
			Borough:         loc.BoroughOf(),
			ObservationTime: o.ObservationTime,
			TemperatureF:    o.TemperatureF,
			FeelsLikeF:      o.FeelsLikeF,
			TempCategory:    o.TempCategory,
			Condition:       o.Condition,
			ComfortLevel:    o.ComfortLevel,
			WindMPH:         o.WindSpeedMPH,
			WindCardinal:    o.WindCardinal,
			DayNight:        o.DayNight,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationName < out[j].LocationName })
	return out
}

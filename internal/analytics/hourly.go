// Package analytics derives the intermediate and mart rows from staged
// records: hourly rollups, the current snapshot, and the daily, weekly, and
// borough comparison tables. Every function is a pure map/group-by/reduce
// over its inputs so the derived tables are fully reproducible from the raw
// store.
package analytics

import (
	"sort"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

type hourKey struct {
	locationID int64
	hour       time.Time
}

// HourlySummaries groups enriched observations by (location, hour bucket).
// The latest reading in each hour supplies the point-in-time fields; on a
// timestamp tie the row appearing last in input order wins. Numeric metrics
// are averaged, maxed, or summed across all readings in the hour, and event
// flags are OR-ed.
func HourlySummaries(observations []domain.EnrichedObservation) []domain.HourlySummary {
	groups := make(map[hourKey][]domain.EnrichedObservation)
	for _, o := range observations {
		k := hourKey{o.LocationID, o.ObservationTime.Truncate(time.Hour)}
		groups[k] = append(groups[k], o)
	}

	out := make([]domain.HourlySummary, 0, len(groups))
	for k, readings := range groups {
		out = append(out, summarizeHour(k, readings))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].HourStart.Before(out[j].HourStart)
	})
	return out
}

func summarizeHour(k hourKey, readings []domain.EnrichedObservation) domain.HourlySummary {
	latest := readings[0]
	s := domain.HourlySummary{
		LocationID:    k.locationID,
		HourStart:     k.hour,
		ReadingsCount: len(readings),
	}

	var sumHumidity, sumWind, sumWindDir, sumCloud, sumPressure float64
	for _, r := range readings {
		// >= keeps the later input row on exact timestamp ties.
		if !r.ObservationTime.Before(latest.ObservationTime) {
			latest = r
		}

		sumHumidity += r.HumidityPct
		sumWind += r.WindSpeedMPH
		sumWindDir += r.WindDirectionDeg
		sumCloud += r.CloudCoverPct
		sumPressure += r.PressureMSL
		if r.WindGustMPH > s.MaxGustMPH {
			s.MaxGustMPH = r.WindGustMPH
		}
		s.TotalPrecipMM += r.PrecipitationMM
		s.TotalRainMM += r.RainMM + r.ShowersMM
		s.TotalSnowCM += r.SnowfallCM

		s.AnyPrecip = s.AnyPrecip || r.Flags.IsPrecipitating
		s.AnySnow = s.AnySnow || r.Flags.IsSnowing
		s.AnyFreezing = s.AnyFreezing || r.Flags.IsFreezing
		s.AnyWindy = s.AnyWindy || r.Flags.IsWindy
	}

	n := float64(len(readings))
	s.AvgHumidityPct = sumHumidity / n
	s.AvgWindMPH = sumWind / n
	s.AvgWindDirDeg = sumWindDir / n
	s.AvgCloudCoverPct = sumCloud / n
	s.AvgPressureMSL = sumPressure / n

	s.LatestObservation = latest.ObservationTime
	s.TemperatureF = latest.TemperatureF
	s.FeelsLikeF = latest.FeelsLikeF
	s.TempCategory = latest.TempCategory
	s.Condition = latest.Condition
	s.ComfortLevel = latest.ComfortLevel
	s.DayNight = latest.DayNight

	return s
}

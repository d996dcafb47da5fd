package analytics

import (
	"sort"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

type dayKey struct {
	locationID int64
	date       time.Time
}

// DailySummaries groups hourly rows by (location, calendar date). Temperature
// is aggregated min/max/mean with the derived range, precipitation is summed,
// the predominant condition is the statistical mode of the day's hourly
// conditions, and the count fields double as data-quality signals (a day
// with no readings simply has no row; partially observed days report
// HoursObserved < 24).
func DailySummaries(hours []domain.HourlySummary) []domain.DailySummary {
	groups := make(map[dayKey][]domain.HourlySummary)
	for _, h := range hours {
		k := dayKey{h.LocationID, h.HourStart.Truncate(24 * time.Hour)}
		groups[k] = append(groups[k], h)
	}

	out := make([]domain.DailySummary, 0, len(groups))
	for k, rows := range groups {
		out = append(out, summarizeDay(k, rows))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func summarizeDay(k dayKey, rows []domain.HourlySummary) domain.DailySummary {
	d := domain.DailySummary{
		LocationID:    k.locationID,
		Date:          k.date,
		MinTempF:      rows[0].TemperatureF,
		MaxTempF:      rows[0].TemperatureF,
		HoursObserved: len(rows),
	}

	var sumTemp float64
	conditions := make(map[string]int, len(rows))
	for _, h := range rows {
		if h.TemperatureF < d.MinTempF {
			d.MinTempF = h.TemperatureF
		}
		if h.TemperatureF > d.MaxTempF {
			d.MaxTempF = h.TemperatureF
		}
		sumTemp += h.TemperatureF
		d.TotalPrecipMM += h.TotalPrecipMM
		d.TotalSnowCM += h.TotalSnowCM
		conditions[h.Condition]++
		if h.AnyPrecip {
			d.HoursWithPrecip++
		}
		if h.AnySnow {
			d.HoursWithSnow++
		}
	}

	d.AvgTempF = sumTemp / float64(len(rows))
	d.TempRangeF = d.MaxTempF - d.MinTempF
	d.PredominantCondition = mode(conditions)
	return d
}

// mode returns the most frequent label; ties break to the lexicographically
// smallest label so the result is deterministic.
func mode(counts map[string]int) string {
	var best string
	bestCount := -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label < best) {
			best = label
			bestCount = count
		}
	}
	return best
}

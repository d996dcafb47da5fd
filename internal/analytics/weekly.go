package analytics

import (
	"sort"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

type weekKey struct {
	locationID int64
	weekStart  time.Time
}

// weekStartOf truncates a date to the Monday starting its ISO week.
func weekStartOf(d time.Time) time.Time {
	daysSinceMonday := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -daysSinceMonday)
}

// WeeklySummaries re-aggregates daily rows by (location, ISO week starting
// Monday): the same metric families at coarser grain plus a day count. The
// weekly predominant condition is the mode over the member days' predominant
// conditions, ties breaking lexicographically.
func WeeklySummaries(days []domain.DailySummary) []domain.WeeklySummary {
	groups := make(map[weekKey][]domain.DailySummary)
	for _, d := range days {
		k := weekKey{d.LocationID, weekStartOf(d.Date)}
		groups[k] = append(groups[k], d)
	}

	out := make([]domain.WeeklySummary, 0, len(groups))
	for k, rows := range groups {
		w := domain.WeeklySummary{
			LocationID:   k.locationID,
			WeekStart:    k.weekStart,
			MinTempF:     rows[0].MinTempF,
			MaxTempF:     rows[0].MaxTempF,
			DaysObserved: len(rows),
		}

		var sumAvg float64
		conditions := make(map[string]int, len(rows))
		for _, d := range rows {
			if d.MinTempF < w.MinTempF {
				w.MinTempF = d.MinTempF
			}
			if d.MaxTempF > w.MaxTempF {
				w.MaxTempF = d.MaxTempF
			}
			sumAvg += d.AvgTempF
			w.TotalPrecipMM += d.TotalPrecipMM
			w.TotalSnowCM += d.TotalSnowCM
			conditions[d.PredominantCondition]++
		}
		w.AvgTempF = sumAvg / float64(len(rows))
		w.PredominantCondition = mode(conditions)
		out = append(out, w)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}

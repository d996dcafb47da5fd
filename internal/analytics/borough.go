package analytics

import (
	"sort"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

type boroughKey struct {
	borough string
	date    time.Time
}

// BoroughDailySummaries compares member locations across their administrative
// grouping for each calendar date: averaged and extreme temperatures across
// members, total precipitation, and the percentage of member locations that
// saw precipitation or snow that day.
func BoroughDailySummaries(locations []domain.Location, days []domain.DailySummary) []domain.BoroughDailySummary {
	boroughs := make(map[int64]string, len(locations))
	for _, loc := range locations {
		boroughs[loc.ID] = loc.BoroughOf()
	}

	groups := make(map[boroughKey][]domain.DailySummary)
	for _, d := range days {
		b, ok := boroughs[d.LocationID]
		if !ok {
			continue
		}
		k := boroughKey{b, d.Date}
		groups[k] = append(groups[k], d)
	}

	out := make([]domain.BoroughDailySummary, 0, len(groups))
	for k, rows := range groups {
		s := domain.BoroughDailySummary{
			Borough:            k.borough,
			Date:               k.date,
			MinTempF:           rows[0].MinTempF,
			MaxTempF:           rows[0].MaxTempF,
			LocationsReporting: len(rows),
		}

		var sumAvg float64
		var withPrecip, withSnow int
		for _, d := range rows {
			if d.MinTempF < s.MinTempF {
				s.MinTempF = d.MinTempF
			}
			if d.MaxTempF > s.MaxTempF {
				s.MaxTempF = d.MaxTempF
			}
			sumAvg += d.AvgTempF
			s.TotalPrecipMM += d.TotalPrecipMM
			if d.HoursWithPrecip > 0 {
				withPrecip++
			}
			if d.HoursWithSnow > 0 {
				withSnow++
			}
		}

		n := float64(len(rows))
		s.AvgTempF = sumAvg / n
		s.PctWithPrecip = 100 * float64(withPrecip) / n
		s.PctWithSnow = 100 * float64(withSnow) / n
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Borough != out[j].Borough {
			return out[i].Borough < out[j].Borough
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

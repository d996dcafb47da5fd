package warehouse

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

// Memory is an in-memory Store for tests and local runs. It mirrors the
// Postgres invariants: natural-key dedup on facts, cascade delete from a
// location, and all-or-nothing replaces of derived tables.
type Memory struct {
	mu     sync.Mutex
	nextID int64

	locations map[int64]domain.Location
	dates     map[time.Time]domain.DateDim

	observations map[obsKey]domain.Observation
	forecasts    map[obsKey]domain.ForecastPoint

	hourly    []domain.HourlySummary
	snapshot  []domain.SnapshotRow
	daily     []domain.DailySummary
	weekly    []domain.WeeklySummary
	boroughly []domain.BoroughDailySummary
}

type obsKey struct {
	locationID int64
	at         time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:       1,
		locations:    make(map[int64]domain.Location),
		dates:        make(map[time.Time]domain.DateDim),
		observations: make(map[obsKey]domain.Observation),
		forecasts:    make(map[obsKey]domain.ForecastPoint),
	}
}

func (m *Memory) UpsertLocations(_ context.Context, locs []domain.Location) ([]domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Location, len(locs))
	for i, l := range locs {
		if l.Timezone == "" {
			l.Timezone = "UTC"
		}
		if existing, ok := m.findByCoords(l.Latitude, l.Longitude); ok {
			l.ID = existing.ID
		} else {
			l.ID = m.nextID
			m.nextID++
		}
		m.locations[l.ID] = l
		out[i] = l
	}
	return out, nil
}

func (m *Memory) findByCoords(lat, lon float64) (domain.Location, bool) {
	for _, l := range m.locations {
		if l.Latitude == lat && l.Longitude == lon {
			return l, true
		}
	}
	return domain.Location{}, false
}

func (m *Memory) EnsureDates(_ context.Context, dates []domain.DateDim) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range dates {
		key := d.Date.UTC()
		if _, ok := m.dates[key]; !ok {
			m.dates[key] = d
		}
	}
	return nil
}

func (m *Memory) InsertObservations(_ context.Context, obs []domain.Observation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, o := range obs {
		o.ObservationTime = o.ObservationTime.UTC()
		key := obsKey{o.LocationID, o.ObservationTime}
		if _, dup := m.observations[key]; dup {
			continue
		}
		m.observations[key] = o
		inserted++
	}
	return inserted, nil
}

func (m *Memory) ReplaceForecastWindow(_ context.Context, from, to time.Time, points []domain.ForecastPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[obsKey]domain.ForecastPoint, len(m.forecasts))
	for key, f := range m.forecasts {
		if !key.at.Before(from) && key.at.Before(to) {
			continue
		}
		next[key] = f
	}
	for _, f := range points {
		f.ForecastTime = f.ForecastTime.UTC()
		key := obsKey{f.LocationID, f.ForecastTime}
		if _, dup := next[key]; dup {
			return fmt.Errorf("duplicate forecast point for location %d at %s", f.LocationID, f.ForecastTime)
		}
		next[key] = f
	}
	m.forecasts = next
	return nil
}

func (m *Memory) DeleteLocation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.locations[id]; !ok {
		return fmt.Errorf("delete location %d: %w", id, ErrNotFound)
	}
	delete(m.locations, id)
	for key := range m.observations {
		if key.locationID == id {
			delete(m.observations, key)
		}
	}
	for key := range m.forecasts {
		if key.locationID == id {
			delete(m.forecasts, key)
		}
	}
	return nil
}

func (m *Memory) Locations(_ context.Context) ([]domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Location, 0, len(m.locations))
	for _, l := range m.locations {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b domain.Location) int {
		return int(a.ID - b.ID)
	})
	return out, nil
}

func (m *Memory) ObservationsSince(_ context.Context, since time.Time) ([]domain.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Observation
	for key, o := range m.observations {
		if !key.at.Before(since.UTC()) {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b domain.Observation) int {
		if a.LocationID != b.LocationID {
			return int(a.LocationID - b.LocationID)
		}
		return a.ObservationTime.Compare(b.ObservationTime)
	})
	return out, nil
}

func (m *Memory) ForecastsBetween(_ context.Context, from, to time.Time) ([]domain.ForecastPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.ForecastPoint
	for key, f := range m.forecasts {
		if !key.at.Before(from.UTC()) && key.at.Before(to.UTC()) {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b domain.ForecastPoint) int {
		if a.LocationID != b.LocationID {
			return int(a.LocationID - b.LocationID)
		}
		return a.ForecastTime.Compare(b.ForecastTime)
	})
	return out, nil
}

func (m *Memory) ReplaceHourlySummaries(_ context.Context, rows []domain.HourlySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hourly = slices.Clone(rows)
	return nil
}

func (m *Memory) ReplaceSnapshot(_ context.Context, rows []domain.SnapshotRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = slices.Clone(rows)
	return nil
}

func (m *Memory) ReplaceDailySummaries(_ context.Context, rows []domain.DailySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.daily = slices.Clone(rows)
	return nil
}

func (m *Memory) ReplaceWeeklySummaries(_ context.Context, rows []domain.WeeklySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weekly = slices.Clone(rows)
	return nil
}

func (m *Memory) ReplaceBoroughDailySummaries(_ context.Context, rows []domain.BoroughDailySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boroughly = slices.Clone(rows)
	return nil
}

// HourlySummaries returns the current contents of the hourly table.
func (m *Memory) HourlySummaries() []domain.HourlySummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.hourly)
}

// Snapshot returns the current contents of the snapshot mart.
func (m *Memory) Snapshot() []domain.SnapshotRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.snapshot)
}

// DailySummaries returns the current contents of the daily mart.
func (m *Memory) DailySummaries() []domain.DailySummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.daily)
}

// WeeklySummaries returns the current contents of the weekly mart.
func (m *Memory) WeeklySummaries() []domain.WeeklySummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.weekly)
}

// BoroughDailySummaries returns the current contents of the borough mart.
func (m *Memory) BoroughDailySummaries() []domain.BoroughDailySummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.boroughly)
}

// Package warehouse is the raw store and materialization target for the
// pipeline: dimension tables, append-only fact tables, and the derived
// tables the transformation graph persists.
//
// Two implementations share the same invariants: a pgx-backed Postgres store
// for production and a mutex-guarded in-memory store for tests and local
// runs. Both enforce natural-key uniqueness on facts (duplicate observation
// inserts are silent no-ops), cascade deletes from a location to its facts,
// and all-or-nothing semantics for the forecast window replace and for every
// derived-table materialization.
package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/domain"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the warehouse contract used by the loaders and the
// transformation pipeline.
type Store interface {
	// UpsertLocations inserts new locations or refreshes the name/grouping of
	// existing ones, matching on the (latitude, longitude) natural key.
	// Returned locations carry their assigned IDs, in input order.
	UpsertLocations(ctx context.Context, locs []domain.Location) ([]domain.Location, error)

	// EnsureDates inserts any missing date dimension rows. Existing rows are
	// never modified.
	EnsureDates(ctx context.Context, dates []domain.DateDim) error

	// InsertObservations appends observations, silently skipping any row whose
	// (location, observation_time) key already exists. Returns the number of
	// rows actually inserted. Rows are applied independently, so a failure
	// mid-batch leaves a safely retryable prefix.
	InsertObservations(ctx context.Context, obs []domain.Observation) (int, error)

	// ReplaceForecastWindow atomically deletes every forecast row with
	// forecast_time in [from, to) across all locations and inserts the given
	// set. Readers never observe the window half-replaced: on failure the
	// prior window is fully restored.
	ReplaceForecastWindow(ctx context.Context, from, to time.Time, points []domain.ForecastPoint) error

	// DeleteLocation removes a location and, by cascade, all of its
	// observations and forecasts. Returns ErrNotFound for an unknown ID.
	DeleteLocation(ctx context.Context, id int64) error

	Locations(ctx context.Context) ([]domain.Location, error)

	// ObservationsSince returns observations with observation_time >= since,
	// ordered by location then observation time (insertion order within ties).
	ObservationsSince(ctx context.Context, since time.Time) ([]domain.Observation, error)

	// ForecastsBetween returns forecast points with forecast_time in [from, to),
	// ordered by location then forecast time.
	ForecastsBetween(ctx context.Context, from, to time.Time) ([]domain.ForecastPoint, error)

	// Replace* atomically swap the full contents of a materialized derived
	// table. A failed run must leave the prior contents untouched.
	ReplaceHourlySummaries(ctx context.Context, rows []domain.HourlySummary) error
	ReplaceSnapshot(ctx context.Context, rows []domain.SnapshotRow) error
	ReplaceDailySummaries(ctx context.Context, rows []domain.DailySummary) error
	ReplaceWeeklySummaries(ctx context.Context, rows []domain.WeeklySummary) error
	ReplaceBoroughDailySummaries(ctx context.Context, rows []domain.BoroughDailySummary) error
}

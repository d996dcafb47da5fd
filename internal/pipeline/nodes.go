package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/weather-warehouse/internal/analytics"
	"github.com/couchcryptid/weather-warehouse/internal/domain"
	"github.com/couchcryptid/weather-warehouse/internal/graph"
)

// Node names double as the table names the materialized nodes write.
const (
	nodeStgObservations = "stg_observations"
	nodeIntObservations = "int_observations"
	nodeIntHourly       = "int_hourly"
	nodeMartSnapshot    = "mart_snapshot"
	nodeMartDaily       = "mart_daily"
	nodeMartWeekly      = "mart_weekly"
	nodeMartBorough     = "mart_borough_daily"
	nodeStgForecast     = "stg_forecast"
	nodeIntForecast     = "int_forecast"
)

// runState is the shared scratch space one graph execution writes through.
// The resolver guarantees a node only reads fields its predecessors have
// already written, so no locking is needed.
type runState struct {
	locations []domain.Location

	stagedObs   []domain.StagedObservation
	enrichedObs []domain.EnrichedObservation

	hourly []domain.HourlySummary
	daily  []domain.DailySummary

	stagedForecast   []domain.StagedForecast
	enrichedForecast []domain.EnrichedForecast
}

// buildGraph wires the transformation topology for one run. Virtual nodes
// recompute in memory; materialized nodes also persist their table.
func (p *Pipeline) buildGraph() (*graph.Graph, error) {
	state := &runState{}

	nodes := []graph.Node{
		{
			Name: nodeStgObservations,
			Build: func(ctx context.Context) error {
				locs, err := p.store.Locations(ctx)
				if err != nil {
					return err
				}
				state.locations = locs

				since := domain.Now().Add(-p.lookback)
				raw, err := p.store.ObservationsSince(ctx, since)
				if err != nil {
					return err
				}
				state.stagedObs = make([]domain.StagedObservation, len(raw))
				for i, o := range raw {
					state.stagedObs[i] = domain.StageObservation(o)
				}
				return nil
			},
		},
		{
			Name:      nodeIntObservations,
			DependsOn: []string{nodeStgObservations},
			Build: func(_ context.Context) error {
				state.enrichedObs = make([]domain.EnrichedObservation, len(state.stagedObs))
				for i, s := range state.stagedObs {
					state.enrichedObs[i] = domain.EnrichObservation(s)
				}
				return nil
			},
		},
		{
			Name:        nodeIntHourly,
			DependsOn:   []string{nodeIntObservations},
			Materialize: true,
			Build: p.timed(nodeIntHourly, func(ctx context.Context) error {
				state.hourly = analytics.HourlySummaries(state.enrichedObs)
				return p.store.ReplaceHourlySummaries(ctx, state.hourly)
			}),
		},
		{
			Name:        nodeMartSnapshot,
			DependsOn:   []string{nodeIntObservations},
			Materialize: true,
			Build: p.timed(nodeMartSnapshot, func(ctx context.Context) error {
				rows := analytics.CurrentSnapshot(state.locations, state.enrichedObs)
				return p.store.ReplaceSnapshot(ctx, rows)
			}),
		},
		{
			Name:        nodeMartDaily,
			DependsOn:   []string{nodeIntHourly},
			Materialize: true,
			Build: p.timed(nodeMartDaily, func(ctx context.Context) error {
				state.daily = analytics.DailySummaries(state.hourly)
				return p.store.ReplaceDailySummaries(ctx, state.daily)
			}),
		},
		{
			Name:        nodeMartWeekly,
			DependsOn:   []string{nodeMartDaily},
			Materialize: true,
			Build: p.timed(nodeMartWeekly, func(ctx context.Context) error {
				rows := analytics.WeeklySummaries(state.daily)
				return p.store.ReplaceWeeklySummaries(ctx, rows)
			}),
		},
		{
			Name:        nodeMartBorough,
			DependsOn:   []string{nodeMartDaily},
			Materialize: true,
			Build: p.timed(nodeMartBorough, func(ctx context.Context) error {
				rows := analytics.BoroughDailySummaries(state.locations, state.daily)
				return p.store.ReplaceBoroughDailySummaries(ctx, rows)
			}),
		},
		{
			Name: nodeStgForecast,
			Build: func(ctx context.Context) error {
				from := domain.Now().Truncate(time.Hour)
				raw, err := p.store.ForecastsBetween(ctx, from, from.Add(p.horizon))
				if err != nil {
					return err
				}
				state.stagedForecast = make([]domain.StagedForecast, len(raw))
				for i, f := range raw {
					state.stagedForecast[i] = domain.StageForecast(f)
				}
				return nil
			},
		},
		{
			Name:      nodeIntForecast,
			DependsOn: []string{nodeStgForecast},
			Build: func(_ context.Context) error {
				state.enrichedForecast = make([]domain.EnrichedForecast, len(state.stagedForecast))
				for i, s := range state.stagedForecast {
					state.enrichedForecast[i] = domain.EnrichForecast(s)
				}
				return nil
			},
		},
	}

	g, err := graph.New(nodes)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return g, nil
}

// timed wraps a build func to record its duration under the node label.
func (p *Pipeline) timed(node string, build func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		start := time.Now()
		err := build(ctx)
		if err == nil {
			p.metrics.NodeBuildDuration.WithLabelValues(node).Observe(time.Since(start).Seconds())
		}
		return err
	}
}

// Package scheduler exposes the "run now" and "run on schedule" trigger
// surface over the pipeline.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Runner is the triggerable unit of work, one full pipeline run.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler triggers pipeline runs on a fixed cadence.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	logger    *slog.Logger
	interval  time.Duration
}

// New creates a Scheduler triggering the runner every interval.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		logger:    logger,
		interval:  interval,
	}
}

// Start schedules the periodic run and starts the underlying scheduler.
// Singleton mode drops a tick when the previous run is still in progress, so
// slow runs never pile up.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()

		if err := s.runner.Run(ctx); err != nil {
			s.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "interval", s.interval)
	return nil
}

// RunNow triggers an immediate run on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.runner.Run(ctx)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

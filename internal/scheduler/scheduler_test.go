package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	runs atomic.Int64
	err  error
}

func (r *countingRunner) Run(_ context.Context) error {
	r.runs.Add(1)
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunNow(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, time.Hour, discardLogger())

	require.NoError(t, s.RunNow(t.Context()))
	require.NoError(t, s.RunNow(t.Context()))
	assert.Equal(t, int64(2), runner.runs.Load())
}

func TestScheduler_RunNowPropagatesError(t *testing.T) {
	runner := &countingRunner{err: errors.New("boom")}
	s := New(runner, time.Hour, discardLogger())

	assert.Error(t, s.RunNow(t.Context()))
}

func TestScheduler_StartTriggersRuns(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 20*time.Millisecond, discardLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.runs.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond, "expected at least two scheduled runs")
}

func TestScheduler_StopHaltsRuns(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, 20*time.Millisecond, discardLogger())

	require.NoError(t, s.Start())
	assert.Eventually(t, func() bool {
		return runner.runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	after := runner.runs.Load()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, runner.runs.Load(), after+1, "no new runs after stop")
}

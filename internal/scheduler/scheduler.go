// Package scheduler runs the daily recompute on a background loop.
// It models the platform-worker contract: runs at least once per day, at most
// once concurrently, retries transient failures with backoff, and keeps the
// existing schedule — an overlapping trigger is skipped, never queued twice.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Recomputer is the daily-recompute operation the scheduler drives.
// Satisfied by *service.RecomputeService.
type Recomputer interface {
	RunNow(ctx context.Context) (string, error)
}

// Daily triggers a Recomputer once per interval.
// The operation is idempotent, so the loop favors re-running over tracking
// completion state: a missed tick is simply caught up by the next one.
type Daily struct {
	rec      Recomputer
	interval time.Duration
	log      *slog.Logger

	// maxAttempts bounds retries within a single run; the next tick retries
	// from scratch anyway.
	maxAttempts uint64

	running atomic.Bool
}

// NewDaily constructs a Daily scheduler. interval is normally 24h; tests pass
// something shorter.
func NewDaily(rec Recomputer, interval time.Duration, log *slog.Logger) *Daily {
	return &Daily{rec: rec, interval: interval, log: log, maxAttempts: 5}
}

// Start launches the loop: one immediate run, then one per interval, until
// ctx is cancelled.
func (d *Daily) Start(ctx context.Context) {
	go func() {
		d.RunOnce(ctx)

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce executes a single scheduled run with fibonacci-backoff retries.
// If a run is already in flight the call returns immediately — the pending
// run covers this trigger ("keep existing schedule" semantics).
func (d *Daily) RunOnce(ctx context.Context) {
	if !d.running.CompareAndSwap(false, true) {
		d.log.Debug("recompute already running, trigger skipped")
		return
	}
	defer d.running.Store(false)

	runID := uuid.NewString()
	start := time.Now()

	backoff := retry.WithMaxRetries(d.maxAttempts, retry.NewFibonacci(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		date, err := d.rec.RunNow(ctx)
		if err != nil {
			d.log.Warn("recompute attempt failed",
				"run_id", runID, "error", err)
			return retry.RetryableError(err)
		}
		d.log.Info("recompute completed",
			"run_id", runID, "date", date,
			"duration_ms", time.Since(start).Milliseconds())
		return nil
	})
	if err != nil {
		d.log.Error("recompute run gave up",
			"run_id", runID, "error", err)
	}
}

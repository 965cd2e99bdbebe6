package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avogt/rxminder/internal/scheduler"
)

type mockRecomputer struct {
	runNow func(ctx context.Context) (string, error)
}

var _ scheduler.Recomputer = (*mockRecomputer)(nil)

func (m *mockRecomputer) RunNow(ctx context.Context) (string, error) {
	return m.runNow(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDaily_RunOnce_InvokesRecomputer(t *testing.T) {
	var calls int32
	rec := &mockRecomputer{
		runNow: func(_ context.Context) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "2025-06-15", nil
		},
	}

	scheduler.NewDaily(rec, time.Hour, discardLogger()).RunOnce(context.Background())

	assert.EqualValues(t, 1, calls)
}

func TestDaily_RunOnce_RetriesTransientFailure(t *testing.T) {
	var calls int32
	rec := &mockRecomputer{
		runNow: func(_ context.Context) (string, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return "", errors.New("deadlock detected")
			}
			return "2025-06-15", nil
		},
	}

	scheduler.NewDaily(rec, time.Hour, discardLogger()).RunOnce(context.Background())

	assert.EqualValues(t, 3, calls, "should succeed on the third attempt")
}

func TestDaily_RunOnce_SkipsOverlappingTrigger(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	rec := &mockRecomputer{
		runNow: func(_ context.Context) (string, error) {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			return "2025-06-15", nil
		},
	}
	d := scheduler.NewDaily(rec, time.Hour, discardLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.RunOnce(context.Background())
	}()
	<-started

	// A second trigger while the first is in flight must return without
	// invoking the recomputer again.
	d.RunOnce(context.Background())
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls)
}

func TestDaily_Start_StopsOnContextCancel(t *testing.T) {
	var calls int32
	rec := &mockRecomputer{
		runNow: func(_ context.Context) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "2025-06-15", nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := scheduler.NewDaily(rec, 20*time.Millisecond, discardLogger())
	d.Start(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, 2*time.Second, 5*time.Millisecond, "immediate run plus at least one tick")

	cancel()
	time.Sleep(50 * time.Millisecond)
	settled := atomic.LoadInt32(&calls)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt32(&calls), "no runs after cancellation")
}

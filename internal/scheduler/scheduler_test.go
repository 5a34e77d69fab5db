package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"Grana/internal/domain/recurring"
)

type fakeGenerator struct {
	calls int64
	fn    func(ctx context.Context, asOf time.Time) (*recurring.BatchResult, error)
}

func (f *fakeGenerator) GenerateDue(ctx context.Context, asOf time.Time) (*recurring.BatchResult, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.fn != nil {
		return f.fn(ctx, asOf)
	}
	return &recurring.BatchResult{}, nil
}

func (f *fakeGenerator) count() int64 {
	return atomic.LoadInt64(&f.calls)
}

func newTestScheduler(generator Generator, interval time.Duration) *Scheduler {
	return &Scheduler{
		generator:     generator,
		checkInterval: interval,
		notifyCh:      make(chan struct{}, 1),
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %s", timeout)
}

func TestStartSweepsOnEachTick(t *testing.T) {
	t.Parallel()

	generator := &fakeGenerator{}
	sched := newTestScheduler(generator, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	waitFor(t, 2*time.Second, func() bool { return generator.count() >= 3 })
}

func TestNotifyTriggersImmediateSweep(t *testing.T) {
	t.Parallel()

	generator := &fakeGenerator{}
	sched := newTestScheduler(generator, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	// first sweep happens right after startup
	waitFor(t, 2*time.Second, func() bool { return generator.count() == 1 })

	sched.Notify()
	waitFor(t, 2*time.Second, func() bool { return generator.count() == 2 })
}

func TestNotifyNeverBlocks(t *testing.T) {
	t.Parallel()

	sched := New(&fakeGenerator{}, time.Hour)

	// without a running loop the buffered channel absorbs one notification
	// and the rest are dropped
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			sched.Notify()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("notify blocked with a full channel")
	}
}

func TestGeneratorErrorKeepsTheLoopAlive(t *testing.T) {
	t.Parallel()

	generator := &fakeGenerator{
		fn: func(ctx context.Context, asOf time.Time) (*recurring.BatchResult, error) {
			return nil, errors.New("banco fora do ar")
		},
	}
	sched := newTestScheduler(generator, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Start(ctx)

	waitFor(t, 2*time.Second, func() bool { return generator.count() >= 2 })
}

func TestStartStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	generator := &fakeGenerator{}
	sched := newTestScheduler(generator, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(stopped)
	}()

	waitFor(t, 2*time.Second, func() bool { return generator.count() >= 1 })
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop after cancellation")
	}
}

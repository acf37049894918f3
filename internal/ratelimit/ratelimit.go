// Package ratelimit provides a single-slot minimum-interval throttle.
//
// This is not a token bucket: excess calls are not queued or batched.
// Each call sleeps for whatever remains of the minimum interval since
// the previous call, so concurrent callers sharing one Limiter serialize
// through the sleep/record step and total throughput converges to the
// configured rate.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum wall-clock interval between successive
// calls to Wait. One Limiter instance is shared by reference among all
// polling workers.
type Limiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New creates a Limiter allowing at most maxPerSecond calls per second.
func New(maxPerSecond float64) *Limiter {
	if maxPerSecond <= 0 {
		maxPerSecond = 1
	}
	return &Limiter{
		minInterval: time.Duration(float64(time.Second) / maxPerSecond),
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// Interval returns the enforced minimum interval between calls.
func (l *Limiter) Interval() time.Duration {
	return l.minInterval
}

// Wait blocks until at least the minimum interval has elapsed since the
// previous call, then records the call. Only the calling goroutine is
// suspended. Returns early with ctx.Err() if ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		elapsed := l.now().Sub(l.last)
		if shortfall := l.minInterval - elapsed; shortfall > 0 {
			if err := l.sleep(ctx, shortfall); err != nil {
				return err
			}
		}
	}

	l.last = l.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

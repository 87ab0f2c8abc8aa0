package gateway

import (
	"context"
	"sync"
	"time"
)

// SlidingWindowLimiter bounds outbound request volume to at most limit
// admissions per trailing window. Acquire blocks until capacity exists.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	limit      int
	window     time.Duration
	admissions []time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewSlidingWindowLimiter creates a limiter admitting at most limit requests
// per window. A non-positive limit disables limiting.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Acquire blocks until the trailing window has capacity, then records the
// admission. When the window is full it waits exactly until the oldest
// admission leaves the window and re-evaluates, rather than sleeping a
// fixed interval.
func (l *SlidingWindowLimiter) Acquire(ctx context.Context) error {
	if l == nil || l.limit <= 0 {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.admissions) < l.limit {
			l.admissions = append(l.admissions, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.admissions[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// prune drops admissions older than the trailing window. Caller holds mu.
func (l *SlidingWindowLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := 0
	for kept < len(l.admissions) && !l.admissions[kept].After(cutoff) {
		kept++
	}
	l.admissions = l.admissions[kept:]
}

// Pending returns the number of admissions currently inside the window.
func (l *SlidingWindowLimiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.admissions)
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package throttle bounds the byte rate and concurrency of cleaning passes.
//
// Compaction competes with live traffic for disk bandwidth; a shared
// Throttler lets an operator cap how fast cleaning passes chew through log
// bytes and how many passes run at once. A single Throttler may be shared
// by any number of passes; it is safe for concurrent use.
package throttle

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds throttling limits.
type Config struct {
	// BytesPerSec is the maximum scan throughput across all passes.
	// If 0, unlimited.
	BytesPerSec int64

	// MaxConcurrentPasses is the maximum number of cleaning passes running
	// at once. If 0, defaults to 1.
	MaxConcurrentPasses int64
}

// Throttler applies Config limits. A nil Throttler is valid and applies no
// limits.
type Throttler struct {
	limiter *rate.Limiter // nil if unlimited
	passSem *semaphore.Weighted

	throttledBytes atomic.Int64
}

// New creates a Throttler from cfg.
func New(cfg Config) *Throttler {
	if cfg.MaxConcurrentPasses <= 0 {
		cfg.MaxConcurrentPasses = 1
	}

	t := &Throttler{
		passSem: semaphore.NewWeighted(cfg.MaxConcurrentPasses),
	}

	if cfg.BytesPerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.BytesPerSec), int(cfg.BytesPerSec))
	}

	return t
}

// Throttle waits until the configured byte rate allows the given number of
// bytes to be scanned, or ctx is canceled. Requests larger than one
// second's budget are split so they never exceed the limiter burst.
func (t *Throttler) Throttle(ctx context.Context, bytes int) error {
	if t == nil || t.limiter == nil || bytes <= 0 {
		return nil
	}

	t.throttledBytes.Add(int64(bytes))

	burst := t.limiter.Burst()
	for bytes > 0 {
		n := bytes
		if n > burst {
			n = burst
		}
		if err := t.limiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// AcquirePass blocks until a pass slot is available or ctx is canceled.
func (t *Throttler) AcquirePass(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.passSem.Acquire(ctx, 1)
}

// TryAcquirePass attempts to reserve a pass slot without blocking.
func (t *Throttler) TryAcquirePass() bool {
	if t == nil {
		return true
	}
	return t.passSem.TryAcquire(1)
}

// ReleasePass releases a pass slot.
func (t *Throttler) ReleasePass() {
	if t == nil {
		return
	}
	t.passSem.Release(1)
}

// ThrottledBytes returns the total number of bytes that have passed through
// Throttle.
func (t *Throttler) ThrottledBytes() int64 {
	if t == nil {
		return 0
	}
	return t.throttledBytes.Load()
}

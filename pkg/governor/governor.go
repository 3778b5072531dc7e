// Package governor throttles calls into the inference adapter with a
// token-bucket rate limiter (requests-per-minute and tokens-per-minute,
// refilled continuously from elapsed wall-clock time) layered under a
// concurrency ceiling, so a burst of per-room fan-out never exceeds the
// upstream provider's published limits.
package governor

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/inonelg/housecheck/pkg/config"
)

// Governor is the process-wide rate-limit and concurrency gate shared by
// every inference call. One Governor is constructed per process from
// configuration and handed to every stage that calls the inference
// adapter.
type Governor struct {
	mu sync.Mutex

	tpmCapacity float64
	tpmTokens   float64
	rpmCapacity float64
	rpmTokens   float64
	lastRefill  time.Time

	sem           *semaphore.Weighted
	maxConcurrent int64
	inUse         int64
	clock         Clock
}

// New builds a Governor from rate-limit configuration. Buckets start full:
// the first burst of calls up to the configured capacity proceeds
// immediately, exactly as the upstream provider's own buckets would be
// full at the start of a billing window.
func New(cfg config.RateLimitConfig, clock Clock) *Governor {
	if clock == nil {
		clock = realClock{}
	}
	return &Governor{
		tpmCapacity:   float64(cfg.TPM),
		tpmTokens:     float64(cfg.TPM),
		rpmCapacity:   float64(cfg.RPM),
		rpmTokens:     float64(cfg.RPM),
		lastRefill:    clock.Now(),
		sem:           semaphore.NewWeighted(int64(cfg.MaxConcurrentCalls)),
		maxConcurrent: int64(cfg.MaxConcurrentCalls),
		clock:         clock,
	}
}

// Acquire blocks until a concurrency slot is free and both buckets hold
// enough budget for estimatedTokens (and one request), deducting that
// budget before returning. label is not used by the governor; it carries
// no behavior.
//
// Callers must call Release exactly once for every successful Acquire.
func (g *Governor) Acquire(ctx context.Context, estimatedTokens int, label string) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	atomic.AddInt64(&g.inUse, 1)

	for {
		acquired, wait := g.tryDeduct(estimatedTokens)
		if acquired {
			return nil
		}

		select {
		case <-ctx.Done():
			atomic.AddInt64(&g.inUse, -1)
			g.sem.Release(1)
			return ctx.Err()
		default:
		}

		g.clock.Sleep(wait)
	}
}

// Release returns a concurrency slot acquired by Acquire. It does not
// return any token budget: tokens are only ever replenished by elapsed
// time, never by an early release, matching the upstream provider's own
// accounting.
func (g *Governor) Release() {
	atomic.AddInt64(&g.inUse, -1)
	g.sem.Release(1)
}

// tryDeduct refills the buckets for elapsed time, then either deducts the
// requested budget and reports success, or reports how long the caller
// should sleep before trying again.
func (g *Governor) tryDeduct(estimatedTokens int) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.refill()

	if g.tpmTokens >= float64(estimatedTokens) && g.rpmTokens >= 1 {
		g.tpmTokens -= float64(estimatedTokens)
		g.rpmTokens -= 1
		return true, 0
	}

	return false, g.waitTime(estimatedTokens)
}

// refill tops up both buckets in proportion to elapsed wall-clock time
// since the last refill, clamped to each bucket's capacity.
func (g *Governor) refill() {
	now := g.clock.Now()
	elapsed := now.Sub(g.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	g.tpmTokens = math.Min(g.tpmCapacity, g.tpmTokens+(elapsed/60.0)*g.tpmCapacity)
	g.rpmTokens = math.Min(g.rpmCapacity, g.rpmTokens+(elapsed/60.0)*g.rpmCapacity)
	g.lastRefill = now
}

// waitTime computes how long to sleep before the buckets will plausibly
// hold enough budget, assuming no other caller drains them meanwhile. It
// must be called with mu held, after a refill.
func (g *Governor) waitTime(estimatedTokens int) time.Duration {
	var tpmWait float64
	if deficit := float64(estimatedTokens) - g.tpmTokens; deficit > 0 {
		tpmWait = (deficit / g.tpmCapacity) * 60.0
	}

	var rpmWait float64
	if deficit := 1 - g.rpmTokens; deficit > 0 {
		rpmWait = (deficit / g.rpmCapacity) * 60.0
	}

	wait := math.Max(tpmWait, math.Max(rpmWait, 0.5))
	wait = math.Min(wait, 10.0)
	return time.Duration(wait * float64(time.Second))
}

// Status reports the current bucket fill levels and available concurrency
// slots, for observability endpoints.
type Status struct {
	TPMAvailable       int
	TPMCapacity        int
	RPMAvailable       int
	RPMCapacity        int
	AvailableSlots     int
	MaxConcurrentCalls int
}

// Status returns a snapshot of the governor's current state. It refills
// the buckets first, so the reported availability reflects elapsed time
// even if no Acquire call has happened recently.
func (g *Governor) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.refill()

	inUse := atomic.LoadInt64(&g.inUse)
	return Status{
		TPMAvailable:       int(g.tpmTokens),
		TPMCapacity:        int(g.tpmCapacity),
		RPMAvailable:       int(g.rpmTokens),
		RPMCapacity:        int(g.rpmCapacity),
		AvailableSlots:     int(g.maxConcurrent - inUse),
		MaxConcurrentCalls: int(g.maxConcurrent),
	}
}

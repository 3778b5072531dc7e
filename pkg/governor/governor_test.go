package governor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonelg/housecheck/pkg/config"
)

// fakeClock lets tests drive elapsed time deterministically: Sleep
// advances the clock by exactly the requested duration instead of
// blocking, so a governor that would wait several seconds in production
// resolves instantly in a test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func rateLimitConfig(tpm, rpm, maxConcurrent int) config.RateLimitConfig {
	return config.RateLimitConfig{TPM: tpm, RPM: rpm, MaxConcurrentCalls: maxConcurrent}
}

func TestAcquireSucceedsImmediatelyWhenBucketsAreFull(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	g := New(rateLimitConfig(90000, 500, 3), clock)

	err := g.Acquire(context.Background(), 1000, "classify")
	require.NoError(t, err)
	g.Release()

	status := g.Status()
	assert.Equal(t, 89000, status.TPMAvailable)
	assert.Equal(t, 499, status.RPMAvailable)
}

func TestAcquireDeductsBothBucketsOnSuccess(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	g := New(rateLimitConfig(1000, 10, 1), clock)

	require.NoError(t, g.Acquire(context.Background(), 400, "room-1"))
	defer g.Release()

	status := g.Status()
	assert.Equal(t, 600, status.TPMAvailable)
	assert.Equal(t, 9, status.RPMAvailable)
}

func TestAcquireWaitsThenSucceedsWhenTPMBucketIsExhausted(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	g := New(rateLimitConfig(600, 500, 1), clock)

	// Drain the TPM bucket down to 100 remaining.
	require.NoError(t, g.Acquire(context.Background(), 500, "drain"))
	g.Release()

	// The next call needs 300 more than remains; it must wait for a
	// refill rather than fail, and fakeClock.Sleep advances time so the
	// retry loop converges without a real sleep.
	err := g.Acquire(context.Background(), 300, "room-2")
	require.NoError(t, err)
	g.Release()

	assert.True(t, clock.Now().After(time.Unix(0, 0)))
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	g := New(rateLimitConfig(10, 500, 1), clock)

	// Drain the TPM bucket fully; the clock never advances, so a second
	// call asking for more tokens than exist would wait forever without
	// cancellation.
	require.NoError(t, g.Acquire(context.Background(), 10, "drain"))
	g.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Acquire(ctx, 5, "blocked")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestConcurrencyCeilingLimitsInFlightCalls(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	g := New(rateLimitConfig(1000000, 1000000, 2), clock)

	require.NoError(t, g.Acquire(context.Background(), 1, "a"))
	require.NoError(t, g.Acquire(context.Background(), 1, "b"))

	status := g.Status()
	assert.Equal(t, 0, status.AvailableSlots)

	g.Release()
	status = g.Status()
	assert.Equal(t, 1, status.AvailableSlots)

	g.Release()
}

func TestCallReleasesSlotEvenWhenFnFails(t *testing.T) {
	clock := newFakeClock(time.Unix(0, 0))
	g := New(rateLimitConfig(1000, 500, 1), clock)

	boom := errors.New("boom")
	err := Call(context.Background(), g, 10, "room-1", func(ctx context.Context) error {
		return boom
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, g.Status().AvailableSlots)
}

func TestWaitTimeIsClampedBetweenHalfAndTenSeconds(t *testing.T) {
	g := &Governor{tpmCapacity: 60, tpmTokens: 0, rpmCapacity: 60, rpmTokens: 60}

	wait := g.waitTime(60)
	assert.Equal(t, 10*time.Second, wait)

	g2 := &Governor{tpmCapacity: 1000, tpmTokens: 1000, rpmCapacity: 1000, rpmTokens: 1000}
	wait2 := g2.waitTime(1)
	assert.Equal(t, 500*time.Millisecond, wait2)
}

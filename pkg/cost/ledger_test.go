package cost

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRecordUsageAccumulatesTotals(t *testing.T) {
	clock := &fixedClock{now: time.Unix(0, 0)}
	l := NewLedger(clock)

	l.RecordUsage(100, 50, "gpt-4o-mini", "house_classify")
	l.RecordUsage(200, 75, "gpt-4o-mini", "room_checklist")

	assert.Equal(t, 425, l.CurrentUsage())
}

func TestRecordUsageTracksPerModelAndPerAgentBreakdown(t *testing.T) {
	clock := &fixedClock{now: time.Unix(0, 0)}
	l := NewLedger(clock)

	l.RecordUsage(100, 50, "gpt-4o-mini", "house_classify")
	l.RecordUsage(300, 100, "gpt-4o", "room_checklist")

	summary := l.Summary()
	assert.Equal(t, 150, summary.Models["gpt-4o-mini"])
	assert.Equal(t, 400, summary.Models["gpt-4o"])
	assert.Equal(t, 150, summary.Agents["house_classify"])
	assert.Equal(t, 400, summary.Agents["room_checklist"])
}

func TestRecordUsageWithoutAgentOmitsAgentBreakdown(t *testing.T) {
	l := NewLedger(nil)
	l.RecordUsage(10, 5, "gpt-4o-mini", "")

	summary := l.Summary()
	assert.Empty(t, summary.Agents)
}

func TestResetClearsAccumulatedUsage(t *testing.T) {
	clock := &fixedClock{now: time.Unix(0, 0)}
	l := NewLedger(clock)
	l.RecordUsage(100, 50, "gpt-4o-mini", "house_classify")

	l.Reset()

	assert.Equal(t, 0, l.CurrentUsage())
	assert.Empty(t, l.Summary().Models)
}

func TestSummaryComputesSessionDurationAndThroughput(t *testing.T) {
	clock := &fixedClock{now: time.Unix(0, 0)}
	l := NewLedger(clock)
	l.RecordUsage(1000, 0, "gpt-4o-mini", "house_classify")

	clock.advance(10 * time.Second)

	summary := l.Summary()
	assert.InDelta(t, 10.0, summary.Session.DurationSeconds, 0.001)
	assert.InDelta(t, 100.0, summary.Session.TokensPerSecond, 0.001)
}

func TestSummaryEstimatesCostForKnownAndUnknownModels(t *testing.T) {
	l := NewLedger(nil)
	l.RecordUsage(1000, 0, "gpt-4o", "house_classify")
	l.RecordUsage(1000, 0, "some-future-model", "room_checklist")

	summary := l.Summary()

	gpt4o, ok := summary.Costs.ByModel["gpt-4o"]
	assert.True(t, ok)
	assert.InDelta(t, 0.005, gpt4o.EstimatedCostUSD, 0.0001)

	unknown, ok := summary.Costs.ByModel["some-future-model"]
	assert.True(t, ok)
	assert.InDelta(t, 0.000150, unknown.EstimatedCostUSD, 0.0001)
}

func TestFormattedSummaryIncludesCoreCounts(t *testing.T) {
	l := NewLedger(nil)
	l.RecordUsage(100, 50, "gpt-4o-mini", "house_classify")

	text := l.FormattedSummary()
	assert.Contains(t, text, "Tokens: 150")
	assert.Contains(t, text, "Requests: 1")
}

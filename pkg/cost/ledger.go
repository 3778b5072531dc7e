// Package cost tracks token usage across every inference call the
// pipeline makes in a single run, and turns that into a rough dollar
// estimate. It exists for observability only: the pipeline's report
// never depends on cost data, and a ledger failure never blocks a scan.
package cost

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Clock abstracts wall-clock access for the session-duration figures in
// Summary, so tests can pin a start time instead of racing real time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// UsageMetrics accumulates token counts across every recorded call.
type UsageMetrics struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Requests         int
	ModelUsage       map[string]int
	AgentUsage       map[string]int
}

func newUsageMetrics() UsageMetrics {
	return UsageMetrics{
		ModelUsage: make(map[string]int),
		AgentUsage: make(map[string]int),
	}
}

func (u *UsageMetrics) add(prompt, completion int, model, agent string) {
	u.PromptTokens += prompt
	u.CompletionTokens += completion
	u.TotalTokens += prompt + completion
	u.Requests++

	u.ModelUsage[model] += prompt + completion
	if agent != "" {
		u.AgentUsage[agent] += prompt + completion
	}
}

// Ledger is a concurrency-safe token usage tracker. A
// single Ledger is shared across an entire pipeline run, including the
// goroutines fanned out over a house's rooms, so every inference call's
// usage lands in one place regardless of which stage or room it came
// from.
type Ledger struct {
	mu        sync.Mutex
	usage     UsageMetrics
	startTime time.Time
	clock     Clock
}

// NewLedger starts a fresh ledger. clock may be nil to use the real
// wall clock.
func NewLedger(clock Clock) *Ledger {
	if clock == nil {
		clock = realClock{}
	}
	return &Ledger{
		usage:     newUsageMetrics(),
		startTime: clock.Now(),
		clock:     clock,
	}
}

// RecordUsage adds one call's token usage to the running totals. agent
// identifies which pipeline stage made the call (e.g. "house_classify",
// "room_checklist") and may be empty.
func (l *Ledger) RecordUsage(promptTokens, completionTokens int, model, agent string) {
	l.mu.Lock()
	l.usage.add(promptTokens, completionTokens, model, agent)
	total := l.usage.TotalTokens
	l.mu.Unlock()

	slog.Info("token usage recorded",
		"agent", orUnknown(agent),
		"prompt_tokens", promptTokens,
		"completion_tokens", completionTokens,
		"model", model,
		"running_total", total,
	)
}

func orUnknown(agent string) string {
	if agent == "" {
		return "unknown"
	}
	return agent
}

// CurrentUsage returns the running total token count.
func (l *Ledger) CurrentUsage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.usage.TotalTokens
}

// Reset clears all accumulated usage and restarts the session clock,
// for reuse across independent scans within one long-lived process.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.usage = newUsageMetrics()
	l.startTime = l.clock.Now()
	slog.Info("usage ledger reset")
}

// FormattedSummary renders a one-line human-readable summary, for log
// lines and CLI output.
func (l *Ledger) FormattedSummary() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return fmt.Sprintf(
		"Tokens: %d (prompt: %d, completion: %d) | Requests: %d | Models: %d",
		l.usage.TotalTokens, l.usage.PromptTokens, l.usage.CompletionTokens,
		l.usage.Requests, len(l.usage.ModelUsage),
	)
}

package inference

// Usage carries a single call's token accounting, when the upstream
// model service reports it. A zero Usage means the response carried no
// usage block, not that zero tokens were spent.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// UsageObserver receives usage data for every completed call. Label
// identifies the call site (e.g. "house checklist", "room checklist
// (room-2)-batch1") the way the original's per-agent cost tracker did.
// Implementations must not block or panic; a failing observer is logged
// by the caller and never fails the inference call itself.
type UsageObserver interface {
	RecordUsage(usage Usage, model, label string)
}

// NoopObserver discards usage data. Used when no cost sink is wired in.
type NoopObserver struct{}

func (NoopObserver) RecordUsage(Usage, string, string) {}

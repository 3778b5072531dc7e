package cost

import "time"

// modelPricing holds approximate per-1K-token USD pricing. Rough,
// illustrative estimates only — not a source of truth for billing.
type modelPricing struct {
	promptPer1K     float64
	completionPer1K float64
}

var pricingTable = map[string]modelPricing{
	"gpt-4o-mini": {promptPer1K: 0.000150, completionPer1K: 0.000600},
	"gpt-4o":      {promptPer1K: 0.005, completionPer1K: 0.015},
	"gpt-4":       {promptPer1K: 0.03, completionPer1K: 0.06},
}

const defaultPricingModel = "gpt-4o-mini"

// ModelCost is the estimated cost attributable to one model.
type ModelCost struct {
	Tokens           int
	EstimatedCostUSD float64
}

// CostEstimate summarizes estimated spend across all models used.
type CostEstimate struct {
	TotalEstimatedUSD float64
	ByModel           map[string]ModelCost
}

// RequestStats summarizes request-level usage.
type RequestStats struct {
	TotalRequests       int
	AvgTokensPerRequest float64
}

// SessionStats summarizes the ledger's lifetime.
type SessionStats struct {
	DurationSeconds float64
	StartTime       time.Time
	TokensPerSecond float64
}

// Summary is a point-in-time snapshot of a ledger's usage, costs, and
// session duration, suitable for serializing onto an observability
// endpoint.
type Summary struct {
	Tokens   UsageMetrics
	Requests RequestStats
	Models   map[string]int
	Agents   map[string]int
	Costs    CostEstimate
	Session  SessionStats
}

// Summary returns a full usage/cost snapshot.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	usage := l.usage
	models := copyIntMap(l.usage.ModelUsage)
	agents := copyIntMap(l.usage.AgentUsage)
	startTime := l.startTime
	now := l.clock.Now()
	l.mu.Unlock()

	duration := now.Sub(startTime).Seconds()
	requests := usage.Requests
	avgTokens := 0.0
	if requests > 0 {
		avgTokens = float64(usage.TotalTokens) / float64(requests)
	}

	tokensPerSecond := 0.0
	if duration > 0 {
		tokensPerSecond = float64(usage.TotalTokens) / duration
	} else {
		tokensPerSecond = float64(usage.TotalTokens)
	}

	return Summary{
		Tokens: usage,
		Requests: RequestStats{
			TotalRequests:       requests,
			AvgTokensPerRequest: avgTokens,
		},
		Models: models,
		Agents: agents,
		Costs:  estimateCosts(usage, models),
		Session: SessionStats{
			DurationSeconds: duration,
			StartTime:       startTime,
			TokensPerSecond: tokensPerSecond,
		},
	}
}

// estimateCosts splits each model's token count between prompt and
// completion using the overall prompt/completion ratio (the ledger does
// not track that split per model), and prices it against that model's
// entry in the pricing table, falling back to the default pricing model
// for a model the table does not list.
func estimateCosts(usage UsageMetrics, models map[string]int) CostEstimate {
	promptRatio := 0.0
	if usage.TotalTokens > 0 {
		promptRatio = float64(usage.PromptTokens) / float64(usage.TotalTokens)
	}
	completionRatio := 1 - promptRatio

	byModel := make(map[string]ModelCost, len(models))
	var total float64

	for model, tokens := range models {
		pricing, ok := pricingTable[model]
		if !ok {
			pricing = pricingTable[defaultPricingModel]
		}

		estimatedPrompt := float64(tokens) * promptRatio
		estimatedCompletion := float64(tokens) * completionRatio

		modelCost := (estimatedPrompt/1000)*pricing.promptPer1K +
			(estimatedCompletion/1000)*pricing.completionPer1K

		byModel[model] = ModelCost{Tokens: tokens, EstimatedCostUSD: modelCost}
		total += modelCost
	}

	return CostEstimate{TotalEstimatedUSD: total, ByModel: byModel}
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/evaluation"
	"github.com/inonelg/housecheck/pkg/governor"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProsCons is Agent 6's output: a short list of favorable and
// unfavorable observations synthesized from the accumulated issue lines.
type ProsCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// caller is the subset of *Client an Adapter needs: one generic unary
// call. Abstracted so tests can exercise Adapter's retry, batching, and
// parsing logic against a fake without dialing a real gRPC connection.
type caller interface {
	invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Adapter is the inference-layer entry point used by the pipeline
// orchestrator: one gRPC connection, one governor, one usage sink, bound
// to the two configured model identifiers.
type Adapter struct {
	client      caller
	governor    *governor.Governor
	observer    UsageObserver
	visionModel string
	textModel   string
}

// NewAdapter wires a gRPC client, the process-wide governor, and a
// per-request usage observer into a ready-to-call Adapter. Pass
// NoopObserver{} when no cost sink is needed (e.g. in tests).
func NewAdapter(client *Client, gov *governor.Governor, observer UsageObserver, visionModel, textModel string) *Adapter {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Adapter{
		client:      client,
		governor:    gov,
		observer:    observer,
		visionModel: visionModel,
		textModel:   textModel,
	}
}

// estimateTokens is a deliberately rough per-call token budget estimate
// for the governor: a fixed baseline plus a per-image allowance, since
// every image in the batch adds roughly constant vision-encoder tokens
// regardless of the accompanying text length.
func estimateTokens(imageCount int) int {
	return 1000 + imageCount*200
}

// Classify runs Agent 1/3: choose every applicable id from allowedTypes
// given a set of images. Results are filtered to allowedTypes regardless
// of what the model actually returned, so an out-of-vocabulary answer
// never leaks into the pipeline.
func (a *Adapter) Classify(ctx context.Context, images [][]byte, allowedTypes []string, taskLabel string) ([]string, error) {
	parts := buildImageParts(images)
	prompt := classificationPrompt(taskLabel, allowedTypes)

	var parsed parsedResponse
	err := callWithRetry(ctx, taskLabel, func() error {
		return governor.Call(ctx, a.governor, estimateTokens(len(images)), taskLabel, func(ctx context.Context) error {
			req, err := buildRequest(a.visionModel, prompt, parts)
			if err != nil {
				return fmt.Errorf("%w: building request: %v", ErrUpstreamFatal, err)
			}
			resp, err := a.client.invoke(ctx, req)
			if err != nil {
				return err
			}
			parsed, err = parseResponse(resp)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	a.recordUsage(parsed.usage, a.visionModel, taskLabel)

	var out struct {
		Types []string `json:"types"`
	}
	if jsonErr := json.Unmarshal([]byte(parsed.content), &out); jsonErr != nil {
		slog.Warn("classification response was not valid JSON, treating as no types", "task", taskLabel, "error", jsonErr)
		return nil, nil
	}

	allowedSet := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowedSet[t] = true
	}

	filtered := make([]string, 0, len(out.Types))
	for _, t := range out.Types {
		if allowedSet[t] {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// EvaluateChecklist runs Agent 2/4/5: partitions items into batches of
// batchSize, evaluates each batch independently against the same image
// set, and merges the per-batch results (batches cannot collide by
// construction — every id appears in exactly one batch).
func (a *Adapter) EvaluateChecklist(ctx context.Context, images [][]byte, items []checklist.Item, batchSize int, roleLabel string) (evaluation.Result, error) {
	parts := buildImageParts(images)
	batches := evaluation.Batches(items, batchSize)

	result := evaluation.NewResult()
	for i, batch := range batches {
		batchNumber := i + 1
		label := fmt.Sprintf("%s-batch%d", roleLabel, batchNumber)
		prompt := checklistSystemPrompt(roleLabel) + "\n\n" + checklistHumanPrompt(batchNumber, batch)

		var parsed parsedResponse
		err := callWithRetry(ctx, label, func() error {
			return governor.Call(ctx, a.governor, estimateTokens(len(images)), label, func(ctx context.Context) error {
				req, err := buildRequest(a.visionModel, prompt, parts)
				if err != nil {
					return fmt.Errorf("%w: building request: %v", ErrUpstreamFatal, err)
				}
				resp, err := a.client.invoke(ctx, req)
				if err != nil {
					return err
				}
				parsed, err = parseResponse(resp)
				return err
			})
		})
		if err != nil {
			return evaluation.Result{}, err
		}

		a.recordUsage(parsed.usage, a.visionModel, label)

		batchResult := evaluation.Normalize(parsed.content, batch)
		result = result.Merge(batchResult)
	}

	return result, nil
}

// SynthesizeProsCons runs Agent 6: a single text-only call over the
// accumulated issue lines from every prior stage.
func (a *Adapter) SynthesizeProsCons(ctx context.Context, houseIssues, roomIssues, productIssues []string) (ProsCons, error) {
	const label = "pros/cons analysis"
	prompt := prosConsPrompt(houseIssues, roomIssues, productIssues)

	var parsed parsedResponse
	err := callWithRetry(ctx, label, func() error {
		return governor.Call(ctx, a.governor, estimateTokens(0), label, func(ctx context.Context) error {
			req, err := buildRequest(a.textModel, prompt, nil)
			if err != nil {
				return fmt.Errorf("%w: building request: %v", ErrUpstreamFatal, err)
			}
			resp, err := a.client.invoke(ctx, req)
			if err != nil {
				return err
			}
			parsed, err = parseResponse(resp)
			return err
		})
	})
	if err != nil {
		return ProsCons{}, err
	}

	a.recordUsage(parsed.usage, a.textModel, label)

	var out ProsCons
	if jsonErr := json.Unmarshal([]byte(parsed.content), &out); jsonErr != nil {
		slog.Warn("pros/cons response was not valid JSON, returning empty analysis", "error", jsonErr)
		return ProsCons{}, nil
	}
	return out, nil
}

func (a *Adapter) recordUsage(usage Usage, model, label string) {
	if usage == (Usage{}) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("usage tracking panicked, ignoring", "label", label, "recovered", r)
		}
	}()
	a.observer.RecordUsage(usage, model, label)
}

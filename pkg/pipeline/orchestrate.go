package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/config"
	"github.com/inonelg/housecheck/pkg/evaluation"
	"github.com/inonelg/housecheck/pkg/imaging"
	"github.com/inonelg/housecheck/pkg/inference"
	"golang.org/x/sync/errgroup"
)

// Inferencer is the subset of *inference.Adapter an Orchestrator calls.
// Abstracted so tests can drive the DAG against a scripted fake instead
// of a real gRPC-backed adapter.
type Inferencer interface {
	Classify(ctx context.Context, images [][]byte, allowedTypes []string, taskLabel string) ([]string, error)
	EvaluateChecklist(ctx context.Context, images [][]byte, items []checklist.Item, batchSize int, roleLabel string) (evaluation.Result, error)
	SynthesizeProsCons(ctx context.Context, houseIssues, roomIssues, productIssues []string) (inference.ProsCons, error)
}

// Per-agent image counts that diverge from the configured defaults.
// Agent 1 (house classification) uses Sampling.MaxClassifyImages as-is;
// every other vision call overrides it with a fixed k, matching how the
// orchestration pinned specific sample sizes per stage regardless of the
// general classify/checklist config knobs.
const (
	houseChecklistSampleK = 6
	roomClassifySampleK   = 3
	roomChecklistSampleK  = 3
	productSampleK        = 3
)

// Orchestrator drives one run of the six-stage inspection DAG.
type Orchestrator struct {
	Infer    Inferencer
	Sampling config.SamplingConfig
	Images   config.ImageConfig
	Batch    config.BatchConfig
	Tracker  Tracker
}

// NewOrchestrator wires an Inferencer and config into a ready-to-run
// Orchestrator. A nil tracker resolves to NoopTracker{}.
func NewOrchestrator(infer Inferencer, cfg *config.Config, tracker Tracker) *Orchestrator {
	if tracker == nil {
		tracker = NoopTracker{}
	}
	return &Orchestrator{
		Infer:    infer,
		Sampling: cfg.Sampling,
		Images:   cfg.Images,
		Batch:    cfg.Batch,
		Tracker:  tracker,
	}
}

func (o *Orchestrator) classifyProfile() imaging.Profile {
	return imaging.Profile{MaxEdge: o.Images.ClassifyMaxEdge, Quality: o.Images.ClassifyQuality}
}

func (o *Orchestrator) checklistProfile() imaging.Profile {
	return imaging.Profile{MaxEdge: o.Images.ChecklistMaxEdge, Quality: o.Images.ChecklistQuality}
}

func (o *Orchestrator) record(agent string, input, output map[string]any, model string) {
	o.Tracker.RecordExecution(Execution{
		AgentName: agent,
		Input:     input,
		Output:    output,
		Model:     model,
		Timestamp: time.Now(),
	})
}

// Run executes the full DAG: house classification, house checklist,
// per-room fan-out (room classification, room checklist, products), a
// deterministic summary, and the final pros/cons synthesis.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (HouseResult, error) {
	if err := validateRunRequest(req); err != nil {
		return HouseResult{}, err
	}

	allowedHouse := sortedKeys(req.HouseChecklist.HouseTypes)
	allowedRoom := sortedKeys(req.RoomsChecklist.RoomTypes)

	houseClassifyImages := imaging.SampleForClassification(req.AllImages, o.Sampling.MaxClassifyImages, o.classifyProfile())
	houseTypes, err := o.Infer.Classify(ctx, houseClassifyImages, allowedHouse, "house type classification")
	if err != nil {
		return HouseResult{}, err
	}
	houseTypes = validateTypes(houseTypes, allowedHouse)
	o.record("house_classifier", map[string]any{"image_count": len(houseClassifyImages)}, map[string]any{"house_types": houseTypes}, "")

	houseItems := checklist.MergeHouse(req.HouseChecklist, houseTypes, req.Custom)

	houseChecklistImages := imaging.SampleForChecklist(req.AllImages, houseChecklistSampleK, o.checklistProfile())
	houseResult, err := o.Infer.EvaluateChecklist(ctx, houseChecklistImages, houseItems, o.Batch.ChecklistBatchSize, "house checklist")
	if err != nil {
		return HouseResult{}, err
	}
	o.record("house_checklist", map[string]any{"item_count": len(houseItems)}, houseResult.Flatten(), "")

	outcomes := make([]roomOutcome, len(req.Rooms))
	g, gctx := errgroup.WithContext(ctx)
	for i := range req.Rooms {
		i := i
		room := req.Rooms[i]
		if len(room.Images) == 0 {
			slog.Warn("room has no images, skipping", "room_id", room.RoomID)
			outcomes[i] = roomOutcome{skipped: true}
			continue
		}
		g.Go(func() error {
			outcomes[i] = o.runRoom(gctx, room, allowedRoom, req.RoomsChecklist, req.ProductsChecklist, req.Custom)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return HouseResult{}, fmt.Errorf("pipeline run cancelled: %w", err)
	}

	var roomResults []RoomResult
	var roomItemSets []roomItemSet
	for _, outcome := range outcomes {
		if outcome.skipped {
			continue
		}
		if outcome.err != nil {
			slog.Warn("room failed, excluding from report", "room_id", outcome.result.RoomID, "error", outcome.err)
			continue
		}
		roomResults = append(roomResults, outcome.result)
		roomItemSets = append(roomItemSets, outcome.items)
	}

	summary := buildSummary(houseItems, houseResult, roomItemSets, roomResults)

	prosCons, err := o.Infer.SynthesizeProsCons(ctx, summary.House, summary.Rooms, summary.Products)
	if err != nil {
		return HouseResult{}, err
	}
	o.record("pros_cons", map[string]any{"issue_count": len(summary.Custom)}, map[string]any{"pros": prosCons.Pros, "cons": prosCons.Cons}, "")

	return HouseResult{
		HouseTypes:     houseTypes,
		HouseChecklist: houseResult,
		Rooms:          roomResults,
		Summary:        summary,
		ProsCons:       prosCons,
	}, nil
}

// roomOutcome is one room's fan-out result, captured independently of its
// siblings so a single room's failure never cancels the others. skipped
// marks a room that was never run at all (no fetched images) — distinct
// from err, which marks a room that ran but failed partway through.
type roomOutcome struct {
	result  RoomResult
	items   roomItemSet
	err     error
	skipped bool
}

// runRoom always returns a nil error to its caller's errgroup; any
// inference failure is captured on the returned roomOutcome instead, so
// one room's failure never cancels the rest of the fan-out via the
// group's shared context.
func (o *Orchestrator) runRoom(ctx context.Context, room RoomInput, allowedRoomTypes []string, roomsDef checklist.RoomDefinition, productsDef checklist.ProductDefinition, custom *checklist.CustomChecklist) roomOutcome {
	result := RoomResult{RoomID: room.RoomID}

	classifyLabel := fmt.Sprintf("room classification (%s)", room.RoomID)
	classifyImages := imaging.SampleForClassification(room.Images, roomClassifySampleK, o.classifyProfile())
	roomTypes, err := o.Infer.Classify(ctx, classifyImages, allowedRoomTypes, classifyLabel)
	if err != nil {
		return roomOutcome{result: result, err: fmt.Errorf("%s: %w", classifyLabel, err)}
	}
	roomTypes = validateTypes(roomTypes, allowedRoomTypes)
	result.RoomTypes = roomTypes
	o.record("room_classifier", map[string]any{"room_id": room.RoomID, "image_count": len(classifyImages)}, map[string]any{"room_types": roomTypes}, "")

	roomItems := checklist.MergeRoom(roomsDef, roomTypes, room.RoomID, custom)

	checklistLabel := fmt.Sprintf("room checklist (%s)", room.RoomID)
	checklistImages := imaging.SampleForChecklist(room.Images, roomChecklistSampleK, o.checklistProfile())
	issues, err := o.Infer.EvaluateChecklist(ctx, checklistImages, roomItems, o.Batch.ChecklistBatchSize, checklistLabel)
	if err != nil {
		return roomOutcome{result: result, err: fmt.Errorf("%s: %w", checklistLabel, err)}
	}
	result.Issues = issues
	o.record("room_checklist", map[string]any{"room_id": room.RoomID, "item_count": len(roomItems)}, issues.Flatten(), "")

	productItems := checklist.MergeProducts(productsDef, nil, room.RoomID, custom)

	productLabel := fmt.Sprintf("room products (%s)", room.RoomID)
	productImages := imaging.SampleForChecklist(room.Images, productSampleK, o.checklistProfile())
	products, err := o.Infer.EvaluateChecklist(ctx, productImages, productItems, o.Batch.ChecklistBatchSize, productLabel)
	if err != nil {
		return roomOutcome{result: result, err: fmt.Errorf("%s: %w", productLabel, err)}
	}
	result.Products = products
	o.record("room_products", map[string]any{"room_id": room.RoomID, "item_count": len(productItems)}, products.Flatten(), "")

	return roomOutcome{
		result: result,
		items:  roomItemSet{roomID: room.RoomID, issueItems: roomItems, productItems: productItems},
	}
}

func sortedKeys(m map[string]checklist.TypeItems) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

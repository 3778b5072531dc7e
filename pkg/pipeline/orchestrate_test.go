package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/config"
	"github.com/inonelg/housecheck/pkg/evaluation"
	"github.com/inonelg/housecheck/pkg/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInferencer scripts classify/checklist/prosCons responses by label
// substring so a test can give each stage of the DAG a distinct answer
// without depending on call order.
type fakeInferencer struct {
	classifyErr   map[string]error
	classifyTypes map[string][]string

	evalErr    map[string]error
	evalResult map[string]evaluation.Result

	prosCons    inference.ProsCons
	prosConsErr error
}

func newFakeInferencer() *fakeInferencer {
	return &fakeInferencer{
		classifyErr:   map[string]error{},
		classifyTypes: map[string][]string{},
		evalErr:       map[string]error{},
		evalResult:    map[string]evaluation.Result{},
	}
}

func (f *fakeInferencer) Classify(_ context.Context, _ [][]byte, allowedTypes []string, taskLabel string) ([]string, error) {
	if err := f.classifyErr[taskLabel]; err != nil {
		return nil, err
	}
	types := f.classifyTypes[taskLabel]
	if types == nil && len(allowedTypes) > 0 {
		types = []string{allowedTypes[0]}
	}
	return types, nil
}

func (f *fakeInferencer) EvaluateChecklist(_ context.Context, _ [][]byte, items []checklist.Item, _ int, roleLabel string) (evaluation.Result, error) {
	if err := f.evalErr[roleLabel]; err != nil {
		return evaluation.Result{}, err
	}
	if r, ok := f.evalResult[roleLabel]; ok {
		return r, nil
	}
	result := evaluation.NewResult()
	for _, item := range items {
		if item.Kind == checklist.KindBoolean {
			result.Booleans[item.ID] = true
		}
	}
	return result, nil
}

func (f *fakeInferencer) SynthesizeProsCons(context.Context, []string, []string, []string) (inference.ProsCons, error) {
	if f.prosConsErr != nil {
		return inference.ProsCons{}, f.prosConsErr
	}
	return f.prosCons, nil
}

type spyTracker struct {
	executions []Execution
}

func (s *spyTracker) RecordExecution(exec Execution) {
	s.executions = append(s.executions, exec)
}

func testOrchestrator(infer Inferencer, tracker Tracker) *Orchestrator {
	cfg := config.DefaultConfig()
	return NewOrchestrator(infer, cfg, tracker)
}

func baseRunRequest() RunRequest {
	return RunRequest{
		AllImages: [][]byte{{1}, {2}},
		Rooms: []RoomInput{
			{RoomID: "kitchen", Images: [][]byte{{1}}},
			{RoomID: "bath", Images: [][]byte{{2}}},
		},
		HouseChecklist: checklist.HouseDefinition{
			Default:    checklist.TypeItems{Items: []checklist.Item{{ID: "roof_leak", Kind: checklist.KindBoolean}}},
			HouseTypes: map[string]checklist.TypeItems{"single_family": {}},
		},
		RoomsChecklist: checklist.RoomDefinition{
			Default:   checklist.TypeItems{Items: []checklist.Item{{ID: "grout", Kind: checklist.KindBoolean}}},
			RoomTypes: map[string]checklist.TypeItems{"kitchen": {}, "bathroom": {}},
		},
		ProductsChecklist: checklist.ProductDefinition{
			Items: []checklist.Item{{ID: "fridge", Kind: checklist.KindBoolean}},
		},
	}
}

func TestOrchestratorRunProducesReportAcrossRooms(t *testing.T) {
	infer := newFakeInferencer()
	infer.prosCons = inference.ProsCons{Pros: []string{"solid roof"}, Cons: []string{"leaky grout"}}
	tracker := &spyTracker{}

	o := testOrchestrator(infer, tracker)
	result, err := o.Run(context.Background(), baseRunRequest())

	require.NoError(t, err)
	assert.Len(t, result.Rooms, 2)
	assert.Equal(t, inference.ProsCons{Pros: []string{"solid roof"}, Cons: []string{"leaky grout"}}, result.ProsCons)
	assert.NotEmpty(t, result.Summary.Custom)
	assert.NotEmpty(t, tracker.executions)
}

func TestOrchestratorRunFailsWhenHouseClassifyErrors(t *testing.T) {
	infer := newFakeInferencer()
	infer.classifyErr["house type classification"] = errors.New("upstream down")

	o := testOrchestrator(infer, nil)
	_, err := o.Run(context.Background(), baseRunRequest())

	require.Error(t, err)
}

func TestOrchestratorRunExcludesFailingRoomButContinues(t *testing.T) {
	infer := newFakeInferencer()
	infer.classifyErr["room classification (bath)"] = errors.New("upstream down")

	o := testOrchestrator(infer, nil)
	result, err := o.Run(context.Background(), baseRunRequest())

	require.NoError(t, err)
	require.Len(t, result.Rooms, 1)
	assert.Equal(t, "kitchen", result.Rooms[0].RoomID)
}

func TestOrchestratorRunPropagatesProsConsError(t *testing.T) {
	infer := newFakeInferencer()
	infer.prosConsErr = errors.New("upstream down")

	o := testOrchestrator(infer, nil)
	_, err := o.Run(context.Background(), baseRunRequest())

	require.Error(t, err)
}

func TestOrchestratorRunRejectsInvalidRequest(t *testing.T) {
	o := testOrchestrator(newFakeInferencer(), nil)
	_, err := o.Run(context.Background(), RunRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestOrchestratorRunSkipsRoomWithNoImagesWithoutFailing(t *testing.T) {
	infer := newFakeInferencer()
	req := baseRunRequest()
	req.Rooms = append(req.Rooms, RoomInput{RoomID: "attic", Images: nil})

	o := testOrchestrator(infer, nil)
	result, err := o.Run(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Rooms, 2)
	for _, room := range result.Rooms {
		assert.NotEqual(t, "attic", room.RoomID)
	}
}

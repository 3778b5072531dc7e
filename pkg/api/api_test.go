package api

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/config"
	"github.com/inonelg/housecheck/pkg/evaluation"
	"github.com/inonelg/housecheck/pkg/inference"
	"github.com/inonelg/housecheck/pkg/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeInferencer answers every classify call with the first allowed type
// (or no type when none is allowed) and every checklist call by marking each
// boolean item true, which is enough variation to drive a report through
// the orchestrator without a live inference service.
type fakeInferencer struct {
	classifyErr error
	prosConsErr error
}

func (f *fakeInferencer) Classify(_ context.Context, _ [][]byte, allowedTypes []string, _ string) ([]string, error) {
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	if len(allowedTypes) == 0 {
		return nil, nil
	}
	return []string{allowedTypes[0]}, nil
}

func (f *fakeInferencer) EvaluateChecklist(_ context.Context, _ [][]byte, items []checklist.Item, _ int, _ string) (evaluation.Result, error) {
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
	return inference.ProsCons{Pros: []string{"good layout"}, Cons: []string{"needs paint"}}, nil
}

func testDeps(t *testing.T, infer *fakeInferencer) *Deps {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Security.AllowLocalhostURLs = true
	d := NewDeps(cfg, nil)
	d.newInferencer = func(inference.UsageObserver) pipeline.Inferencer { return infer }
	return d
}

func newTestRouter(t *testing.T, infer *fakeInferencer) *gin.Engine {
	t.Helper()
	return NewRouter(testDeps(t, infer))
}

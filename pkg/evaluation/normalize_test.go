package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonelg/housecheck/pkg/checklist"
)

func TestNormalizeOptionCoercion(t *testing.T) {
	items := []checklist.Item{
		{ID: "x", Kind: checklist.KindCategorical, Options: []string{"Poor", "Average", "Good", "Excellent", "N/A"}},
	}

	t.Run("case-insensitive match normalizes casing", func(t *testing.T) {
		got := Normalize(`{"categoricals": {"x": "gOoD"}}`, items)
		assert.Equal(t, "Good", got.Categoricals["x"])
	})

	t.Run("value outside allowed options falls back to N/A", func(t *testing.T) {
		got := Normalize(`{"categoricals": {"x": "rubbish"}}`, items)
		assert.Equal(t, "N/A", got.Categoricals["x"])
	})

	t.Run("absent value defaults to N/A", func(t *testing.T) {
		got := Normalize(`{}`, items)
		assert.Equal(t, "N/A", got.Categoricals["x"])
	})
}

func TestNormalizeOptionFallsBackToFirstWhenNoNA(t *testing.T) {
	items := []checklist.Item{
		{ID: "x", Kind: checklist.KindCategorical, Options: []string{"Red", "Blue"}},
	}

	got := Normalize(`{"categoricals": {"x": "green"}}`, items)
	assert.Equal(t, "Red", got.Categoricals["x"])
}

func TestNormalizeConditionalDefaulting(t *testing.T) {
	items := []checklist.Item{
		{
			ID:   "y",
			Kind: checklist.KindConditional,
			Subitems: []checklist.Subitem{
				{ID: "s1", Options: []string{"Poor", "Good", "N/A"}},
			},
		},
	}

	got := Normalize(`{}`, items)

	require.Contains(t, got.Conditionals, "y")
	answer := got.Conditionals["y"]
	assert.False(t, answer.Exists)
	assert.Equal(t, "N/A", answer.Condition)
	assert.Equal(t, map[string]string{"s1": "N/A"}, answer.Subitems)
}

func TestNormalizeConditionalWithModelResponse(t *testing.T) {
	items := []checklist.Item{
		{
			ID:               "roof",
			Kind:             checklist.KindConditional,
			ConditionOptions: []string{"Average", "Poor", "N/A"},
			Subitems: []checklist.Subitem{
				{ID: "tiles", Options: []string{"Poor", "Good", "N/A"}},
			},
		},
	}

	got := Normalize(`{"conditionals": {"roof": {"exists": true, "condition": "average", "subitems": {"tiles": "poor"}}}}`, items)

	answer := got.Conditionals["roof"]
	assert.True(t, answer.Exists)
	assert.Equal(t, "Average", answer.Condition)
	assert.Equal(t, "Poor", answer.Subitems["tiles"])
}

func TestNormalizeBooleanDefaultsFalse(t *testing.T) {
	items := []checklist.Item{{ID: "damage", Kind: checklist.KindBoolean}}

	got := Normalize(`{}`, items)
	assert.Equal(t, false, got.Booleans["damage"])
}

func TestNormalizeIgnoresUnexpectedIDs(t *testing.T) {
	items := []checklist.Item{{ID: "damage", Kind: checklist.KindBoolean}}

	got := Normalize(`{"booleans": {"damage": true, "unexpected": true}}`, items)
	assert.Len(t, got.Booleans, 1)
	assert.True(t, got.Booleans["damage"])
}

func TestNormalizeHandlesPromptWrappedJSON(t *testing.T) {
	items := []checklist.Item{{ID: "damage", Kind: checklist.KindBoolean}}

	raw := "Here is the result:\n```json\n{\"booleans\": {\"damage\": true}}\n```\nThanks."
	got := Normalize(raw, items)
	assert.True(t, got.Booleans["damage"])
}

func TestNormalizeTreatsMalformedJSONAsEmpty(t *testing.T) {
	items := []checklist.Item{{ID: "damage", Kind: checklist.KindBoolean}}

	got := Normalize("not json at all", items)
	assert.False(t, got.Booleans["damage"])
}

func TestNormalizeCoercesNonBoolBooleanValues(t *testing.T) {
	items := []checklist.Item{
		{ID: "damage", Kind: checklist.KindBoolean},
		{ID: "mold", Kind: checklist.KindBoolean},
		{ID: "stains", Kind: checklist.KindBoolean},
		{ID: "grade", Kind: checklist.KindCategorical, Options: []string{"A", "B"}},
	}

	raw := `{"booleans": {"damage": "true", "mold": 0, "stains": ""}, "categoricals": {"grade": "A"}}`
	got := Normalize(raw, items)

	assert.True(t, got.Booleans["damage"], "non-empty string is truthy")
	assert.False(t, got.Booleans["mold"], "zero is falsy")
	assert.False(t, got.Booleans["stains"], "empty string is falsy")
	assert.Equal(t, "A", got.Categoricals["grade"], "a stray boolean type doesn't discard the rest of the batch")
}

func TestResultMergeIsDisjointUnion(t *testing.T) {
	a := NewResult()
	a.Booleans["x"] = true

	b := NewResult()
	b.Booleans["y"] = false

	merged := a.Merge(b)
	assert.Equal(t, true, merged.Booleans["x"])
	assert.Equal(t, false, merged.Booleans["y"])
}

func TestResultFlattenConditional(t *testing.T) {
	r := NewResult()
	r.Conditionals["roof"] = ConditionalAnswer{Exists: true, Condition: "Average", Subitems: map[string]string{"tiles": "Poor"}}

	flat := r.Flatten()
	entry := flat["roof"].(map[string]any)
	assert.Equal(t, true, entry["exists"])
	assert.Equal(t, "Average", entry["condition"])
}

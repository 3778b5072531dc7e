// Package evaluation normalizes a model's raw checklist-evaluation
// response into a total, well-typed Result: one entry per expected item,
// coerced to the item's declared kind, even when the model omitted the
// entry or answered with something outside the allowed options.
package evaluation

import "github.com/inonelg/housecheck/pkg/checklist"

// Result holds the three answer maps produced by evaluating one checklist
// batch against the model. Once normalized, every id from the batch's
// expected items appears in exactly one of these maps, keyed by its kind.
type Result struct {
	Booleans     map[string]bool               `json:"booleans"`
	Categoricals map[string]string              `json:"categoricals"`
	Conditionals map[string]ConditionalAnswer   `json:"conditionals"`
}

// ConditionalAnswer is the normalized answer to a conditional item:
// whether the condition applies at all, its quality if so, and the
// per-subitem quality answers (always present; a subitem the model didn't
// address defaults to "N/A" when its allowed options include it, otherwise
// to its first allowed option).
type ConditionalAnswer struct {
	Exists    bool              `json:"exists"`
	Condition string            `json:"condition"`
	Subitems  map[string]string `json:"subitems"`
}

// NewResult returns a Result with all three maps initialized, ready to be
// merged into by successive checklist batches.
func NewResult() Result {
	return Result{
		Booleans:     make(map[string]bool),
		Categoricals: make(map[string]string),
		Conditionals: make(map[string]ConditionalAnswer),
	}
}

// Merge folds other's entries into r. Batches partition a checklist by
// construction (every id appears in exactly one batch), so this is a
// disjoint union rather than a conflict-resolving merge.
func (r Result) Merge(other Result) Result {
	for k, v := range other.Booleans {
		r.Booleans[k] = v
	}
	for k, v := range other.Categoricals {
		r.Categoricals[k] = v
	}
	for k, v := range other.Conditionals {
		r.Conditionals[k] = v
	}
	return r
}

// Flatten collapses the three maps into a single id-keyed map, matching
// the shape product and house reports store per-item answers in:
// booleans and categoricals flatten to their raw value, conditionals
// flatten to {exists, condition, subitems}.
func (r Result) Flatten() map[string]any {
	flat := make(map[string]any, len(r.Booleans)+len(r.Categoricals)+len(r.Conditionals))
	for k, v := range r.Booleans {
		flat[k] = v
	}
	for k, v := range r.Categoricals {
		flat[k] = v
	}
	for k, v := range r.Conditionals {
		subitems := v.Subitems
		if subitems == nil {
			subitems = map[string]string{}
		}
		flat[k] = map[string]any{
			"exists":    v.Exists,
			"condition": v.Condition,
			"subitems":  subitems,
		}
	}
	return flat
}

// expectedItem is the normalized, defaulting-ready projection of a
// checklist.Item built once per batch and consulted for every raw answer.
type expectedItem struct {
	kind             checklist.Kind
	options          []string
	conditionOptions []string
	subitems         []expectedSubitem
}

type expectedSubitem struct {
	id      string
	options []string
}

// defaultConditionOptions is used for a conditional item's condition
// answer (and any subitem) when neither the item nor the subitem declares
// its own options.
var defaultConditionOptions = checklist.DefaultQualityOptions

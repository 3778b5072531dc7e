package evaluation

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/inonelg/housecheck/pkg/checklist"
)

// rawResponse is the loose shape a model's checklist answer is first
// parsed into, before being projected through the expected map.
type rawResponse struct {
	Booleans     map[string]any            `json:"booleans"`
	Categoricals map[string]any            `json:"categoricals"`
	Conditionals map[string]rawConditional `json:"conditionals"`
}

type rawConditional struct {
	Exists    bool           `json:"exists"`
	Condition any            `json:"condition"`
	Subitems  map[string]any `json:"subitems"`
}

// Normalize turns a model's raw text response to a checklist batch into a
// total Result: exactly one entry per id in expectedItems, coerced to
// that item's kind, defaulted when the model omitted or mis-shaped its
// answer for that id.
func Normalize(rawText string, expectedItems []checklist.Item) Result {
	expected := buildExpectedMap(expectedItems)
	parsed := parseJSONObject(rawText)

	result := NewResult()

	if parsed.Booleans != nil {
		for id, v := range parsed.Booleans {
			if _, ok := expected[id]; ok {
				result.Booleans[id] = toBool(v)
			}
		}
	}

	if parsed.Categoricals != nil {
		for id, raw := range parsed.Categoricals {
			item, ok := expected[id]
			if !ok {
				continue
			}
			result.Categoricals[id] = normalizeOptionValue(toStringPtr(raw), item.options)
		}
	}

	if parsed.Conditionals != nil {
		for id, raw := range parsed.Conditionals {
			item, ok := expected[id]
			if !ok {
				continue
			}
			result.Conditionals[id] = normalizeConditional(raw, item)
		}
	}

	applyDefaults(result, expected)

	return result
}

// applyDefaults fills in every expected id the model's response left
// untouched: boolean -> false, categorical -> normalized empty (which
// resolves to "N/A" or the item's first option), conditional -> not
// existing with every subitem defaulted.
func applyDefaults(result Result, expected map[string]expectedItem) {
	for id, item := range expected {
		switch item.kind {
		case checklist.KindBoolean:
			if _, ok := result.Booleans[id]; !ok {
				result.Booleans[id] = false
			}

		case checklist.KindCategorical:
			current, ok := result.Categoricals[id]
			var ptr *string
			if ok {
				ptr = &current
			}
			result.Categoricals[id] = normalizeOptionValue(ptr, item.options)

		case checklist.KindConditional:
			existing, ok := result.Conditionals[id]
			conditionAllowed := conditionOptionsFor(item)

			var conditionPtr *string
			if ok {
				conditionPtr = &existing.Condition
			}

			subitems := make(map[string]string, len(item.subitems))
			for _, sub := range item.subitems {
				subAllowed := sub.options
				if len(subAllowed) == 0 {
					subAllowed = conditionAllowed
				}
				var subPtr *string
				if ok {
					if v, has := existing.Subitems[sub.id]; has {
						subPtr = &v
					}
				}
				subitems[sub.id] = normalizeOptionValue(subPtr, subAllowed)
			}

			result.Conditionals[id] = ConditionalAnswer{
				Exists:    ok && existing.Exists,
				Condition: normalizeOptionValue(conditionPtr, conditionAllowed),
				Subitems:  subitems,
			}
		}
	}
}

func normalizeConditional(raw rawConditional, item expectedItem) ConditionalAnswer {
	conditionAllowed := conditionOptionsFor(item)
	condition := normalizeOptionValue(toStringPtr(raw.Condition), conditionAllowed)

	subitems := make(map[string]string, len(item.subitems))
	for _, sub := range item.subitems {
		subAllowed := sub.options
		if len(subAllowed) == 0 {
			subAllowed = conditionAllowed
		}
		var subPtr *string
		if raw.Subitems != nil {
			if v, ok := raw.Subitems[sub.id]; ok {
				subPtr = toStringPtr(v)
			}
		}
		subitems[sub.id] = normalizeOptionValue(subPtr, subAllowed)
	}

	return ConditionalAnswer{
		Exists:    raw.Exists,
		Condition: condition,
		Subitems:  subitems,
	}
}

func conditionOptionsFor(item expectedItem) []string {
	if len(item.conditionOptions) > 0 {
		return item.conditionOptions
	}
	if len(item.options) > 0 {
		return item.options
	}
	return defaultConditionOptions
}

func buildExpectedMap(items []checklist.Item) map[string]expectedItem {
	expected := make(map[string]expectedItem, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}

		subitems := make([]expectedSubitem, 0, len(item.Subitems))
		for _, sub := range item.Subitems {
			if sub.ID == "" {
				continue
			}
			subitems = append(subitems, expectedSubitem{
				id:      sub.ID,
				options: normalizeAllowedOptions(sub.Options),
			})
		}

		expected[item.ID] = expectedItem{
			kind:             item.Kind,
			options:          normalizeAllowedOptions(item.Options),
			conditionOptions: normalizeAllowedOptions(item.ConditionOptions),
			subitems:         subitems,
		}
	}
	return expected
}

// parseJSONObject extracts the span from the first "{" to the last "}" of
// raw model output (which often wraps JSON in prose or code fences) and
// parses it. A parse failure is treated as an empty object rather than an
// error, since every field has a default anyway.
func parseJSONObject(raw string) rawResponse {
	text := strings.TrimSpace(raw)

	if first := strings.Index(text, "{"); first >= 0 {
		if last := strings.LastIndex(text, "}"); last >= first {
			text = text[first : last+1]
		}
	}

	var parsed rawResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		slog.Warn("checklist response was not valid JSON, treating as empty", "error", err)
		return rawResponse{}
	}
	return parsed
}

func toStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// toBool coerces an arbitrary decoded JSON value to bool the same way the
// original's bare bool(v) cast does: nil, false, zero, an empty string, and
// an empty array/object are falsy; everything else is truthy. This never
// fails, unlike decoding straight into a map[string]bool, so a model that
// answers a boolean item with a string or number doesn't sink the rest of
// an otherwise well-formed batch.
func toBool(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

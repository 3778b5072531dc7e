package inference

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/evaluation"
)

// defaultConditionOptions is used when a conditional item (or one of its
// subitems) declares no options of its own.
var defaultConditionOptions = checklist.DefaultQualityOptions

// imagePart is one image_url content part, detail pinned to "low" to keep
// per-call token cost down for what is always a coarse visual check.
type imagePart struct {
	dataURL string
}

// buildImageParts converts raw image bytes into inline base64 data URLs.
// All images are assumed JPEG-encoded by the time they reach this
// package (pkg/imaging re-encodes everything before it is sampled).
func buildImageParts(images [][]byte) []imagePart {
	parts := make([]imagePart, len(images))
	for i, img := range images {
		parts[i] = imagePart{dataURL: toDataURL(img, "image/jpeg")}
	}
	return parts
}

func toDataURL(img []byte, mime string) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img))
}

// classificationPrompt renders the single-turn instruction for Agent 1/3.
func classificationPrompt(taskLabel string, allowedTypes []string) string {
	return fmt.Sprintf(
		"You are a strict classifier for %s. Choose ALL applicable IDs ONLY from this list: %s. "+
			"Return them as a JSON object with key 'types' containing an array of strings.",
		taskLabel, formatStringList(allowedTypes),
	)
}

// checklistSystemPrompt renders the fixed system instruction for a
// checklist evaluation batch (Agent 2/4/5), parameterized only by the
// role label the batch is being evaluated for.
func checklistSystemPrompt(roleLabel string) string {
	return fmt.Sprintf(
		"You are a vision QA agent for %s. "+
			"Analyze the provided images and return a JSON object with keys: "+
			"booleans, categoricals, conditionals. "+
			"Each key maps item IDs to answers ONLY for this batch. "+
			"RULES: include EVERY listed ID exactly once; "+
			"if unsure set boolean false, categorical 'N/A'. "+
			"For conditional items create entry under conditionals: "+
			`{id:{"exists":bool, "condition":Quality|null, "subitems":{subid:Quality,...}|{}}}. `+
			"Allowed Quality values: Poor, Average, Good, Excellent, N/A. "+
			"Do not add extra keys.",
		roleLabel,
	)
}

// checklistHumanPrompt renders the per-batch instruction body: the
// numbered batch header, one instruction line per item, and a trailing
// "return ONLY valid JSON" reminder.
func checklistHumanPrompt(batchNumber int, items []checklist.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BATCH (%d) items (total %d):\n", batchNumber, len(items))
	b.WriteString(itemsToInstruction(items))
	b.WriteString("\nReturn ONLY valid JSON.")
	return b.String()
}

// itemsToInstruction renders one instruction line per checklist item,
// describing its kind and allowed values so the model knows exactly what
// shape of answer each id expects.
func itemsToInstruction(items []checklist.Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case checklist.KindBoolean:
			lines = append(lines, fmt.Sprintf("- %s : boolean", item.ID))

		case checklist.KindCategorical:
			options := evaluation.NormalizeAllowedOptions(item.Options)
			desc := "any"
			if len(options) > 0 {
				desc = strings.Join(options, ", ")
			}
			lines = append(lines, fmt.Sprintf("- %s : categorical in {%s}", item.ID, desc))

		case checklist.KindConditional:
			conditionOptions := evaluation.NormalizeAllowedOptions(item.ConditionOptions)
			if len(conditionOptions) == 0 {
				conditionOptions = evaluation.NormalizeAllowedOptions(item.Options)
			}
			if len(conditionOptions) == 0 {
				conditionOptions = defaultConditionOptions
			}
			conditionDesc := strings.Join(conditionOptions, "/")

			subSegments := make([]string, 0, len(item.Subitems))
			for _, sub := range item.Subitems {
				subOptions := evaluation.NormalizeAllowedOptions(sub.Options)
				if len(subOptions) == 0 {
					subOptions = conditionOptions
				}
				subSegments = append(subSegments, fmt.Sprintf("%s:%s", sub.ID, strings.Join(subOptions, "/")))
			}
			subDesc := "{}"
			if len(subSegments) > 0 {
				subDesc = strings.Join(subSegments, ", ")
			}

			lines = append(lines, fmt.Sprintf(
				"- %s : conditional -> exists:boolean, condition in {%s}, subitems {%s}",
				item.ID, conditionDesc, subDesc,
			))
		}
	}
	return strings.Join(lines, "\n")
}

// prosConsPrompt renders the single text-only prompt for Agent 6, with
// the original's exact per-section issue-line truncation limits.
func prosConsPrompt(houseIssues, roomIssues, productIssues []string) string {
	house := truncate(houseIssues, 80)
	rooms := truncate(roomIssues, 200)
	products := truncate(productIssues, 200)

	return "Given these deterministic issue lines, produce concise pros/cons " +
		"(focus on what's good vs what needs attention):\n\n" +
		"HOUSE:\n" + strings.Join(house, "\n") + "\n\n" +
		"ROOMS:\n" + strings.Join(rooms, "\n") + "\n\n" +
		"PRODUCTS:\n" + strings.Join(products, "\n")
}

func truncate(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}

func formatStringList(items []string) string {
	return "[" + strings.Join(quoteAll(items), ", ") + "]"
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

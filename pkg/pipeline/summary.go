package pipeline

import (
	"fmt"

	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/evaluation"
)

// checklistToIssueLines derives the scope-prefixed issue lines for one
// evaluated batch. It walks items (the expected-items slice that drove
// the evaluation), never the Result's maps directly — Go map iteration
// order is randomized per run, and the line order here must be
// reproducible given identical inputs.
func checklistToIssueLines(prefix string, items []checklist.Item, result evaluation.Result) []string {
	var lines []string

	for _, item := range items {
		switch item.Kind {
		case checklist.KindBoolean:
			if result.Booleans[item.ID] {
				lines = append(lines, fmt.Sprintf("%s:%s:true", prefix, item.ID))
			}

		case checklist.KindCategorical:
			if v, ok := result.Categoricals[item.ID]; ok && v != "N/A" {
				lines = append(lines, fmt.Sprintf("%s:%s:%s", prefix, item.ID, v))
			}

		case checklist.KindConditional:
			answer, ok := result.Conditionals[item.ID]
			if !ok || !answer.Exists {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s:%s:exists", prefix, item.ID))
			if answer.Condition != "" {
				lines = append(lines, fmt.Sprintf("%s:%s:condition:%s", prefix, item.ID, answer.Condition))
			}
			for _, sub := range item.Subitems {
				v, ok := answer.Subitems[sub.ID]
				if !ok || v == "N/A" {
					continue
				}
				lines = append(lines, fmt.Sprintf("%s:%s:%s:%s", prefix, item.ID, sub.ID, v))
			}
		}
	}

	return lines
}

// roomItemSet is the per-room deterministic item slices a run's fan-out
// stage produced — needed here (not just the Result values) so the
// summary stage can walk them in order.
type roomItemSet struct {
	roomID       string
	issueItems   []checklist.Item
	productItems []checklist.Item
}

// buildSummary assembles the full Summary from the house-level evaluation
// and every room's evaluations, in Rooms input order. Custom concatenates
// house, then every room's issues, then every room's products, in that
// order — matching the original's fixed aggregation order.
func buildSummary(houseItems []checklist.Item, houseResult evaluation.Result, rooms []roomItemSet, roomResults []RoomResult) Summary {
	house := checklistToIssueLines("house", houseItems, houseResult)

	var roomLines, productLines []string
	for i, rs := range rooms {
		roomLines = append(roomLines, checklistToIssueLines("room:"+rs.roomID, rs.issueItems, roomResults[i].Issues)...)
	}
	for i, rs := range rooms {
		productLines = append(productLines, checklistToIssueLines("product:"+rs.roomID, rs.productItems, roomResults[i].Products)...)
	}

	custom := make([]string, 0, len(house)+len(roomLines)+len(productLines))
	custom = append(custom, house...)
	custom = append(custom, roomLines...)
	custom = append(custom, productLines...)

	return Summary{
		House:    house,
		Rooms:    roomLines,
		Products: productLines,
		Custom:   custom,
	}
}

package pipeline

import (
	"sort"

	"github.com/inonelg/housecheck/pkg/evaluation"
)

// ChecklistClientSummary is the client-facing reduction of one evaluation
// Result: the booleans that came back true, sorted for stable display,
// and the categoricals verbatim. Conditionals are intentionally omitted —
// the original's client summary never surfaces them, leaving that detail
// to the full Result.
type ChecklistClientSummary struct {
	BooleansTrue []string          `json:"booleans_true"`
	Categoricals map[string]string `json:"categoricals"`
}

// ClientSummary is the top-level response shape a caller renders to an
// end user, as opposed to HouseResult's complete-but-verbose form.
type ClientSummary struct {
	House    ChecklistClientSummary            `json:"house"`
	Rooms    map[string]ChecklistClientSummary `json:"rooms"`
	Products map[string]ChecklistClientSummary `json:"products"`
	Pros     []string                          `json:"pros"`
	Cons     []string                          `json:"cons"`
}

func extractClientSummary(result evaluation.Result) ChecklistClientSummary {
	var truthy []string
	for id, v := range result.Booleans {
		if v {
			truthy = append(truthy, id)
		}
	}
	sort.Strings(truthy)

	categoricals := make(map[string]string, len(result.Categoricals))
	for id, v := range result.Categoricals {
		categoricals[id] = v
	}

	return ChecklistClientSummary{BooleansTrue: truthy, Categoricals: categoricals}
}

// GenerateClientSummary reduces a HouseResult to the subset worth putting
// in front of an end user: flagged booleans and categorical answers per
// scope, plus the pros/cons synthesis.
func GenerateClientSummary(result HouseResult) ClientSummary {
	rooms := make(map[string]ChecklistClientSummary, len(result.Rooms))
	products := make(map[string]ChecklistClientSummary, len(result.Rooms))
	for _, room := range result.Rooms {
		rooms[room.RoomID] = extractClientSummary(room.Issues)
		products[room.RoomID] = extractClientSummary(room.Products)
	}

	return ClientSummary{
		House:    extractClientSummary(result.HouseChecklist),
		Rooms:    rooms,
		Products: products,
		Pros:     result.ProsCons.Pros,
		Cons:     result.ProsCons.Cons,
	}
}

// RoomCompletionStats reports how many checklist items a single room's
// two evaluations (issues, products) covered.
type RoomCompletionStats struct {
	RoomID       string   `json:"room_id"`
	RoomTypes    []string `json:"room_types"`
	RoomItems    int      `json:"room_items"`
	ProductItems int      `json:"product_items"`
	TotalItems   int      `json:"total_items"`
}

// CompletionStats is a simple coverage report over a finished run: how
// many items were examined in total, and what fraction the model
// actually produced a non-empty answer for.
type CompletionStats struct {
	TotalRooms        int                   `json:"total_rooms"`
	HouseTypesCount   int                   `json:"house_types_count"`
	TotalHouseItems   int                   `json:"total_house_items"`
	RoomStats         []RoomCompletionStats `json:"room_stats"`
	TotalItemsAnalyzed int                  `json:"total_items_analyzed"`
	OverallCoverage   float64               `json:"overall_coverage"`
}

func itemCount(r evaluation.Result) int {
	return len(r.Booleans) + len(r.Categoricals) + len(r.Conditionals)
}

// completedCount counts entries this evaluation actually answered:
// booleans are always considered answered (Normalize never leaves one
// unset), categoricals count when non-empty, conditionals count when
// present at all — mirroring the loose "truthy" completion check used to
// produce this statistic.
func completedCount(r evaluation.Result) int {
	completed := len(r.Booleans)
	for _, v := range r.Categoricals {
		if v != "" {
			completed++
		}
	}
	completed += len(r.Conditionals)
	return completed
}

// CalculateCompletionStats reports per-room and overall item coverage for
// a finished run.
func CalculateCompletionStats(result HouseResult) CompletionStats {
	totalHouseItems := itemCount(result.HouseChecklist)

	stats := CompletionStats{
		TotalRooms:      len(result.Rooms),
		HouseTypesCount: len(result.HouseTypes),
		TotalHouseItems: totalHouseItems,
	}

	totalItems := totalHouseItems
	completedItems := completedCount(result.HouseChecklist)

	for _, room := range result.Rooms {
		roomItems := itemCount(room.Issues)
		productItems := itemCount(room.Products)

		stats.RoomStats = append(stats.RoomStats, RoomCompletionStats{
			RoomID:       room.RoomID,
			RoomTypes:    room.RoomTypes,
			RoomItems:    roomItems,
			ProductItems: productItems,
			TotalItems:   roomItems + productItems,
		})

		totalItems += roomItems + productItems
		completedItems += completedCount(room.Issues) + completedCount(room.Products)
	}

	stats.TotalItemsAnalyzed = totalItems
	if totalItems > 0 {
		stats.OverallCoverage = float64(completedItems) / float64(totalItems)
	}

	return stats
}

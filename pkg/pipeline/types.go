// Package pipeline drives the six-stage inspection DAG: house
// classification, house checklist evaluation, per-room fan-out (room
// classification, room checklist, product inventory), and a final
// pros/cons synthesis over the accumulated findings.
package pipeline

import (
	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/evaluation"
	"github.com/inonelg/housecheck/pkg/inference"
)

// RoomInput is one room's raw image pool, tagged by the caller-assigned
// room identifier. Rooms is an ordered slice (not a map) so the final
// report's room order matches the caller's input order exactly — Go map
// iteration order is not guaranteed, and the report's ordering is.
type RoomInput struct {
	RoomID string
	Images [][]byte
}

// RunRequest is everything one pipeline run needs: the whole-house image
// pool, the per-room image pools, and the three checklist definition
// trees (already loaded from their source files, not yet merged — the
// type-specific merge happens inside the run once each stage's types are
// classified).
type RunRequest struct {
	AllImages         [][]byte
	Rooms             []RoomInput
	HouseChecklist    checklist.HouseDefinition
	RoomsChecklist    checklist.RoomDefinition
	ProductsChecklist checklist.ProductDefinition
	Custom            *checklist.CustomChecklist
}

// RoomResult is one room's findings: its classified types, its checklist
// evaluation, and its product inventory evaluation.
type RoomResult struct {
	RoomID    string            `json:"room_id"`
	RoomTypes []string          `json:"room_types"`
	Issues    evaluation.Result `json:"issues"`
	Products  evaluation.Result `json:"products"`
}

// Summary holds the deterministic, scope-prefixed issue lines derived
// from a run's evaluation results — the input to the pros/cons stage,
// and the basis for the client-facing summary.
type Summary struct {
	House    []string `json:"house"`
	Rooms    []string `json:"rooms"`
	Products []string `json:"products"`
	Custom   []string `json:"custom"`
}

// HouseResult is the complete report produced by one pipeline run.
type HouseResult struct {
	HouseTypes     []string           `json:"house_types"`
	HouseChecklist evaluation.Result  `json:"house_checklist"`
	Rooms          []RoomResult       `json:"rooms"`
	Summary        Summary            `json:"summary"`
	ProsCons       inference.ProsCons `json:"pros_cons"`
}

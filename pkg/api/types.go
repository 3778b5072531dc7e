// Package api exposes the inspection pipeline over HTTP: a scan endpoint
// that fetches room images by URL, and a simulate endpoint that replays a
// local demo directory tree — both funneling into the same
// pkg/pipeline.Orchestrator.
package api

import (
	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/cost"
	"github.com/inonelg/housecheck/pkg/pipeline"
)

// ScanRoomRequest is one room's identifier plus the URLs its images
// should be fetched from.
type ScanRoomRequest struct {
	RoomID    string   `json:"room_id" binding:"required"`
	ImageURLs []string `json:"image_urls" binding:"required"`
}

// ScanRunRequest is the body of POST /v1/scan/run. The three checklists
// are accepted in either shape the Open Question in SPEC_FULL.md leaves
// open — a full {default, <axis>_types} tree, or a flat default-only
// list — since pkg/checklist's merge functions only ever read
// Default.Items plus whatever type-specific buckets are present.
type ScanRunRequest struct {
	Rooms             []ScanRoomRequest           `json:"rooms" binding:"required,min=1"`
	HouseChecklist    checklist.HouseDefinition   `json:"house_checklist"`
	RoomsChecklist    checklist.RoomDefinition    `json:"rooms_checklist"`
	ProductsChecklist checklist.ProductDefinition `json:"products_checklist"`
	CustomChecklist   *checklist.CustomChecklist  `json:"custom_checklist,omitempty"`
}

// RunMetadata carries request-scoped bookkeeping alongside the report
// itself — not part of HouseResult, since it describes the run rather
// than the house.
type RunMetadata struct {
	RequestID      string `json:"request_id"`
	DurationMS     int64  `json:"duration_ms"`
	RoomCount      int    `json:"room_count"`
	AgentExecCount int    `json:"agent_execution_count"`
}

// RunResponse is the common shape both /v1/scan/run and /v1/simulate
// respond with.
type RunResponse struct {
	Result        pipeline.HouseResult     `json:"result"`
	ClientSummary pipeline.ClientSummary   `json:"client_summary"`
	CostInfo      cost.Summary             `json:"cost_info"`
	Metadata      RunMetadata              `json:"metadata"`
	Completion    pipeline.CompletionStats `json:"completion_stats"`
}

// errorResponse is the body returned on every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

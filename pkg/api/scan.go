package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inonelg/housecheck/pkg/pipeline"
)

// handleScanRun fetches every room's images by URL, runs the full
// pipeline, and returns the assembled report. A room whose URLs all
// fail to fetch is dropped rather than failing the whole request — the
// same per-room tolerance the pipeline itself applies to inference
// failures.
func (d *Deps) handleScanRun(c *gin.Context) {
	var req ScanRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &pipeline.ValidationError{Field: "body", Message: err.Error()})
		return
	}

	start := time.Now()
	requestID := uuid.NewString()

	var allImages [][]byte
	var rooms []pipeline.RoomInput
	for _, room := range req.Rooms {
		images := d.Fetcher.FetchURLs(c.Request.Context(), room.ImageURLs)
		if len(images) == 0 {
			slog.Warn("room has no fetchable images, skipping", "request_id", requestID, "room_id", room.RoomID)
			continue
		}
		allImages = append(allImages, images...)
		rooms = append(rooms, pipeline.RoomInput{RoomID: room.RoomID, Images: images})
	}

	runReq := pipeline.RunRequest{
		AllImages:         allImages,
		Rooms:             rooms,
		HouseChecklist:    req.HouseChecklist,
		RoomsChecklist:    req.RoomsChecklist,
		ProductsChecklist: req.ProductsChecklist,
		Custom:            req.CustomChecklist,
	}

	adapter, ledger := d.newRunAdapter()
	tracker := &executionTracker{}
	orch := pipeline.NewOrchestrator(adapter, d.Config, tracker)

	result, err := orch.Run(c.Request.Context(), runReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RunResponse{
		Result:        result,
		ClientSummary: pipeline.GenerateClientSummary(result),
		CostInfo:      ledger.Summary(),
		Metadata: RunMetadata{
			RequestID:      requestID,
			DurationMS:     time.Since(start).Milliseconds(),
			RoomCount:      len(rooms),
			AgentExecCount: tracker.count(),
		},
		Completion: pipeline.CalculateCompletionStats(result),
	})
}

// executionTracker is the scan endpoint's pipeline.Tracker: it only
// needs a count for RunMetadata, not the full execution log, so it keeps
// just that instead of accumulating every Execution in memory.
type executionTracker struct {
	mu sync.Mutex
	n  int
}

func (t *executionTracker) RecordExecution(exec pipeline.Execution) {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
	slog.Debug("agent execution recorded", "agent", exec.AgentName, "model", exec.Model)
}

func (t *executionTracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/imagesource"
	"github.com/inonelg/housecheck/pkg/pipeline"
)

// handleSimulate replays a local demo directory tree through the same
// pipeline a real scan uses. Unlike the scan endpoint, no execution
// tracker is wired in — simulate runs are for local iteration, not the
// audit trail a real scan's tracker supports.
func (d *Deps) handleSimulate(c *gin.Context) {
	root := c.Query("root")
	if !imagesource.IsValidRootName(root) {
		respondError(c, &pipeline.ValidationError{Field: "root", Message: "invalid simulation root name"})
		return
	}

	simPath, err := imagesource.ResolveSimulationRoot(d.Config.ResolvedDemoDir(), root)
	if err != nil {
		respondError(c, err)
		return
	}

	allImages, roomImages, err := imagesource.CollectSimulationImages(simPath)
	if err != nil {
		respondError(c, err)
		return
	}

	bundle, err := d.loadChecklistBundle()
	if err != nil {
		respondError(c, err)
		return
	}

	rooms := make([]pipeline.RoomInput, 0, len(roomImages))
	for _, ri := range roomImages {
		rooms = append(rooms, pipeline.RoomInput{RoomID: ri.RoomID, Images: ri.Images})
	}

	runReq := pipeline.RunRequest{
		AllImages:         allImages,
		Rooms:             rooms,
		HouseChecklist:    bundle.House,
		RoomsChecklist:    bundle.Rooms,
		ProductsChecklist: bundle.Products,
		Custom:            bundle.Custom,
	}

	start := time.Now()
	adapter, ledger := d.newRunAdapter()
	orch := pipeline.NewOrchestrator(adapter, d.Config, nil)

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
			RequestID:  uuid.NewString(),
			DurationMS: time.Since(start).Milliseconds(),
			RoomCount:  len(rooms),
		},
		Completion: pipeline.CalculateCompletionStats(result),
	})
}

// loadChecklistBundle reads the four checklist files from the
// configured data directory, through the process-wide cache keyed on
// that directory — the files change only when an operator edits them,
// so repeated simulate calls don't re-read and re-parse JSON every time.
func (d *Deps) loadChecklistBundle() (checklistBundle, error) {
	dataDir := d.Config.ResolvedDataDir()
	return d.ChecklistCache.GetOrLoad(dataDir, func() (checklistBundle, error) {
		house, err := checklist.LoadHouseDefinition(dataDir)
		if err != nil {
			return checklistBundle{}, err
		}
		rooms, err := checklist.LoadRoomDefinition(dataDir)
		if err != nil {
			return checklistBundle{}, err
		}
		products, err := checklist.LoadProductDefinition(dataDir)
		if err != nil {
			return checklistBundle{}, err
		}
		custom, err := checklist.LoadCustomChecklist(dataDir)
		if err != nil {
			return checklistBundle{}, err
		}
		return checklistBundle{House: house, Rooms: rooms, Products: products, Custom: custom}, nil
	})
}

// handleListSimulations returns every simulation directory available
// under the configured demo root, for a caller to build a picker from.
func (d *Deps) handleListSimulations(c *gin.Context) {
	sims, err := imagesource.ListAvailableSimulations(d.Config.ResolvedDemoDir())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulations": sims})
}

// handleHealth is a minimal liveness check shared by both the scan and
// simulate route groups.
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

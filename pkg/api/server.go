package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inonelg/housecheck/pkg/cache"
	"github.com/inonelg/housecheck/pkg/checklist"
	"github.com/inonelg/housecheck/pkg/config"
	"github.com/inonelg/housecheck/pkg/cost"
	"github.com/inonelg/housecheck/pkg/governor"
	"github.com/inonelg/housecheck/pkg/imagesource"
	"github.com/inonelg/housecheck/pkg/inference"
	"github.com/inonelg/housecheck/pkg/pipeline"
)

// checklistBundle is the four loaded checklist files, cached together
// since the simulate path always needs all four for a given data dir.
type checklistBundle struct {
	House    checklist.HouseDefinition
	Rooms    checklist.RoomDefinition
	Products checklist.ProductDefinition
	Custom   *checklist.CustomChecklist
}

// inferencerFactory builds a fresh pipeline.Inferencer bound to observer,
// the per-request usage sink. Production wiring returns a real
// *inference.Adapter; tests substitute a factory returning a fake so a
// handler can be exercised without a live gRPC connection.
type inferencerFactory func(observer inference.UsageObserver) pipeline.Inferencer

// Deps holds every process-wide collaborator the HTTP handlers share
// across requests: the rate governor and gRPC connection are expensive
// to set up and safe to reuse, while a cost ledger and Orchestrator are
// built fresh per request so concurrent scans never share token
// accounting.
type Deps struct {
	Config          *config.Config
	InferenceClient *inference.Client
	Governor        *governor.Governor
	Fetcher         *imagesource.Fetcher
	ChecklistCache  *cache.Cache[checklistBundle]

	newInferencer inferencerFactory
}

// NewDeps wires the process-wide singletons from cfg. The inference
// client and governor are expensive to construct (a gRPC dial, a shared
// rate limiter) and are shared by every request; the checklist cache
// similarly avoids re-reading the same data-directory checklist JSON
// files on every /v1/simulate call.
func NewDeps(cfg *config.Config, client *inference.Client) *Deps {
	gov := governor.New(cfg.RateLimit, nil)
	d := &Deps{
		Config:          cfg,
		InferenceClient: client,
		Governor:        gov,
		Fetcher:         imagesource.NewFetcher(cfg.Security),
		ChecklistCache:  cache.New[checklistBundle](time.Duration(cfg.Cache.ExpireSeconds)*time.Second, nil),
	}
	d.newInferencer = func(observer inference.UsageObserver) pipeline.Inferencer {
		return inference.NewAdapter(client, gov, observer, cfg.Models.VisionModel, cfg.Models.TextModel)
	}
	return d
}

// ledgerObserver adapts a *cost.Ledger, whose RecordUsage signature
// predates inference.UsageObserver, to satisfy it: the ledger wants raw
// prompt/completion counts while the observer interface bundles them
// into a Usage value.
type ledgerObserver struct {
	ledger *cost.Ledger
}

func (o ledgerObserver) RecordUsage(usage inference.Usage, model, label string) {
	o.ledger.RecordUsage(usage.PromptTokens, usage.CompletionTokens, model, label)
}

// newRunAdapter builds the per-request inferencer and its backing cost
// ledger. Each run gets its own ledger so concurrent requests never mix
// token totals, matching the per-request cost sink.
func (d *Deps) newRunAdapter() (pipeline.Inferencer, *cost.Ledger) {
	ledger := cost.NewLedger(nil)
	observer := ledgerObserver{ledger: ledger}
	return d.newInferencer(observer), ledger
}

// NewRouter wires the five endpoints onto a gin engine: the scan and
// simulate run endpoints, their health checks, and the simulation
// listing used to populate a demo picker.
func NewRouter(deps *Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	{
		scan := v1.Group("/scan")
		scan.POST("/run", deps.handleScanRun)
		scan.GET("/health", handleHealth)

		sim := v1.Group("/simulate")
		sim.GET("", deps.handleSimulate)
		sim.GET("/health", handleHealth)
		sim.GET("/available", deps.handleListSimulations)
	}

	return r
}

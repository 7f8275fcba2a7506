package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/procgo-dev/procgo/internal/bom"
	"github.com/procgo-dev/procgo/internal/catalog"
	"github.com/procgo-dev/procgo/internal/compliance"
	"github.com/procgo-dev/procgo/internal/logistics"
	tracing "github.com/procgo-dev/procgo/internal/observability"
	"github.com/procgo-dev/procgo/internal/quote"
	"github.com/procgo-dev/procgo/internal/registry"
	metrics "github.com/procgo-dev/procgo/pkg/observability"
)

// Defaults applied to incomplete requests.
const (
	defaultDeadlineDays = 7
	defaultDestination  = "EU"
)

// Orchestrator wires the pipeline components together and runs the
// stage sequence over them.
type Orchestrator struct {
	registry  *registry.Registry
	directory *catalog.Directory
	bomGen    *bom.Generator
	gatherer  *quote.Gatherer
	checker   *compliance.Checker
	planner   *logistics.Planner
	transport logistics.TransportType
}

// Config collects the orchestrator's collaborators.
type Config struct {
	Registry  *registry.Registry
	Directory *catalog.Directory
	BOM       *bom.Generator
	Gatherer  *quote.Gatherer
	Checker   *compliance.Checker
	Planner   *logistics.Planner
	// Transport is the assumed shipping mode for compliance checks
	// (default air, the strictest for batteries).
	Transport logistics.TransportType
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	transport := cfg.Transport
	if transport == "" {
		transport = logistics.TransportAir
	}
	return &Orchestrator{
		registry:  cfg.Registry,
		directory: cfg.Directory,
		bomGen:    cfg.BOM,
		gatherer:  cfg.Gatherer,
		checker:   cfg.Checker,
		planner:   cfg.Planner,
		transport: transport,
	}
}

// Run executes the full workflow and returns the final result.
func (o *Orchestrator) Run(ctx context.Context, req Request) Result {
	return o.run(ctx, req, nil)
}

// RunStream executes the same workflow, invoking emit for every step
// log entry as it is produced. Streaming observes the run; it never
// changes the computed result.
func (o *Orchestrator) RunStream(ctx context.Context, req Request, emit func(Step)) Result {
	return o.run(ctx, req, emit)
}

func (o *Orchestrator) run(ctx context.Context, req Request, emit func(Step)) Result {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "procurement.run",
		trace.WithAttributes(attribute.String("request", req.Text)))
	defer span.End()

	st := &State{Stage: StageInit, Request: req}
	o.runStages(ctx, st, emit)

	res := st.result()
	span.SetAttributes(attribute.String("status", string(res.Status)))
	metrics.RecordProcurementRun(string(res.Status), time.Since(start))
	return res
}

// runStages advances the state machine. Every stage appends at least
// one step entry; a failed precondition moves to StageError and stops.
func (o *Orchestrator) runStages(ctx context.Context, st *State, emit func(Step)) {
	type stage struct {
		name string
		fn   func(context.Context, *State, func(Step)) bool
	}
	stages := []stage{
		{"initialize", o.initialize},
		{"generate_bom", o.generateBOM},
		{"discover_suppliers", o.discoverSuppliers},
		{"request_quotes", o.requestQuotes},
		{"check_compliance", o.checkCompliance},
		{"plan_logistics", o.planLogistics},
		{"recommend", o.recommend},
	}

	for _, s := range stages {
		stageCtx, span := tracing.StartSpan(ctx, "stage."+s.name)
		stageStart := time.Now()
		ok := s.fn(stageCtx, st, emit)
		metrics.RecordStageDuration(s.name, time.Since(stageStart))
		span.End()
		if !ok {
			return
		}
	}
}

func (o *Orchestrator) initialize(_ context.Context, st *State, emit func(Step)) bool {
	if strings.TrimSpace(st.Request.Text) == "" {
		return o.fail(st, emit, "empty procurement request")
	}
	if st.Request.DeadlineDays <= 0 {
		st.Request.DeadlineDays = defaultDeadlineDays
	}
	if st.Request.DestinationRegion == "" {
		st.Request.DestinationRegion = defaultDestination
	}
	o.step(st, emit, "discovery", "orchestrator",
		fmt.Sprintf("Starting procurement for: %s", st.Request.Text))
	return true
}

func (o *Orchestrator) generateBOM(ctx context.Context, st *State, emit func(Step)) bool {
	st.BOM = o.bomGen.Generate(ctx, st.Request.Text)
	if st.BOM.Fallback {
		st.Degraded = true
	}
	st.Stage = StageBOMReady
	o.step(st, emit, "discovery", "orchestrator",
		fmt.Sprintf("Generated BOM: %s with %d components", st.BOM.Product, len(st.BOM.Items)))
	return true
}

func (o *Orchestrator) discoverSuppliers(_ context.Context, st *State, emit func(Step)) bool {
	o.step(st, emit, "discovery", "orchestrator", "Searching registry for capable suppliers...")

	seen := make(map[string]bool)
	var candidates []registry.AgentFacts
	for _, category := range st.BOM.Categories() {
		for _, agent := range o.registry.Discover(registry.Query{
			Role:       registry.RoleSupplier,
			Capability: category,
		}) {
			if seen[agent.AgentID] {
				continue
			}
			seen[agent.AgentID] = true
			candidates = append(candidates, agent)
		}
	}
	if len(candidates) == 0 {
		return o.fail(st, emit, "no suppliers discovered for this order")
	}

	st.Discovered = registry.RankForRFQ(candidates, st.Request.DeadlineDays)
	st.Stage = StageSuppliersDiscovered
	for _, ranked := range st.Discovered {
		o.step(st, emit, "discovery", "supplier-"+ranked.Agent.AgentID,
			fmt.Sprintf("Found supplier: %s (%s)", ranked.Agent.Name, ranked.Agent.Region))
	}
	return true
}

func (o *Orchestrator) requestQuotes(ctx context.Context, st *State, emit func(Step)) bool {
	suppliers := make([]catalog.Supplier, 0, len(st.Discovered))
	for _, ranked := range st.Discovered {
		if sup, ok := o.directory.Get(ranked.Agent.AgentID); ok {
			suppliers = append(suppliers, sup)
		}
	}
	if len(suppliers) == 0 {
		return o.fail(st, emit, "no discovered supplier has a catalog on file")
	}

	st.Results = o.gatherer.Gather(ctx, suppliers, st.BOM.Items)
	for _, r := range st.Results {
		switch {
		case r.Quote != nil:
			metrics.RecordQuoteResult("ok")
			o.step(st, emit, "quoting", "supplier-"+r.Quote.SupplierID,
				fmt.Sprintf("%s quote: %s %.2f", r.Quote.SupplierName, r.Quote.Currency, r.Quote.Total))
		case r.Err != nil:
			metrics.RecordQuoteResult("error")
			st.Degraded = true
			o.step(st, emit, "quoting", "supplier-"+r.Err.SupplierID,
				fmt.Sprintf("Quote failed: %s", r.Err.Err))
		}
	}
	if len(quote.Quotes(st.Results)) == 0 {
		return o.fail(st, emit, "no valid quotes received")
	}
	st.Stage = StageQuotesReceived
	return true
}

func (o *Orchestrator) checkCompliance(ctx context.Context, st *State, emit func(Step)) bool {
	st.Compliance = o.checker.CheckAll(ctx, quote.Quotes(st.Results), st.Request.DestinationRegion, o.transport)
	st.Stage = StageComplianceChecked
	for _, a := range st.Compliance {
		o.step(st, emit, "compliance", "compliance",
			fmt.Sprintf("%s: %s", a.SupplierID, a.Summary))
	}
	return true
}

func (o *Orchestrator) planLogistics(_ context.Context, st *State, emit func(Step)) bool {
	quotes := quote.Quotes(st.Results)
	o.step(st, emit, "logistics", "logistics",
		fmt.Sprintf("Analyzing shipping routes to %s...", st.Request.DestinationRegion))

	st.Logistics = o.planner.PlanShipments(quotes, st.Request.DestinationRegion, st.Request.DeadlineDays)
	st.Stage = StageLogisticsPlanned
	for _, sp := range st.Logistics.PerSupplier {
		if sp.Error != "" {
			st.Degraded = true
			o.step(st, emit, "logistics", "logistics",
				fmt.Sprintf("%s: %s", sp.SupplierName, sp.Error))
			continue
		}
		o.step(st, emit, "logistics", "logistics",
			fmt.Sprintf("%s: %s -> %s via %s (%d days)", sp.SupplierName, sp.OriginRegion, st.Request.DestinationRegion, sp.CarrierName, sp.TotalDays))
	}
	o.step(st, emit, "logistics", "logistics",
		fmt.Sprintf("Critical path: %d days", st.Logistics.CriticalPathDays))
	return true
}

func (o *Orchestrator) recommend(_ context.Context, st *State, emit func(Step)) bool {
	trust := make(map[string]float64, len(st.Discovered))
	for _, ranked := range st.Discovered {
		trust[ranked.Agent.AgentID] = ranked.Score
	}

	o.step(st, emit, "complete", "orchestrator", "Analyzing all options...")
	st.Recommended = Recommend(quote.Quotes(st.Results), st.Compliance, st.Logistics, trust, st.Request)
	st.Stage = StageRecommended

	if st.Recommended.RecommendedSupplier == "" {
		o.step(st, emit, "complete", "orchestrator", "No viable supplier found")
		return true
	}
	best := st.Recommended.AllOptions[0]
	o.step(st, emit, "complete", "orchestrator",
		fmt.Sprintf("Recommended: %s (score: %.0f)", best.SupplierName, best.Score))
	return true
}

func (o *Orchestrator) step(st *State, emit func(Step), phase, agent, message string) {
	s := Step{Phase: phase, Agent: agent, Message: message, Timestamp: time.Now().UTC()}
	st.Steps = append(st.Steps, s)
	if emit != nil {
		emit(s)
	}
}

func (o *Orchestrator) fail(st *State, emit func(Step), reason string) bool {
	st.Stage = StageError
	st.Err = reason
	o.step(st, emit, "error", "orchestrator", reason)
	return false
}

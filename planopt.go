package planopt

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	// Imports all sub-components
	"mit.edu/dsg/planopt/catalog"
	"mit.edu/dsg/planopt/execution"
	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/plandesc"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/rules"
	"mit.edu/dsg/planopt/storage"
)

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *optimizer.Registry
)

// DefaultRegistry returns the registry holding the standard rules. It is built on first use; every caller gets
// the same immutable value.
func DefaultRegistry() *optimizer.Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = rules.MustRegistry()
	})
	return defaultRegistry
}

// PlanOptimizer is the top-level container: a catalog of sources, an engine running the standard rules, and the
// metrics the engine reports into.
type PlanOptimizer struct {
	Catalog *catalog.Catalog
	Engine  *optimizer.Engine
	Metrics *optimizer.Metrics
	Logger  *zap.Logger
}

// NewPlanOptimizer wires the components around cat. A nil log disables logging.
func NewPlanOptimizer(cat *catalog.Catalog, log *zap.Logger) *PlanOptimizer {
	if log == nil {
		log = zap.NewNop()
	}
	metrics := optimizer.NewMetrics()
	return &PlanOptimizer{
		Catalog: cat,
		Engine:  optimizer.NewEngine(DefaultRegistry(), optimizer.WithLogger(log), optimizer.WithMetrics(metrics)),
		Metrics: metrics,
		Logger:  log,
	}
}

// LoadPlan reads a plan description, registers its sources in the catalog and returns the plan root.
func (p *PlanOptimizer) LoadPlan(path string) (planner.PlanNode, error) {
	d, err := plandesc.Load(path)
	if err != nil {
		return nil, err
	}
	return d.Build(p.Catalog)
}

// Optimize rewrites plan in place with the standard rules and returns the new root.
func (p *PlanOptimizer) Optimize(plan planner.PlanNode, opts optimizer.Options) (planner.PlanNode, error) {
	return p.Engine.Optimize(plan, opts)
}

// Run executes plan and returns every row it produces.
func (p *PlanOptimizer) Run(plan planner.PlanNode, ctx *execution.ExecutorContext) ([]storage.Tuple, error) {
	return execution.Run(plan, ctx)
}

// PrometheusCollectors returns the collectors of every component that reports metrics.
func (p *PlanOptimizer) PrometheusCollectors() []prometheus.Collector {
	return p.Metrics.PrometheusCollectors()
}

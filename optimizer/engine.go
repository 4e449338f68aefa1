package optimizer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
)

// Engine runs optimizations against a fixed Registry. Calls to Optimize on one Engine are serialized.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
	metrics  *Metrics
	stats    *Stats

	mu sync.Mutex
}

type EngineOption func(*Engine)

// WithLogger sets the logger used for per-rule debug output and per-optimization summaries.
func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = log.With(zap.String("service", "optimizer"))
	}
}

// WithMetrics makes the engine report into m. The caller owns registration of m's collectors.
func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	common.Assert(reg != nil, "NewEngine requires a registry")
	e := &Engine{
		registry: reg,
		logger:   zap.NewNop(),
		stats:    NewStats(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

func (e *Engine) Stats() *Stats {
	return e.stats
}

// Optimize rewrites the plan rooted at tip by running the stages selected by opts, each to a fixed point, and
// returns the new root. The returned root may be a different node than tip.
//
// Plan nodes reachable from tip are updated in place: a consumer whose input gets replaced has its child
// pointer changed. Callers that need the original plan must keep a copy.
//
// When a stage exceeds its pass or rule-application cap, Optimize returns the PassLimitExceededError together
// with the root of the plan as rewritten so far. That plan is consistent and equivalent to tip, since every
// rewrite before the cap completed.
func (e *Engine) Optimize(tip planner.PlanNode, opts Options) (planner.PlanNode, error) {
	stages, err := opts.ResolveStages()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	o := e.newOptimizer(opts)
	proxy := planner.NewIdentityNode(tip)
	o.proxy = o.graph.info(proxy)
	o.checkInvariants()

	for _, stage := range stages {
		if err := o.runStage(stage); err != nil {
			e.finish(o, start, "error")
			o.log.Warn("Optimization aborted", zap.Stringer("stage", stage), zap.Error(err))
			return proxy.Child, err
		}
	}

	e.finish(o, start, "success")
	o.log.Info("Plan optimized",
		zap.Int("stages", len(stages)),
		zap.Int("rules_fired", o.fired),
		zap.Int("replacements", o.replacements),
		zap.Int("pruned", o.pruned),
		zap.Int("nodes", len(o.graph.nodes)),
		zap.Duration("elapsed", time.Since(start)))
	return proxy.Child, nil
}

func (e *Engine) newOptimizer(opts Options) *Optimizer {
	return &Optimizer{
		engine: e,
		graph:  newNodeGraph(),
		queue:  &activeQueue{},
		opts:   opts,
		log:    e.logger.With(zap.String("run_id", uuid.NewString())),
	}
}

func (e *Engine) finish(o *Optimizer, start time.Time, result string) {
	e.stats.optimizations.Inc()
	e.stats.replacements.Add(int64(o.replacements))
	e.stats.pruned.Add(int64(o.pruned))
	if e.metrics != nil {
		e.metrics.Optimizations.WithLabelValues(result).Inc()
		e.metrics.Replacements.Add(float64(o.replacements))
		e.metrics.Duration.Observe(time.Since(start).Seconds())
	}
}

// Optimizer is the state of one optimization call. Rules receive it to inspect and rewrite the graph.
type Optimizer struct {
	engine *Engine
	graph  *nodeGraph
	queue  *activeQueue
	proxy  *NodeInfo
	opts   Options
	log    *zap.Logger

	stage  Stage
	active [planner.NumNodeKinds]bool

	fired        int
	replacements int
	pruned       int
}

// Info returns the NodeInfo for a plan node, adding it (and any new inputs) to the graph if needed.
func (o *Optimizer) Info(pn planner.PlanNode) *NodeInfo {
	return o.graph.info(pn)
}

// MarkActive queues n for another look in the current pass if any rule of the running stage handles its kind.
func (o *Optimizer) MarkActive(n *NodeInfo) {
	if n.discarded || !o.active[n.Kind()] {
		return
	}
	o.queue.push(n.id)
}

// Stage returns the stage currently running.
func (o *Optimizer) Stage() Stage {
	return o.stage
}

func (o *Optimizer) Logger() *zap.Logger {
	return o.log
}

func (o *Optimizer) checkInvariants() {
	if !o.opts.CheckInvariants {
		return
	}
	err := o.graph.validate()
	common.Assert(err == nil, "optimizer graph is inconsistent: %v", err)
}

// runStage runs the rules of one stage until a full pass over the graph fires none of them.
func (o *Optimizer) runStage(stage Stage) error {
	o.stage = stage
	o.active = o.engine.registry.Active(stage)
	log := o.log.With(zap.Stringer("stage", stage))

	firedInStage := 0
	for pass := 1; ; pass++ {
		o.queue.rebuild(o.graph, o.proxy, &o.active)
		log.Debug("Starting pass", zap.Int("pass", pass), zap.Int("queued", o.queue.size()))
		if o.engine.metrics != nil {
			o.engine.metrics.Passes.WithLabelValues(stage.String()).Inc()
		}

		fired := false
		for {
			id, ok := o.queue.pop()
			if !ok {
				break
			}
			n := o.graph.nodes[id]
			if n.discarded {
				continue
			}
			if !o.apply(n, log) {
				continue
			}
			fired = true
			firedInStage++
			if limit := o.opts.MaxRuleApplications; limit > 0 && firedInStage > limit {
				return common.NewPlanError(common.PassLimitExceededError,
					"stage %s exceeded the limit of %d rule applications", stage, limit)
			}
		}

		if !fired {
			log.Debug("Stage reached a fixed point", zap.Int("passes", pass), zap.Int("rules_fired", firedInStage))
			return nil
		}
		if limit := o.opts.MaxPasses; limit > 0 && pass >= limit {
			return common.NewPlanError(common.PassLimitExceededError,
				"stage %s did not reach a fixed point within %d passes", stage, limit)
		}
	}
}

// apply tries the stage's rules for n's kind in priority order and reports whether one fired.
func (o *Optimizer) apply(n *NodeInfo, log *zap.Logger) bool {
	kind := n.Kind()
	for _, t := range o.engine.registry.Transforms(o.stage, kind) {
		if !t.Apply(o, n) {
			continue
		}
		o.fired++
		o.engine.stats.recordFiring(t.Description())
		if o.engine.metrics != nil {
			o.engine.metrics.RulesFired.WithLabelValues(o.stage.String(), t.Description()).Inc()
		}
		log.Debug("Rule fired",
			zap.String("rule", t.Description()),
			zap.Stringer("kind", kind),
			zap.Int("node_id", int(n.id)))
		o.checkInvariants()
		return true
	}
	return false
}

package optimizer

import (
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
)

// Registry maps (stage, node kind) to the ordered list of transforms to try. Order is registration order and is
// the rule priority: the first transform that fires on a node wins for that visit.
//
// A Registry is immutable once built and safe for concurrent readers.
type Registry struct {
	transforms [NumStages][planner.NumNodeKinds][]Transform
	ordered    [NumStages][]Transform
}

// Transforms returns the candidate transforms for a node kind in a stage, highest priority first.
func (r *Registry) Transforms(stage Stage, kind planner.NodeKind) []Transform {
	if !stage.valid() || kind < 0 || kind >= planner.NumNodeKinds {
		return nil
	}
	return r.transforms[stage][kind]
}

// Active returns the mask of node kinds that have at least one transform in the stage.
func (r *Registry) Active(stage Stage) [planner.NumNodeKinds]bool {
	var mask [planner.NumNodeKinds]bool
	if !stage.valid() {
		return mask
	}
	for kind, ts := range r.transforms[stage] {
		mask[kind] = len(ts) > 0
	}
	return mask
}

// Describe lists the transforms registered for a stage, in registration order.
func (r *Registry) Describe(stage Stage) []string {
	if !stage.valid() {
		return nil
	}
	names := make([]string, len(r.ordered[stage]))
	for i, t := range r.ordered[stage] {
		names[i] = t.Description()
	}
	return names
}

// RegistryBuilder accumulates registrations until Build freezes them into a Registry.
type RegistryBuilder struct {
	reg *Registry
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{reg: &Registry{}}
}

// Register adds t to every (stage, kind) bucket of the given stages for which t.Applies(kind).
//
// A transform that applies to no node kind can never fire; registering one is a configuration mistake and is
// reported as a MisconfiguredRuleError naming the transform. Nothing is registered when an error is returned.
func (b *RegistryBuilder) Register(stages []Stage, t Transform) error {
	common.Assert(b.reg != nil, "Register called on a RegistryBuilder after Build")
	if len(stages) == 0 {
		return common.NewPlanError(common.MisconfiguredRuleError,
			"optimization %q registered without any stage", t.Description())
	}

	var kinds []planner.NodeKind
	for _, kind := range planner.AllNodeKinds() {
		if t.Applies(kind) {
			kinds = append(kinds, kind)
		}
	}
	for _, stage := range stages {
		if !stage.valid() {
			return common.NewPlanError(common.UnknownStageError,
				"optimization %q registered for unknown stage %d", t.Description(), int(stage))
		}
		if len(kinds) == 0 {
			return common.NewPlanError(common.MisconfiguredRuleError,
				"optimization %q registered for stage %s applies to no node kind", t.Description(), stage)
		}
	}

	for _, stage := range stages {
		for _, kind := range kinds {
			b.reg.transforms[stage][kind] = append(b.reg.transforms[stage][kind], t)
		}
		b.reg.ordered[stage] = append(b.reg.ordered[stage], t)
	}
	return nil
}

// MustRegister is like Register but panics on a misconfigured transform. It is meant for start-up code, where a
// bad rule table should stop the process.
func (b *RegistryBuilder) MustRegister(stages []Stage, t Transform) {
	if err := b.Register(stages, t); err != nil {
		panic(err)
	}
}

// Build freezes the registrations. The builder cannot be used afterwards.
func (b *RegistryBuilder) Build() *Registry {
	common.Assert(b.reg != nil, "Build called twice on a RegistryBuilder")
	reg := b.reg
	b.reg = nil
	return reg
}

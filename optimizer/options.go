package optimizer

import (
	"mit.edu/dsg/planopt/common"
)

// Options controls a single Optimize call.
type Options struct {
	// Stages lists the stages to run, in order. Empty means DefaultStages. A stage may appear more than once.
	Stages []Stage

	// SkipOptimization resolves to no stages at all: the plan is returned untouched.
	SkipOptimization bool

	// MaxPasses caps the number of full passes over the graph within one stage. A stage that converges needs one
	// pass more than the number of passes in which rules fired. Zero means unlimited.
	MaxPasses int

	// MaxRuleApplications caps the number of rule firings within one stage. Zero means unlimited.
	MaxRuleApplications int

	// CheckInvariants turns on the internal consistency checks (cycle guard on every replacement, edge symmetry
	// after every firing). A violation panics.
	CheckInvariants bool
}

// ResolveStages returns the ordered list of stages these options select.
func (o Options) ResolveStages() ([]Stage, error) {
	if o.SkipOptimization {
		return nil, nil
	}
	if len(o.Stages) == 0 {
		return DefaultStages(), nil
	}
	for _, s := range o.Stages {
		if !s.valid() {
			return nil, common.NewPlanError(common.UnknownStageError, "unknown optimization stage %d", int(s))
		}
	}
	return append([]Stage(nil), o.Stages...), nil
}

// Package rules is the standard library of plan rewrites and the table that assigns them to optimization stages.
package rules

import (
	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/planner"
)

var (
	firstPass       = []optimizer.Stage{optimizer.StageFirstPass}
	pushdown        = []optimizer.Stage{optimizer.StagePushdown}
	projectionMerge = []optimizer.Stage{optimizer.StageProjectionMerge}
	final           = []optimizer.Stage{optimizer.StageFinal}
)

func stages(lists ...[]optimizer.Stage) []optimizer.Stage {
	var out []optimizer.Stage
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// registrations lists every rule with the stages it runs in. Within a stage, rules handling the same node kind
// are tried in the order they appear here.
var registrations = []struct {
	stages []optimizer.Stage
	rule   optimizer.Transform
}{
	{stages(firstPass, final), EliminateIdentity},
	{firstPass, EliminateRedundantMaterialize},
	{stages(firstPass, projectionMerge), EliminateIdentityProjection},
	{stages(firstPass, projectionMerge), EliminateSingleInputUnion},
	{firstPass, FlattenUnion},
	{stages(firstPass, pushdown), MergeLimits},

	{pushdown, MergeFilters},
	{pushdown, EliminateTrueFilter},
	{pushdown, PushFilterThroughProject},
	{pushdown, PushFilterThroughMap},
	{pushdown, PushFilterThroughAppend},
	{pushdown, PushFilterThroughSort},
	{pushdown, PushLimitThroughProject},
	{pushdown, PushLimitThroughMap},
	{pushdown, PushLimitThroughUnion},
	{pushdown, PushLimitIntoLeaf},

	{projectionMerge, MergeProjections},
	{projectionMerge, PushProjectIntoSource},
	{projectionMerge, PushProjectThroughMap},
	{projectionMerge, PushProjectThroughUnion},
	{projectionMerge, PruneMapInput},
	{projectionMerge, MergeUnionProjections},

	{final, SortLimitToTopN},
}

// NewRegistry builds the registry holding every rule of this package.
func NewRegistry() (*optimizer.Registry, error) {
	b := optimizer.NewRegistryBuilder()
	if err := Register(b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// MustRegistry is like NewRegistry but panics if a rule is misconfigured.
func MustRegistry() *optimizer.Registry {
	reg, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return reg
}

// Register adds every rule of this package to b, so callers can mix in rules of their own.
func Register(b *optimizer.RegistryBuilder) error {
	for _, r := range registrations {
		if err := b.Register(r.stages, r.rule); err != nil {
			return err
		}
	}
	return nil
}

func kinds(k ...planner.NodeKind) []planner.NodeKind {
	return k
}

// soleConsumer reports whether n feeds exactly one input slot. Rules that move an operator below n only do so
// in that case, since other consumers would still need n as it is.
func soleConsumer(n *optimizer.NodeInfo) bool {
	return n.NumOutputs() == 1
}

// project selects indices of child, returning child itself when the selection is the identity.
func project(child planner.PlanNode, indices []int) planner.PlanNode {
	p := planner.NewProjectionNode(child, indices)
	if p.IsIdentity() {
		return child
	}
	return p
}

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planopt/planner"
)

var eliminateIdentity = &Rule{
	Name:  "eliminate identity",
	Kinds: []planner.NodeKind{planner.KindIdentity},
	Fn: func(o *Optimizer, n *NodeInfo) bool {
		if n.NumOutputs() == 0 {
			return false
		}
		o.ReplaceNode(n, n.Input(0).Node())
		return true
	},
}

var mergeProjections = &Rule{
	Name:  "merge projections",
	Kinds: []planner.NodeKind{planner.KindProject},
	Fn: func(o *Optimizer, n *NodeInfo) bool {
		outer := n.Node().(*planner.ProjectionNode)
		inner, ok := outer.Child.(*planner.ProjectionNode)
		if !ok {
			return false
		}
		indices := make([]int, len(outer.Indices))
		for i, idx := range outer.Indices {
			indices[i] = inner.Indices[idx]
		}
		o.ReplaceNode(n, planner.NewProjectionNode(inner.Child, indices))
		return true
	},
}

func buildRegistry(t *testing.T, regs map[Stage][]Transform) *Registry {
	b := NewRegistryBuilder()
	for _, stage := range DefaultStages() {
		for _, tr := range regs[stage] {
			require.NoError(t, b.Register([]Stage{stage}, tr))
		}
	}
	return b.Build()
}

// startOptimizer prepares an optimization of tip the way Engine.Optimize does, leaving the graph open for
// inspection.
func startOptimizer(e *Engine, tip planner.PlanNode, opts Options) (*Optimizer, *planner.IdentityNode) {
	o := e.newOptimizer(opts)
	proxy := planner.NewIdentityNode(tip)
	o.proxy = o.graph.info(proxy)
	return o, proxy
}

// requireNoDiscardedReachable walks the plan under root and checks that every node is live in o's graph.
func requireNoDiscardedReachable(t *testing.T, o *Optimizer, root planner.PlanNode) {
	planner.Walk(root, func(pn planner.PlanNode) bool {
		id, ok := o.graph.index[pn]
		require.True(t, ok, "%s is not known to the optimizer", pn)
		require.False(t, o.graph.nodes[id].Discarded(), "%s is reachable but discarded", pn)
		return true
	})
}

package rules

import (
	"slices"

	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/planner"
)

// MergeProjections collapses a projection over a projection into one selection over the inner input.
var MergeProjections = &optimizer.Rule{
	Name:  "merge projections",
	Kinds: kinds(planner.KindProject),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		outer := n.Node().(*planner.ProjectionNode)
		inner, ok := outer.Child.(*planner.ProjectionNode)
		if !ok {
			return false
		}
		indices := make([]int, len(outer.Indices))
		for i, idx := range outer.Indices {
			indices[i] = inner.Indices[idx]
		}
		o.ReplaceNode(n, project(inner.Child, indices))
		return true
	},
}

var PushProjectIntoSource = &optimizer.Rule{
	Name:  "push project into source",
	Kinds: kinds(planner.KindProject),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		p := n.Node().(*planner.ProjectionNode)
		src, ok := p.Child.(*planner.SourceNode)
		if !ok {
			return false
		}
		o.ReplaceNode(n, src.WithColumns(p.Indices))
		return true
	},
}

// PushProjectThroughMap keeps only the map expressions the projection selects.
var PushProjectThroughMap = &optimizer.Rule{
	Name:  "push project through map",
	Kinds: kinds(planner.KindProject),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		p := n.Node().(*planner.ProjectionNode)
		m, ok := p.Child.(*planner.MapNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		exprs := make([]planner.Expr, len(p.Indices))
		names := make([]string, len(p.Indices))
		for i, idx := range p.Indices {
			exprs[i] = m.Expressions[idx]
			names[i] = m.Names[idx]
		}
		o.ReplaceNode(n, planner.NewMapNode(m.Child, exprs, names))
		return true
	},
}

// PushProjectThroughUnion splits a projection over a union into per-input projections. Consecutive selected
// columns coming from the same input become one projection over that input; if only one such run exists the
// union disappears.
var PushProjectThroughUnion = &optimizer.Rule{
	Name:  "push project through union",
	Kinds: kinds(planner.KindProject),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		p := n.Node().(*planner.ProjectionNode)
		u, ok := p.Child.(*planner.UnionNode)
		if !ok || len(p.Indices) == 0 {
			return false
		}

		// input slot and local column for every union column
		var slots, locals []int
		for slot, in := range u.Inputs {
			for col := range in.OutputSchema() {
				slots = append(slots, slot)
				locals = append(locals, col)
			}
		}

		var parts []planner.PlanNode
		for start := 0; start < len(p.Indices); {
			slot := slots[p.Indices[start]]
			var run []int
			end := start
			for ; end < len(p.Indices) && slots[p.Indices[end]] == slot; end++ {
				run = append(run, locals[p.Indices[end]])
			}
			parts = append(parts, project(u.Inputs[slot], run))
			start = end
		}

		if len(parts) == 1 {
			o.ReplaceNode(n, parts[0])
		} else {
			o.ReplaceNode(n, planner.NewUnionNode(parts...))
		}
		return true
	},
}

// PruneMapInput narrows the input of a map to the columns its expressions read.
var PruneMapInput = &optimizer.Rule{
	Name:  "prune map input",
	Kinds: kinds(planner.KindMap),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		m := n.Node().(*planner.MapNode)
		var used []int
		for _, e := range m.Expressions {
			for _, col := range planner.ReferencedColumns(e) {
				if !slices.Contains(used, col) {
					used = append(used, col)
				}
			}
		}
		if len(used) == 0 || len(used) == len(m.Child.OutputSchema()) {
			return false
		}

		mapping := make([]int, len(m.Child.OutputSchema()))
		for i, col := range used {
			mapping[col] = i
		}
		exprs := make([]planner.Expr, len(m.Expressions))
		for i, e := range m.Expressions {
			exprs[i] = planner.RemapColumns(e, mapping)
		}
		o.ReplaceNode(n, planner.NewMapNode(planner.NewProjectionNode(m.Child, used), exprs, m.Names))
		return true
	},
}

// MergeUnionProjections joins adjacent union inputs that project the same node into a single projection.
var MergeUnionProjections = &optimizer.Rule{
	Name:  "merge union projections",
	Kinds: kinds(planner.KindUnion),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		u := n.Node().(*planner.UnionNode)
		var inputs []planner.PlanNode
		merged := false
		for _, in := range u.Inputs {
			if len(inputs) > 0 {
				prev, prevOK := inputs[len(inputs)-1].(*planner.ProjectionNode)
				cur, curOK := in.(*planner.ProjectionNode)
				if prevOK && curOK && prev.Child == cur.Child {
					indices := append(append([]int(nil), prev.Indices...), cur.Indices...)
					inputs[len(inputs)-1] = planner.NewProjectionNode(prev.Child, indices)
					merged = true
					continue
				}
			}
			inputs = append(inputs, in)
		}
		if !merged {
			return false
		}
		o.ReplaceNode(n, planner.NewUnionNode(inputs...))
		return true
	},
}

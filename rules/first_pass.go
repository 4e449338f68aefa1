package rules

import (
	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/planner"
)

// EliminateIdentity splices out pass-through nodes. The optimizer's own root handle has no consumers and is
// left alone.
var EliminateIdentity = &optimizer.Rule{
	Name:  "eliminate identity",
	Kinds: kinds(planner.KindIdentity),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		if n.NumOutputs() == 0 {
			return false
		}
		o.ReplaceNode(n, n.Input(0).Node())
		return true
	},
}

// EliminateRedundantMaterialize drops materializations of leaves and of nodes that are already materialized.
var EliminateRedundantMaterialize = &optimizer.Rule{
	Name:  "eliminate redundant materialize",
	Kinds: kinds(planner.KindMaterialize),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		child := n.Input(0)
		switch child.Kind() {
		case planner.KindSource, planner.KindRange, planner.KindConstant, planner.KindMaterialize:
			o.ReplaceNode(n, child.Node())
			return true
		}
		return false
	},
}

var EliminateIdentityProjection = &optimizer.Rule{
	Name:  "eliminate identity projection",
	Kinds: kinds(planner.KindProject),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		p := n.Node().(*planner.ProjectionNode)
		if !p.IsIdentity() {
			return false
		}
		o.ReplaceNode(n, p.Child)
		return true
	},
}

var EliminateSingleInputUnion = &optimizer.Rule{
	Name:  "eliminate single-input union",
	Kinds: kinds(planner.KindUnion),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		if n.NumInputs() != 1 {
			return false
		}
		o.ReplaceNode(n, n.Input(0).Node())
		return true
	},
}

// FlattenUnion splices the inputs of nested unions into the outer union.
var FlattenUnion = &optimizer.Rule{
	Name:  "flatten union",
	Kinds: kinds(planner.KindUnion),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		u := n.Node().(*planner.UnionNode)
		var inputs []planner.PlanNode
		nested := false
		for _, in := range u.Inputs {
			if inner, ok := in.(*planner.UnionNode); ok {
				inputs = append(inputs, inner.Inputs...)
				nested = true
			} else {
				inputs = append(inputs, in)
			}
		}
		if !nested {
			return false
		}
		o.ReplaceNode(n, planner.NewUnionNode(inputs...))
		return true
	},
}

var MergeLimits = &optimizer.Rule{
	Name:  "merge limits",
	Kinds: kinds(planner.KindLimit),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		outer := n.Node().(*planner.LimitNode)
		inner, ok := outer.Child.(*planner.LimitNode)
		if !ok {
			return false
		}
		o.ReplaceNode(n, planner.NewLimitNode(inner.Child, min(outer.Limit, inner.Limit)))
		return true
	},
}

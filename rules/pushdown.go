package rules

import (
	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/planner"
)

// MergeFilters combines a filter over another filter into a single conjunction. The inner predicate is kept on
// the left so it is still evaluated first. Filters that are trivially true are left to EliminateTrueFilter.
var MergeFilters = &optimizer.Rule{
	Name:  "merge filters",
	Kinds: kinds(planner.KindFilter),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		outer := n.Node().(*planner.FilterNode)
		inner, ok := outer.Child.(*planner.FilterNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		if planner.IsConstantTrue(inner.Predicate) || planner.IsConstantTrue(outer.Predicate) {
			return false
		}
		pred := planner.NewBinaryLogicExpression(inner.Predicate, outer.Predicate, planner.And)
		o.ReplaceNode(n, planner.NewFilterNode(inner.Child, pred))
		return true
	},
}

var EliminateTrueFilter = &optimizer.Rule{
	Name:  "eliminate true filter",
	Kinds: kinds(planner.KindFilter),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		f := n.Node().(*planner.FilterNode)
		if !planner.IsConstantTrue(f.Predicate) {
			return false
		}
		o.ReplaceNode(n, f.Child)
		return true
	},
}

var PushFilterThroughProject = &optimizer.Rule{
	Name:  "push filter through project",
	Kinds: kinds(planner.KindFilter),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		f := n.Node().(*planner.FilterNode)
		p, ok := f.Child.(*planner.ProjectionNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		pushed := planner.NewFilterNode(p.Child, planner.RemapColumns(f.Predicate, p.Indices))
		o.ReplaceNode(n, planner.NewProjectionNode(pushed, p.Indices))
		return true
	},
}

// PushFilterThroughMap evaluates the filter below a map by substituting the map's expressions for the columns
// the predicate reads.
var PushFilterThroughMap = &optimizer.Rule{
	Name:  "push filter through map",
	Kinds: kinds(planner.KindFilter),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		f := n.Node().(*planner.FilterNode)
		m, ok := f.Child.(*planner.MapNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		pushed := planner.NewFilterNode(m.Child, planner.SubstituteColumns(f.Predicate, m.Expressions))
		o.ReplaceNode(n, planner.NewMapNode(pushed, m.Expressions, m.Names))
		return true
	},
}

var PushFilterThroughAppend = &optimizer.Rule{
	Name:  "push filter through append",
	Kinds: kinds(planner.KindFilter),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		f := n.Node().(*planner.FilterNode)
		a, ok := f.Child.(*planner.AppendNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		o.ReplaceNode(n, planner.NewAppendNode(
			planner.NewFilterNode(a.Left, f.Predicate),
			planner.NewFilterNode(a.Right, f.Predicate)))
		return true
	},
}

var PushFilterThroughSort = &optimizer.Rule{
	Name:  "push filter through sort",
	Kinds: kinds(planner.KindFilter),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		f := n.Node().(*planner.FilterNode)
		s, ok := f.Child.(*planner.SortNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		o.ReplaceNode(n, planner.NewSortNode(planner.NewFilterNode(s.Child, f.Predicate), s.OrderBy))
		return true
	},
}

var PushLimitThroughProject = &optimizer.Rule{
	Name:  "push limit through project",
	Kinds: kinds(planner.KindLimit),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		l := n.Node().(*planner.LimitNode)
		p, ok := l.Child.(*planner.ProjectionNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		o.ReplaceNode(n, planner.NewProjectionNode(planner.NewLimitNode(p.Child, l.Limit), p.Indices))
		return true
	},
}

var PushLimitThroughMap = &optimizer.Rule{
	Name:  "push limit through map",
	Kinds: kinds(planner.KindLimit),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		l := n.Node().(*planner.LimitNode)
		m, ok := l.Child.(*planner.MapNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		o.ReplaceNode(n, planner.NewMapNode(planner.NewLimitNode(m.Child, l.Limit), m.Expressions, m.Names))
		return true
	},
}

// PushLimitThroughUnion limits every input of a column-wise union. The inputs produce the same number of rows,
// so the first rows of each line up.
var PushLimitThroughUnion = &optimizer.Rule{
	Name:  "push limit through union",
	Kinds: kinds(planner.KindLimit),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		l := n.Node().(*planner.LimitNode)
		u, ok := l.Child.(*planner.UnionNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		inputs := make([]planner.PlanNode, len(u.Inputs))
		for i, in := range u.Inputs {
			inputs[i] = planner.NewLimitNode(in, l.Limit)
		}
		o.ReplaceNode(n, planner.NewUnionNode(inputs...))
		return true
	},
}

// PushLimitIntoLeaf folds a limit into the row range of the leaf below it.
var PushLimitIntoLeaf = &optimizer.Rule{
	Name:  "push limit into leaf",
	Kinds: kinds(planner.KindLimit),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		l := n.Node().(*planner.LimitNode)
		var leaf planner.PlanNode
		switch child := l.Child.(type) {
		case *planner.SourceNode:
			leaf = child.WithRowLimit(l.Limit)
		case *planner.RangeNode:
			leaf = child.WithRowLimit(l.Limit)
		case *planner.ConstantNode:
			leaf = child.WithRowLimit(l.Limit)
		default:
			return false
		}
		o.ReplaceNode(n, leaf)
		return true
	},
}

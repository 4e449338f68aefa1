package rules

import (
	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/planner"
)

// SortLimitToTopN turns a limit over a sort into a top-n, which only keeps the winning rows in memory.
var SortLimitToTopN = &optimizer.Rule{
	Name:  "sort limit to top-n",
	Kinds: kinds(planner.KindLimit),
	Fn: func(o *optimizer.Optimizer, n *optimizer.NodeInfo) bool {
		l := n.Node().(*planner.LimitNode)
		s, ok := l.Child.(*planner.SortNode)
		if !ok || !soleConsumer(n.Input(0)) {
			return false
		}
		o.ReplaceNode(n, planner.NewTopNNode(s.Child, l.Limit, s.OrderBy))
		return true
	},
}

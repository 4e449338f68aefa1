package optimizer

import (
	"slices"

	"mit.edu/dsg/planopt/planner"
)

// Transform is a rewrite rule.
//
// Applies is consulted once, at registration time, for every node kind. Apply is then called on live nodes of
// those kinds; it must return true if and only if it changed the graph (through Optimizer.ReplaceNode), and it
// is responsible for the semantic validity of the rewrite. Transforms are stateless and shared by every
// optimization.
type Transform interface {
	// Description names the rule in logs, metrics and diagnostics.
	Description() string

	// Applies reports whether the rule wants to see nodes of the given kind.
	Applies(kind planner.NodeKind) bool

	// Apply attempts the rewrite on n and reports whether it fired.
	Apply(o *Optimizer, n *NodeInfo) bool
}

// Rule is the common Transform implementation: a name, the node kinds it looks at, and the rewrite function.
type Rule struct {
	Name  string
	Kinds []planner.NodeKind
	Fn    func(o *Optimizer, n *NodeInfo) bool
}

func (r *Rule) Description() string {
	return r.Name
}

func (r *Rule) Applies(kind planner.NodeKind) bool {
	return slices.Contains(r.Kinds, kind)
}

func (r *Rule) Apply(o *Optimizer, n *NodeInfo) bool {
	return r.Fn(o, n)
}

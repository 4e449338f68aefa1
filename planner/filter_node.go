package planner

import (
	"fmt"
)

// FilterNode filters tuples from its child based on a predicate.
type FilterNode struct {
	Child     PlanNode
	Predicate Expr
}

func NewFilterNode(child PlanNode, predicate Expr) *FilterNode {
	return &FilterNode{
		Child:     child,
		Predicate: predicate,
	}
}

func (n *FilterNode) Kind() NodeKind {
	return KindFilter
}

func (n *FilterNode) OutputSchema() []Column {
	return n.Child.OutputSchema()
}

func (n *FilterNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *FilterNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *FilterNode) String() string {
	return fmt.Sprintf("Filter: %s", n.Predicate.String())
}

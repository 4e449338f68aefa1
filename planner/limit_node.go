package planner

import (
	"fmt"
)

// LimitNode limits the number of output tuples.
type LimitNode struct {
	Child PlanNode
	Limit int
}

func NewLimitNode(child PlanNode, limit int) *LimitNode {
	return &LimitNode{
		Child: child,
		Limit: limit,
	}
}

func (n *LimitNode) Kind() NodeKind {
	return KindLimit
}

func (n *LimitNode) OutputSchema() []Column {
	return n.Child.OutputSchema()
}

func (n *LimitNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *LimitNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *LimitNode) String() string {
	return fmt.Sprintf("Limit: %d", n.Limit)
}

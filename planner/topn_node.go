package planner

import (
	"fmt"
)

// TopNNode represents a combined Sort + Limit operation.
type TopNNode struct {
	Child   PlanNode
	Limit   int
	OrderBy []OrderByClause
}

func NewTopNNode(child PlanNode, limit int, orderBy []OrderByClause) *TopNNode {
	return &TopNNode{
		Child:   child,
		Limit:   limit,
		OrderBy: orderBy,
	}
}

func (n *TopNNode) Kind() NodeKind {
	return KindTopN
}

func (n *TopNNode) OutputSchema() []Column {
	return n.Child.OutputSchema()
}

func (n *TopNNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *TopNNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *TopNNode) String() string {
	return fmt.Sprintf("TopN: Limit %d by %s", n.Limit, formatOrderBy(n.OrderBy))
}

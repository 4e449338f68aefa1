package planner

import (
	"fmt"
)

// UnionNode concatenates the columns of its inputs side by side. All inputs must produce the same number of rows.
type UnionNode struct {
	Inputs []PlanNode
}

func NewUnionNode(inputs ...PlanNode) *UnionNode {
	return &UnionNode{Inputs: append([]PlanNode(nil), inputs...)}
}

func (n *UnionNode) Kind() NodeKind {
	return KindUnion
}

func (n *UnionNode) OutputSchema() []Column {
	var out []Column
	for _, in := range n.Inputs {
		out = append(out, in.OutputSchema()...)
	}
	return out
}

func (n *UnionNode) Children() []PlanNode {
	return append([]PlanNode(nil), n.Inputs...)
}

func (n *UnionNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, len(n.Inputs))
	n.Inputs[i] = child
}

func (n *UnionNode) String() string {
	return fmt.Sprintf("Union: %d inputs", len(n.Inputs))
}

package planner

import (
	"fmt"
	"strings"
)

// ProjectionNode selects columns of its child by offset. Offsets may repeat and may appear in any order.
type ProjectionNode struct {
	Child   PlanNode
	Indices []int
}

func NewProjectionNode(child PlanNode, indices []int) *ProjectionNode {
	return &ProjectionNode{
		Child:   child,
		Indices: append([]int(nil), indices...),
	}
}

// IsIdentity reports whether the projection passes its child through unchanged.
func (n *ProjectionNode) IsIdentity() bool {
	if len(n.Indices) != len(n.Child.OutputSchema()) {
		return false
	}
	for i, idx := range n.Indices {
		if i != idx {
			return false
		}
	}
	return true
}

func (n *ProjectionNode) Kind() NodeKind {
	return KindProject
}

func (n *ProjectionNode) OutputSchema() []Column {
	in := n.Child.OutputSchema()
	out := make([]Column, len(n.Indices))
	for i, idx := range n.Indices {
		out[i] = in[idx]
	}
	return out
}

func (n *ProjectionNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *ProjectionNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *ProjectionNode) String() string {
	in := n.Child.OutputSchema()
	names := make([]string, len(n.Indices))
	for i, idx := range n.Indices {
		if idx < len(in) {
			names[i] = in[idx].Name
		} else {
			names[i] = fmt.Sprintf("$%d", idx)
		}
	}
	return fmt.Sprintf("Project: [%s]", strings.Join(names, ", "))
}

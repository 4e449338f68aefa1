package planner

import (
	"fmt"

	"mit.edu/dsg/planopt/common"
)

// ConstantNode produces a single column repeating Value Count times.
type ConstantNode struct {
	Name  string
	Value common.Value
	Count int
}

func NewConstantNode(name string, value common.Value, count int) *ConstantNode {
	return &ConstantNode{Name: name, Value: value, Count: count}
}

// WithRowLimit returns a constant column truncated to at most limit rows.
func (n *ConstantNode) WithRowLimit(limit int) *ConstantNode {
	count := n.Count
	if limit < count {
		count = limit
	}
	return &ConstantNode{Name: n.Name, Value: n.Value, Count: count}
}

func (n *ConstantNode) Kind() NodeKind {
	return KindConstant
}

func (n *ConstantNode) OutputSchema() []Column {
	return []Column{{Name: n.Name, Type: n.Value.Type()}}
}

func (n *ConstantNode) Children() []PlanNode {
	return nil
}

func (n *ConstantNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 0)
}

func (n *ConstantNode) String() string {
	return fmt.Sprintf("Constant: %s = %s x %d", n.Name, n.Value, n.Count)
}

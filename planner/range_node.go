package planner

import (
	"fmt"

	"mit.edu/dsg/planopt/common"
)

// RangeNode produces a single int column holding Start, Start+1, ..., End-1.
type RangeNode struct {
	Name  string
	Start int64
	End   int64
}

func NewRangeNode(name string, start, end int64) *RangeNode {
	if end < start {
		end = start
	}
	return &RangeNode{Name: name, Start: start, End: end}
}

// WithRowLimit returns a range truncated to at most limit rows.
func (n *RangeNode) WithRowLimit(limit int) *RangeNode {
	end := n.End
	if int64(limit) < n.End-n.Start {
		end = n.Start + int64(limit)
	}
	return &RangeNode{Name: n.Name, Start: n.Start, End: end}
}

func (n *RangeNode) Kind() NodeKind {
	return KindRange
}

func (n *RangeNode) OutputSchema() []Column {
	return []Column{{Name: n.Name, Type: common.IntType}}
}

func (n *RangeNode) Children() []PlanNode {
	return nil
}

func (n *RangeNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 0)
}

func (n *RangeNode) String() string {
	return fmt.Sprintf("Range: %s [%d, %d)", n.Name, n.Start, n.End)
}

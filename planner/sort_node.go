package planner

import (
	"fmt"
	"strings"
)

type SortDirection int

const (
	SortOrderAscending SortDirection = iota
	SortOrderDescending
)

func (d SortDirection) String() string {
	if d == SortOrderDescending {
		return "DESC"
	}
	return "ASC"
}

type OrderByClause struct {
	Expr      Expr
	Direction SortDirection
}

func (c OrderByClause) String() string {
	return fmt.Sprintf("%s %s", c.Expr, c.Direction)
}

func formatOrderBy(orderBy []OrderByClause) string {
	parts := make([]string, len(orderBy))
	for i, c := range orderBy {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// SortNode sorts the input tuples.
type SortNode struct {
	Child   PlanNode
	OrderBy []OrderByClause
}

func NewSortNode(child PlanNode, orderBy []OrderByClause) *SortNode {
	return &SortNode{
		Child:   child,
		OrderBy: orderBy,
	}
}

func (n *SortNode) Kind() NodeKind {
	return KindSort
}

func (n *SortNode) OutputSchema() []Column {
	return n.Child.OutputSchema()
}

func (n *SortNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *SortNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *SortNode) String() string {
	return fmt.Sprintf("Sort: %s", formatOrderBy(n.OrderBy))
}

package planner

import (
	"fmt"
	"strings"

	"mit.edu/dsg/planopt/common"
)

type AggregatorType int

const (
	AggCount AggregatorType = iota
	AggSum
	AggMin
	AggMax
)

func (a AggregatorType) String() string {
	switch a {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	}
	return "???"
}

type AggregateClause struct {
	Type AggregatorType
	Expr Expr
}

func (c AggregateClause) String() string {
	return fmt.Sprintf("%s(%s)", c.Type, c.Expr)
}

// OutputType is int for count and sum and the argument type otherwise.
func (c AggregateClause) OutputType() common.Type {
	if c.Type == AggCount || c.Type == AggSum {
		return common.IntType
	}
	return c.Expr.OutputType()
}

// AggregateNode represents a group-by and aggregation operation.
type AggregateNode struct {
	Child         PlanNode
	GroupByClause []Expr
	AggClauses    []AggregateClause
}

func NewAggregateNode(child PlanNode, groupBy []Expr, aggregates []AggregateClause) *AggregateNode {
	return &AggregateNode{
		Child:         child,
		GroupByClause: groupBy,
		AggClauses:    aggregates,
	}
}

func (n *AggregateNode) Kind() NodeKind {
	return KindAggregate
}

func (n *AggregateNode) OutputSchema() []Column {
	out := make([]Column, 0, len(n.GroupByClause)+len(n.AggClauses))
	for _, expr := range n.GroupByClause {
		out = append(out, Column{Name: expr.String(), Type: expr.OutputType()})
	}
	for _, agg := range n.AggClauses {
		out = append(out, Column{Name: agg.String(), Type: agg.OutputType()})
	}
	return out
}

func (n *AggregateNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *AggregateNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *AggregateNode) String() string {
	groups := make([]string, len(n.GroupByClause))
	for i, g := range n.GroupByClause {
		groups[i] = g.String()
	}
	aggs := make([]string, len(n.AggClauses))
	for i, a := range n.AggClauses {
		aggs[i] = a.String()
	}
	return fmt.Sprintf("Aggregate: GroupBy(%s) [%s]", strings.Join(groups, ", "), strings.Join(aggs, ", "))
}

package planner

import (
	"fmt"
	"strings"
)

// MapNode evaluates a list of expressions on every input tuple and emits one column per expression.
type MapNode struct {
	Child       PlanNode
	Expressions []Expr
	Names       []string
}

// NewMapNode builds a map. Missing names default to the expression's string form.
func NewMapNode(child PlanNode, exprs []Expr, names []string) *MapNode {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		if i < len(names) && names[i] != "" {
			out[i] = names[i]
		} else {
			out[i] = e.String()
		}
	}
	return &MapNode{
		Child:       child,
		Expressions: append([]Expr(nil), exprs...),
		Names:       out,
	}
}

func (n *MapNode) Kind() NodeKind {
	return KindMap
}

func (n *MapNode) OutputSchema() []Column {
	out := make([]Column, len(n.Expressions))
	for i, e := range n.Expressions {
		out[i] = Column{Name: n.Names[i], Type: e.OutputType()}
	}
	return out
}

func (n *MapNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *MapNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *MapNode) String() string {
	parts := make([]string, len(n.Expressions))
	for i, e := range n.Expressions {
		parts[i] = fmt.Sprintf("%s AS %s", e, n.Names[i])
	}
	return fmt.Sprintf("Map: [%s]", strings.Join(parts, ", "))
}

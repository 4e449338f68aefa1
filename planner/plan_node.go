package planner

import (
	"fmt"

	"mit.edu/dsg/planopt/common"
)

// NodeKind identifies the operator of a plan node. The set is closed: the optimizer sizes its rule tables by
// NumNodeKinds and every rule declares applicability in terms of these values.
type NodeKind int

const (
	KindSource NodeKind = iota
	KindRange
	KindConstant
	KindProject
	KindMap
	KindFilter
	KindUnion
	KindAppend
	KindLimit
	KindSort
	KindTopN
	KindAggregate
	KindMaterialize
	KindIdentity

	NumNodeKinds
)

var kindNames = [NumNodeKinds]string{
	KindSource:      "Source",
	KindRange:       "Range",
	KindConstant:    "Constant",
	KindProject:     "Project",
	KindMap:         "Map",
	KindFilter:      "Filter",
	KindUnion:       "Union",
	KindAppend:      "Append",
	KindLimit:       "Limit",
	KindSort:        "Sort",
	KindTopN:        "TopN",
	KindAggregate:   "Aggregate",
	KindMaterialize: "Materialize",
	KindIdentity:    "Identity",
}

func (k NodeKind) String() string {
	if k < 0 || k >= NumNodeKinds {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return kindNames[k]
}

// AllNodeKinds returns every member of the enumeration in declaration order.
func AllNodeKinds() []NodeKind {
	kinds := make([]NodeKind, NumNodeKinds)
	for i := range kinds {
		kinds[i] = NodeKind(i)
	}
	return kinds
}

// Column describes one output column of a plan node.
type Column struct {
	Name string
	Type common.Type
}

func (c Column) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Type)
}

// PlanNode represents one operator of a lazily built query plan.
//
// Plan nodes form a DAG: the same node may be an input of several consumers. Their parameters are immutable once
// built. The only mutation ever performed is SetChild, and only by the optimizer while it owns the graph, to
// repoint a consumer at a replacement input.
type PlanNode interface {
	// Kind returns the operator kind of this node.
	Kind() NodeKind

	// OutputSchema returns the columns produced by this node.
	OutputSchema() []Column

	// Children returns the input plan nodes, in order.
	Children() []PlanNode

	// SetChild repoints input slot i at child.
	SetChild(i int, child PlanNode)

	// String returns a string representation of the plan node.
	String() string
}

// OutputTypes returns just the column types of a node's output.
func OutputTypes(n PlanNode) []common.Type {
	schema := n.OutputSchema()
	types := make([]common.Type, len(schema))
	for i, c := range schema {
		types[i] = c.Type
	}
	return types
}

func checkSlot(n PlanNode, i int, arity int) {
	common.Assert(i >= 0 && i < arity, "%s has no input slot %d", n.Kind(), i)
}

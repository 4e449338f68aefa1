package planner

import (
	"fmt"
	"strings"

	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/storage"
)

// SourceNode reads a row range of selected columns out of an in-memory ColumnTable.
//
// Narrowing a source (fewer columns, fewer rows) is free: the new node shares the table and only records a
// different view, which is what lets the optimizer fold projections and limits into the leaf.
type SourceNode struct {
	Name    string
	Table   *storage.ColumnTable
	Offsets []int // table columns exposed by this node, in output order
	Begin   int
	End     int
}

// NewSourceNode exposes every column and every row of table.
func NewSourceNode(name string, table *storage.ColumnTable) *SourceNode {
	offsets := make([]int, table.NumColumns())
	for i := range offsets {
		offsets[i] = i
	}
	return &SourceNode{
		Name:    name,
		Table:   table,
		Offsets: offsets,
		Begin:   0,
		End:     table.NumRows(),
	}
}

// WithColumns returns a new source exposing the given output columns of n, in order.
func (n *SourceNode) WithColumns(indices []int) *SourceNode {
	offsets := make([]int, len(indices))
	for i, idx := range indices {
		common.Assert(idx >= 0 && idx < len(n.Offsets), "source column %d out of range", idx)
		offsets[i] = n.Offsets[idx]
	}
	return &SourceNode{Name: n.Name, Table: n.Table, Offsets: offsets, Begin: n.Begin, End: n.End}
}

// WithRowLimit returns a new source that stops after at most limit rows.
func (n *SourceNode) WithRowLimit(limit int) *SourceNode {
	end := n.End
	if limit < n.NumRows() {
		end = n.Begin + limit
	}
	return &SourceNode{Name: n.Name, Table: n.Table, Offsets: n.Offsets, Begin: n.Begin, End: end}
}

// NumRows returns the number of rows the node produces.
func (n *SourceNode) NumRows() int {
	return n.End - n.Begin
}

func (n *SourceNode) Kind() NodeKind {
	return KindSource
}

func (n *SourceNode) OutputSchema() []Column {
	out := make([]Column, len(n.Offsets))
	for i, off := range n.Offsets {
		c := n.Table.Column(off)
		out[i] = Column{Name: c.Name, Type: c.Type}
	}
	return out
}

func (n *SourceNode) Children() []PlanNode {
	return nil
}

func (n *SourceNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 0)
}

func (n *SourceNode) String() string {
	names := make([]string, len(n.Offsets))
	for i, off := range n.Offsets {
		names[i] = n.Table.Column(off).Name
	}
	return fmt.Sprintf("Source: %s(%s) rows [%d, %d)", n.Name, strings.Join(names, ", "), n.Begin, n.End)
}

package storage

import (
	"mit.edu/dsg/planopt/common"
)

// Column is a named, typed vector of values. All values in a column share the column type (NULLs included).
type Column struct {
	Name   string
	Type   common.Type
	Values []common.Value
}

// ColumnTable is an immutable set of equal-length columns. It is the data backing a Source plan node; the
// optimizer only ever narrows the view (column subset, row range) and never copies the vectors.
type ColumnTable struct {
	columns []Column
	numRows int
}

// NewColumnTable validates that all columns have the same length and that every value matches its column type.
func NewColumnTable(columns ...Column) (*ColumnTable, error) {
	numRows := 0
	if len(columns) > 0 {
		numRows = len(columns[0].Values)
	}
	for _, c := range columns {
		if len(c.Values) != numRows {
			return nil, common.NewPlanError(common.InvalidPlanError,
				"column %q has %d rows, expected %d", c.Name, len(c.Values), numRows)
		}
		for i, v := range c.Values {
			if v.Type() != c.Type {
				return nil, common.NewPlanError(common.InvalidPlanError,
					"column %q row %d has type %s, expected %s", c.Name, i, v.Type(), c.Type)
			}
		}
	}
	return &ColumnTable{columns: columns, numRows: numRows}, nil
}

// NumRows returns the number of rows shared by every column.
func (t *ColumnTable) NumRows() int {
	return t.numRows
}

// NumColumns returns the number of columns in the table.
func (t *ColumnTable) NumColumns() int {
	return len(t.columns)
}

// Column returns the column at offset i.
func (t *ColumnTable) Column(i int) *Column {
	return &t.columns[i]
}

// Row gathers the values at position row for the given column offsets.
func (t *ColumnTable) Row(row int, offsets []int) Tuple {
	common.Assert(row >= 0 && row < t.numRows, "row %d out of range [0, %d)", row, t.numRows)
	values := make([]common.Value, len(offsets))
	for i, off := range offsets {
		values[i] = t.columns[off].Values[row]
	}
	return FromValues(values...)
}

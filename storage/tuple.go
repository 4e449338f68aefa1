package storage

import (
	"strings"

	"mit.edu/dsg/planopt/common"
)

// Tuple represents the "Logical View" of a row.
// It is the data structure exchanged between executors and the one expressions are evaluated against.
//
// Plan data lives column by column (see ColumnTable); a Tuple is what you get after gathering one row position
// out of a set of columns, or after an operator computes brand new values (e.g. "A + B").
type Tuple struct {
	values []common.Value
}

// FromValues creates a Tuple from a list of values.
func FromValues(values ...common.Value) Tuple {
	return Tuple{values: values}
}

// Extend returns a NEW Tuple consisting of the current tuple's fields followed by the provided newValues.
func (t Tuple) Extend(newValues []common.Value) Tuple {
	values := make([]common.Value, 0, len(t.values)+len(newValues))
	values = append(values, t.values...)
	return Tuple{values: append(values, newValues...)}
}

// MergeTuples concatenates left and right into a new tuple.
func MergeTuples(left Tuple, right Tuple) Tuple {
	return left.Extend(right.values)
}

// Project returns a new tuple holding the fields at the given offsets, in order.
func (t Tuple) Project(offsets []int) Tuple {
	values := make([]common.Value, len(offsets))
	for i, off := range offsets {
		values[i] = t.values[off]
	}
	return Tuple{values: values}
}

// IsNil checks if the tuple is uninitialized.
func (t Tuple) IsNil() bool {
	return t.values == nil
}

// NumColumns returns the total number of fields in the tuple.
func (t Tuple) NumColumns() int {
	return len(t.values)
}

// GetValue retrieves the value at index i.
func (t Tuple) GetValue(i int) common.Value {
	return t.values[i]
}

// Values returns a copy of the tuple's fields.
func (t Tuple) Values() []common.Value {
	return append([]common.Value(nil), t.values...)
}

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range t.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

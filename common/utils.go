package common

import "fmt"

// Assert checks a condition and panics if it is false.
//
// It guards internal invariants of the plan graph, such as edge symmetry between node inputs and outputs.
// Plans and configuration coming from callers are checked with a PlanError instead.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

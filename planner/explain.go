package planner

import (
	"fmt"
	"strings"
)

// Walk visits every node reachable from root exactly once, parents before children and inputs in order. If visit
// returns false the inputs of that node are not expanded.
func Walk(root PlanNode, visit func(PlanNode) bool) {
	seen := make(map[PlanNode]bool)
	var walk func(n PlanNode)
	walk = func(n PlanNode) {
		if seen[n] {
			return
		}
		seen[n] = true
		if !visit(n) {
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
}

// CountNodes returns the number of distinct nodes reachable from root.
func CountNodes(root PlanNode) int {
	count := 0
	Walk(root, func(PlanNode) bool {
		count++
		return true
	})
	return count
}

// Explain renders the plan as an indented tree. Nodes reachable along more than one path are printed once,
// tagged with #id, and later occurrences print as a back-reference to that id.
func Explain(root PlanNode) string {
	shared := make(map[PlanNode]int)
	refs := make(map[PlanNode]int)
	Walk(root, func(n PlanNode) bool {
		for _, c := range n.Children() {
			refs[c]++
		}
		return true
	})
	for n, count := range refs {
		if count > 1 {
			shared[n] = 0
		}
	}

	var sb strings.Builder
	nextID := 1
	printed := make(map[PlanNode]bool)
	var explain func(n PlanNode, depth int)
	explain = func(n PlanNode, depth int) {
		indent := strings.Repeat("  ", depth)
		if printed[n] {
			fmt.Fprintf(&sb, "%s-> #%d\n", indent, shared[n])
			return
		}
		printed[n] = true
		if _, ok := shared[n]; ok {
			shared[n] = nextID
			nextID++
			fmt.Fprintf(&sb, "%s%s #%d\n", indent, n.String(), shared[n])
		} else {
			fmt.Fprintf(&sb, "%s%s\n", indent, n.String())
		}
		for _, c := range n.Children() {
			explain(c, depth+1)
		}
	}
	explain(root, 0)
	return sb.String()
}

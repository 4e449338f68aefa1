package optimizer

import (
	"slices"

	"mit.edu/dsg/planopt/planner"
)

// activeQueue is the work list of one pass. Entries are popped from the back; the list is laid out so that
// nodes closest to the tip come out first. Entries can go stale when their node is discarded, the driver skips
// those.
type activeQueue struct {
	items []NodeID
}

// rebuild refills the queue with every node reachable from tip whose kind is active, in breadth-first order
// reversed so that the tip is popped first.
func (q *activeQueue) rebuild(g *nodeGraph, tip *NodeInfo, active *[planner.NumNodeKinds]bool) {
	q.items = q.items[:0]
	visited := make([]bool, len(g.nodes))
	frontier := []NodeID{tip.id}
	visited[tip.id] = true
	for i := 0; i < len(frontier); i++ {
		n := g.nodes[frontier[i]]
		if active[n.Kind()] {
			q.items = append(q.items, n.id)
		}
		for _, in := range n.inputs {
			if !visited[in] {
				visited[in] = true
				frontier = append(frontier, in)
			}
		}
	}
	slices.Reverse(q.items)
}

func (q *activeQueue) push(id NodeID) {
	q.items = append(q.items, id)
}

func (q *activeQueue) pop() (NodeID, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	id := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	return id, true
}

func (q *activeQueue) size() int {
	return len(q.items)
}

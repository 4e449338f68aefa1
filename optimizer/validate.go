package optimizer

import (
	"fmt"
)

type edge struct {
	from, to NodeID
}

// Validate checks the consistency of the optimizer's graph: every input edge has exactly one matching output
// entry, the live graph has no cycles, each plan node has a single NodeInfo whose inputs mirror the plan node's
// children, and discarded nodes have no edges at all.
func (o *Optimizer) Validate() error {
	return o.graph.validate()
}

func (g *nodeGraph) validate() error {
	if len(g.index) != len(g.nodes) {
		return fmt.Errorf("%d plan nodes indexed for %d node infos", len(g.index), len(g.nodes))
	}

	balance := make(map[edge]int)
	for _, n := range g.nodes {
		if id, ok := g.index[n.node]; !ok || id != n.id {
			return fmt.Errorf("node %s is not the indexed info for its plan node", n)
		}
		if n.discarded {
			if len(n.outputs) != 0 || len(n.inputs) != 0 {
				return fmt.Errorf("discarded node %s still has %d inputs and %d outputs", n, len(n.inputs), len(n.outputs))
			}
			continue
		}

		children := n.node.Children()
		if len(children) != len(n.inputs) {
			return fmt.Errorf("node %s has %d inputs but its plan node has %d children", n, len(n.inputs), len(children))
		}
		for i, in := range n.inputs {
			if g.nodes[in].node != children[i] {
				return fmt.Errorf("input %d of %s is %s but the plan node reads from %s", i, n, g.nodes[in], children[i])
			}
			if g.nodes[in].discarded {
				return fmt.Errorf("node %s reads from discarded node %s", n, g.nodes[in])
			}
			balance[edge{from: in, to: n.id}]++
		}
		for _, out := range n.outputs {
			balance[edge{from: n.id, to: out}]--
		}
	}
	for e, count := range balance {
		if count != 0 {
			return fmt.Errorf("edge %s -> %s is recorded %d more times as an input than as an output",
				g.nodes[e.from], g.nodes[e.to], count)
		}
	}

	return g.checkAcyclic()
}

func (g *nodeGraph) checkAcyclic() error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(g.nodes))

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		switch state[id] {
		case inProgress:
			return fmt.Errorf("cycle through node %s", g.nodes[id])
		case done:
			return nil
		}
		state[id] = inProgress
		for _, in := range g.nodes[id].inputs {
			if err := visit(in); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for _, n := range g.nodes {
		if n.discarded {
			continue
		}
		if err := visit(n.id); err != nil {
			return err
		}
	}
	return nil
}

package optimizer

import (
	"fmt"

	"mit.edu/dsg/planopt/planner"
)

// NodeID indexes a NodeInfo in the per-optimization arena.
type NodeID int

// NodeInfo is the optimizer's view of one plan node: the node itself, the nodes it reads from (inputs, in slot
// order) and the nodes that read from it (outputs). Outputs hold one entry per consuming input slot, so a
// consumer that reads the same node twice appears twice.
//
// A NodeInfo stays in the arena after it is discarded; discarded nodes have no inputs and no outputs.
type NodeInfo struct {
	id        NodeID
	node      planner.PlanNode
	inputs    []NodeID
	outputs   []NodeID
	discarded bool
	graph     *nodeGraph
}

func (n *NodeInfo) ID() NodeID {
	return n.id
}

func (n *NodeInfo) Node() planner.PlanNode {
	return n.node
}

func (n *NodeInfo) Kind() planner.NodeKind {
	return n.node.Kind()
}

func (n *NodeInfo) NumInputs() int {
	return len(n.inputs)
}

// Input returns the node feeding input slot i.
func (n *NodeInfo) Input(i int) *NodeInfo {
	return n.graph.nodes[n.inputs[i]]
}

func (n *NodeInfo) NumOutputs() int {
	return len(n.outputs)
}

// Outputs returns the consumers of n, one entry per consuming slot.
func (n *NodeInfo) Outputs() []*NodeInfo {
	out := make([]*NodeInfo, len(n.outputs))
	for i, id := range n.outputs {
		out[i] = n.graph.nodes[id]
	}
	return out
}

// Discarded reports whether n has been removed from the graph.
func (n *NodeInfo) Discarded() bool {
	return n.discarded
}

func (n *NodeInfo) String() string {
	return fmt.Sprintf("#%d %s", n.id, n.node.String())
}

func (n *NodeInfo) removeOutput(id NodeID) {
	for i, o := range n.outputs {
		if o == id {
			n.outputs = append(n.outputs[:i], n.outputs[i+1:]...)
			return
		}
	}
}

// nodeGraph is the arena backing one optimization. It is dropped as a whole when the call returns.
type nodeGraph struct {
	nodes []*NodeInfo
	index map[planner.PlanNode]NodeID
}

func newNodeGraph() *nodeGraph {
	return &nodeGraph{index: make(map[planner.PlanNode]NodeID)}
}

// info returns the NodeInfo for pn, building it (and any input not seen before) on first use. A plan node whose
// NodeInfo was discarded earlier in the call comes back to life with fresh input edges, since a rule has just
// made it reachable again.
func (g *nodeGraph) info(pn planner.PlanNode) *NodeInfo {
	if id, ok := g.index[pn]; ok {
		n := g.nodes[id]
		if n.discarded {
			n.discarded = false
			g.link(n)
		}
		return n
	}

	n := &NodeInfo{id: NodeID(len(g.nodes)), node: pn, graph: g}
	g.nodes = append(g.nodes, n)
	g.index[pn] = n.id
	g.link(n)
	return n
}

// link builds n's input edges from its plan node's children and registers n as a consumer of each.
func (g *nodeGraph) link(n *NodeInfo) {
	children := n.node.Children()
	n.inputs = make([]NodeID, len(children))
	for i, child := range children {
		in := g.info(child)
		n.inputs[i] = in.id
		in.outputs = append(in.outputs, n.id)
	}
}

// reachable reports whether target can be reached from start by following inputs.
func (g *nodeGraph) reachable(start, target *NodeInfo) bool {
	visited := make([]bool, len(g.nodes))
	stack := []NodeID{start.id}
	visited[start.id] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target.id {
			return true
		}
		for _, in := range g.nodes[id].inputs {
			if !visited[in] {
				visited[in] = true
				stack = append(stack, in)
			}
		}
	}
	return false
}

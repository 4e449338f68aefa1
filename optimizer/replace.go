package optimizer

import (
	"slices"

	"go.uber.org/zap"
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
)

// ReplaceNode swaps old out of the graph in favour of the plan node pn. Every consumer of old is repointed to
// pn, both in the optimizer's graph and in the consumer plan node itself, after which old and any of its inputs
// left without consumers are discarded. The new node, its inputs and its consumers are queued for another look.
//
// Calling ReplaceNode on a discarded node, or with old's own plan node, does nothing. A consumer that reads old
// through several slots has one slot repointed per consuming entry, so every slot ends up pointing at pn.
func (o *Optimizer) ReplaceNode(old *NodeInfo, pn planner.PlanNode) {
	if old.discarded || old.node == pn {
		return
	}
	common.Assert(old != o.proxy, "rule replaced the optimization root %s", old)

	n := o.graph.info(pn)
	if o.opts.CheckInvariants {
		common.Assert(!o.graph.reachable(n, old),
			"replacing %s with %s would create a cycle", old, n)
	}

	consumers := old.outputs
	old.outputs = nil
	for _, c := range consumers {
		consumer := o.graph.nodes[c]
		slot := slices.Index(consumer.inputs, old.id)
		common.Assert(slot >= 0, "consumer %s does not read from %s", consumer, old)
		consumer.inputs[slot] = n.id
		consumer.node.SetChild(slot, pn)
		n.outputs = append(n.outputs, c)
	}

	o.log.Debug("Replaced node",
		zap.Int("old_id", int(old.id)),
		zap.Int("new_id", int(n.id)),
		zap.Stringer("old", old.node),
		zap.Stringer("new", pn))

	o.eliminateNodeAndPrune(old)
	o.replacements++

	o.MarkActive(n)
	for _, in := range n.inputs {
		o.MarkActive(o.graph.nodes[in])
	}
	for _, out := range n.outputs {
		o.MarkActive(o.graph.nodes[out])
	}
}

// eliminateNodeAndPrune discards n, which must have no consumers left, together with every input that loses
// its last consumer as a result.
func (o *Optimizer) eliminateNodeAndPrune(n *NodeInfo) {
	common.Assert(len(n.outputs) == 0, "eliminating %s which still has %d consumers", n, len(n.outputs))

	work := []*NodeInfo{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		cur.discarded = true
		for _, id := range cur.inputs {
			in := o.graph.nodes[id]
			in.removeOutput(cur.id)
			if len(in.outputs) == 0 && !in.discarded {
				work = append(work, in)
			}
		}
		cur.inputs = nil
		o.pruned++
	}
}

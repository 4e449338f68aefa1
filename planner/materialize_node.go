package planner

// MaterializeNode acts as a pipeline barrier, fully buffering the child to reuse tuples on a rescan
type MaterializeNode struct {
	Child PlanNode
}

func NewMaterializeNode(child PlanNode) *MaterializeNode {
	return &MaterializeNode{
		Child: child,
	}
}

func (n *MaterializeNode) Kind() NodeKind {
	return KindMaterialize
}

func (n *MaterializeNode) OutputSchema() []Column {
	return n.Child.OutputSchema()
}

func (n *MaterializeNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *MaterializeNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *MaterializeNode) String() string {
	return "Materialize"
}

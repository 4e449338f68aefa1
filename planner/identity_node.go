package planner

// IdentityNode passes its child through unchanged. Query construction inserts it as a stable handle; the
// optimizer uses one as the proxy for the plan root.
type IdentityNode struct {
	Child PlanNode
}

func NewIdentityNode(child PlanNode) *IdentityNode {
	return &IdentityNode{Child: child}
}

func (n *IdentityNode) Kind() NodeKind {
	return KindIdentity
}

func (n *IdentityNode) OutputSchema() []Column {
	return n.Child.OutputSchema()
}

func (n *IdentityNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *IdentityNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 1)
	n.Child = child
}

func (n *IdentityNode) String() string {
	return "Identity"
}

package planner

// AppendNode emits every row of Left followed by every row of Right. Both sides must share a schema.
type AppendNode struct {
	Left  PlanNode
	Right PlanNode
}

func NewAppendNode(left, right PlanNode) *AppendNode {
	return &AppendNode{Left: left, Right: right}
}

func (n *AppendNode) Kind() NodeKind {
	return KindAppend
}

func (n *AppendNode) OutputSchema() []Column {
	return n.Left.OutputSchema()
}

func (n *AppendNode) Children() []PlanNode {
	return []PlanNode{n.Left, n.Right}
}

func (n *AppendNode) SetChild(i int, child PlanNode) {
	checkSlot(n, i, 2)
	if i == 0 {
		n.Left = child
	} else {
		n.Right = child
	}
}

func (n *AppendNode) String() string {
	return "Append"
}

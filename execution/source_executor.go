package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// SourceExecutor reads the rows and columns a SourceNode exposes from its ColumnTable.
type SourceExecutor struct {
	plan *planner.SourceNode

	row     int
	current storage.Tuple
}

func NewSourceExecutor(plan *planner.SourceNode) *SourceExecutor {
	return &SourceExecutor{plan: plan}
}

func (e *SourceExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *SourceExecutor) Init(ctx *ExecutorContext) error {
	e.row = e.plan.Begin - 1
	return nil
}

func (e *SourceExecutor) Next() bool {
	e.row++
	if e.row >= e.plan.End {
		return false
	}
	e.current = e.plan.Table.Row(e.row, e.plan.Offsets)
	return true
}

func (e *SourceExecutor) Current() storage.Tuple {
	return e.current
}

func (e *SourceExecutor) Error() error {
	return nil
}

func (e *SourceExecutor) Close() error {
	return nil
}

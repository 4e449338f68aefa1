package execution

import (
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// RangeExecutor emits the integers of [Start, End) in order.
type RangeExecutor struct {
	plan *planner.RangeNode
	next int64
	cur  int64
}

func NewRangeExecutor(plan *planner.RangeNode) *RangeExecutor {
	return &RangeExecutor{plan: plan}
}

func (e *RangeExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *RangeExecutor) Init(ctx *ExecutorContext) error {
	e.next = e.plan.Start
	return nil
}

func (e *RangeExecutor) Next() bool {
	if e.next >= e.plan.End {
		return false
	}
	e.cur = e.next
	e.next++
	return true
}

func (e *RangeExecutor) Current() storage.Tuple {
	return storage.FromValues(common.NewIntValue(e.cur))
}

func (e *RangeExecutor) Error() error {
	return nil
}

func (e *RangeExecutor) Close() error {
	return nil
}

package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// ConstantExecutor repeats a single value Count times.
type ConstantExecutor struct {
	plan    *planner.ConstantNode
	emitted int
}

func NewConstantExecutor(plan *planner.ConstantNode) *ConstantExecutor {
	return &ConstantExecutor{plan: plan}
}

func (e *ConstantExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *ConstantExecutor) Init(ctx *ExecutorContext) error {
	e.emitted = 0
	return nil
}

func (e *ConstantExecutor) Next() bool {
	if e.emitted >= e.plan.Count {
		return false
	}
	e.emitted++
	return true
}

func (e *ConstantExecutor) Current() storage.Tuple {
	return storage.FromValues(e.plan.Value)
}

func (e *ConstantExecutor) Error() error {
	return nil
}

func (e *ConstantExecutor) Close() error {
	return nil
}

package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// LimitExecutor passes on at most plan.Limit child tuples. Once the limit is reached the child is not pulled
// again, so a limit of zero never touches its input.
type LimitExecutor struct {
	plan  *planner.LimitNode
	child Executor

	remaining int
	err       error
}

func NewLimitExecutor(plan *planner.LimitNode, child Executor) *LimitExecutor {
	return &LimitExecutor{
		plan:  plan,
		child: child,
	}
}

func (e *LimitExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *LimitExecutor) Init(ctx *ExecutorContext) error {
	e.remaining = e.plan.Limit
	e.err = nil
	return e.child.Init(ctx)
}

func (e *LimitExecutor) Next() bool {
	if e.remaining <= 0 {
		return false
	}
	if !e.child.Next() {
		e.remaining = 0
		e.err = e.child.Error()
		return false
	}
	e.remaining--
	return true
}

func (e *LimitExecutor) Current() storage.Tuple {
	return e.child.Current()
}

func (e *LimitExecutor) Error() error {
	return e.err
}

func (e *LimitExecutor) Close() error {
	return e.child.Close()
}

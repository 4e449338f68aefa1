package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// FilterExecutor passes on the child tuples for which the predicate is true. NULL counts as false.
type FilterExecutor struct {
	plan  *planner.FilterNode
	child Executor

	current storage.Tuple
	err     error
}

// NewFilter creates a new FilterExecutor executor.
func NewFilter(plan *planner.FilterNode, child Executor) *FilterExecutor {
	return &FilterExecutor{
		plan:  plan,
		child: child,
	}
}

func (e *FilterExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *FilterExecutor) Init(ctx *ExecutorContext) error {
	e.current = storage.Tuple{}
	e.err = nil
	return e.child.Init(ctx)
}

func (e *FilterExecutor) Next() bool {
	for e.child.Next() {
		tup := e.child.Current()
		if planner.ExprIsTrue(e.plan.Predicate.Eval(tup)) {
			e.current = tup
			return true
		}
	}
	e.current = storage.Tuple{}
	e.err = e.child.Error()
	return false
}

func (e *FilterExecutor) Current() storage.Tuple {
	return e.current
}

func (e *FilterExecutor) Error() error {
	return e.err
}

func (e *FilterExecutor) Close() error {
	return e.child.Close()
}

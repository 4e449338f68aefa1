package execution

import (
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// MapExecutor evaluates a list of expressions on the input tuples
// and produces a new tuple containing the results of those expressions.
type MapExecutor struct {
	plan  *planner.MapNode
	child Executor

	current storage.Tuple
	err     error
}

func NewMapExecutor(plan *planner.MapNode, child Executor) *MapExecutor {
	return &MapExecutor{
		child: child,
		plan:  plan,
	}
}

func (e *MapExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *MapExecutor) Init(ctx *ExecutorContext) error {
	e.current = storage.Tuple{}
	e.err = nil
	return e.child.Init(ctx)
}

func (e *MapExecutor) Next() bool {
	if !e.child.Next() {
		e.err = e.child.Error()
		return false
	}

	// Consumers such as Materialize and Sort keep the tuples they are handed, so every row gets its own values.
	childTuple := e.child.Current()
	values := make([]common.Value, len(e.plan.Expressions))
	for i, expr := range e.plan.Expressions {
		values[i] = expr.Eval(childTuple)
	}
	e.current = storage.FromValues(values...)
	return true
}

func (e *MapExecutor) Current() storage.Tuple {
	return e.current
}

func (e *MapExecutor) Error() error {
	return e.err
}

func (e *MapExecutor) Close() error {
	return e.child.Close()
}

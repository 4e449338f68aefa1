package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// AppendExecutor returns every tuple of its left child followed by every tuple of its right child.
type AppendExecutor struct {
	plan        *planner.AppendNode
	left, right Executor

	onRight bool
}

func NewAppendExecutor(plan *planner.AppendNode, left, right Executor) *AppendExecutor {
	return &AppendExecutor{
		plan:  plan,
		left:  left,
		right: right,
	}
}

func (e *AppendExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *AppendExecutor) Init(ctx *ExecutorContext) error {
	e.onRight = false
	if err := e.left.Init(ctx); err != nil {
		return err
	}
	return e.right.Init(ctx)
}

func (e *AppendExecutor) Next() bool {
	if !e.onRight {
		if e.left.Next() {
			return true
		}
		if e.left.Error() != nil {
			return false
		}
		e.onRight = true
	}
	return e.right.Next()
}

func (e *AppendExecutor) Current() storage.Tuple {
	if e.onRight {
		return e.right.Current()
	}
	return e.left.Current()
}

func (e *AppendExecutor) Error() error {
	if err := e.left.Error(); err != nil {
		return err
	}
	return e.right.Error()
}

func (e *AppendExecutor) Close() error {
	leftErr := e.left.Close()
	if err := e.right.Close(); err != nil {
		return err
	}
	return leftErr
}

package execution

import (
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// UnionExecutor advances all of its children in lockstep and glues their tuples together column-wise.
type UnionExecutor struct {
	plan     *planner.UnionNode
	children []Executor

	current storage.Tuple
	err     error
}

func NewUnionExecutor(plan *planner.UnionNode, children []Executor) *UnionExecutor {
	return &UnionExecutor{
		plan:     plan,
		children: children,
	}
}

func (e *UnionExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *UnionExecutor) Init(ctx *ExecutorContext) error {
	e.err = nil
	for _, c := range e.children {
		if err := c.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *UnionExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	var values []common.Value
	advanced := 0
	for _, c := range e.children {
		if !c.Next() {
			if err := c.Error(); err != nil {
				e.err = err
				return false
			}
			continue
		}
		advanced++
		values = append(values, c.Current().Values()...)
	}
	if advanced == 0 {
		return false
	}
	if advanced != len(e.children) {
		e.err = common.NewPlanError(common.InvalidPlanError, "union inputs produce different numbers of rows")
		return false
	}
	e.current = storage.FromValues(values...)
	return true
}

func (e *UnionExecutor) Current() storage.Tuple {
	return e.current
}

func (e *UnionExecutor) Error() error {
	return e.err
}

func (e *UnionExecutor) Close() error {
	var firstErr error
	for _, c := range e.children {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

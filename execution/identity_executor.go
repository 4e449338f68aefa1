package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// IdentityExecutor forwards its child unchanged.
type IdentityExecutor struct {
	plan  *planner.IdentityNode
	child Executor
}

func NewIdentityExecutor(plan *planner.IdentityNode, child Executor) *IdentityExecutor {
	return &IdentityExecutor{plan: plan, child: child}
}

func (e *IdentityExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *IdentityExecutor) Init(ctx *ExecutorContext) error {
	return e.child.Init(ctx)
}

func (e *IdentityExecutor) Next() bool {
	return e.child.Next()
}

func (e *IdentityExecutor) Current() storage.Tuple {
	return e.child.Current()
}

func (e *IdentityExecutor) Error() error {
	return e.child.Error()
}

func (e *IdentityExecutor) Close() error {
	return e.child.Close()
}

package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// MaterializeExecutor acts as a pipeline barrier.
// It consumes all tuples from its child during the first execution and stores them.
// Subsequent calls to Init/Next iterate over the stored tuples.
type MaterializeExecutor struct {
	plan  *planner.MaterializeNode
	child Executor

	// Runtime state
	tuples       []storage.Tuple
	childInit    bool
	childDone    bool
	currentIndex int
	ctx          *ExecutorContext
	err          error
}

func NewMaterializeExecutor(plan *planner.MaterializeNode, child Executor) *MaterializeExecutor {
	return &MaterializeExecutor{
		plan:   plan,
		child:  child,
		tuples: make([]storage.Tuple, 0),
	}
}

func (e *MaterializeExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *MaterializeExecutor) Init(ctx *ExecutorContext) error {
	e.currentIndex = -1
	e.err = nil
	e.ctx = ctx

	if !e.childInit {
		e.childInit = true
		return e.child.Init(ctx)
	}
	return nil
}

func (e *MaterializeExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	e.currentIndex++

	if e.currentIndex < len(e.tuples) {
		return true
	}
	if e.childDone {
		return false
	}

	if e.child.Next() {
		e.tuples = append(e.tuples, e.child.Current())
		if e.err = e.ctx.checkBuffered("materialize", len(e.tuples)); e.err != nil {
			return false
		}
		return true
	}
	e.childDone = true
	e.err = e.child.Error()
	return false
}

func (e *MaterializeExecutor) Current() storage.Tuple {
	return e.tuples[e.currentIndex]
}

func (e *MaterializeExecutor) Error() error {
	return e.err
}

func (e *MaterializeExecutor) Close() error {
	return e.child.Close()
}

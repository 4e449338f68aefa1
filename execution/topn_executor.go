package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// TopNExecutor keeps only the best Limit tuples seen so far in an ordered window.
type TopNExecutor struct {
	plan  *planner.TopNNode
	child Executor

	sortedTuples []storage.Tuple
	computed     bool
	currentIndex int
	ctx          *ExecutorContext
	err          error
}

func NewTopNExecutor(plan *planner.TopNNode, child Executor) *TopNExecutor {
	return &TopNExecutor{
		plan:  plan,
		child: child,
	}
}

func (e *TopNExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *TopNExecutor) Init(ctx *ExecutorContext) error {
	e.sortedTuples = nil
	e.computed = false
	e.currentIndex = -1
	e.ctx = ctx
	e.err = nil
	return e.child.Init(ctx)
}

func (e *TopNExecutor) computeTopN() error {
	window := newOrderedTuples(e.plan.OrderBy)
	for e.child.Next() {
		window.add(e.child.Current())
		if window.size() > e.plan.Limit {
			window.dropLast()
		}
	}
	if err := e.child.Error(); err != nil {
		return err
	}
	e.sortedTuples = window.sorted()
	return nil
}

func (e *TopNExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	if !e.computed {
		e.err = e.computeTopN()
		e.computed = true
		if e.err != nil {
			return false
		}
	}
	e.currentIndex++
	return e.currentIndex < len(e.sortedTuples)
}

func (e *TopNExecutor) Current() storage.Tuple {
	return e.sortedTuples[e.currentIndex]
}

func (e *TopNExecutor) Error() error {
	return e.err
}

func (e *TopNExecutor) Close() error {
	e.sortedTuples = nil
	return e.child.Close()
}

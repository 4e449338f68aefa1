package execution

import (
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// SortExecutor sorts the input tuples based on the provided ordering expressions.
// It is a blocking operator but uses lazy evaluation (sorts on first Next).
type SortExecutor struct {
	plan  *planner.SortNode
	child Executor

	// Runtime state
	sortedTuples []storage.Tuple
	currentIndex int
	ctx          *ExecutorContext
	err          error
}

func NewSortExecutor(plan *planner.SortNode, child Executor) *SortExecutor {
	return &SortExecutor{
		plan:  plan,
		child: child,
	}
}

func (e *SortExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *SortExecutor) Init(ctx *ExecutorContext) error {
	e.sortedTuples = nil
	e.currentIndex = -1
	e.ctx = ctx
	e.err = nil
	return e.child.Init(ctx)
}

func (e *SortExecutor) sortAllRows() error {
	rows := newOrderedTuples(e.plan.OrderBy)
	for e.child.Next() {
		rows.add(e.child.Current())
		if err := e.ctx.checkBuffered("sort", rows.size()); err != nil {
			return err
		}
	}
	if err := e.child.Error(); err != nil {
		return err
	}
	e.sortedTuples = rows.sorted()
	return nil
}

func (e *SortExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	if e.sortedTuples == nil {
		if e.err = e.sortAllRows(); e.err != nil {
			return false
		}
	}
	e.currentIndex++
	return e.currentIndex < len(e.sortedTuples)
}

func (e *SortExecutor) Current() storage.Tuple {
	return e.sortedTuples[e.currentIndex]
}

func (e *SortExecutor) Error() error {
	return e.err
}

func (e *SortExecutor) Close() error {
	e.sortedTuples = nil
	return e.child.Close()
}

package execution

import (
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// AggregateExecutor implements hash-based aggregation. Groups are emitted in the order they were first seen.
type AggregateExecutor struct {
	plan  *planner.AggregateNode
	child Executor

	// Runtime state
	tuples       []storage.Tuple
	currentIndex int
	ctx          *ExecutorContext
	err          error
}

func NewAggregateExecutor(plan *planner.AggregateNode, child Executor) *AggregateExecutor {
	return &AggregateExecutor{
		child:        child,
		plan:         plan,
		currentIndex: -1,
	}
}

func (e *AggregateExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *AggregateExecutor) Init(ctx *ExecutorContext) error {
	e.tuples = nil
	e.currentIndex = -1
	e.ctx = ctx
	e.err = nil
	return e.child.Init(ctx)
}

func (e *AggregateExecutor) updateAggregateState(state []common.Value, tuple storage.Tuple) {
	for i, agg := range e.plan.AggClauses {
		val := agg.Expr.Eval(tuple)

		// Standard SQL aggregate rules: ignore NULLs
		if val.IsNull() {
			continue
		}

		switch agg.Type {
		case planner.AggCount:
			if state[i].IsNil() {
				state[i] = common.NewIntValue(1)
			} else {
				state[i] = common.NewIntValue(state[i].IntValue() + 1)
			}
		case planner.AggSum:
			if state[i].IsNil() {
				state[i] = val
			} else {
				state[i] = common.NewIntValue(state[i].IntValue() + val.IntValue())
			}
		case planner.AggMin:
			if state[i].IsNil() || val.Compare(state[i]) < 0 {
				state[i] = val
			}
		case planner.AggMax:
			if state[i].IsNil() || val.Compare(state[i]) > 0 {
				state[i] = val
			}
		}
	}
}

type groupState struct {
	values []common.Value
}

func (e *AggregateExecutor) buildHashTable() error {
	hashTable := NewExecutionHashTable[*groupState]()
	var groups []storage.Tuple
	var states []*groupState

	keyBuffer := make([]common.Value, len(e.plan.GroupByClause))
	for e.child.Next() {
		tuple := e.child.Current()
		for i, expr := range e.plan.GroupByClause {
			keyBuffer[i] = expr.Eval(tuple)
		}
		// If group by is empty, this will produce an empty tuple, which is the intended behavior
		// as we will perform a global aggregation and return exactly one row.
		key := storage.FromValues(keyBuffer...)
		state, found := hashTable.Get(key)
		if !found {
			state = &groupState{values: make([]common.Value, len(e.plan.AggClauses))}
			hashTable.Insert(key, state)
			groups = append(groups, key)
			states = append(states, state)
			if err := e.ctx.checkBuffered("aggregate", len(groups)); err != nil {
				return err
			}
		}
		e.updateAggregateState(state.values, tuple)
	}

	if err := e.child.Error(); err != nil {
		return err
	}

	if len(groups) == 0 && len(e.plan.GroupByClause) == 0 {
		// A global aggregation over no rows still produces one row.
		groups = append(groups, storage.FromValues())
		states = append(states, &groupState{values: make([]common.Value, len(e.plan.AggClauses))})
	}

	e.tuples = make([]storage.Tuple, len(groups))
	for g, key := range groups {
		values := states[g].values
		for i, v := range values {
			if !v.IsNil() {
				continue
			}
			// Convert sentinel IsNil to the empty result of the aggregate
			if e.plan.AggClauses[i].Type == planner.AggCount {
				values[i] = common.NewIntValue(0)
			} else {
				values[i] = common.NewNull(e.plan.AggClauses[i].OutputType())
			}
		}
		e.tuples[g] = key.Extend(values)
	}
	return nil
}

func (e *AggregateExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	if e.tuples == nil {
		if e.err = e.buildHashTable(); e.err != nil {
			return false
		}
	}
	e.currentIndex++
	return e.currentIndex < len(e.tuples)
}

func (e *AggregateExecutor) Current() storage.Tuple {
	return e.tuples[e.currentIndex]
}

func (e *AggregateExecutor) Error() error {
	return e.err
}

func (e *AggregateExecutor) Close() error {
	return e.child.Close()
}

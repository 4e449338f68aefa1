package execution

import (
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// Build turns a plan into a tree of executors. A plan node shared by several consumers gets one executor per
// consumer, so each consumer scans it independently.
func Build(plan planner.PlanNode) (Executor, error) {
	children := plan.Children()
	inputs := make([]Executor, len(children))
	for i, c := range children {
		exec, err := Build(c)
		if err != nil {
			return nil, err
		}
		inputs[i] = exec
	}

	switch n := plan.(type) {
	case *planner.SourceNode:
		return NewSourceExecutor(n), nil
	case *planner.RangeNode:
		return NewRangeExecutor(n), nil
	case *planner.ConstantNode:
		return NewConstantExecutor(n), nil
	case *planner.ProjectionNode:
		return NewProjectionExecutor(n, inputs[0]), nil
	case *planner.MapNode:
		return NewMapExecutor(n, inputs[0]), nil
	case *planner.FilterNode:
		return NewFilter(n, inputs[0]), nil
	case *planner.UnionNode:
		return NewUnionExecutor(n, inputs), nil
	case *planner.AppendNode:
		return NewAppendExecutor(n, inputs[0], inputs[1]), nil
	case *planner.LimitNode:
		return NewLimitExecutor(n, inputs[0]), nil
	case *planner.SortNode:
		return NewSortExecutor(n, inputs[0]), nil
	case *planner.TopNNode:
		return NewTopNExecutor(n, inputs[0]), nil
	case *planner.AggregateNode:
		return NewAggregateExecutor(n, inputs[0]), nil
	case *planner.MaterializeNode:
		return NewMaterializeExecutor(n, inputs[0]), nil
	case *planner.IdentityNode:
		return NewIdentityExecutor(n, inputs[0]), nil
	}
	return nil, common.NewPlanError(common.InvalidPlanError, "no executor for plan node %s (%s)", plan, plan.Kind())
}

// Collect runs an executor to completion and returns every tuple it produced.
func Collect(exec Executor, ctx *ExecutorContext) ([]storage.Tuple, error) {
	if err := exec.Init(ctx); err != nil {
		return nil, err
	}
	var out []storage.Tuple
	for exec.Next() {
		out = append(out, exec.Current())
	}
	if err := exec.Error(); err != nil {
		exec.Close()
		return nil, err
	}
	return out, exec.Close()
}

// Run builds and runs plan in one step.
func Run(plan planner.PlanNode, ctx *ExecutorContext) ([]storage.Tuple, error) {
	exec, err := Build(plan)
	if err != nil {
		return nil, err
	}
	return Collect(exec, ctx)
}

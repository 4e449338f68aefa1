package rules

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/execution"
	"mit.edu/dsg/planopt/optimizer"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// testTable has columns (id int, name string, score int) and 10 rows.
var testTable = func() *storage.ColumnTable {
	const n = 10
	ids := make([]common.Value, n)
	names := make([]common.Value, n)
	scores := make([]common.Value, n)
	for i := 0; i < n; i++ {
		ids[i] = common.NewIntValue(int64(i))
		names[i] = common.NewStringValue(fmt.Sprintf("n%d", i))
		scores[i] = common.NewIntValue(int64(i * 7 % 10))
	}
	table, err := storage.NewColumnTable(
		storage.Column{Name: "id", Type: common.IntType, Values: ids},
		storage.Column{Name: "name", Type: common.StringType, Values: names},
		storage.Column{Name: "score", Type: common.IntType, Values: scores},
	)
	common.Assert(err == nil, "bad test table: %v", err)
	return table
}()

func source() *planner.SourceNode {
	return planner.NewSourceNode("t", testTable)
}

func col(n planner.PlanNode, i int) planner.Expr {
	return planner.NewColumnValueExpression(i, planner.OutputTypes(n), n.OutputSchema()[i].Name)
}

func intConst(v int64) planner.Expr {
	return planner.NewConstantValueExpression(common.NewIntValue(v))
}

func rows(t *testing.T, plan planner.PlanNode) []string {
	tuples, err := execution.Run(plan, nil)
	require.NoError(t, err)
	out := make([]string, len(tuples))
	for i, tup := range tuples {
		out[i] = tup.String()
	}
	return out
}

// optimize runs the standard rules over a fresh copy of the plan and checks it still produces the same rows.
func optimize(t *testing.T, build func() planner.PlanNode) (planner.PlanNode, *optimizer.Engine) {
	want := rows(t, build())

	e := optimizer.NewEngine(MustRegistry())
	result, err := e.Optimize(build(), optimizer.Options{CheckInvariants: true})
	require.NoError(t, err)

	if diff := cmp.Diff(want, rows(t, result)); diff != "" {
		t.Errorf("optimized plan returns different rows (-want +got):\n%s\nplan:\n%s", diff, planner.Explain(result))
	}
	return result, e
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"eliminate identity", "sort limit to top-n"}, reg.Describe(optimizer.StageFinal))
	assert.Contains(t, reg.Describe(optimizer.StagePushdown), "push filter through project")
	assert.True(t, reg.Active(optimizer.StageProjectionMerge)[planner.KindMap])
	assert.False(t, reg.Active(optimizer.StageFinal)[planner.KindProject])

	b := optimizer.NewRegistryBuilder()
	require.NoError(t, Register(b))
	assert.Error(t, b.Register([]optimizer.Stage{optimizer.StageFinal}, &optimizer.Rule{Name: "nothing", Fn: nil}))
}

func TestProjectionMerge(t *testing.T) {
	result, e := optimize(t, func() planner.PlanNode {
		inner := planner.NewProjectionNode(source(), []int{0, 2})
		return planner.NewProjectionNode(inner, []int{0})
	})
	src, ok := result.(*planner.SourceNode)
	require.True(t, ok, "got:\n%s", planner.Explain(result))
	assert.Equal(t, []int{0}, src.Offsets)
	assert.EqualValues(t, 1, e.Stats().Fired("merge projections"))
	assert.EqualValues(t, 1, e.Stats().Fired("push project into source"))
}

func TestIdentityElimination(t *testing.T) {
	var limit *planner.LimitNode
	var filter *planner.FilterNode
	result, _ := optimize(t, func() planner.PlanNode {
		src := source()
		wrapped := planner.NewIdentityNode(planner.NewFilterNode(src, planner.NewComparisonExpression(col(src, 2), intConst(4), planner.GreaterThan)))
		limit = planner.NewLimitNode(wrapped, 2)
		filter = wrapped.Child.(*planner.FilterNode)
		return planner.NewAppendNode(limit, wrapped)
	})
	app := result.(*planner.AppendNode)
	assert.Same(t, filter, limit.Child)
	assert.Same(t, filter, app.Right)
}

func TestNormalFormUntouched(t *testing.T) {
	src := source()
	plan := planner.NewAppendNode(
		planner.NewFilterNode(src, planner.NewComparisonExpression(col(src, 0), intConst(3), planner.LessThan)),
		planner.NewSortNode(src, []planner.OrderByClause{{Expr: col(src, 2)}}))
	before := planner.Explain(plan)

	e := optimizer.NewEngine(MustRegistry())
	result, err := e.Optimize(plan, optimizer.Options{CheckInvariants: true})
	require.NoError(t, err)
	assert.Same(t, plan, result)
	assert.Equal(t, before, planner.Explain(result))
	assert.Zero(t, e.Stats().Replacements())
}

func TestSharedSubexpression(t *testing.T) {
	var shared *planner.FilterNode
	var other *planner.LimitNode
	result, _ := optimize(t, func() planner.PlanNode {
		src := source()
		shared = planner.NewFilterNode(src, planner.NewComparisonExpression(col(src, 2), intConst(5), planner.LessThan))
		other = planner.NewLimitNode(shared, 2)
		merged := planner.NewProjectionNode(planner.NewProjectionNode(shared, []int{2, 0}), []int{1})
		return planner.NewAppendNode(merged, other)
	})
	app := result.(*planner.AppendNode)
	p, ok := app.Left.(*planner.ProjectionNode)
	require.True(t, ok, "got:\n%s", planner.Explain(result))
	assert.Equal(t, []int{0}, p.Indices)
	assert.Same(t, shared, p.Child)
	assert.Same(t, shared, other.Child)
}

func TestFilterPushdown(t *testing.T) {
	t.Run("through project", func(t *testing.T) {
		result, _ := optimize(t, func() planner.PlanNode {
			p := planner.NewProjectionNode(source(), []int{2, 0})
			return planner.NewFilterNode(p, planner.NewComparisonExpression(col(p, 0), intConst(3), planner.GreaterThan))
		})
		p := result.(*planner.ProjectionNode)
		f := p.Child.(*planner.FilterNode)
		assert.IsType(t, &planner.SourceNode{}, f.Child)
		assert.Equal(t, []int{2}, planner.ReferencedColumns(f.Predicate))
	})

	t.Run("through map", func(t *testing.T) {
		result, _ := optimize(t, func() planner.PlanNode {
			src := source()
			m := planner.NewMapNode(src, []planner.Expr{
				planner.NewArithmeticExpression(col(src, 0), intConst(2), planner.Mult),
				col(src, 1),
			}, []string{"double", "name"})
			return planner.NewFilterNode(m, planner.NewComparisonExpression(col(m, 0), intConst(10), planner.GreaterThan))
		})
		m, ok := result.(*planner.MapNode)
		require.True(t, ok, "got:\n%s", planner.Explain(result))
		assert.Len(t, m.OutputSchema(), 2)
	})

	t.Run("through append and sort", func(t *testing.T) {
		result, _ := optimize(t, func() planner.PlanNode {
			src := source()
			sorted := planner.NewSortNode(planner.NewAppendNode(src, source()),
				[]planner.OrderByClause{{Expr: col(src, 2), Direction: planner.SortOrderDescending}})
			return planner.NewFilterNode(sorted, planner.NewComparisonExpression(col(src, 0), intConst(6), planner.LessThan))
		})
		s := result.(*planner.SortNode)
		app := s.Child.(*planner.AppendNode)
		assert.IsType(t, &planner.FilterNode{}, app.Left)
		assert.IsType(t, &planner.FilterNode{}, app.Right)
	})

	t.Run("merge and drop true filters", func(t *testing.T) {
		result, _ := optimize(t, func() planner.PlanNode {
			src := source()
			inner := planner.NewFilterNode(src, planner.NewComparisonExpression(col(src, 2), intConst(2), planner.GreaterThan))
			trivial := planner.NewFilterNode(inner, intConst(1))
			return planner.NewFilterNode(trivial, planner.NewComparisonExpression(col(src, 0), intConst(8), planner.LessThan))
		})
		f := result.(*planner.FilterNode)
		assert.IsType(t, &planner.SourceNode{}, f.Child)
		assert.Equal(t, []int{2, 0}, planner.ReferencedColumns(f.Predicate))
	})
}

func TestLimitPushdown(t *testing.T) {
	t.Run("into source through map and project", func(t *testing.T) {
		result, _ := optimize(t, func() planner.PlanNode {
			src := source()
			m := planner.NewMapNode(src, []planner.Expr{
				col(src, 1),
				planner.NewArithmeticExpression(col(src, 2), intConst(1), planner.Add),
			}, []string{"name", "bumped"})
			return planner.NewLimitNode(planner.NewProjectionNode(m, []int{1}), 3)
		})
		m, ok := result.(*planner.MapNode)
		require.True(t, ok, "got:\n%s", planner.Explain(result))
		src := m.Child.(*planner.SourceNode)
		assert.Equal(t, 3, src.NumRows())
		assert.Equal(t, []int{2}, src.Offsets)
	})

	t.Run("through union", func(t *testing.T) {
		result, _ := optimize(t, func() planner.PlanNode {
			return planner.NewLimitNode(planner.NewLimitNode(planner.NewUnionNode(source(), planner.NewRangeNode("r", 0, 10)), 6), 4)
		})
		u := result.(*planner.UnionNode)
		assert.Equal(t, 4, u.Inputs[0].(*planner.SourceNode).NumRows())
		assert.Equal(t, int64(4), u.Inputs[1].(*planner.RangeNode).End)
	})

	t.Run("sort becomes top-n", func(t *testing.T) {
		result, e := optimize(t, func() planner.PlanNode {
			src := source()
			sorted := planner.NewSortNode(src, []planner.OrderByClause{{Expr: col(src, 2), Direction: planner.SortOrderDescending}})
			return planner.NewLimitNode(sorted, 3)
		})
		topN, ok := result.(*planner.TopNNode)
		require.True(t, ok, "got:\n%s", planner.Explain(result))
		assert.Equal(t, 3, topN.Limit)
		assert.EqualValues(t, 1, e.Stats().Fired("sort limit to top-n"))
	})
}

func TestUnionRewrites(t *testing.T) {
	a := planner.NewRangeNode("a", 0, 10)
	c := planner.NewConstantNode("c", common.NewStringValue("k"), 10)

	result, _ := optimize(t, func() planner.PlanNode {
		nested := planner.NewUnionNode(planner.NewUnionNode(a, source()), c)
		return planner.NewProjectionNode(nested, []int{4, 0})
	})
	u, ok := result.(*planner.UnionNode)
	require.True(t, ok, "got:\n%s", planner.Explain(result))
	assert.Equal(t, []planner.PlanNode{c, a}, u.Inputs)

	result, _ = optimize(t, func() planner.PlanNode {
		src := source()
		return planner.NewUnionNode(planner.NewProjectionNode(src, []int{2}), planner.NewProjectionNode(src, []int{0}))
	})
	src, ok := result.(*planner.SourceNode)
	require.True(t, ok, "got:\n%s", planner.Explain(result))
	assert.Equal(t, []int{2, 0}, src.Offsets)

	result, _ = optimize(t, func() planner.PlanNode {
		return planner.NewMaterializeNode(planner.NewMaterializeNode(planner.NewUnionNode(a)))
	})
	assert.Same(t, a, result)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	result, e := optimize(t, func() planner.PlanNode {
		src := source()
		m := planner.NewMapNode(src, []planner.Expr{col(src, 2), col(src, 0)}, nil)
		f := planner.NewFilterNode(m, planner.NewComparisonExpression(col(m, 0), intConst(3), planner.GreaterThanOrEqual))
		return planner.NewIdentityNode(planner.NewLimitNode(planner.NewSortNode(f, []planner.OrderByClause{{Expr: col(m, 1)}}), 5))
	})
	fired := e.Stats().FiredByRule()
	require.NotEmpty(t, fired)

	again, err := e.Optimize(result, optimizer.Options{CheckInvariants: true})
	require.NoError(t, err)
	assert.Same(t, result, again)
	assert.Equal(t, fired, e.Stats().FiredByRule())
}

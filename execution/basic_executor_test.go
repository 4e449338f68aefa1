package execution

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// setupTestSource creates a source over a table with columns (id int, name string) holding 'n' rows.
func setupTestSource(t *testing.T, n int) *planner.SourceNode {
	ids := make([]common.Value, n)
	names := make([]common.Value, n)
	for i := 0; i < n; i++ {
		ids[i] = common.NewIntValue(int64(i))
		names[i] = common.NewStringValue(fmt.Sprintf("row-%d", i))
	}
	table, err := storage.NewColumnTable(
		storage.Column{Name: "id", Type: common.IntType, Values: ids},
		storage.Column{Name: "name", Type: common.StringType, Values: names},
	)
	require.NoError(t, err)
	return planner.NewSourceNode("test_table", table)
}

func ids(t *testing.T, tuples []storage.Tuple, col int) []int64 {
	out := make([]int64, len(tuples))
	for i, tup := range tuples {
		out[i] = tup.GetValue(col).IntValue()
	}
	return out
}

func TestBasicExecutor_Source(t *testing.T) {
	src := setupTestSource(t, 10)
	scanExec := NewSourceExecutor(src)
	ctx := NewExecutorContext(0)

	require.NoError(t, scanExec.Init(ctx))

	count1 := 0
	for scanExec.Next() {
		tup := scanExec.Current()
		assert.Equal(t, int64(count1), tup.GetValue(0).IntValue(), "Pass 1: Tuple ID mismatch at row %d", count1)
		assert.Equal(t, fmt.Sprintf("row-%d", count1), tup.GetValue(1).StringValue(), "Pass 1: Tuple Name mismatch at row %d", count1)
		count1++
	}
	assert.Equal(t, 10, count1, "Pass 1: Source failed to return all tuples")

	// Calling init again should reset the cursor and scan multiple times
	require.NoError(t, scanExec.Init(ctx))
	count2 := 0
	for scanExec.Next() {
		count2++
	}
	assert.Equal(t, 10, count2, "Pass 2: Re-initialized Source failed to return all tuples")

	// A narrowed view only reads its slice of the table
	view := src.WithColumns([]int{1}).WithRowLimit(3)
	tuples, err := Run(view, ctx)
	require.NoError(t, err)
	require.Len(t, tuples, 3)
	assert.Equal(t, "(row-2)", tuples[2].String())
}

func TestBasicExecutor_Leaves(t *testing.T) {
	tuples, err := Run(planner.NewRangeNode("i", 3, 7), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5, 6}, ids(t, tuples, 0))

	tuples, err = Run(planner.NewConstantNode("k", common.NewStringValue("x"), 3), nil)
	require.NoError(t, err)
	require.Len(t, tuples, 3)
	assert.Equal(t, "x", tuples[1].GetValue(0).StringValue())
}

func TestBasicExecutor_Filter(t *testing.T) {
	src := setupTestSource(t, 10)

	colExpr := planner.NewColumnValueExpression(0, planner.OutputTypes(src), "id")
	constExpr := planner.NewConstantValueExpression(common.NewIntValue(5))
	predicate := planner.NewComparisonExpression(colExpr, constExpr, planner.GreaterThan)

	filterExec := NewFilter(planner.NewFilterNode(src, predicate), NewSourceExecutor(src))
	require.NoError(t, filterExec.Init(NewExecutorContext(0)))

	count := 0
	for filterExec.Next() {
		current := filterExec.Current()
		assert.True(t, current.GetValue(0).IntValue() > 5)
		count++
	}
	assert.Equal(t, 4, count, "Should match IDs 6, 7, 8, 9")
}

func TestBasicExecutor_ProjectionAndMap(t *testing.T) {
	src := setupTestSource(t, 5)
	types := planner.OutputTypes(src)

	projExec := NewProjectionExecutor(planner.NewProjectionNode(src, []int{1, 0, 0}), NewSourceExecutor(src))
	tuples, err := Collect(projExec, NewExecutorContext(0))
	require.NoError(t, err)
	require.Len(t, tuples, 5)
	assert.Equal(t, "(row-4, 4, 4)", tuples[4].String())

	idCol := planner.NewColumnValueExpression(0, types, "id")
	nameCol := planner.NewColumnValueExpression(1, types, "name")
	constVal := planner.NewConstantValueExpression(common.NewStringValue("static"))

	// Map: ["static", name, id * 2]
	m := planner.NewMapNode(src, []planner.Expr{
		constVal,
		nameCol,
		planner.NewArithmeticExpression(idCol, planner.NewConstantValueExpression(common.NewIntValue(2)), planner.Mult),
	}, nil)
	tuples, err = Run(m, nil)
	require.NoError(t, err)
	for i, tup := range tuples {
		require.Equal(t, 3, tup.NumColumns())
		assert.Equal(t, "static", tup.GetValue(0).StringValue())
		assert.Contains(t, tup.GetValue(1).StringValue(), "row-")
		assert.Equal(t, int64(2*i), tup.GetValue(2).IntValue())
	}
}

func TestBasicExecutor_MapRowsAreKept(t *testing.T) {
	r := planner.NewRangeNode("x", 0, 3)
	m := planner.NewMapNode(r, []planner.Expr{
		planner.NewColumnValueExpression(0, planner.OutputTypes(r), "x"),
	}, []string{"x"})

	tuples, err := Run(m, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, ids(t, tuples, 0))

	tuples, err = Run(planner.NewMaterializeNode(m), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, ids(t, tuples, 0))

	sorted := planner.NewSortNode(m, []planner.OrderByClause{{
		Expr:      planner.NewColumnValueExpression(0, planner.OutputTypes(m), "x"),
		Direction: planner.SortOrderDescending,
	}})
	tuples, err = Run(sorted, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 0}, ids(t, tuples, 0))
}

func TestBasicExecutor_Limit(t *testing.T) {
	src := setupTestSource(t, 10)

	tuples, err := Run(planner.NewLimitNode(src, 5), nil)
	require.NoError(t, err)
	assert.Len(t, tuples, 5)

	tuples, err = Run(planner.NewLimitNode(src, 0), nil)
	require.NoError(t, err)
	assert.Empty(t, tuples)

	tuples, err = Run(planner.NewLimitNode(src, 100), nil)
	require.NoError(t, err)
	assert.Len(t, tuples, 10)
}

// countingExecutor counts how often its consumer pulls from it.
type countingExecutor struct {
	Executor
	pulls int
}

func (c *countingExecutor) Next() bool {
	c.pulls++
	return c.Executor.Next()
}

func TestBasicExecutor_LimitStopsPulling(t *testing.T) {
	src := setupTestSource(t, 10)

	child := &countingExecutor{Executor: NewSourceExecutor(src)}
	tuples, err := Collect(NewLimitExecutor(planner.NewLimitNode(src, 3), child), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, ids(t, tuples, 0))
	assert.Equal(t, 3, child.pulls)

	child = &countingExecutor{Executor: NewSourceExecutor(src)}
	tuples, err = Collect(NewLimitExecutor(planner.NewLimitNode(src, 0), child), nil)
	require.NoError(t, err)
	assert.Empty(t, tuples)
	assert.Zero(t, child.pulls)
}

func TestBasicExecutor_FilterRestart(t *testing.T) {
	src := setupTestSource(t, 6)
	even := planner.NewComparisonExpression(
		planner.NewArithmeticExpression(
			planner.NewColumnValueExpression(0, planner.OutputTypes(src), "id"),
			planner.NewConstantValueExpression(common.NewIntValue(2)), planner.Mod),
		planner.NewConstantValueExpression(common.NewIntValue(0)), planner.Equal)
	filterExec := NewFilter(planner.NewFilterNode(src, even), NewSourceExecutor(src))

	for i := 0; i < 2; i++ {
		tuples, err := Collect(filterExec, nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 2, 4}, ids(t, tuples, 0))
		assert.True(t, filterExec.Current().IsNil())
	}
}

func TestBasicExecutor_UnionAndAppend(t *testing.T) {
	u := planner.NewUnionNode(planner.NewRangeNode("a", 0, 3), planner.NewRangeNode("b", 10, 13))
	tuples, err := Run(u, nil)
	require.NoError(t, err)
	require.Len(t, tuples, 3)
	assert.Equal(t, "(2, 12)", tuples[2].String())

	_, err = Run(planner.NewUnionNode(planner.NewRangeNode("a", 0, 3), planner.NewRangeNode("b", 0, 4)), nil)
	assert.True(t, common.HasCode(err, common.InvalidPlanError))

	a := planner.NewAppendNode(planner.NewRangeNode("a", 0, 2), planner.NewRangeNode("a", 5, 7))
	tuples, err = Run(a, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 5, 6}, ids(t, tuples, 0))
}

func TestBasicExecutor_BasicPipeline(t *testing.T) {
	src := setupTestSource(t, 20)
	idCol := planner.NewColumnValueExpression(0, planner.OutputTypes(src), "id")

	// 1. Filter: id > 5
	f1 := planner.NewFilterNode(src,
		planner.NewComparisonExpression(idCol, planner.NewConstantValueExpression(common.NewIntValue(5)), planner.GreaterThan))

	// 2. Project: Swap to (name, id)
	proj := planner.NewProjectionNode(f1, []int{1, 0})

	// 3. Filter: id < 15 (Note: id is now index 1)
	idProjCol := planner.NewColumnValueExpression(1, planner.OutputTypes(proj), "id")
	f2 := planner.NewFilterNode(proj,
		planner.NewComparisonExpression(idProjCol, planner.NewConstantValueExpression(common.NewIntValue(15)), planner.LessThan))

	// 4. Limit: 3
	tuples, err := Run(planner.NewLimitNode(f2, 3), NewExecutorContext(0))
	require.NoError(t, err)

	// Matches > 5 and < 15: 6, 7, 8, 9, 10, 11, 12, 13, 14.
	// Limit 3 -> Should get 6, 7, 8.
	assert.Equal(t, []int64{6, 7, 8}, ids(t, tuples, 1))
}

func TestBasicExecutor_SortAndTopN(t *testing.T) {
	// scores cycle through 0, 1, 2 so every key has ties
	r := planner.NewRangeNode("i", 0, 9)
	iCol := planner.NewColumnValueExpression(0, planner.OutputTypes(r), "i")
	score := planner.NewArithmeticExpression(iCol, planner.NewConstantValueExpression(common.NewIntValue(3)), planner.Mod)
	m := planner.NewMapNode(r, []planner.Expr{iCol, score}, []string{"i", "score"})
	scoreCol := planner.NewColumnValueExpression(1, planner.OutputTypes(m), "score")
	orderBy := []planner.OrderByClause{{Expr: scoreCol, Direction: planner.SortOrderDescending}}

	sorted, err := Run(planner.NewSortNode(m, orderBy), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 8, 1, 4, 7, 0, 3, 6}, ids(t, sorted, 0), "ties keep input order")

	top, err := Run(planner.NewTopNNode(m, 4, orderBy), nil)
	require.NoError(t, err)
	assert.Equal(t, ids(t, sorted, 0)[:4], ids(t, top, 0))

	_, err = Run(planner.NewSortNode(m, orderBy), NewExecutorContext(5))
	assert.True(t, common.HasCode(err, common.ResourceLimitError))
}

func TestBasicExecutor_Aggregate(t *testing.T) {
	r := planner.NewRangeNode("i", 0, 10)
	types := planner.OutputTypes(r)
	iCol := planner.NewColumnValueExpression(0, types, "i")
	parity := planner.NewArithmeticExpression(iCol, planner.NewConstantValueExpression(common.NewIntValue(2)), planner.Mod)

	agg := planner.NewAggregateNode(r, []planner.Expr{parity}, []planner.AggregateClause{
		{Type: planner.AggCount, Expr: iCol},
		{Type: planner.AggSum, Expr: iCol},
		{Type: planner.AggMax, Expr: iCol},
	})
	tuples, err := Run(agg, nil)
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	assert.Equal(t, "(0, 5, 20, 8)", tuples[0].String())
	assert.Equal(t, "(1, 5, 25, 9)", tuples[1].String())

	global := planner.NewAggregateNode(planner.NewRangeNode("i", 0, 0), nil, []planner.AggregateClause{
		{Type: planner.AggCount, Expr: iCol},
		{Type: planner.AggMin, Expr: iCol},
	})
	tuples, err = Run(global, nil)
	require.NoError(t, err)
	require.Len(t, tuples, 1)
	assert.Equal(t, "(0, NULL)", tuples[0].String())
}

func TestBasicExecutor_Restart(t *testing.T) {
	src := setupTestSource(t, 10)
	limitExec := NewLimitExecutor(planner.NewLimitNode(src, 2), NewMaterializeExecutor(planner.NewMaterializeNode(src), NewSourceExecutor(src)))
	ctx := NewExecutorContext(0)

	// Run 1
	require.NoError(t, limitExec.Init(ctx))
	assert.True(t, limitExec.Next()) // 0
	assert.True(t, limitExec.Next()) // 1
	assert.False(t, limitExec.Next())

	// Run 2 (Restart)
	require.NoError(t, limitExec.Init(ctx))
	assert.True(t, limitExec.Next()) // 0
	current := limitExec.Current()
	assert.Equal(t, int64(0), current.GetValue(0).IntValue())
}

func TestBuildSharedNodes(t *testing.T) {
	shared := planner.NewRangeNode("x", 0, 3)
	plan := planner.NewUnionNode(shared, planner.NewIdentityNode(shared))
	tuples, err := Run(plan, nil)
	require.NoError(t, err)
	require.Len(t, tuples, 3)
	assert.Equal(t, "(1, 1)", tuples[1].String())
}

package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/storage"
)

// Schema: [id(int), name(string), age(int), bio(string)]
// Values: [1, "alice", NULL, NULL]
func makeExprTestTuple() (storage.Tuple, []common.Type) {
	schema := []common.Type{common.IntType, common.StringType, common.IntType, common.StringType}
	tup := storage.FromValues(
		common.NewIntValue(1),
		common.NewStringValue("alice"),
		common.NewNullInt(),
		common.NewNullString(),
	)
	return tup, schema
}

func TestComparisonLogic(t *testing.T) {
	tup, schema := makeExprTestTuple()

	id := NewColumnValueExpression(0, schema, "id")
	age := NewColumnValueExpression(2, schema, "age")
	const1 := NewConstantValueExpression(common.NewIntValue(1))
	const5 := NewConstantValueExpression(common.NewIntValue(5))

	tests := []struct {
		name     string
		left     Expr
		right    Expr
		op       ComparisonType
		expected int // 1=True, 0=False, -1=Null
	}{
		{"1=1", id, const1, Equal, 1},
		{"1=5", id, const5, Equal, 0},
		{"1<5", id, const5, LessThan, 1},
		{"1>=5", id, const5, GreaterThanOrEqual, 0},
		{"1=NULL", id, age, Equal, -1},
		{"NULL=NULL", age, age, Equal, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewComparisonExpression(tt.left, tt.right, tt.op).Eval(tup)
			if tt.expected == -1 {
				assert.True(t, res.IsNull(), "Expected NULL")
			} else {
				assert.False(t, res.IsNull(), "Expected Value")
				assert.Equal(t, int64(tt.expected), res.IntValue())
			}
		})
	}
}

func TestThreeValuedLogic(t *testing.T) {
	tup := storage.FromValues()

	T := NewConstantValueExpression(common.NewIntValue(1))
	F := NewConstantValueExpression(common.NewIntValue(0))
	N := NewConstantValueExpression(common.NewNullInt())

	tests := []struct {
		name     string
		expr     Expr
		expected int // 1=True, 0=False, -1=Null
	}{
		{"T AND N", NewBinaryLogicExpression(T, N, And), -1},
		{"F AND N", NewBinaryLogicExpression(F, N, And), 0},
		{"T OR N", NewBinaryLogicExpression(T, N, Or), 1},
		{"F OR N", NewBinaryLogicExpression(F, N, Or), -1},
		{"NOT T", NewNegationExpression(T), 0},
		{"NOT N", NewNegationExpression(N), -1},
		{"N IS NULL", NewNullCheckExpression(N, IsNull), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.expr.Eval(tup)
			if tt.expected == -1 {
				assert.True(t, res.IsNull())
			} else {
				assert.Equal(t, int64(tt.expected), res.IntValue())
			}
		})
	}
}

func TestArithmeticAndStrings(t *testing.T) {
	tup := storage.FromValues()
	val10 := NewConstantValueExpression(common.NewIntValue(10))
	val0 := NewConstantValueExpression(common.NewIntValue(0))
	hello := NewConstantValueExpression(common.NewStringValue("hello"))

	assert.Equal(t, int64(30), NewArithmeticExpression(val10, NewConstantValueExpression(common.NewIntValue(20)), Add).Eval(tup).IntValue())
	assert.True(t, NewArithmeticExpression(val10, val0, Div).Eval(tup).IsNull(), "division by zero is NULL")
	assert.Equal(t, "hellohello", NewStringConcatenation(hello, hello).Eval(tup).StringValue())

	like := NewLikeExpression(hello, NewConstantValueExpression(common.NewStringValue("he__o")))
	assert.Equal(t, int64(1), like.Eval(tup).IntValue())
	escaped := NewLikeExpression(
		NewConstantValueExpression(common.NewStringValue("100%")),
		NewConstantValueExpression(common.NewStringValue("100\\%")))
	assert.Equal(t, int64(1), escaped.Eval(tup).IntValue())
}

func TestRemapColumns(t *testing.T) {
	schema := []common.Type{common.IntType, common.IntType, common.StringType}
	a := NewColumnValueExpression(0, schema, "a")
	c := NewColumnValueExpression(2, schema, "c")
	pred := NewBinaryLogicExpression(
		NewComparisonExpression(a, NewConstantValueExpression(common.NewIntValue(3)), GreaterThan),
		NewNullCheckExpression(c, IsNotNull),
		And)

	// a lives at offset 4 and c at offset 1 below the projection
	remapped := RemapColumns(pred, []int{4, 0, 1})
	assert.Equal(t, []int{4, 1}, ReferencedColumns(remapped))
	assert.Equal(t, []int{0, 2}, ReferencedColumns(pred), "the original expression must not change")
	assert.Equal(t, pred.String(), remapped.String(), "names are kept")

	tup := storage.FromValues(
		common.NewStringValue("x"),
		common.NewStringValue("region"),
		common.NewIntValue(0),
		common.NewIntValue(0),
		common.NewIntValue(7),
	)
	assert.Equal(t, int64(1), remapped.Eval(tup).IntValue())
}

func TestRewriteSharesUntouchedSubtrees(t *testing.T) {
	k := NewConstantValueExpression(common.NewIntValue(1))
	e := NewArithmeticExpression(k, k, Add)
	same := RewriteExpr(e, func(x Expr) Expr { return x })
	assert.Same(t, e, same)
}

func TestReferencedColumnsDeduplicates(t *testing.T) {
	schema := []common.Type{common.IntType, common.IntType}
	b := NewColumnValueExpression(1, schema, "b")
	e := NewArithmeticExpression(b, NewArithmeticExpression(b, NewColumnValueExpression(0, schema, "a"), Mult), Add)
	require.Equal(t, []int{1, 0}, ReferencedColumns(e))
}

func TestIsConstantTrue(t *testing.T) {
	assert.True(t, IsConstantTrue(NewConstantValueExpression(common.NewIntValue(1))))
	assert.False(t, IsConstantTrue(NewConstantValueExpression(common.NewIntValue(0))))
	assert.False(t, IsConstantTrue(NewConstantValueExpression(common.NewNullInt())))
	assert.False(t, IsConstantTrue(NewColumnValueExpression(0, []common.Type{common.IntType}, "a")))
}

func TestSubstituteColumns(t *testing.T) {
	schema := []common.Type{common.IntType, common.IntType}
	a := NewColumnValueExpression(0, schema, "a")
	b := NewColumnValueExpression(1, schema, "b")
	// output column 0 is a+b, output column 1 is a
	computed := []Expr{NewArithmeticExpression(a, b, Add), a}

	pred := NewComparisonExpression(
		NewColumnValueExpression(0, []common.Type{common.IntType, common.IntType}, "total"),
		NewColumnValueExpression(1, []common.Type{common.IntType, common.IntType}, "x"),
		GreaterThan)
	rewritten := SubstituteColumns(pred, computed)
	assert.Equal(t, []int{0, 1}, ReferencedColumns(rewritten))

	tup := storage.FromValues(common.NewIntValue(2), common.NewIntValue(3))
	assert.Equal(t, int64(1), rewritten.Eval(tup).IntValue())
	assert.Equal(t, int64(0), SubstituteColumns(pred, []Expr{a, computed[0]}).Eval(tup).IntValue())
}

package planner

import (
	"fmt"
	"regexp"
	"strings"

	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/storage"
)

// Expr represents a node in an expression tree.
// Expressions are stateless and immutable plan nodes.
type Expr interface {
	// Eval evaluates the expression against the provided tuple.
	Eval(t storage.Tuple) common.Value

	// OutputType returns the type of value this expression produces.
	OutputType() common.Type

	// String returns a string representation of the expression.
	String() string

	// Children returns the direct sub-expressions, in order.
	Children() []Expr

	// WithChildren returns a copy of the expression over the given sub-expressions. The number of children must
	// match Children().
	WithChildren(children []Expr) Expr
}

// BoundValueExpr performs computation on an input tuple.
type BoundValueExpr struct {
	fieldOffset int // offset of the column in the projected tuple
	outputType  common.Type
	name        string
}

func NewColumnValueExpression(fieldOffset int, tupleSchema []common.Type, name string) *BoundValueExpr {
	return &BoundValueExpr{
		fieldOffset: fieldOffset,
		outputType:  tupleSchema[fieldOffset],
		name:        name,
	}
}

func (e *BoundValueExpr) Eval(t storage.Tuple) common.Value {
	return t.GetValue(e.fieldOffset)
}

func (e *BoundValueExpr) OutputType() common.Type {
	return e.outputType
}

func (e *BoundValueExpr) String() string {
	return e.name
}

type ConstantValueExpr struct {
	val common.Value
}

func NewConstantValueExpression(val common.Value) *ConstantValueExpr {
	return &ConstantValueExpr{val: val}
}

func (e *ConstantValueExpr) Eval(t storage.Tuple) common.Value {
	return e.val
}

func (e *ConstantValueExpr) OutputType() common.Type {
	return e.val.Type()
}

func (e *ConstantValueExpr) String() string {
	if e.val.Type() == common.StringType {
		return fmt.Sprintf("'%s'", e.val.StringValue())
	}
	return fmt.Sprintf("%d", e.val.IntValue())
}

type ComparisonType int

const (
	Equal ComparisonType = iota
	NotEqual
	GreaterThan
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual
)

func (c ComparisonType) String() string {
	switch c {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case GreaterThanOrEqual:
		return ">="
	case LessThanOrEqual:
		return "<="
	}
	return "???"
}

type ComparisonExpression struct {
	left     Expr
	right    Expr
	compType ComparisonType
}

func NewComparisonExpression(left Expr, right Expr, compType ComparisonType) *ComparisonExpression {
	return &ComparisonExpression{
		left:     left,
		right:    right,
		compType: compType,
	}
}

func (e *ComparisonExpression) Eval(t storage.Tuple) common.Value {
	val1 := e.left.Eval(t)
	val2 := e.right.Eval(t)

	if val1.IsNull() || val2.IsNull() {
		return common.NewNullInt()
	}

	cmp := val1.Compare(val2)
	var result bool

	switch e.compType {
	case Equal:
		result = cmp == 0
	case NotEqual:
		result = cmp != 0
	case GreaterThan:
		result = cmp > 0
	case LessThan:
		result = cmp < 0
	case GreaterThanOrEqual:
		result = cmp >= 0
	case LessThanOrEqual:
		result = cmp <= 0
	}
	if result {
		return common.NewIntValue(1)
	}
	return common.NewIntValue(0)
}

func (e *ComparisonExpression) OutputType() common.Type {
	return common.IntType
}

func (e *ComparisonExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.compType.String(), e.right.String())
}

func ExprIsTrue(v common.Value) bool {
	// Must be an integer type, not null, and non-zero.
	return v.Type() == common.IntType && !v.IsNull() && v.IntValue() != 0
}

func ExprIsFalse(v common.Value) bool {
	return v.Type() == common.IntType && !v.IsNull() && v.IntValue() == 0
}

type BinaryLogicType int

const (
	And BinaryLogicType = iota
	Or
)

func (l BinaryLogicType) String() string {
	switch l {
	case And:
		return "AND"
	case Or:
		return "OR"
	}
	return "???"
}

type BinaryLogicExpression struct {
	left      Expr
	right     Expr
	logicType BinaryLogicType
}

func NewBinaryLogicExpression(left Expr, right Expr, logicType BinaryLogicType) *BinaryLogicExpression {
	return &BinaryLogicExpression{
		left:      left,
		right:     right,
		logicType: logicType,
	}
}

func (e *BinaryLogicExpression) Eval(t storage.Tuple) common.Value {
	val1 := e.left.Eval(t)
	val2 := e.right.Eval(t)

	switch e.logicType {
	case And:
		if ExprIsTrue(val1) && ExprIsTrue(val2) {
			return common.NewIntValue(1)
		} else if ExprIsFalse(val1) || ExprIsFalse(val2) {
			return common.NewIntValue(0)
		}
		return common.NewNullInt()
	case Or:
		if ExprIsTrue(val1) || ExprIsTrue(val2) {
			return common.NewIntValue(1)
		} else if ExprIsFalse(val1) && ExprIsFalse(val2) {
			return common.NewIntValue(0)
		}
		return common.NewNullInt()
	default:
		panic("unknown logic type")
	}
}

func (e *BinaryLogicExpression) OutputType() common.Type {
	return common.IntType
}

func (e *BinaryLogicExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.logicType.String(), e.right.String())
}

type NegationExpression struct {
	child Expr
}

func NewNegationExpression(child Expr) *NegationExpression {
	return &NegationExpression{
		child: child,
	}
}

func (e *NegationExpression) Eval(t storage.Tuple) common.Value {
	val := e.child.Eval(t)
	if val.IsNull() {
		return common.NewNullInt()
	}
	if ExprIsTrue(val) {
		return common.NewIntValue(0)
	}
	return common.NewIntValue(1)
}

func (e *NegationExpression) OutputType() common.Type {
	return common.IntType
}

func (e *NegationExpression) String() string {
	return fmt.Sprintf("!(%s)", e.child.String())
}

type NullCheckType int

const (
	IsNull NullCheckType = iota
	IsNotNull
)

func (n NullCheckType) String() string {
	switch n {
	case IsNull:
		return "IS NULL"
	case IsNotNull:
		return "IS NOT NULL"
	}
	return "???"
}

type NullCheckExpression struct {
	child     Expr
	checkType NullCheckType
}

func NewNullCheckExpression(child Expr, checkType NullCheckType) *NullCheckExpression {
	return &NullCheckExpression{
		child:     child,
		checkType: checkType,
	}
}

func (e *NullCheckExpression) Eval(t storage.Tuple) common.Value {
	val := e.child.Eval(t)
	isNull := val.IsNull()

	var result bool
	switch e.checkType {
	case IsNull:
		result = isNull
	case IsNotNull:
		result = !isNull
	}

	if result {
		return common.NewIntValue(1)
	}
	return common.NewIntValue(0)
}

func (e *NullCheckExpression) OutputType() common.Type {
	return common.IntType
}

func (e *NullCheckExpression) String() string {
	return fmt.Sprintf("(%s %s)", e.child.String(), e.checkType.String())
}

type ArithmeticType int

const (
	Add ArithmeticType = iota
	Sub
	Mult
	Div
	Mod
)

func (a ArithmeticType) String() string {
	switch a {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mult:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	}
	return "?"
}

type ArithmeticExpression struct {
	left  Expr
	right Expr
	op    ArithmeticType
}

func NewArithmeticExpression(left Expr, right Expr, op ArithmeticType) *ArithmeticExpression {
	return &ArithmeticExpression{
		left:  left,
		right: right,
		op:    op,
	}
}

func (e *ArithmeticExpression) Eval(t storage.Tuple) common.Value {
	val1 := e.left.Eval(t)
	val2 := e.right.Eval(t)

	if val1.IsNull() || val2.IsNull() {
		return common.NewNullInt()
	}

	v1 := val1.IntValue()
	v2 := val2.IntValue()
	var result int64

	switch e.op {
	case Add:
		result = v1 + v2
	case Sub:
		result = v1 - v2
	case Mult:
		result = v1 * v2
	case Div:
		if v2 == 0 {
			return common.NewNullInt()
		}
		result = v1 / v2
	case Mod:
		if v2 == 0 {
			return common.NewNullInt()
		}
		result = v1 % v2
	}
	return common.NewIntValue(result)
}

func (e *ArithmeticExpression) OutputType() common.Type {
	return common.IntType
}

func (e *ArithmeticExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.left.String(), e.op.String(), e.right.String())
}

// StringConcatExpression handles string manipulation.
type StringConcatExpression struct {
	left  Expr
	right Expr
}

func NewStringConcatenation(left Expr, right Expr) *StringConcatExpression {
	return &StringConcatExpression{left: left, right: right}
}

func (e *StringConcatExpression) Eval(t storage.Tuple) common.Value {
	val1 := e.left.Eval(t)
	val2 := e.right.Eval(t)

	if val1.IsNull() || val2.IsNull() {
		return common.NewNullString()
	}

	return common.NewStringValue(val1.StringValue() + val2.StringValue())
}

func (e *StringConcatExpression) OutputType() common.Type {
	return common.StringType
}

func (e *StringConcatExpression) String() string {
	return fmt.Sprintf("(%s || %s)", e.left.String(), e.right.String())
}

type LikeExpression struct {
	left  Expr // The value to check
	right Expr // The pattern (usually a constant)
}

func NewLikeExpression(left Expr, right Expr) *LikeExpression {
	return &LikeExpression{left: left, right: right}
}

func (e *LikeExpression) Eval(t storage.Tuple) common.Value {
	val := e.left.Eval(t)
	patternVal := e.right.Eval(t)

	if val.IsNull() || patternVal.IsNull() {
		return common.NewNullInt() // Boolean NULL
	}

	target := val.StringValue()
	pattern := patternVal.StringValue()

	// Convert SQL LIKE syntax to Go Regex manually.
	// We cannot use ReplaceAll on QuoteMeta'd string because QuoteMeta does not escape % or _,
	// so we wouldn't know if a % was literal or a wildcard.
	var regexPattern strings.Builder
	regexPattern.WriteString("^")
	chars := []rune(pattern)
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		if c == '\\' {
			// Look ahead for escape
			if i+1 < len(chars) {
				next := chars[i+1]
				if next == '%' || next == '_' {
					// It was a literal % or _
					regexPattern.WriteString(regexp.QuoteMeta(string(next)))
					i++
					continue
				}
			}
			// Just a normal backslash (or followed by non-wildcard), treat as literal
			regexPattern.WriteString(regexp.QuoteMeta(string(c)))
		} else if c == '%' {
			regexPattern.WriteString(".*")
		} else if c == '_' {
			regexPattern.WriteString(".")
		} else {
			regexPattern.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	regexPattern.WriteString("$")

	matched, err := regexp.MatchString(regexPattern.String(), target)
	if err != nil {
		return common.NewIntValue(0)
	}

	if matched {
		return common.NewIntValue(1)
	}
	return common.NewIntValue(0)
}

func (e *LikeExpression) OutputType() common.Type {
	return common.IntType
}

func (e *LikeExpression) String() string {
	return fmt.Sprintf("(%s LIKE %s)", e.left.String(), e.right.String())
}

func (e *BoundValueExpr) Children() []Expr { return nil }

func (e *BoundValueExpr) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 0, "column reference has no children")
	return e
}

// FieldOffset returns the offset of the referenced column in the input tuple.
func (e *BoundValueExpr) FieldOffset() int {
	return e.fieldOffset
}

// WithOffset returns a copy of the column reference pointing at a different input offset.
func (e *BoundValueExpr) WithOffset(offset int) *BoundValueExpr {
	return &BoundValueExpr{fieldOffset: offset, outputType: e.outputType, name: e.name}
}

func (e *ConstantValueExpr) Children() []Expr { return nil }

func (e *ConstantValueExpr) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 0, "constant has no children")
	return e
}

// Value returns the constant.
func (e *ConstantValueExpr) Value() common.Value {
	return e.val
}

func (e *ComparisonExpression) Children() []Expr { return []Expr{e.left, e.right} }

func (e *ComparisonExpression) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 2, "comparison takes two children")
	return NewComparisonExpression(children[0], children[1], e.compType)
}

func (e *BinaryLogicExpression) Children() []Expr { return []Expr{e.left, e.right} }

func (e *BinaryLogicExpression) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 2, "logic expression takes two children")
	return NewBinaryLogicExpression(children[0], children[1], e.logicType)
}

func (e *NegationExpression) Children() []Expr { return []Expr{e.child} }

func (e *NegationExpression) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 1, "negation takes one child")
	return NewNegationExpression(children[0])
}

func (e *NullCheckExpression) Children() []Expr { return []Expr{e.child} }

func (e *NullCheckExpression) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 1, "null check takes one child")
	return NewNullCheckExpression(children[0], e.checkType)
}

func (e *ArithmeticExpression) Children() []Expr { return []Expr{e.left, e.right} }

func (e *ArithmeticExpression) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 2, "arithmetic takes two children")
	return NewArithmeticExpression(children[0], children[1], e.op)
}

func (e *StringConcatExpression) Children() []Expr { return []Expr{e.left, e.right} }

func (e *StringConcatExpression) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 2, "concatenation takes two children")
	return NewStringConcatenation(children[0], children[1])
}

func (e *LikeExpression) Children() []Expr { return []Expr{e.left, e.right} }

func (e *LikeExpression) WithChildren(children []Expr) Expr {
	common.Assert(len(children) == 2, "LIKE takes two children")
	return NewLikeExpression(children[0], children[1])
}

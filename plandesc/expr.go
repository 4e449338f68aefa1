package plandesc

import (
	"encoding/json"

	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
)

var comparisons = map[string]planner.ComparisonType{
	"eq": planner.Equal,
	"ne": planner.NotEqual,
	"gt": planner.GreaterThan,
	"lt": planner.LessThan,
	"ge": planner.GreaterThanOrEqual,
	"le": planner.LessThanOrEqual,
}

var arithmetic = map[string]planner.ArithmeticType{
	"add": planner.Add,
	"sub": planner.Sub,
	"mul": planner.Mult,
	"div": planner.Div,
	"mod": planner.Mod,
}

var logic = map[string]planner.BinaryLogicType{
	"and": planner.And,
	"or":  planner.Or,
}

var aggregates = map[string]planner.AggregatorType{
	"count": planner.AggCount,
	"sum":   planner.AggSum,
	"min":   planner.AggMin,
	"max":   planner.AggMax,
}

// resolveColumn finds a column by name (first match) or by offset.
func resolveColumn(schema []planner.Column, ref any) (int, error) {
	var idx int64
	switch r := ref.(type) {
	case string:
		for i, c := range schema {
			if c.Name == r {
				return i, nil
			}
		}
		return 0, common.NewPlanError(common.NoSuchObjectError, "no column named %q", r)
	case json.Number:
		i, err := r.Int64()
		if err != nil {
			return 0, invalid("column offset %s is not an integer", r)
		}
		idx = i
	case float64:
		idx = int64(r)
		if float64(idx) != r {
			return 0, invalid("column offset %v is not an integer", r)
		}
	case int:
		idx = int64(r)
	default:
		return 0, invalid("column reference %v must be a name or an offset", ref)
	}
	if idx < 0 || idx >= int64(len(schema)) {
		return 0, invalid("column offset %d out of range [0, %d)", idx, len(schema))
	}
	return int(idx), nil
}

func bindExpr(schema []planner.Column, d ExprDesc) (planner.Expr, error) {
	set := 0
	for _, present := range []bool{d.Col != nil, d.Int != nil, d.Str != nil, d.Null != "", d.Op != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, invalid("expression must set exactly one of col, int, str, null_of or op")
	}

	switch {
	case d.Col != nil:
		idx, err := resolveColumn(schema, d.Col)
		if err != nil {
			return nil, err
		}
		types := make([]common.Type, len(schema))
		for i, c := range schema {
			types[i] = c.Type
		}
		return planner.NewColumnValueExpression(idx, types, schema[idx].Name), nil
	case d.Int != nil:
		return planner.NewConstantValueExpression(common.NewIntValue(*d.Int)), nil
	case d.Str != nil:
		return planner.NewConstantValueExpression(common.NewStringValue(*d.Str)), nil
	case d.Null != "":
		t, ok := common.ParseType(d.Null)
		if !ok {
			return nil, invalid("unknown type %q for null", d.Null)
		}
		return planner.NewConstantValueExpression(common.NewNull(t)), nil
	}

	args := make([]planner.Expr, len(d.Args))
	for i, a := range d.Args {
		e, err := bindExpr(schema, a)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return bindOp(d.Op, args)
}

func bindOp(op string, args []planner.Expr) (planner.Expr, error) {
	if ct, ok := comparisons[op]; ok {
		if err := checkArgs(op, args, 2, common.DefaultType); err != nil {
			return nil, err
		}
		if args[0].OutputType() != args[1].OutputType() {
			return nil, invalid("%s compares %s with %s", op, args[0].OutputType(), args[1].OutputType())
		}
		return planner.NewComparisonExpression(args[0], args[1], ct), nil
	}
	if at, ok := arithmetic[op]; ok {
		if err := checkArgs(op, args, 2, common.IntType); err != nil {
			return nil, err
		}
		return planner.NewArithmeticExpression(args[0], args[1], at), nil
	}
	if lt, ok := logic[op]; ok {
		if len(args) < 2 {
			return nil, invalid("%s needs at least 2 arguments, got %d", op, len(args))
		}
		if err := checkArgs(op, args, len(args), common.IntType); err != nil {
			return nil, err
		}
		e := args[0]
		for _, a := range args[1:] {
			e = planner.NewBinaryLogicExpression(e, a, lt)
		}
		return e, nil
	}

	switch op {
	case "not":
		if err := checkArgs(op, args, 1, common.IntType); err != nil {
			return nil, err
		}
		return planner.NewNegationExpression(args[0]), nil
	case "is_null", "is_not_null":
		if err := checkArgs(op, args, 1, common.DefaultType); err != nil {
			return nil, err
		}
		check := planner.IsNull
		if op == "is_not_null" {
			check = planner.IsNotNull
		}
		return planner.NewNullCheckExpression(args[0], check), nil
	case "concat":
		if err := checkArgs(op, args, 2, common.StringType); err != nil {
			return nil, err
		}
		return planner.NewStringConcatenation(args[0], args[1]), nil
	case "like":
		if err := checkArgs(op, args, 2, common.StringType); err != nil {
			return nil, err
		}
		return planner.NewLikeExpression(args[0], args[1]), nil
	}
	return nil, invalid("unknown operator %q", op)
}

// checkArgs verifies the argument count and, unless want is DefaultType, the type of every argument.
func checkArgs(op string, args []planner.Expr, n int, want common.Type) error {
	if len(args) != n {
		return invalid("%s needs %d arguments, got %d", op, n, len(args))
	}
	if want == common.DefaultType {
		return nil
	}
	for _, a := range args {
		if a.OutputType() != want {
			return invalid("%s needs %s arguments, got %s of type %s", op, want, a, a.OutputType())
		}
	}
	return nil
}

func bindAggregate(schema []planner.Column, a AggDesc) (planner.AggregateClause, error) {
	t, ok := aggregates[a.Func]
	if !ok {
		return planner.AggregateClause{}, invalid("unknown aggregate %q", a.Func)
	}
	e, err := bindExpr(schema, a.Expr)
	if err != nil {
		return planner.AggregateClause{}, err
	}
	if t == planner.AggSum && e.OutputType() != common.IntType {
		return planner.AggregateClause{}, invalid("sum of non-int expression %s", e)
	}
	return planner.AggregateClause{Type: t, Expr: e}, nil
}

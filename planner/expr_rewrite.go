package planner

// RewriteExpr rebuilds e bottom-up, replacing every sub-expression with fn's result.
// Sub-trees fn leaves untouched are shared with the original.
func RewriteExpr(e Expr, fn func(Expr) Expr) Expr {
	children := e.Children()
	if len(children) > 0 {
		changed := false
		rewritten := make([]Expr, len(children))
		for i, c := range children {
			rewritten[i] = RewriteExpr(c, fn)
			changed = changed || rewritten[i] != c
		}
		if changed {
			e = e.WithChildren(rewritten)
		}
	}
	return fn(e)
}

// RemapColumns rewrites every column reference in e through mapping: a reference to offset i becomes a reference
// to offset mapping[i]. It is used when an expression moves below an operator that reorders columns.
func RemapColumns(e Expr, mapping []int) Expr {
	return RewriteExpr(e, func(x Expr) Expr {
		if col, ok := x.(*BoundValueExpr); ok {
			return col.WithOffset(mapping[col.FieldOffset()])
		}
		return x
	})
}

// SubstituteColumns replaces every column reference in e with the expression computing that column, so that a
// predicate over an operator's output can be evaluated against the operator's input instead.
func SubstituteColumns(e Expr, exprs []Expr) Expr {
	return RewriteExpr(e, func(x Expr) Expr {
		if col, ok := x.(*BoundValueExpr); ok {
			return exprs[col.FieldOffset()]
		}
		return x
	})
}

// ReferencedColumns returns the input offsets read by e, in first-use order without duplicates.
func ReferencedColumns(e Expr) []int {
	var out []int
	seen := make(map[int]bool)
	RewriteExpr(e, func(x Expr) Expr {
		if col, ok := x.(*BoundValueExpr); ok && !seen[col.FieldOffset()] {
			seen[col.FieldOffset()] = true
			out = append(out, col.FieldOffset())
		}
		return x
	})
	return out
}

// IsConstantTrue reports whether e is a literal that always evaluates to true.
func IsConstantTrue(e Expr) bool {
	c, ok := e.(*ConstantValueExpr)
	return ok && ExprIsTrue(c.Value())
}

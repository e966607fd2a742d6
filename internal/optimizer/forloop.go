package optimizer

import "github.com/linescript-lang/lsc/internal/ast"

// passForLoop resolves literal-bound for-range loops to their trip
// count and, depending on that count, deletes, unrolls, or
// closed-form-reduces the loop (spec §4.4 rule 7). `parallel` loops are
// left untouched: their loop-shape is meaningful to codegen.
func (o *optimizer) passForLoop(fn *ast.Function) bool {
	changed := false
	fn.Body = rewriteForLoops(fn.Body, &changed)
	return changed
}

func rewriteForLoops(stmts []ast.Stmt, changed *bool) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.ForRangeStmt:
			n.Body = rewriteForLoops(n.Body, changed)
			if replacement, ok := tryReduceForRange(n); ok {
				*changed = true
				out = append(out, replacement...)
				continue
			}
			out = append(out, n)
		case *ast.IfStmt:
			n.Then = rewriteForLoops(n.Then, changed)
			for j := range n.Elifs {
				n.Elifs[j].Body = rewriteForLoops(n.Elifs[j].Body, changed)
			}
			n.Else = rewriteForLoops(n.Else, changed)
			out = append(out, n)
		case *ast.WhileStmt:
			n.Body = rewriteForLoops(n.Body, changed)
			out = append(out, n)
		case *ast.FormatBlock:
			n.Body = rewriteForLoops(n.Body, changed)
			out = append(out, n)
		default:
			out = append(out, s)
		}
	}
	return out
}

// tryReduceForRange attempts every applicable trip-count-driven rule in
// turn, returning the statements to splice in place of the loop.
func tryReduceForRange(n *ast.ForRangeStmt) ([]ast.Stmt, bool) {
	if n.Parallel {
		return nil, false
	}
	start, stop, step, ok := literalForRangeBounds(n)
	if !ok {
		return nil, false
	}
	trip := tripCount(start, stop, step)

	if trip == 0 {
		return []ast.Stmt{}, true
	}
	if trip >= 1 && trip <= 8 && !hasBreakOrContinue(n.Body) && !hasShadowingDeclare(n.Body, n.Var) {
		return unrollLoop(n, start, step, trip), true
	}
	if reduced, ok := tryClosedForm(n, start, step, trip); ok {
		return reduced, true
	}
	return nil, false
}

func literalForRangeBounds(n *ast.ForRangeStmt) (start, stop, step int64, ok bool) {
	startLit, ok1 := n.Start.(*ast.IntLit)
	stopLit, ok2 := n.Stop.(*ast.IntLit)
	if !ok1 || !ok2 {
		return 0, 0, 0, false
	}
	step = 1
	if n.Step != nil {
		stepLit, ok3 := n.Step.(*ast.IntLit)
		if !ok3 {
			return 0, 0, 0, false
		}
		step = stepLit.Value
	}
	return startLit.Value, stopLit.Value, step, true
}

// tripCount computes the number of iterations of a half-open [start,
// stop) range stepping by step (step != 0 is a checker-enforced
// invariant).
func tripCount(start, stop, step int64) int64 {
	if step > 0 {
		if stop <= start {
			return 0
		}
		return (stop - start + step - 1) / step
	}
	if stop >= start {
		return 0
	}
	return (start - stop + (-step) - 1) / (-step)
}

func hasBreakOrContinue(body []ast.Stmt) bool {
	found := false
	walkBlockStmts(body, func(s ast.Stmt) {
		switch s.(type) {
		case *ast.BreakStmt, *ast.ContinueStmt:
			found = true
		}
	})
	return found
}

func hasShadowingDeclare(body []ast.Stmt, loopVar string) bool {
	found := false
	walkBlockStmts(body, func(s ast.Stmt) {
		if d, ok := s.(*ast.DeclareStmt); ok && d.Name == loopVar {
			found = true
		}
	})
	return found
}

// unrollLoop clones body `trip` times with the loop variable substituted
// by its literal value for that iteration (spec §4.4 rule 7, trip count
// 1-8).
func unrollLoop(n *ast.ForRangeStmt, start, step, trip int64) []ast.Stmt {
	var out []ast.Stmt
	i := start
	for k := int64(0); k < trip; k++ {
		subst := map[string]ast.Expr{n.Var: ast.NewIntLit(n.Pos(), i)}
		for _, s := range n.Body {
			out = append(out, cloneStmtSubst(s, subst))
		}
		i += step
	}
	return out
}

// cloneStmtSubst deep-clones a statement, substituting Idents named in
// subst with clones of their replacement expression wherever an
// expression is reachable.
func cloneStmtSubst(s ast.Stmt, subst map[string]ast.Expr) ast.Stmt {
	switch n := s.(type) {
	case *ast.DeclareStmt:
		clone := ast.NewDeclareStmt(n.Pos(), n.Name, nil)
		clone.DeclaredType = n.DeclaredType
		clone.HasType = n.HasType
		clone.Const = n.Const
		clone.Owned = n.Owned
		if n.Init != nil {
			clone.Init = cloneExprSubst(n.Init, subst)
		}
		return clone
	case *ast.AssignStmt:
		var target ast.Expr
		if n.Target != nil {
			target = cloneExprSubst(n.Target, subst)
		}
		clone := ast.NewAssignStmt(n.Pos(), n.Name, n.Op, cloneExprSubst(n.Value, subst))
		clone.Target = target
		return clone
	case *ast.ExprStmt:
		return ast.NewExprStmt(n.Pos(), cloneExprSubst(n.X, subst))
	case *ast.ReturnStmt:
		var v ast.Expr
		if n.Value != nil {
			v = cloneExprSubst(n.Value, subst)
		}
		return ast.NewReturnStmt(n.Pos(), v)
	case *ast.IfStmt:
		clone := ast.NewIfStmt(n.Pos(), cloneExprSubst(n.Cond, subst), cloneStmtsSubst(n.Then, subst))
		for _, ei := range n.Elifs {
			clone.Elifs = append(clone.Elifs, ast.ElifClause{Cond: cloneExprSubst(ei.Cond, subst), Body: cloneStmtsSubst(ei.Body, subst)})
		}
		clone.Else = cloneStmtsSubst(n.Else, subst)
		return clone
	case *ast.WhileStmt:
		return ast.NewWhileStmt(n.Pos(), cloneExprSubst(n.Cond, subst), cloneStmtsSubst(n.Body, subst))
	case *ast.ForRangeStmt:
		clone := ast.NewForRangeStmt(n.Pos(), n.Var, cloneExprSubst(n.Start, subst), cloneExprSubst(n.Stop, subst), cloneStmtsSubst(n.Body, subst))
		if n.Step != nil {
			clone.Step = cloneExprSubst(n.Step, subst)
		}
		clone.Parallel = n.Parallel
		return clone
	case *ast.FormatBlock:
		var end ast.Expr
		if n.EndSuffix != nil {
			end = cloneExprSubst(n.EndSuffix, subst)
		}
		return ast.NewFormatBlock(n.Pos(), end, cloneStmtsSubst(n.Body, subst))
	case *ast.BreakStmt:
		return ast.NewBreakStmt(n.Pos())
	case *ast.ContinueStmt:
		return ast.NewContinueStmt(n.Pos())
	default:
		return s
	}
}

func cloneStmtsSubst(stmts []ast.Stmt, subst map[string]ast.Expr) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = cloneStmtSubst(s, subst)
	}
	return out
}

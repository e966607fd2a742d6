package optimizer

import "github.com/linescript-lang/lsc/internal/ast"

// passInline substitutes calls to small, non-recursive single-return
// functions with their (cloned, parameter-substituted) return expression
// (spec §4.4 rule 3): non-extern, ≤8 parameters, a single-statement body
// that is exactly `return expr`.
func (o *optimizer) passInline(fn *ast.Function) bool {
	changed := false
	fn.Body = rewriteStmts(fn.Body, func(e ast.Expr) ast.Expr {
		if inlined, ok := o.tryInlineCall(e, fn.Name); ok {
			changed = true
			return inlined
		}
		return e
	})
	return changed
}

// tryInlineCall inlines a single Call node if its callee resolves to an
// inline candidate; callerName guards against self-recursive inlining.
func (o *optimizer) tryInlineCall(e ast.Expr, callerName string) (ast.Expr, bool) {
	call, ok := e.(*ast.Call)
	if !ok || call.ResolvedClass != "" {
		return nil, false
	}
	candidate := o.findInlineCandidate(call.Callee)
	if candidate == nil || candidate.Name == callerName {
		return nil, false
	}
	if len(candidate.Params) != len(call.Args) {
		return nil, false
	}

	subst := make(map[string]ast.Expr, len(candidate.Params))
	for i, p := range candidate.Params {
		subst[p.Name] = call.Args[i]
	}
	ret := candidate.Body[0].(*ast.ReturnStmt)
	return cloneExprSubst(ret.Value, subst), true
}

// findInlineCandidate looks up a non-extern, ≤8-parameter function whose
// body is exactly one non-recursive `return expr` statement.
func (o *optimizer) findInlineCandidate(name string) *ast.Function {
	for _, fn := range o.prog.Functions {
		if fn.Name != name || fn.Extern || fn.ClassOwner != "" {
			continue
		}
		if len(fn.Params) > 8 || len(fn.Body) != 1 {
			continue
		}
		ret, ok := fn.Body[0].(*ast.ReturnStmt)
		if !ok || ret.Value == nil {
			continue
		}
		if callsSelf(ret.Value, fn.Name) {
			continue
		}
		return fn
	}
	return nil
}

func callsSelf(e ast.Expr, name string) bool {
	found := false
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		if e == nil || found {
			return
		}
		switch n := e.(type) {
		case *ast.UnaryOp:
			walk(n.X)
		case *ast.BinaryOp:
			walk(n.L)
			walk(n.R)
		case *ast.Call:
			if n.Callee == name {
				found = true
				return
			}
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.FieldGet:
			walk(n.Object)
		case *ast.MethodCall:
			walk(n.Object)
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return found
}

// cloneExprSubst deep-clones e, replacing any Ident matching a key in
// subst with a clone of the corresponding argument expression (the same
// clone-and-substitute idiom the macro expander uses at parse time).
func cloneExprSubst(e ast.Expr, subst map[string]ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Ident:
		if replacement, ok := subst[n.Name]; ok {
			return cloneExprSubst(replacement, nil)
		}
		return ast.NewIdent(n.Pos(), n.Name)
	case *ast.IntLit:
		return ast.NewIntLit(n.Pos(), n.Value)
	case *ast.FloatLit:
		return ast.NewFloatLit(n.Pos(), n.Value)
	case *ast.BoolLit:
		return ast.NewBoolLit(n.Pos(), n.Value)
	case *ast.StringLit:
		return ast.NewStringLit(n.Pos(), n.Value)
	case *ast.UnaryOp:
		return ast.NewUnaryOp(n.Pos(), n.Op, cloneExprSubst(n.X, subst))
	case *ast.BinaryOp:
		return ast.NewBinaryOp(n.Pos(), n.Op, cloneExprSubst(n.L, subst), cloneExprSubst(n.R, subst))
	case *ast.Call:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = cloneExprSubst(a, subst)
		}
		return ast.NewCall(n.Pos(), n.Callee, args)
	case *ast.FieldGet:
		return ast.NewFieldGet(n.Pos(), cloneExprSubst(n.Object, subst), n.Field)
	case *ast.MethodCall:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = cloneExprSubst(a, subst)
		}
		return ast.NewMethodCall(n.Pos(), cloneExprSubst(n.Object, subst), n.Method, args)
	default:
		return e
	}
}

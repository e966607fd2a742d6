package optimizer

import (
	"strconv"

	"github.com/linescript-lang/lsc/internal/ast"
)

// passConstProp maintains, within each straight-line segment (reset at
// the first control-flow statement), a map from variable to its
// last-known literal i64 value; reads are folded, and a print/println
// call on a now-constant i64 argument is rewritten to print_str/
// println_str on the decimal form (spec §4.4 rule 8).
func (o *optimizer) passConstProp(fn *ast.Function) bool {
	changed := false
	foldConstPropBlock(fn.Body, &changed)
	return changed
}

func foldConstPropBlock(stmts []ast.Stmt, changed *bool) {
	known := map[string]int64{}
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.DeclareStmt:
			if n.Init != nil {
				n.Init = substituteAndFold(n.Init, known, changed)
			}
			if lit, ok := n.Init.(*ast.IntLit); ok && !n.Owned {
				known[n.Name] = lit.Value
			} else {
				delete(known, n.Name)
			}
		case *ast.AssignStmt:
			if n.Target != nil {
				n.Target = substituteAndFold(n.Target, known, changed)
				n.Value = substituteAndFold(n.Value, known, changed)
				continue
			}
			n.Value = substituteAndFold(n.Value, known, changed)
			if lit, ok := n.Value.(*ast.IntLit); ok {
				known[n.Name] = lit.Value
			} else {
				delete(known, n.Name)
			}
		case *ast.ExprStmt:
			n.X = substituteAndFold(n.X, known, changed)
			tryRewritePrintConst(n, changed)
		case *ast.ReturnStmt:
			if n.Value != nil {
				n.Value = substituteAndFold(n.Value, known, changed)
			}
			for k := range known {
				delete(known, k)
			}
		case *ast.IfStmt:
			n.Cond = substituteAndFold(n.Cond, known, changed)
			foldConstPropBlock(n.Then, changed)
			for i := range n.Elifs {
				n.Elifs[i].Cond = substituteAndFold(n.Elifs[i].Cond, known, changed)
				foldConstPropBlock(n.Elifs[i].Body, changed)
			}
			foldConstPropBlock(n.Else, changed)
			for k := range known {
				delete(known, k)
			}
		case *ast.WhileStmt:
			n.Cond = substituteAndFold(n.Cond, known, changed)
			foldConstPropBlock(n.Body, changed)
			for k := range known {
				delete(known, k)
			}
		case *ast.ForRangeStmt:
			n.Start = substituteAndFold(n.Start, known, changed)
			n.Stop = substituteAndFold(n.Stop, known, changed)
			if n.Step != nil {
				n.Step = substituteAndFold(n.Step, known, changed)
			}
			foldConstPropBlock(n.Body, changed)
			for k := range known {
				delete(known, k)
			}
		case *ast.FormatBlock:
			if n.EndSuffix != nil {
				n.EndSuffix = substituteAndFold(n.EndSuffix, known, changed)
			}
			foldConstPropBlock(n.Body, changed)
			for k := range known {
				delete(known, k)
			}
		case *ast.BreakStmt, *ast.ContinueStmt:
			for k := range known {
				delete(known, k)
			}
		}
	}
}

// substituteAndFold replaces any Ident present in known with its literal
// value, then re-applies constant folding so the surrounding expression
// collapses as far as possible in this same pass iteration.
func substituteAndFold(e ast.Expr, known map[string]int64, changed *bool) ast.Expr {
	substituted, subChanged := substituteKnown(e, known)
	if folded, foldChanged := foldExpr(substituted); foldChanged {
		*changed = true
		return folded
	}
	if subChanged {
		*changed = true
	}
	return substituted
}

func substituteKnown(e ast.Expr, known map[string]int64) (ast.Expr, bool) {
	switch n := e.(type) {
	case *ast.Ident:
		if v, ok := known[n.Name]; ok {
			return ast.NewIntLit(n.Pos(), v), true
		}
		return n, false
	case *ast.UnaryOp:
		x, ok := substituteKnown(n.X, known)
		if ok {
			n.X = x
		}
		return n, ok
	case *ast.BinaryOp:
		l, lok := substituteKnown(n.L, known)
		if lok {
			n.L = l
		}
		r, rok := substituteKnown(n.R, known)
		if rok {
			n.R = r
		}
		return n, lok || rok
	case *ast.Call:
		changed := false
		for i, a := range n.Args {
			if s, ok := substituteKnown(a, known); ok {
				n.Args[i] = s
				changed = true
			}
		}
		return n, changed
	default:
		return e, false
	}
}

// tryRewritePrintConst rewrites a print/println call whose single
// argument has folded to an i64 literal into print_str/println_str on
// the decimal form.
func tryRewritePrintConst(n *ast.ExprStmt, changed *bool) {
	call, ok := n.X.(*ast.Call)
	if !ok || len(call.Args) != 1 {
		return
	}
	lit, ok := call.Args[0].(*ast.IntLit)
	if !ok {
		return
	}
	switch call.Callee {
	case "print":
		call.Callee = "print_str"
	case "println":
		call.Callee = "println_str"
	default:
		return
	}
	call.Args[0] = ast.NewStringLit(lit.Pos(), strconv.FormatInt(lit.Value, 10))
	*changed = true
}

package codegen

import (
	"fmt"

	"github.com/linescript-lang/lsc/internal/ast"
)

// emitForRange chooses a C loop shape for a surviving ForRangeStmt (spec
// §4.5). Loops the optimizer could fully reduce at compile time never
// reach here; this only handles loops with at least one non-literal
// bound, or `parallel` loops, or ones too large/irregular to reduce.
func (g *generator) emitForRange(n *ast.ForRangeStmt, indent string, _ int) error {
	start, err := g.emitExpr(n.Start)
	if err != nil {
		return err
	}
	stop, err := g.emitExpr(n.Stop)
	if err != nil {
		return err
	}
	step := "1"
	if n.Step != nil {
		step, err = g.emitExpr(n.Step)
		if err != nil {
			return err
		}
	}

	cmp := "<"
	if lit, ok := n.Step.(*ast.IntLit); ok && lit.Value < 0 {
		cmp = ">"
	}
	header := fmt.Sprintf("for (int64_t %s = %s; %s %s %s; %s += %s)", n.Var, start, n.Var, cmp, stop, n.Var, step)

	if n.Parallel && g.cfg.OpenMP {
		fmt.Fprintf(&g.out, "%sLS_PAR_FOR_IF((%s) - (%s) >= LS_PAR_MIN_ITERS)\n", indent, stop, start)
	} else if !n.Parallel && isVectorHintCandidate(n.Body) {
		fmt.Fprintf(&g.out, "%sLS_OMP_SIMD LS_VEC_HINT\n", indent)
	}

	fmt.Fprintf(&g.out, "%s%s {\n", indent, header)
	g.pushCleanupScope()
	bodyLoopDepth := len(g.cleanup) - 1
	if err := g.emitStmts(n.Body, indent+"\t", bodyLoopDepth); err != nil {
		return err
	}
	g.emitCleanupsInsideOut(indent+"\t", len(g.cleanup)-1)
	g.popCleanupScope()
	fmt.Fprintf(&g.out, "%s}\n", indent)
	return nil
}

// isVectorHintCandidate reports whether a loop body consists solely of
// simple local declares/assigns/expression statements with no calls,
// method calls, or field access — the precondition for the vector-hint
// decoration (spec §4.5).
func isVectorHintCandidate(body []ast.Stmt) bool {
	ok := true
	for _, s := range body {
		switch n := s.(type) {
		case *ast.DeclareStmt:
			if n.Init != nil && !isSimpleVectorExpr(n.Init) {
				ok = false
			}
		case *ast.AssignStmt:
			if n.Target != nil || !isSimpleVectorExpr(n.Value) {
				ok = false
			}
		case *ast.ExprStmt:
			if !isSimpleVectorExpr(n.X) {
				ok = false
			}
		default:
			ok = false
		}
		if !ok {
			return false
		}
	}
	return true
}

func isSimpleVectorExpr(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.Ident:
		return true
	case *ast.UnaryOp:
		return n.OverrideSymbol == "" && isSimpleVectorExpr(n.X)
	case *ast.BinaryOp:
		return n.OverrideSymbol == "" && isSimpleVectorExpr(n.L) && isSimpleVectorExpr(n.R)
	default:
		return false
	}
}

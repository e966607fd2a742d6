package optimizer

import (
	"math"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// passConstFold folds integer arithmetic (128-bit intermediate with
// overflow abort), float arithmetic, boolean ops, and literal
// comparisons; power with a non-negative integer literal exponent folds
// via repeated squaring (spec §4.4 rule 1).
func (o *optimizer) passConstFold(fn *ast.Function) bool {
	changed := false
	fn.Body = rewriteStmts(fn.Body, func(e ast.Expr) ast.Expr {
		folded, ok := foldExpr(e)
		if ok {
			changed = true
			return folded
		}
		return e
	})
	return changed
}

// foldExpr attempts to fold e into a literal. It recurses into operands
// first so nested constant subexpressions fold bottom-up within the same
// pass iteration.
func foldExpr(e ast.Expr) (ast.Expr, bool) {
	switch n := e.(type) {
	case *ast.UnaryOp:
		x, xChanged := foldExpr(n.X)
		if xChanged {
			n.X = x
		}
		if folded, ok := foldUnary(n); ok {
			return folded, true
		}
		return n, xChanged
	case *ast.BinaryOp:
		l, lChanged := foldExpr(n.L)
		if lChanged {
			n.L = l
		}
		r, rChanged := foldExpr(n.R)
		if rChanged {
			n.R = r
		}
		if folded, ok := foldBinary(n); ok {
			return folded, true
		}
		return n, lChanged || rChanged
	case *ast.Call:
		changed := false
		for i, a := range n.Args {
			if f, ok := foldExpr(a); ok {
				n.Args[i] = f
				changed = true
			}
		}
		return n, changed
	default:
		return e, false
	}
}

func foldUnary(n *ast.UnaryOp) (ast.Expr, bool) {
	if n.OverrideSymbol != "" {
		return nil, false
	}
	switch n.Op {
	case lexer.MINUS:
		switch x := n.X.(type) {
		case *ast.IntLit:
			return ast.NewIntLit(n.Pos(), -x.Value), true
		case *ast.FloatLit:
			return ast.NewFloatLit(n.Pos(), -x.Value), true
		}
	case lexer.BANG, lexer.NOT:
		if x, ok := n.X.(*ast.BoolLit); ok {
			return ast.NewBoolLit(n.Pos(), !x.Value), true
		}
	}
	return nil, false
}

func foldBinary(n *ast.BinaryOp) (ast.Expr, bool) {
	if n.OverrideSymbol != "" {
		return nil, false
	}

	if bl, ok := n.L.(*ast.BoolLit); ok {
		if br, ok := n.R.(*ast.BoolLit); ok {
			switch n.Op {
			case lexer.ANDAND, lexer.AND:
				return ast.NewBoolLit(n.Pos(), bl.Value && br.Value), true
			case lexer.OROR, lexer.OR:
				return ast.NewBoolLit(n.Pos(), bl.Value || br.Value), true
			}
		}
	}

	if il, ok := n.L.(*ast.IntLit); ok {
		if ir, ok := n.R.(*ast.IntLit); ok {
			return foldIntBinary(n, il.Value, ir.Value)
		}
	}
	if fl, lok := asFloat(n.L); lok {
		if fr, rok := asFloat(n.R); rok {
			return foldFloatBinary(n, fl, fr)
		}
	}
	return nil, false
}

func asFloat(e ast.Expr) (float64, bool) {
	switch n := e.(type) {
	case *ast.FloatLit:
		return n.Value, true
	case *ast.IntLit:
		return float64(n.Value), true
	}
	return 0, false
}

func foldIntBinary(n *ast.BinaryOp, a, b int64) (ast.Expr, bool) {
	pos := n.Pos()
	switch n.Op {
	case lexer.PLUS:
		if v, ok := addI64Checked(a, b); ok {
			return ast.NewIntLit(pos, v), true
		}
	case lexer.MINUS:
		if v, ok := subI64Checked(a, b); ok {
			return ast.NewIntLit(pos, v), true
		}
	case lexer.STAR:
		if v, ok := mulI64Checked(a, b); ok {
			return ast.NewIntLit(pos, v), true
		}
	case lexer.SLASH:
		if b != 0 {
			return ast.NewIntLit(pos, a/b), true
		}
	case lexer.PERCENT:
		if b != 0 {
			return ast.NewIntLit(pos, a%b), true
		}
	case lexer.POW, lexer.CARET:
		if b >= 0 {
			if v, ok := intPow(a, b); ok {
				return ast.NewIntLit(pos, v), true
			}
		}
	case lexer.EQ:
		return ast.NewBoolLit(pos, a == b), true
	case lexer.NEQ:
		return ast.NewBoolLit(pos, a != b), true
	case lexer.LT:
		return ast.NewBoolLit(pos, a < b), true
	case lexer.GT:
		return ast.NewBoolLit(pos, a > b), true
	case lexer.LE:
		return ast.NewBoolLit(pos, a <= b), true
	case lexer.GE:
		return ast.NewBoolLit(pos, a >= b), true
	}
	return nil, false
}

func foldFloatBinary(n *ast.BinaryOp, a, b float64) (ast.Expr, bool) {
	// Mixed int/float operands only fold when at least one side was
	// already a FloatLit; two IntLits are handled by foldIntBinary.
	if _, lInt := n.L.(*ast.IntLit); lInt {
		if _, rInt := n.R.(*ast.IntLit); rInt {
			return nil, false
		}
	}
	pos := n.Pos()
	switch n.Op {
	case lexer.PLUS:
		return ast.NewFloatLit(pos, a+b), true
	case lexer.MINUS:
		return ast.NewFloatLit(pos, a-b), true
	case lexer.STAR:
		return ast.NewFloatLit(pos, a*b), true
	case lexer.SLASH:
		if b != 0 {
			return ast.NewFloatLit(pos, a/b), true
		}
	case lexer.POW, lexer.CARET:
		return ast.NewFloatLit(pos, math.Pow(a, b)), true
	case lexer.EQ:
		return ast.NewBoolLit(pos, a == b), true
	case lexer.NEQ:
		return ast.NewBoolLit(pos, a != b), true
	case lexer.LT:
		return ast.NewBoolLit(pos, a < b), true
	case lexer.GT:
		return ast.NewBoolLit(pos, a > b), true
	case lexer.LE:
		return ast.NewBoolLit(pos, a <= b), true
	case lexer.GE:
		return ast.NewBoolLit(pos, a >= b), true
	}
	return nil, false
}

// intPow folds a**b (b >= 0) via repeated squaring, rejecting the fold
// at the first overflow.
func intPow(a, b int64) (int64, bool) {
	result := int64(1)
	base := a
	exp := b
	for exp > 0 {
		if exp&1 == 1 {
			v, ok := mulI64Checked(result, base)
			if !ok {
				return 0, false
			}
			result = v
		}
		exp >>= 1
		if exp > 0 {
			v, ok := mulI64Checked(base, base)
			if !ok {
				return 0, false
			}
			base = v
		}
	}
	return result, true
}

// passAlgebraic simplifies identity-element arithmetic and short-circuit
// booleans (spec §4.4 rule 2).
func (o *optimizer) passAlgebraic(fn *ast.Function) bool {
	changed := false
	fn.Body = rewriteStmts(fn.Body, func(e ast.Expr) ast.Expr {
		if simplified, ok := simplifyAlgebraic(e); ok {
			changed = true
			return simplified
		}
		return e
	})
	return changed
}

func simplifyAlgebraic(e ast.Expr) (ast.Expr, bool) {
	n, ok := e.(*ast.BinaryOp)
	if !ok || n.OverrideSymbol != "" {
		return nil, false
	}

	isZero := func(x ast.Expr) bool { lit, ok := x.(*ast.IntLit); return ok && lit.Value == 0 }
	isOne := func(x ast.Expr) bool { lit, ok := x.(*ast.IntLit); return ok && lit.Value == 1 }

	switch n.Op {
	case lexer.PLUS:
		if isZero(n.R) {
			return n.L, true
		}
		if isZero(n.L) {
			return n.R, true
		}
	case lexer.MINUS:
		if isZero(n.R) {
			return n.L, true
		}
		if sameIdent(n.L, n.R) && n.L.Type() == types.I64 {
			return ast.NewIntLit(n.Pos(), 0), true
		}
	case lexer.STAR:
		if isOne(n.R) {
			return n.L, true
		}
		if isOne(n.L) {
			return n.R, true
		}
	case lexer.SLASH:
		if isOne(n.R) {
			return n.L, true
		}
	case lexer.POW, lexer.CARET:
		if isOne(n.R) {
			return n.L, true
		}
	case lexer.ANDAND, lexer.AND:
		if b, ok := n.L.(*ast.BoolLit); ok {
			if !b.Value {
				return ast.NewBoolLit(n.Pos(), false), true
			}
			return n.R, true
		}
		if b, ok := n.R.(*ast.BoolLit); ok {
			if !b.Value {
				return ast.NewBoolLit(n.Pos(), false), true
			}
			return n.L, true
		}
	case lexer.OROR, lexer.OR:
		if b, ok := n.L.(*ast.BoolLit); ok {
			if b.Value {
				return ast.NewBoolLit(n.Pos(), true), true
			}
			return n.R, true
		}
		if b, ok := n.R.(*ast.BoolLit); ok {
			if b.Value {
				return ast.NewBoolLit(n.Pos(), true), true
			}
			return n.L, true
		}
	}
	return nil, false
}

func sameIdent(a, b ast.Expr) bool {
	ai, ok := a.(*ast.Ident)
	if !ok {
		return false
	}
	bi, ok := b.(*ast.Ident)
	return ok && ai.Name == bi.Name
}

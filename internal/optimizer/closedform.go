package optimizer

import (
	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// poly is a degree-≤2 integer polynomial a2*i^2 + a1*i + a0, the shape
// the affine/polynomial closed-form rules evaluate loop bodies into
// (spec §4.4 rule 7).
type poly struct{ a2, a1, a0 int64 }

// evalPoly structurally evaluates e as a polynomial in varName, exactly
// matching the spec's evaluator restriction: any call, operator
// override, or non-Neg unary rejects the fold outright.
func evalPoly(e ast.Expr, varName string) (poly, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		return poly{a0: n.Value}, true
	case *ast.Ident:
		if n.Name == varName {
			return poly{a1: 1}, true
		}
		return poly{}, false
	case *ast.UnaryOp:
		if n.OverrideSymbol != "" || (n.Op != lexer.MINUS) {
			return poly{}, false
		}
		p, ok := evalPoly(n.X, varName)
		if !ok {
			return poly{}, false
		}
		return poly{a2: -p.a2, a1: -p.a1, a0: -p.a0}, true
	case *ast.BinaryOp:
		if n.OverrideSymbol != "" {
			return poly{}, false
		}
		l, lok := evalPoly(n.L, varName)
		r, rok := evalPoly(n.R, varName)
		if !lok || !rok {
			return poly{}, false
		}
		switch n.Op {
		case lexer.PLUS:
			return addPoly(l, r)
		case lexer.MINUS:
			return subPoly(l, r)
		case lexer.STAR:
			return mulPoly(l, r)
		case lexer.SLASH:
			return divPolyByScalar(l, r)
		}
		return poly{}, false
	default:
		return poly{}, false
	}
}

func addPoly(a, b poly) (poly, bool) {
	a2, ok1 := addI64Checked(a.a2, b.a2)
	a1, ok2 := addI64Checked(a.a1, b.a1)
	a0, ok3 := addI64Checked(a.a0, b.a0)
	return poly{a2, a1, a0}, ok1 && ok2 && ok3
}

func subPoly(a, b poly) (poly, bool) {
	a2, ok1 := subI64Checked(a.a2, b.a2)
	a1, ok2 := subI64Checked(a.a1, b.a1)
	a0, ok3 := subI64Checked(a.a0, b.a0)
	return poly{a2, a1, a0}, ok1 && ok2 && ok3
}

func mulPoly(a, b poly) (poly, bool) {
	// Convolution of [a2,a1,a0] with [b2,b1,b0] gives 5 coefficients
	// (degree 0..4); the fold only accepts a result of degree ≤2.
	c := make([]int64, 5)
	av := []int64{a.a0, a.a1, a.a2}
	bv := []int64{b.a0, b.a1, b.a2}
	for i, av1 := range av {
		for j, bv1 := range bv {
			if av1 == 0 || bv1 == 0 {
				continue
			}
			term, ok := mulI64Checked(av1, bv1)
			if !ok {
				return poly{}, false
			}
			sum, ok := addI64Checked(c[i+j], term)
			if !ok {
				return poly{}, false
			}
			c[i+j] = sum
		}
	}
	if c[3] != 0 || c[4] != 0 {
		return poly{}, false
	}
	return poly{a2: c[2], a1: c[1], a0: c[0]}, true
}

func divPolyByScalar(a, b poly) (poly, bool) {
	if b.a1 != 0 || b.a2 != 0 || b.a0 == 0 {
		return poly{}, false
	}
	if a.a2%b.a0 != 0 || a.a1%b.a0 != 0 || a.a0%b.a0 != 0 {
		return poly{}, false
	}
	return poly{a.a2 / b.a0, a.a1 / b.a0, a.a0 / b.a0}, true
}

func (p poly) isZero() bool   { return p.a2 == 0 && p.a1 == 0 && p.a0 == 0 }
func (p poly) isAffine() bool { return p.a2 == 0 }

// sumOverRange evaluates Σ p(i) for i = start, start+1, ..., start+n-1
// from its coefficients via sumSeries and sumSquaresSeries, reporting
// overflow as a failed fold (spec §4.4's overflow-fallback invariant).
func sumOverRange(p poly, start, n int64) (int64, bool) {
	total := int64(0)
	if p.a0 != 0 {
		term, ok := mulI64Checked(p.a0, n)
		if !ok {
			return 0, false
		}
		total, ok = addI64Checked(total, term)
		if !ok {
			return 0, false
		}
	}
	if p.a1 != 0 {
		s1, ok := sumSeries(start, n)
		if !ok {
			return 0, false
		}
		term, ok := mulI64Checked(p.a1, s1)
		if !ok {
			return 0, false
		}
		total, ok = addI64Checked(total, term)
		if !ok {
			return 0, false
		}
	}
	if p.a2 != 0 {
		s2, ok := sumSquaresSeries(start, n)
		if !ok {
			return 0, false
		}
		term, ok := mulI64Checked(p.a2, s2)
		if !ok {
			return 0, false
		}
		total, ok = addI64Checked(total, term)
		if !ok {
			return 0, false
		}
	}
	return total, true
}

// tryClosedForm dispatches, in order, the affine/polynomial,
// multi-affine, pair-coupled, modular-linear, and alternating-sign
// reduction rules (spec §4.4 rule 7).
func tryClosedForm(n *ast.ForRangeStmt, start, step, trip int64) ([]ast.Stmt, bool) {
	if step != 1 {
		// The series-sum identities assume a unit step; a non-unit step
		// still has a literal trip count so the plain loop (or unroll)
		// path already handled small counts. Large non-unit-step ranges
		// are left as a runtime loop.
		return nil, false
	}
	if reduced, ok := tryAlternatingSign(n, start, trip); ok {
		return reduced, true
	}
	if reduced, ok := tryModularLinear(n, start, trip); ok {
		return reduced, true
	}
	if reduced, ok := tryPairCoupled(n, start, trip); ok {
		return reduced, true
	}
	if reduced, ok := tryMultiAffine(n, start, trip); ok {
		return reduced, true
	}
	if reduced, ok := tryAffineOrPolynomial(n, start, trip); ok {
		return reduced, true
	}
	return nil, false
}

// accumulatorIncrement recognizes `x = x + g` / `x += g` (the direct
// form) or a `declare tmp = g` immediately followed by `x = x + tmp` /
// `x += tmp` (the one-intermediate form), returning the accumulator
// name and the increment expression g.
func accumulatorIncrement(body []ast.Stmt) (accName string, g ast.Expr, ok bool) {
	switch len(body) {
	case 1:
		return matchDirectIncrement(body[0])
	case 2:
		decl, isDecl := body[0].(*ast.DeclareStmt)
		if !isDecl {
			return "", nil, false
		}
		acc, tmpRef, ok := matchDirectIncrement(body[1])
		if !ok {
			return "", nil, false
		}
		if ident, isIdent := tmpRef.(*ast.Ident); !isIdent || ident.Name != decl.Name {
			return "", nil, false
		}
		return acc, decl.Init, true
	default:
		return "", nil, false
	}
}

func matchDirectIncrement(s ast.Stmt) (accName string, g ast.Expr, ok bool) {
	assign, isAssign := s.(*ast.AssignStmt)
	if !isAssign || assign.Target != nil {
		return "", nil, false
	}
	if assign.Op == lexer.PLUS_ASSIGN {
		return assign.Name, assign.Value, true
	}
	if assign.Op != lexer.ASSIGN {
		return "", nil, false
	}
	bin, isBin := assign.Value.(*ast.BinaryOp)
	if !isBin || bin.Op != lexer.PLUS || bin.OverrideSymbol != "" {
		return "", nil, false
	}
	if ident, isIdent := bin.L.(*ast.Ident); isIdent && ident.Name == assign.Name {
		return assign.Name, bin.R, true
	}
	if ident, isIdent := bin.R.(*ast.Ident); isIdent && ident.Name == assign.Name {
		return assign.Name, bin.L, true
	}
	return "", nil, false
}

func finalAccumulatorAssign(pos lexer.Position, accName string, delta int64) ast.Stmt {
	return ast.NewAssignStmt(pos, accName, lexer.ASSIGN,
		ast.NewBinaryOp(pos, lexer.PLUS, ast.NewIdent(pos, accName), ast.NewIntLit(pos, delta)))
}

// tryAffineOrPolynomial handles a single accumulator whose per-iteration
// increment is a degree-≤2 polynomial in the loop variable (spec §4.4
// rule 7's "Affine reduction" and "Polynomial reduction" cases).
func tryAffineOrPolynomial(n *ast.ForRangeStmt, start, trip int64) ([]ast.Stmt, bool) {
	accName, g, ok := accumulatorIncrement(n.Body)
	if !ok {
		return nil, false
	}
	p, ok := evalPoly(g, n.Var)
	if !ok || p.isZero() {
		return nil, false
	}
	total, ok := sumOverRange(p, start, trip)
	if !ok {
		return nil, false
	}
	return []ast.Stmt{finalAccumulatorAssign(n.Pos(), accName, total)}, true
}

// tryMultiAffine handles 2-4 independent affine (or polynomial)
// accumulators, each updated by its own direct-form statement in the
// same loop body (spec §4.4 rule 7's "Multi-affine reduction").
func tryMultiAffine(n *ast.ForRangeStmt, start, trip int64) ([]ast.Stmt, bool) {
	if len(n.Body) < 2 || len(n.Body) > 4 {
		return nil, false
	}
	seen := map[string]bool{}
	var out []ast.Stmt
	for _, s := range n.Body {
		accName, g, ok := matchDirectIncrement(s)
		if !ok || seen[accName] {
			return nil, false
		}
		p, ok := evalPoly(g, n.Var)
		if !ok {
			return nil, false
		}
		total, ok := sumOverRange(p, start, trip)
		if !ok {
			return nil, false
		}
		seen[accName] = true
		out = append(out, finalAccumulatorAssign(n.Pos(), accName, total))
	}
	return out, true
}

// tryPairCoupled handles `acc += state; state += a*i+b` by bounded
// compile-time simulation: the recurrence is run for `trip` steps using
// i64-with-overflow-check arithmetic, which is both simpler and no less
// correct than a symbolic closed form for any trip count the optimizer
// is willing to spend compile time folding (spec §4.4 rule 7's
// "Pair-coupled reduction").
func tryPairCoupled(n *ast.ForRangeStmt, start, trip int64) ([]ast.Stmt, bool) {
	if len(n.Body) != 2 || trip > maxClosedFormFoldIterations {
		return nil, false
	}
	acc1, accInc, ok := matchDirectIncrement(n.Body[0])
	if !ok {
		return nil, false
	}
	stateIdent, isIdent := accInc.(*ast.Ident)
	if !isIdent {
		return nil, false
	}
	acc2, stateInc, ok := matchDirectIncrement(n.Body[1])
	if !ok || acc2 != stateIdent.Name {
		return nil, false
	}
	p, ok := evalPoly(stateInc, n.Var)
	if !ok || !p.isAffine() {
		return nil, false
	}

	accDelta := int64(0)
	stateDelta := int64(0)
	i := start
	for k := int64(0); k < trip; k++ {
		// acc += (state0 + stateDelta); tracked relative to both unknown
		// initial values via two running deltas, since state's initial
		// runtime value is unknown at compile time.
		gVal := p.a1*i + p.a0
		var ok2 bool
		accDelta, ok2 = addI64Checked(accDelta, stateDelta)
		if !ok2 {
			return nil, false
		}
		stateDelta, ok2 = addI64Checked(stateDelta, gVal)
		if !ok2 {
			return nil, false
		}
		i++
	}
	pos := n.Pos()
	return []ast.Stmt{
		ast.NewAssignStmt(pos, acc1, lexer.ASSIGN,
			ast.NewBinaryOp(pos, lexer.PLUS, ast.NewIdent(pos, acc1),
				ast.NewBinaryOp(pos, lexer.PLUS,
					ast.NewBinaryOp(pos, lexer.STAR, ast.NewIntLit(pos, trip), ast.NewIdent(pos, stateIdent.Name)),
					ast.NewIntLit(pos, accDelta)))),
		finalAccumulatorAssign(pos, stateIdent.Name, stateDelta),
	}, true
}

// tryModularLinear handles `x += (a*i + b) % m` by bounded compile-time
// simulation of the periodic residue sequence (spec §4.4 rule 7's
// "Modular-linear reduction"; a full Eisenstein floor-sum derivation is
// not implemented, see DESIGN.md).
func tryModularLinear(n *ast.ForRangeStmt, start, trip int64) ([]ast.Stmt, bool) {
	if trip > maxClosedFormFoldIterations {
		return nil, false
	}
	accName, g, ok := accumulatorIncrement(n.Body)
	if !ok {
		return nil, false
	}
	mod, isMod := g.(*ast.BinaryOp)
	if !isMod || mod.Op != lexer.PERCENT || mod.OverrideSymbol != "" {
		return nil, false
	}
	modLit, isLit := mod.R.(*ast.IntLit)
	if !isLit || modLit.Value <= 0 {
		return nil, false
	}
	p, ok := evalPoly(mod.L, n.Var)
	if !ok || !p.isAffine() {
		return nil, false
	}

	total := int64(0)
	i := start
	for k := int64(0); k < trip; k++ {
		v := (p.a1*i + p.a0) % modLit.Value
		var ok2 bool
		total, ok2 = addI64Checked(total, v)
		if !ok2 {
			return nil, false
		}
		i++
	}
	return []ast.Stmt{finalAccumulatorAssign(n.Pos(), accName, total)}, true
}

// tryAlternatingSign handles `if i%2==0 { x += i } else { x -= i }` (or
// the mirrored polarity), replacing the loop with one accumulator update
// carrying the sum computed by stepping through the trip at compile time
// (spec §4.4 rule 7's "Alternating-sign reduction").
func tryAlternatingSign(n *ast.ForRangeStmt, start, trip int64) ([]ast.Stmt, bool) {
	if len(n.Body) != 1 || trip > maxClosedFormFoldIterations {
		return nil, false
	}
	ifs, ok := n.Body[0].(*ast.IfStmt)
	if !ok || len(ifs.Elifs) != 0 || len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		return nil, false
	}
	evenIsZero, ok := matchesEvenCheck(ifs.Cond, n.Var)
	if !ok {
		return nil, false
	}
	accThen, pThen, okThen := matchSignedIncrement(ifs.Then[0], n.Var)
	accElse, pElse, okElse := matchSignedIncrement(ifs.Else[0], n.Var)
	if !okThen || !okElse || accThen != accElse {
		return nil, false
	}
	if !evenIsZero {
		pThen, pElse = pElse, pThen
	}

	total := int64(0)
	i := start
	for k := int64(0); k < trip; k++ {
		var v int64
		var ok2 bool
		if i%2 == 0 {
			v, ok2 = sumOverRange(pThen, i, 1)
		} else {
			v, ok2 = sumOverRange(pElse, i, 1)
		}
		if !ok2 {
			return nil, false
		}
		total, ok2 = addI64Checked(total, v)
		if !ok2 {
			return nil, false
		}
		i++
	}
	return []ast.Stmt{finalAccumulatorAssign(n.Pos(), accThen, total)}, true
}

// matchSignedIncrement recognizes `x += g`, `x = x + g`, `x -= g`, and
// `x = x - g`, returning the accumulator name and the net polynomial
// delta applied to it (negated for the subtraction forms).
func matchSignedIncrement(s ast.Stmt, varName string) (accName string, delta poly, ok bool) {
	assign, isAssign := s.(*ast.AssignStmt)
	if !isAssign || assign.Target != nil {
		return "", poly{}, false
	}
	switch assign.Op {
	case lexer.PLUS_ASSIGN:
		p, ok := evalPoly(assign.Value, varName)
		return assign.Name, p, ok
	case lexer.MINUS_ASSIGN:
		p, ok := evalPoly(assign.Value, varName)
		return assign.Name, poly{-p.a2, -p.a1, -p.a0}, ok
	case lexer.ASSIGN:
		bin, isBin := assign.Value.(*ast.BinaryOp)
		if !isBin || bin.OverrideSymbol != "" {
			return "", poly{}, false
		}
		ident, isIdent := bin.L.(*ast.Ident)
		if !isIdent || ident.Name != assign.Name {
			return "", poly{}, false
		}
		switch bin.Op {
		case lexer.PLUS:
			p, ok := evalPoly(bin.R, varName)
			return assign.Name, p, ok
		case lexer.MINUS:
			p, ok := evalPoly(bin.R, varName)
			return assign.Name, poly{-p.a2, -p.a1, -p.a0}, ok
		}
	}
	return "", poly{}, false
}

// matchesEvenCheck recognizes `i % 2 == 0` (returns evenIsZero=true) or
// `i % 2 != 0` (evenIsZero=false) as the alternating-sign condition.
func matchesEvenCheck(cond ast.Expr, loopVar string) (evenIsZero bool, ok bool) {
	bin, isBin := cond.(*ast.BinaryOp)
	if !isBin || bin.OverrideSymbol != "" {
		return false, false
	}
	if bin.Op != lexer.EQ && bin.Op != lexer.NEQ {
		return false, false
	}
	mod, isMod := bin.L.(*ast.BinaryOp)
	if !isMod || mod.Op != lexer.PERCENT {
		return false, false
	}
	ident, isIdent := mod.L.(*ast.Ident)
	modLit, isModLit := mod.R.(*ast.IntLit)
	zero, isZero := bin.R.(*ast.IntLit)
	if !isIdent || ident.Name != loopVar || !isModLit || modLit.Value != 2 || !isZero || zero.Value != 0 {
		return false, false
	}
	return bin.Op == lexer.EQ, true
}

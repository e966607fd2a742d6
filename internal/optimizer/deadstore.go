package optimizer

import (
	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// passDeadStore removes a declare/assign/bare-expression statement whose
// bound variable is never read before the next write to it or the end
// of its enclosing block (spec §4.4 rule 9). A write inside a loop body
// is left alone: a later iteration may read it, and this pass only
// reasons about a single straight-line block.
func (o *optimizer) passDeadStore(fn *ast.Function) bool {
	changed := false
	fn.Body = pruneDeadStores(fn.Body, &changed)
	return changed
}

func pruneDeadStores(stmts []ast.Stmt, changed *bool) []ast.Stmt {
	stmts = recurseDeadStoreBlocks(stmts, changed)

	out := make([]ast.Stmt, 0, len(stmts))
	for i, s := range stmts {
		if es, ok := s.(*ast.ExprStmt); ok && !exprHasSideEffect(es.X) {
			*changed = true
			continue
		}
		if name, ok := writtenVarName(s); ok {
			if !hasSideEffectfulValue(s) && !isReadBeforeNextWriteOrEnd(stmts[i+1:], name) {
				*changed = true
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// recurseDeadStoreBlocks applies the pass to every nested straight-line
// block outside loops: if/elif/else and formatOutput bodies are pruned,
// while and for-range bodies (and every block nested in them) are left
// untouched, since a later iteration may read a store the body's own
// straight-line scan sees as dead.
func recurseDeadStoreBlocks(stmts []ast.Stmt, changed *bool) []ast.Stmt {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.IfStmt:
			n.Then = pruneDeadStores(n.Then, changed)
			for i := range n.Elifs {
				n.Elifs[i].Body = pruneDeadStores(n.Elifs[i].Body, changed)
			}
			n.Else = pruneDeadStores(n.Else, changed)
		case *ast.FormatBlock:
			n.Body = pruneDeadStores(n.Body, changed)
		}
	}
	return stmts
}

// writtenVarName reports the variable a statement writes, if it is a
// candidate for dead-store elimination: a declare with no owned/const
// binding, or a plain (non-compound, non-field-target) assignment.
func writtenVarName(s ast.Stmt) (string, bool) {
	switch n := s.(type) {
	case *ast.DeclareStmt:
		if n.Owned || n.Const {
			return "", false
		}
		return n.Name, true
	case *ast.AssignStmt:
		if n.Target != nil {
			return "", false
		}
		return n.Name, true
	}
	return "", false
}

// hasSideEffectfulValue reports whether the statement's own initializer
// or value expression performs a side effect (division, modulo, power,
// a call, or an overridden operator), making it unsafe to drop even if
// its result is never read.
func hasSideEffectfulValue(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.DeclareStmt:
		return n.Init != nil && exprHasSideEffect(n.Init)
	case *ast.AssignStmt:
		return exprHasSideEffect(n.Value)
	}
	return false
}

func exprHasSideEffect(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Call, *ast.MethodCall:
		return true
	case *ast.UnaryOp:
		if n.OverrideSymbol != "" {
			return true
		}
		return exprHasSideEffect(n.X)
	case *ast.BinaryOp:
		if n.OverrideSymbol != "" {
			return true
		}
		if isDivModPow(n.Op) {
			return true
		}
		return exprHasSideEffect(n.L) || exprHasSideEffect(n.R)
	case *ast.FieldGet:
		return exprHasSideEffect(n.Object)
	}
	return false
}

func isDivModPow(op lexer.TokenKind) bool {
	switch op {
	case lexer.SLASH, lexer.PERCENT, lexer.POW, lexer.CARET:
		return true
	}
	return false
}

// isReadBeforeNextWriteOrEnd scans the statements following a write,
// stopping at (and not looking past) the next write to the same
// variable, and reports whether any expression read between here and
// there references it.
func isReadBeforeNextWriteOrEnd(rest []ast.Stmt, name string) bool {
	for _, s := range rest {
		if exprsOf(s, func(e ast.Expr) bool { return identReads(e, name) }) {
			return true
		}
		if compoundAssignReads(s, name) {
			return true
		}
		if w, ok := writtenVarName(s); ok && w == name {
			return false
		}
		// A return exits the block: only its own value can still read name.
		if ret, ok := s.(*ast.ReturnStmt); ok {
			return ret.Value != nil && identReads(ret.Value, name)
		}
		if stmtMayBranch(s) {
			return true
		}
	}
	return false
}

// compoundAssignReads reports whether s is a compound assignment
// (`+=`, `-=`, ...) to name: those read the prior value of name in
// addition to writing it, unlike a plain `name = e`.
func compoundAssignReads(s ast.Stmt, name string) bool {
	n, ok := s.(*ast.AssignStmt)
	return ok && n.Target == nil && n.Name == name && n.Op != lexer.ASSIGN
}

// stmtMayBranch reports whether a statement's control flow makes it
// unsafe to conclude the variable is never read beyond this point
// within the current straight-line reasoning (a conservative stop).
func stmtMayBranch(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.IfStmt, *ast.WhileStmt, *ast.ForRangeStmt, *ast.FormatBlock, *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	}
	return false
}

// exprsOf reports whether pred matches any expression reachable from s's
// own read-relevant expressions (not the expressions of nested blocks,
// which stmtMayBranch already treats conservatively).
func exprsOf(s ast.Stmt, pred func(ast.Expr) bool) bool {
	switch n := s.(type) {
	case *ast.DeclareStmt:
		return n.Init != nil && pred(n.Init)
	case *ast.AssignStmt:
		if n.Target != nil && pred(n.Target) {
			return true
		}
		return pred(n.Value)
	case *ast.ExprStmt:
		return pred(n.X)
	}
	return false
}

func identReads(e ast.Expr, name string) bool {
	switch n := e.(type) {
	case *ast.Ident:
		return n.Name == name
	case *ast.UnaryOp:
		return identReads(n.X, name)
	case *ast.BinaryOp:
		return identReads(n.L, name) || identReads(n.R, name)
	case *ast.Call:
		for _, a := range n.Args {
			if identReads(a, name) {
				return true
			}
		}
		return false
	case *ast.FieldGet:
		return identReads(n.Object, name)
	case *ast.MethodCall:
		if identReads(n.Object, name) {
			return true
		}
		for _, a := range n.Args {
			if identReads(a, name) {
				return true
			}
		}
		return false
	}
	return false
}

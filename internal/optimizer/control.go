package optimizer

import "github.com/linescript-lang/lsc/internal/ast"

// passDeadAfterTerminator erases every statement following a
// return/break/continue within the same block (spec §4.4 rule 4).
func (o *optimizer) passDeadAfterTerminator(fn *ast.Function) bool {
	changed := false
	fn.Body = pruneAfterTerminator(fn.Body, &changed)
	return changed
}

func pruneAfterTerminator(stmts []ast.Stmt, changed *bool) []ast.Stmt {
	for i, s := range stmts {
		switch n := s.(type) {
		case *ast.IfStmt:
			n.Then = pruneAfterTerminator(n.Then, changed)
			for j := range n.Elifs {
				n.Elifs[j].Body = pruneAfterTerminator(n.Elifs[j].Body, changed)
			}
			n.Else = pruneAfterTerminator(n.Else, changed)
		case *ast.WhileStmt:
			n.Body = pruneAfterTerminator(n.Body, changed)
		case *ast.ForRangeStmt:
			n.Body = pruneAfterTerminator(n.Body, changed)
		case *ast.FormatBlock:
			n.Body = pruneAfterTerminator(n.Body, changed)
		}
		if isTerminator(s) && i+1 < len(stmts) {
			*changed = true
			return stmts[:i+1]
		}
	}
	return stmts
}

func isTerminator(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	default:
		return false
	}
}

// passIfCollapse replaces an `if` whose condition is a literal bool with
// the chosen branch's statement list (spec §4.4 rule 5). elif clauses
// are handled by recursively collapsing: a literal-true/false elif is
// spliced the same way a top-level literal condition would be.
func (o *optimizer) passIfCollapse(fn *ast.Function) bool {
	changed := false
	fn.Body = collapseIfs(fn.Body, &changed)
	return changed
}

func collapseIfs(stmts []ast.Stmt, changed *bool) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.IfStmt:
			n.Then = collapseIfs(n.Then, changed)
			for j := range n.Elifs {
				n.Elifs[j].Body = collapseIfs(n.Elifs[j].Body, changed)
			}
			n.Else = collapseIfs(n.Else, changed)

			if lit, ok := n.Cond.(*ast.BoolLit); ok && len(n.Elifs) == 0 {
				*changed = true
				if lit.Value {
					out = append(out, n.Then...)
				} else {
					out = append(out, n.Else...)
				}
				continue
			}
			out = append(out, n)
		case *ast.WhileStmt:
			n.Body = collapseIfs(n.Body, changed)
			out = append(out, n)
		case *ast.ForRangeStmt:
			n.Body = collapseIfs(n.Body, changed)
			out = append(out, n)
		case *ast.FormatBlock:
			n.Body = collapseIfs(n.Body, changed)
			out = append(out, n)
		default:
			out = append(out, s)
		}
	}
	return out
}

// passWhileFalse deletes `while false { ... }` (spec §4.4 rule 6).
func (o *optimizer) passWhileFalse(fn *ast.Function) bool {
	changed := false
	fn.Body = dropWhileFalse(fn.Body, &changed)
	return changed
}

func dropWhileFalse(stmts []ast.Stmt, changed *bool) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.WhileStmt:
			if lit, ok := n.Cond.(*ast.BoolLit); ok && !lit.Value {
				*changed = true
				continue
			}
			n.Body = dropWhileFalse(n.Body, changed)
			out = append(out, n)
		case *ast.IfStmt:
			n.Then = dropWhileFalse(n.Then, changed)
			for j := range n.Elifs {
				n.Elifs[j].Body = dropWhileFalse(n.Elifs[j].Body, changed)
			}
			n.Else = dropWhileFalse(n.Else, changed)
			out = append(out, n)
		case *ast.ForRangeStmt:
			n.Body = dropWhileFalse(n.Body, changed)
			out = append(out, n)
		case *ast.FormatBlock:
			n.Body = dropWhileFalse(n.Body, changed)
			out = append(out, n)
		default:
			out = append(out, s)
		}
	}
	return out
}

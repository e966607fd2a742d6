package optimizer

import "github.com/linescript-lang/lsc/internal/ast"

// rewriteStmts applies transform to every expression reachable from
// stmts (depth-first, leaves mutated via the statement's own fields) and
// recurses into every nested block. It returns stmts; passes that also
// need to replace or delete statements themselves use the dedicated
// helpers in control.go/forloop.go instead of this generic rewrite.
func rewriteStmts(stmts []ast.Stmt, transform func(ast.Expr) ast.Expr) []ast.Stmt {
	for _, s := range stmts {
		rewriteStmt(s, transform)
	}
	return stmts
}

func rewriteStmt(s ast.Stmt, transform func(ast.Expr) ast.Expr) {
	switch n := s.(type) {
	case *ast.DeclareStmt:
		if n.Init != nil {
			n.Init = transform(n.Init)
		}
	case *ast.AssignStmt:
		if n.Target != nil {
			n.Target = transform(n.Target)
		}
		n.Value = transform(n.Value)
	case *ast.ExprStmt:
		n.X = transform(n.X)
	case *ast.ReturnStmt:
		if n.Value != nil {
			n.Value = transform(n.Value)
		}
	case *ast.IfStmt:
		n.Cond = transform(n.Cond)
		n.Then = rewriteStmts(n.Then, transform)
		for i := range n.Elifs {
			n.Elifs[i].Cond = transform(n.Elifs[i].Cond)
			n.Elifs[i].Body = rewriteStmts(n.Elifs[i].Body, transform)
		}
		n.Else = rewriteStmts(n.Else, transform)
	case *ast.WhileStmt:
		n.Cond = transform(n.Cond)
		n.Body = rewriteStmts(n.Body, transform)
	case *ast.ForRangeStmt:
		n.Start = transform(n.Start)
		n.Stop = transform(n.Stop)
		if n.Step != nil {
			n.Step = transform(n.Step)
		}
		n.Body = rewriteStmts(n.Body, transform)
	case *ast.FormatBlock:
		if n.EndSuffix != nil {
			n.EndSuffix = transform(n.EndSuffix)
		}
		n.Body = rewriteStmts(n.Body, transform)
	}
}

// walkBlockStmts visits every statement in stmts and nested blocks
// depth-first without touching expressions, used by passes that only
// need structural information (dead-store liveness, break/continue
// scans).
func walkBlockStmts(stmts []ast.Stmt, visit func(ast.Stmt)) {
	for _, s := range stmts {
		visit(s)
		switch n := s.(type) {
		case *ast.IfStmt:
			walkBlockStmts(n.Then, visit)
			for _, ei := range n.Elifs {
				walkBlockStmts(ei.Body, visit)
			}
			walkBlockStmts(n.Else, visit)
		case *ast.WhileStmt:
			walkBlockStmts(n.Body, visit)
		case *ast.ForRangeStmt:
			walkBlockStmts(n.Body, visit)
		case *ast.FormatBlock:
			walkBlockStmts(n.Body, visit)
		}
	}
}

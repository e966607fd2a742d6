package semantic

import "github.com/linescript-lang/lsc/internal/ast"

// walkStatements visits every statement and every expression reachable
// from stmts, depth-first, calling onStmt/onExpr for each. Either
// callback may be nil. This is a read-only traversal used for the
// whole-program superuser() scan; the optimizer has its own
// mutation-capable walker since it replaces nodes in place.
func walkStatements(stmts []ast.Stmt, onStmt func(ast.Stmt), onExpr func(ast.Expr)) {
	for _, s := range stmts {
		walkStatement(s, onStmt, onExpr)
	}
}

func walkStatement(s ast.Stmt, onStmt func(ast.Stmt), onExpr func(ast.Expr)) {
	if s == nil {
		return
	}
	if onStmt != nil {
		onStmt(s)
	}
	switch n := s.(type) {
	case *ast.DeclareStmt:
		walkExpr(n.Init, onExpr)
	case *ast.AssignStmt:
		walkExpr(n.Target, onExpr)
		walkExpr(n.Value, onExpr)
	case *ast.ExprStmt:
		walkExpr(n.X, onExpr)
	case *ast.ReturnStmt:
		walkExpr(n.Value, onExpr)
	case *ast.IfStmt:
		walkExpr(n.Cond, onExpr)
		walkStatements(n.Then, onStmt, onExpr)
		for _, ei := range n.Elifs {
			walkExpr(ei.Cond, onExpr)
			walkStatements(ei.Body, onStmt, onExpr)
		}
		walkStatements(n.Else, onStmt, onExpr)
	case *ast.WhileStmt:
		walkExpr(n.Cond, onExpr)
		walkStatements(n.Body, onStmt, onExpr)
	case *ast.ForRangeStmt:
		walkExpr(n.Start, onExpr)
		walkExpr(n.Stop, onExpr)
		walkExpr(n.Step, onExpr)
		walkStatements(n.Body, onStmt, onExpr)
	case *ast.FormatBlock:
		walkExpr(n.EndSuffix, onExpr)
		walkStatements(n.Body, onStmt, onExpr)
	}
}

func walkExpr(e ast.Expr, onExpr func(ast.Expr)) {
	if e == nil {
		return
	}
	if onExpr != nil {
		onExpr(e)
	}
	switch n := e.(type) {
	case *ast.UnaryOp:
		walkExpr(n.X, onExpr)
	case *ast.BinaryOp:
		walkExpr(n.L, onExpr)
		walkExpr(n.R, onExpr)
	case *ast.Call:
		for _, a := range n.Args {
			walkExpr(a, onExpr)
		}
	case *ast.FieldGet:
		walkExpr(n.Object, onExpr)
	case *ast.MethodCall:
		walkExpr(n.Object, onExpr)
		for _, a := range n.Args {
			walkExpr(a, onExpr)
		}
	}
}

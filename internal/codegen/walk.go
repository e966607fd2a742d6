package codegen

import "github.com/linescript-lang/lsc/internal/ast"

// walkStmts performs a read-only depth-first traversal of stmts, calling
// onStmt for every statement and onExpr for every expression reachable
// from it; used by tier detection to inspect a program without mutating
// it.
func walkStmts(stmts []ast.Stmt, onStmt func(ast.Stmt), onExpr func(ast.Expr)) {
	for _, s := range stmts {
		onStmt(s)
		switch n := s.(type) {
		case *ast.DeclareStmt:
			if n.Init != nil {
				walkExpr(n.Init, onExpr)
			}
		case *ast.AssignStmt:
			if n.Target != nil {
				walkExpr(n.Target, onExpr)
			}
			walkExpr(n.Value, onExpr)
		case *ast.ExprStmt:
			walkExpr(n.X, onExpr)
		case *ast.ReturnStmt:
			if n.Value != nil {
				walkExpr(n.Value, onExpr)
			}
		case *ast.IfStmt:
			walkExpr(n.Cond, onExpr)
			walkStmts(n.Then, onStmt, onExpr)
			for _, ei := range n.Elifs {
				walkExpr(ei.Cond, onExpr)
				walkStmts(ei.Body, onStmt, onExpr)
			}
			walkStmts(n.Else, onStmt, onExpr)
		case *ast.WhileStmt:
			walkExpr(n.Cond, onExpr)
			walkStmts(n.Body, onStmt, onExpr)
		case *ast.ForRangeStmt:
			walkExpr(n.Start, onExpr)
			walkExpr(n.Stop, onExpr)
			if n.Step != nil {
				walkExpr(n.Step, onExpr)
			}
			walkStmts(n.Body, onStmt, onExpr)
		case *ast.FormatBlock:
			if n.EndSuffix != nil {
				walkExpr(n.EndSuffix, onExpr)
			}
			walkStmts(n.Body, onStmt, onExpr)
		}
	}
}

func walkExpr(e ast.Expr, onExpr func(ast.Expr)) {
	if e == nil {
		return
	}
	onExpr(e)
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

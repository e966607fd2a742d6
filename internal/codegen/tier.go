package codegen

import (
	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/types"
)

// runtimeTier selects how much of the C runtime a translation unit pulls
// in (spec §4.5).
type runtimeTier int

const (
	tierFull runtimeTier = iota
	tierMinimal
	tierUltraMinimal
)

// detectTier inspects every function body and the top-level statements
// for the runtime features that force a heavier tier, falling back to
// the lightest tier the program actually needs.
func detectTier(prog *ast.Program) runtimeTier {
	needsFull := false
	needsMinimal := false
	// A string literal passed straight to print_str/println_str (the
	// optimizer's rewrite of println(42)) needs nothing beyond the
	// ultra-minimal prelude; any other string literal forces minimal.
	stringLits, printedLits := 0, 0

	onStmt := func(s ast.Stmt) {
		if _, ok := s.(*ast.FormatBlock); ok {
			needsFull = true
		}
	}
	onExpr := func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.FloatLit:
			needsFull = true
		case *ast.StringLit:
			stringLits++
		case *ast.Ident:
			if n.Type() == types.F64 || n.Type() == types.F32 {
				needsFull = true
			}
			if n.Type() == types.Str || n.Type() == types.I32 {
				needsMinimal = true
			}
		case *ast.Call:
			switch n.Callee {
			case "stateSpeed", "spawn", "await", "await_all":
				needsFull = true
			case "max", "min", "abs", "clamp":
				needsMinimal = true
			}
			if n.ResolvedClass != "" {
				needsFull = true
			}
			for _, a := range n.Args {
				if _, lit := a.(*ast.StringLit); lit && (n.Callee == "print_str" || n.Callee == "println_str") {
					printedLits++
					continue
				}
				if a.Type() == types.Str || a.Type() == types.I32 {
					needsMinimal = true
				}
				if a.Type() == types.F64 || a.Type() == types.F32 {
					needsFull = true
				}
			}
		case *ast.MethodCall:
			needsFull = true
		}
	}

	for _, fn := range prog.Functions {
		for _, p := range fn.Params {
			if p.Type == types.F64 || p.Type == types.F32 {
				needsFull = true
			}
			if p.Type == types.Str || p.Type == types.I32 {
				needsMinimal = true
			}
		}
		walkStmts(fn.Body, onStmt, onExpr)
	}
	walkStmts(prog.TopLevel, onStmt, onExpr)
	if stringLits > printedLits {
		needsMinimal = true
	}

	if needsFull {
		return tierFull
	}
	if needsMinimal {
		return tierMinimal
	}
	return tierUltraMinimal
}

package codegen

import (
	"fmt"
	"strings"

	"github.com/linescript-lang/lsc/internal/ast"
)

// cName returns the symbol codegen emits for fn: its resolver-assigned
// mangled name when set (class methods, overloaded free functions),
// else its source name. A user-defined `main` is renamed so it never
// collides with the C `main` synthesized by emitEntryWrapper, which
// calls this renamed symbol when fn is chosen as the entry point.
func cName(fn *ast.Function) string {
	name := fn.MangledSymbol
	if name == "" {
		name = fn.Name
	}
	if name == "main" {
		return "__ls_user_main"
	}
	return name
}

func (g *generator) paramList(fn *ast.Function) string {
	parts := make([]string, 0, len(fn.Params)+1)
	if fn.ClassOwner != "" {
		parts = append(parts, "int64_t self")
	}
	for _, p := range fn.Params {
		parts = append(parts, cType(p.Type)+" "+p.Name)
	}
	if len(parts) == 0 {
		return "void"
	}
	return strings.Join(parts, ", ")
}

func (g *generator) emitFunctionPrototype(fn *ast.Function) {
	if fn.Extern {
		fmt.Fprintf(&g.out, "extern %s %s(%s);\n", cType(fn.ReturnType), cName(fn), g.paramList(fn))
		return
	}
	qualifier := ""
	if fn.Inline {
		qualifier = "static inline "
	}
	fmt.Fprintf(&g.out, "%s%s %s(%s);\n", qualifier, cType(fn.ReturnType), cName(fn), g.paramList(fn))
}

func (g *generator) emitFunctionDefinition(fn *ast.Function) error {
	if fn.Extern {
		return nil
	}
	qualifier := ""
	if fn.Inline {
		qualifier = "static inline "
	}
	fmt.Fprintf(&g.out, "%s%s %s(%s) {\n", qualifier, cType(fn.ReturnType), cName(fn), g.paramList(fn))

	prev := g.functionStartLocal
	if callsStateSpeed(fn.Body) {
		g.functionStartLocal = "__ls_fn_start_us"
		fmt.Fprintf(&g.out, "\tint64_t %s = clock_us();\n", g.functionStartLocal)
	} else {
		g.functionStartLocal = ""
	}

	prevClass := g.currentClass
	if fn.ClassOwner != "" {
		g.currentClass = g.prog.Classes[fn.ClassOwner]
	} else {
		g.currentClass = nil
	}

	g.pushCleanupScope()
	if err := g.emitStmts(fn.Body, "\t", 0); err != nil {
		return err
	}
	g.emitCleanupsInsideOut("\t", len(g.cleanup)-1)
	g.popCleanupScope()

	g.currentClass = prevClass
	g.functionStartLocal = prev
	g.out.WriteString("}\n\n")
	return nil
}

func callsStateSpeed(stmts []ast.Stmt) bool {
	found := false
	walkStmts(stmts, func(ast.Stmt) {}, func(e ast.Expr) {
		if c, ok := e.(*ast.Call); ok && c.Callee == "stateSpeed" {
			found = true
		}
	})
	return found
}

package codegen

import (
	"fmt"
	"strings"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// emitStmts lowers stmts into the current (already-pushed) cleanup
// scope. loopDepth is the cleanup-stack index of the nearest enclosing
// loop body's own scope, consulted by break/continue; 0 at function
// level, outside any loop.
func (g *generator) emitStmts(stmts []ast.Stmt, indent string, loopDepth int) error {
	for _, s := range stmts {
		if err := g.emitStmt(s, indent, loopDepth); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) emitStmt(s ast.Stmt, indent string, loopDepth int) error {
	switch n := s.(type) {
	case *ast.DeclareStmt:
		return g.emitDeclare(n, indent)
	case *ast.AssignStmt:
		return g.emitAssign(n, indent)
	case *ast.ExprStmt:
		val, err := g.emitExpr(n.X)
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.out, "%s%s;\n", indent, val)
		return nil
	case *ast.ReturnStmt:
		return g.emitReturn(n, indent)
	case *ast.IfStmt:
		return g.emitIf(n, indent, loopDepth)
	case *ast.WhileStmt:
		return g.emitWhile(n, indent, loopDepth)
	case *ast.ForRangeStmt:
		return g.emitForRange(n, indent, loopDepth)
	case *ast.FormatBlock:
		return g.emitFormatBlock(n, indent, loopDepth)
	case *ast.BreakStmt:
		g.emitCleanupsInsideOut(indent, max(loopDepth, 0))
		fmt.Fprintf(&g.out, "%sbreak;\n", indent)
		return nil
	case *ast.ContinueStmt:
		g.emitCleanupsInsideOut(indent, max(loopDepth, 0))
		fmt.Fprintf(&g.out, "%scontinue;\n", indent)
		return nil
	default:
		return fmt.Errorf("unsupported statement type %T", s)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (g *generator) emitConstructorDeclare(n *ast.DeclareStmt, call *ast.Call, indent string) error {
	args := make([]string, 0, len(call.Args)+1)
	args = append(args, "object_new()")
	for _, a := range call.Args {
		v, err := g.emitExpr(a)
		if err != nil {
			return err
		}
		args = append(args, v)
	}
	fmt.Fprintf(&g.out, "%sint64_t %s = %s;\n", indent, n.Name, args[0])
	args[0] = n.Name

	if err := g.emitFieldDefaults(call.ResolvedClass, n.Name, indent); err != nil {
		return err
	}

	// A class with no declared constructor has nothing to call: the
	// fresh handle from object_new() is the whole of construction.
	if call.ResolvedSymbol != "" {
		fmt.Fprintf(&g.out, "%s%s(%s);\n", indent, call.ResolvedSymbol, joinArgs(args))
	}
	return nil
}

// emitFieldDefaults writes an object_set for every field of className that
// declares a non-empty initializer (`declare x: i64 = 5`), in declaration
// order, before the user constructor body runs. Without this, a field's
// parsed default is otherwise never read anywhere and silently dropped:
// object_new() leaves the key unset, so a read before any constructor
// assignment sees whatever the runtime's missing-key default is rather
// than the declared one.
//
// Defaults are emitted with no implicit receiver in scope (unlike a
// method body): they run at the declare-statement call site, against the
// freshly allocated handle named by `handle`, not a `self` parameter, so
// a default referencing `this` or a sibling field would lower incorrectly
// and is not a supported expression here.
func (g *generator) emitFieldDefaults(className, handle, indent string) error {
	class := g.prog.Classes[className]
	if class == nil {
		return nil
	}
	for _, name := range class.FieldOrder {
		field := class.Fields[name]
		if field.Default == nil {
			continue
		}
		val, err := g.emitExpr(field.Default)
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.out, "%sobject_set(%s, \"%s\", %s);\n", indent, handle, name, coerceToObjectSet(val, field.Type))
	}
	return nil
}

func (g *generator) emitDeclare(n *ast.DeclareStmt, indent string) error {
	if n.Init == nil {
		fmt.Fprintf(&g.out, "%s%s %s = {0};\n", indent, cType(n.DeclaredType), n.Name)
		return nil
	}
	// A class constructor call needs its own statement: the constructor
	// itself returns void (it initializes fields on an already-allocated
	// handle via object_set), so `declare p = P(7)` lowers to an
	// allocation plus a void constructor call rather than a single
	// initializer expression (spec §4.2's string-valued field storage).
	if call, ok := n.Init.(*ast.Call); ok && call.ResolvedClass != "" {
		return g.emitConstructorDeclare(n, call, indent)
	}
	val, err := g.emitExpr(n.Init)
	if err != nil {
		return err
	}
	typ := n.Init.Type()
	if n.HasType {
		typ = n.DeclaredType
	}
	if typ == types.Str {
		val = "ls_str_hold(" + val + ")"
	}
	fmt.Fprintf(&g.out, "%s%s %s = %s;\n", indent, cType(typ), n.Name, val)
	if n.Owned {
		freeFunc := n.FreeFunc
		if freeFunc == "" {
			freeFunc = ownedFreeFuncFor(n.Init)
		}
		g.registerOwned(freeFunc, n.Name)
	}
	return nil
}

// ownedFreeFuncFor recovers the constructor's paired free function from
// the initializer call when the checker did not already resolve one
// (defensive fallback; the checker normally fills DeclareStmt.FreeFunc).
func ownedFreeFuncFor(init ast.Expr) string {
	call, ok := init.(*ast.Call)
	if !ok {
		return ""
	}
	return ownedConstructorFree[call.Callee]
}

var ownedConstructorFree = map[string]string{
	"array_new": "array_free", "dict_new": "dict_free", "map_new": "map_free",
	"object_new": "object_free", "option_new": "option_free", "result_new": "result_free",
	"np_new": "np_free", "gfx_new": "gfx_free", "game_new": "game_free",
	"pg_surface_new": "pg_surface_free", "phys_new": "phys_free",
	"http_server_new": "http_server_free", "http_client_new": "http_client_free",
}

func (g *generator) emitAssign(n *ast.AssignStmt, indent string) error {
	val, err := g.emitExpr(n.Value)
	if err != nil {
		return err
	}
	if n.Value.Type() == types.Str {
		val = "ls_str_hold(" + val + ")"
	}
	if n.Target != nil {
		fg, ok := n.Target.(*ast.FieldGet)
		if !ok {
			return fmt.Errorf("unsupported assignment target %T", n.Target)
		}
		obj, err := g.emitExpr(fg.Object)
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.out, "%sobject_set(%s, \"%s\", %s);\n", indent, obj, fg.Field, coerceToObjectSet(val, fg.FieldType))
		return nil
	}
	if fieldType, ok := g.classFieldType(n.Name); ok {
		lhs := coerceFromObjectGet(fmt.Sprintf("object_get(self, \"%s\")", n.Name), fieldType)
		rhs := val
		if n.Op != lexer.ASSIGN {
			rhs = fmt.Sprintf("(%s %s %s)", lhs, compoundOperator(n.Op), val)
		}
		fmt.Fprintf(&g.out, "%sobject_set(self, \"%s\", %s);\n", indent, n.Name, coerceToObjectSet(rhs, fieldType))
		return nil
	}
	fmt.Fprintf(&g.out, "%s%s %s %s;\n", indent, n.Name, n.Op.String(), val)
	return nil
}

// compoundOperator strips the trailing `=` a compound-assign token
// carries (`+=` -> `+`) so a field's read-modify-write can be expressed
// as a single expression around object_get/object_set.
func compoundOperator(op lexer.TokenKind) string {
	s := op.String()
	return strings.TrimSuffix(s, "=")
}

func (g *generator) emitReturn(n *ast.ReturnStmt, indent string) error {
	if n.Value == nil {
		g.emitAllCleanups(indent)
		fmt.Fprintf(&g.out, "%sreturn;\n", indent)
		return nil
	}
	val, err := g.emitExpr(n.Value)
	if err != nil {
		return err
	}
	if n.Value.Type() == types.Str {
		val = "ls_str_hold(" + val + ")"
	}
	// The return value is evaluated before cleanups run so an owned
	// handle or string about to be freed isn't read after release.
	fmt.Fprintf(&g.out, "%s%s __ls_ret = %s;\n", indent, cType(n.Value.Type()), val)
	g.emitAllCleanups(indent)
	fmt.Fprintf(&g.out, "%sreturn __ls_ret;\n", indent)
	return nil
}

func (g *generator) emitIf(n *ast.IfStmt, indent string, loopDepth int) error {
	cond, err := g.emitExpr(n.Cond)
	if err != nil {
		return err
	}
	fmt.Fprintf(&g.out, "%sif (%s) {\n", indent, cond)
	g.pushCleanupScope()
	if err := g.emitStmts(n.Then, indent+"\t", loopDepth); err != nil {
		return err
	}
	g.emitCleanupsInsideOut(indent+"\t", len(g.cleanup)-1)
	g.popCleanupScope()

	for _, ei := range n.Elifs {
		econd, err := g.emitExpr(ei.Cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.out, "%s} else if (%s) {\n", indent, econd)
		g.pushCleanupScope()
		if err := g.emitStmts(ei.Body, indent+"\t", loopDepth); err != nil {
			return err
		}
		g.emitCleanupsInsideOut(indent+"\t", len(g.cleanup)-1)
		g.popCleanupScope()
	}

	if len(n.Else) > 0 {
		fmt.Fprintf(&g.out, "%s} else {\n", indent)
		g.pushCleanupScope()
		if err := g.emitStmts(n.Else, indent+"\t", loopDepth); err != nil {
			return err
		}
		g.emitCleanupsInsideOut(indent+"\t", len(g.cleanup)-1)
		g.popCleanupScope()
	}
	fmt.Fprintf(&g.out, "%s}\n", indent)
	return nil
}

func (g *generator) emitWhile(n *ast.WhileStmt, indent string, _ int) error {
	cond, err := g.emitExpr(n.Cond)
	if err != nil {
		return err
	}
	fmt.Fprintf(&g.out, "%swhile (%s) {\n", indent, cond)
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

func (g *generator) emitFormatBlock(n *ast.FormatBlock, indent string, loopDepth int) error {
	fmt.Fprintf(&g.out, "%sls_format_begin();\n", indent)
	fmt.Fprintf(&g.out, "%s{\n", indent)
	g.pushCleanupScope()
	if err := g.emitStmts(n.Body, indent+"\t", loopDepth); err != nil {
		return err
	}
	g.emitCleanupsInsideOut(indent+"\t", len(g.cleanup)-1)
	g.popCleanupScope()
	fmt.Fprintf(&g.out, "%s}\n", indent)
	end := `""`
	if n.EndSuffix != nil {
		e, err := g.emitExpr(n.EndSuffix)
		if err != nil {
			return err
		}
		end = e
	}
	fmt.Fprintf(&g.out, "%sls_emit_text(ls_format_end(%s));\n", indent, end)
	return nil
}

package codegen

import (
	"fmt"
	"strconv"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// emitExpr lowers e into a C expression string. Nothing here writes
// directly to g.out: statement emitters decide placement (e.g. wrapping
// a str-typed result in ls_str_hold).
func (g *generator) emitExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(n.Value, 10), nil
	case *ast.FloatLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64), nil
	case *ast.BoolLit:
		if n.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.StringLit:
		return strconv.Quote(n.Value), nil
	case *ast.Ident:
		if n.Name == "this" && g.currentClass != nil {
			return "self", nil
		}
		if fieldType, ok := g.classFieldType(n.Name); ok {
			return coerceFromObjectGet(fmt.Sprintf("object_get(self, \"%s\")", n.Name), fieldType), nil
		}
		return n.Name, nil
	case *ast.UnaryOp:
		return g.emitUnary(n)
	case *ast.BinaryOp:
		return g.emitBinary(n)
	case *ast.Call:
		return g.emitCall(n)
	case *ast.FieldGet:
		return g.emitFieldGet(n)
	case *ast.MethodCall:
		return g.emitMethodCall(n)
	default:
		return "", fmt.Errorf("unsupported expression type %T", e)
	}
}

func (g *generator) emitUnary(n *ast.UnaryOp) (string, error) {
	x, err := g.emitExpr(n.X)
	if err != nil {
		return "", err
	}
	if n.OverrideSymbol != "" {
		return fmt.Sprintf("%s(%s)", n.OverrideSymbol, x), nil
	}
	switch n.Op {
	case lexer.MINUS:
		return fmt.Sprintf("(-%s)", x), nil
	case lexer.BANG, lexer.NOT:
		return fmt.Sprintf("(!%s)", x), nil
	default:
		return "", fmt.Errorf("unsupported unary operator %s", n.Op.String())
	}
}

func (g *generator) emitBinary(n *ast.BinaryOp) (string, error) {
	l, err := g.emitExpr(n.L)
	if err != nil {
		return "", err
	}
	r, err := g.emitExpr(n.R)
	if err != nil {
		return "", err
	}

	if n.OverrideSymbol != "" {
		return fmt.Sprintf("%s(%s, %s)", n.OverrideSymbol, l, r), nil
	}

	if n.L.Type() == types.Str && n.R.Type() == types.Str {
		switch n.Op {
		case lexer.EQ:
			return fmt.Sprintf("ls_str_eq(%s, %s)", l, r), nil
		case lexer.NEQ:
			return fmt.Sprintf("ls_str_neq(%s, %s)", l, r), nil
		}
	}

	switch n.Op {
	case lexer.POW, lexer.CARET:
		return fmt.Sprintf("ls_pow((double)(%s), (double)(%s))", l, r), nil
	case lexer.PLUS:
		return fmt.Sprintf("(%s + %s)", l, r), nil
	case lexer.MINUS:
		return fmt.Sprintf("(%s - %s)", l, r), nil
	case lexer.STAR:
		return fmt.Sprintf("(%s * %s)", l, r), nil
	case lexer.SLASH:
		return fmt.Sprintf("(%s / %s)", l, r), nil
	case lexer.PERCENT:
		return fmt.Sprintf("(%s %% %s)", l, r), nil
	case lexer.EQ:
		return fmt.Sprintf("(%s == %s)", l, r), nil
	case lexer.NEQ:
		return fmt.Sprintf("(%s != %s)", l, r), nil
	case lexer.LT:
		return fmt.Sprintf("(%s < %s)", l, r), nil
	case lexer.GT:
		return fmt.Sprintf("(%s > %s)", l, r), nil
	case lexer.LE:
		return fmt.Sprintf("(%s <= %s)", l, r), nil
	case lexer.GE:
		return fmt.Sprintf("(%s >= %s)", l, r), nil
	case lexer.ANDAND, lexer.AND:
		return fmt.Sprintf("(%s && %s)", l, r), nil
	case lexer.OROR, lexer.OR:
		return fmt.Sprintf("(%s || %s)", l, r), nil
	default:
		return "", fmt.Errorf("unsupported binary operator %s", n.Op.String())
	}
}

// polymorphicBuiltins names the builtins that dispatch via a _Generic
// macro rather than a plain call (spec §4.5).
var polymorphicBuiltins = map[string]string{
	"print": "PRINT", "println": "PRINTLN",
}

func (g *generator) emitCall(n *ast.Call) (string, error) {
	if n.ResolvedClass != "" {
		// Constructors return void (they initialize fields on an
		// already-allocated handle); only `declare p = P(...)` can lower
		// a constructor call, since it can split into an allocation
		// statement plus a call statement. A constructor invoked from any
		// other expression position has no single value to produce.
		return "", fmt.Errorf("class constructor call to %q is only supported as a declare initializer", n.ResolvedClass)
	}

	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		v, err := g.emitExpr(a)
		if err != nil {
			return "", err
		}
		if a.Type() == types.Str {
			v = "ls_str_hold(" + v + ")"
		}
		args[i] = v
	}

	switch n.Callee {
	case "stateSpeed":
		start := g.functionStartLocal
		if start == "" {
			start = "0"
		}
		return fmt.Sprintf("(clock_us() - %s)", start), nil
	case "spawn":
		if len(args) != 1 {
			return "", fmt.Errorf("spawn expects exactly one argument")
		}
		return fmt.Sprintf("ls_spawn(%s)", args[0]), nil
	case "await":
		if len(args) != 1 {
			return "", fmt.Errorf("await expects exactly one argument")
		}
		return fmt.Sprintf("ls_await(%s)", args[0]), nil
	case "await_all":
		return "ls_await_all()", nil
	}

	if macro, ok := polymorphicBuiltins[n.Callee]; ok {
		if len(args) == 0 {
			return "println_void()", nil
		}
		return fmt.Sprintf("%s(%s)", macro, args[0]), nil
	}
	if fn, ok := polymorphicMathBuiltin[n.Callee]; ok {
		return fmt.Sprintf("%s(%s)", fn, joinArgs(args)), nil
	}

	symbol := n.Callee
	if n.ResolvedSymbol != "" {
		symbol = n.ResolvedSymbol
	}
	return fmt.Sprintf("%s(%s)", symbol, joinArgs(args)), nil
}

var polymorphicMathBuiltin = map[string]string{
	"max": "ls_max_i64", "min": "ls_min_i64", "abs": "ls_abs_i64", "clamp": "ls_clamp_i64",
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

func (g *generator) emitFieldGet(n *ast.FieldGet) (string, error) {
	obj, err := g.emitExpr(n.Object)
	if err != nil {
		return "", err
	}
	getter := fmt.Sprintf("object_get(%s, \"%s\")", obj, n.Field)
	return coerceFromObjectGet(getter, n.FieldType), nil
}

func (g *generator) emitMethodCall(n *ast.MethodCall) (string, error) {
	obj, err := g.emitExpr(n.Object)
	if err != nil {
		return "", err
	}
	args := make([]string, 0, len(n.Args)+1)
	args = append(args, obj)
	for _, a := range n.Args {
		v, err := g.emitExpr(a)
		if err != nil {
			return "", err
		}
		args = append(args, v)
	}
	if n.Method == "stateSpeed" {
		start := g.functionStartLocal
		if start == "" {
			start = "0"
		}
		return fmt.Sprintf("(clock_us() - %s)", start), nil
	}
	symbol := n.ResolvedSymbol
	if symbol == "" {
		symbol = n.Method
	}
	return fmt.Sprintf("%s(%s)", symbol, joinArgs(args)), nil
}

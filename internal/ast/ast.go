// Package ast defines the Abstract Syntax Tree node types for LineScript.
// Source-level single-hierarchy variants map onto a small closed set of
// Go struct types behind Expr/Stmt interfaces (spec §9: "a small closed
// set of variants makes pattern matching the natural dispatch").
package ast

import (
	"strconv"
	"strings"

	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expr is any node that produces a value. Every expression carries an
// inferred type and a Typed flag, set once the checker has visited it
// (spec §3).
type Expr interface {
	Node
	exprNode()
	Type() types.Kind
	SetType(types.Kind)
	IsTyped() bool
}

// Stmt is any node that performs an action without producing a value.
type Stmt interface {
	Node
	stmtNode()
}

// exprBase is embedded by every concrete Expr to provide the shared
// typed-state bookkeeping.
type exprBase struct {
	pos   lexer.Position
	typ   types.Kind
	typed bool
}

func (e *exprBase) exprNode()         {}
func (e *exprBase) Pos() lexer.Position { return e.pos }
func (e *exprBase) Type() types.Kind   { return e.typ }
func (e *exprBase) IsTyped() bool      { return e.typed }
func (e *exprBase) SetType(t types.Kind) {
	e.typ = t
	e.typed = true
}

// ---- Expressions --------------------------------------------------------

// IntLit is an integer literal.
type IntLit struct {
	exprBase
	Value int64
}

func NewIntLit(pos lexer.Position, v int64) *IntLit {
	return &IntLit{exprBase: exprBase{pos: pos}, Value: v}
}
func (n *IntLit) String() string { return strconv.FormatInt(n.Value, 10) }

// FloatLit is a floating-point literal.
type FloatLit struct {
	exprBase
	Value float64
}

func NewFloatLit(pos lexer.Position, v float64) *FloatLit {
	return &FloatLit{exprBase: exprBase{pos: pos}, Value: v}
}
func (n *FloatLit) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// BoolLit is a boolean literal.
type BoolLit struct {
	exprBase
	Value bool
}

func NewBoolLit(pos lexer.Position, v bool) *BoolLit {
	return &BoolLit{exprBase: exprBase{pos: pos}, Value: v}
}
func (n *BoolLit) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// StringLit is a string literal (the decoded value, escapes already
// resolved by the lexer).
type StringLit struct {
	exprBase
	Value string
}

func NewStringLit(pos lexer.Position, v string) *StringLit {
	return &StringLit{exprBase: exprBase{pos: pos}, Value: v}
}
func (n *StringLit) String() string { return `"` + n.Value + `"` }

// Ident is a variable reference.
type Ident struct {
	exprBase
	Name string
}

func NewIdent(pos lexer.Position, name string) *Ident {
	return &Ident{exprBase: exprBase{pos: pos}, Name: name}
}
func (n *Ident) String() string { return n.Name }

// UnaryOp is a unary expression (negate, logical-not). OverrideSymbol, if
// non-empty, names an operator-override function (spec §3, §4.3); neither
// the parser nor the checker sets it, so it stays empty and the built-in
// operator rules apply.
type UnaryOp struct {
	exprBase
	Op             lexer.TokenKind
	X              Expr
	OverrideSymbol string
}

func NewUnaryOp(pos lexer.Position, op lexer.TokenKind, x Expr) *UnaryOp {
	return &UnaryOp{exprBase: exprBase{pos: pos}, Op: op, X: x}
}
func (n *UnaryOp) String() string { return n.Op.String() + n.X.String() }

// BinaryOp is a binary expression (arithmetic, comparison, logical,
// power). OverrideSymbol mirrors UnaryOp.
type BinaryOp struct {
	exprBase
	Op             lexer.TokenKind
	L, R           Expr
	OverrideSymbol string
}

func NewBinaryOp(pos lexer.Position, op lexer.TokenKind, l, r Expr) *BinaryOp {
	return &BinaryOp{exprBase: exprBase{pos: pos}, Op: op, L: l, R: r}
}
func (n *BinaryOp) String() string {
	return "(" + n.L.String() + " " + n.Op.String() + " " + n.R.String() + ")"
}

// Call is a function-call expression: callee name plus arguments. The
// checker resolves Callee to a concrete overload and records its mangled
// symbol and throws-set in ResolvedSymbol/ResolvedThrows.
type Call struct {
	exprBase
	Callee         string
	Args           []Expr
	ResolvedSymbol string
	ResolvedThrows []string
	// ResolvedClass is non-empty when Callee names a class: this Call is
	// a constructor invocation (`P(7)`), not a plain function call.
	ResolvedClass string
}

func NewCall(pos lexer.Position, callee string, args []Expr) *Call {
	return &Call{exprBase: exprBase{pos: pos}, Callee: callee, Args: args}
}
func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Callee + "(" + strings.Join(parts, ", ") + ")"
}

// FieldGet is the parser's lowering of `v.x` field access into a typed
// read of the string-keyed object store (spec §4.2): the field's declared
// type (FieldType) is filled in by the checker so codegen can emit the
// right coercion helper around object_get.
type FieldGet struct {
	exprBase
	Object    Expr
	Field     string
	FieldType types.Kind
}

func NewFieldGet(pos lexer.Position, obj Expr, field string) *FieldGet {
	return &FieldGet{exprBase: exprBase{pos: pos}, Object: obj, Field: field}
}
func (n *FieldGet) String() string { return n.Object.String() + "." + n.Field }

// MethodCall is `v.method(args)`, resolved by the class/overload resolver
// to a mangled method symbol.
type MethodCall struct {
	exprBase
	Object         Expr
	Method         string
	Args           []Expr
	ResolvedSymbol string
}

func NewMethodCall(pos lexer.Position, obj Expr, method string, args []Expr) *MethodCall {
	return &MethodCall{exprBase: exprBase{pos: pos}, Object: obj, Method: method, Args: args}
}
func (n *MethodCall) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Object.String() + "." + n.Method + "(" + strings.Join(parts, ", ") + ")"
}

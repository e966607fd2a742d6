package ast

import (
	"strings"

	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// Param is one function parameter.
type Param struct {
	Name string
	Type types.Kind
}

// Access is a class member's access level (spec §4.2); the
// static/virtual/override/final modifiers are separate Function fields.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// OperatorKind names the synthetic method key for an operator override
// (spec §4.2: `__ls_op_add`, `__ls_uop_neg`, etc.), empty for an ordinary
// method.
type OperatorKind string

// Function is a top-level or class-method declaration (spec §3).
type Function struct {
	Pos            lexer.Position
	Name           string
	SourceName     string // pre-mangling name
	Params         []Param
	ReturnType     types.Kind
	Throws         []string
	Body           []Stmt
	ClassOwner     string // empty for free functions
	Static         bool
	Virtual        bool
	Override       bool
	Final          bool
	Access         Access
	Operator       OperatorKind
	CLIFlagName    string // non-empty for `flag name-with-dashes()`
	Extern         bool
	Inline         bool
	MangledSymbol  string // assigned by the class/overload resolver
	IsConstructor  bool
	BaseInitArgs   []Expr // `: Base(args)` constructor init list
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	return "fn " + f.Name + "(" + strings.Join(parts, ", ") + ") -> " + f.ReturnType.String()
}

// FieldDecl is a class field: exactly one declaring class per field name
// (spec §3 invariant).
type FieldDecl struct {
	Pos     lexer.Position
	Name    string
	Type    types.Kind
	Access  Access
	Owner   string // the declaring class name
	Default Expr   // type-appropriate zero if omitted
}

// MethodOverload is one entry in a class's method overload group.
type MethodOverload struct {
	Fn *Function
}

// Class is a class declaration: field layout, method overload groups,
// and the base chain used for shallow reflection (spec §3, §9).
type Class struct {
	Pos     lexer.Position
	Name    string
	Base    string // empty for no base class
	Fields  map[string]*FieldDecl
	// FieldOrder records each field name in declaration order, so codegen
	// can emit per-field default initialization deterministically instead
	// of Go's randomized map iteration order over Fields (spec §8
	// property 1).
	FieldOrder []string
	Methods    map[string][]*MethodOverload // method name -> overload group
	// MethodOrder records each distinct Methods key the first time it is
	// registered, so codegen can flatten the overload groups in
	// declaration order instead of Go's randomized map iteration order
	// (spec §8 property 1: byte-identical C output across runs).
	MethodOrder []string
}

func NewClass(pos lexer.Position, name string) *Class {
	return &Class{
		Pos:     pos,
		Name:    name,
		Fields:  make(map[string]*FieldDecl),
		Methods: make(map[string][]*MethodOverload),
	}
}

// MacroParamKind is one of expr|stmt|item; only expr is fully implemented
// (spec §3, §4.2).
type MacroParamKind string

const (
	MacroParamExpr MacroParamKind = "expr"
	MacroParamStmt MacroParamKind = "stmt"
	MacroParamItem MacroParamKind = "item"
)

// MacroParam is one macro parameter declaration.
type MacroParam struct {
	Name string
	Kind MacroParamKind
}

// Macro is a declaration-time record expanded at parse time via
// `expand(macro(args...))` (spec §3).
type Macro struct {
	Pos    lexer.Position
	Name   string
	Params []MacroParam
	Body   Expr // return-kind is currently expr only
}

// Program is the root AST node: every parsed function and every declared
// class, keyed by name. The `__linescript_script_main` wrapper over the
// top-level statements is not in Functions; codegen builds it from TopLevel.
type Program struct {
	Functions []*Function
	Classes   map[string]*Class
	// ClassOrder records each class name in declaration order, so codegen
	// can emit per-class output (e.g. class comments) deterministically
	// instead of Go's randomized map iteration order over Classes (spec §8
	// property 1).
	ClassOrder []string
	Macros     map[string]*Macro
	// TopLevel holds the original top-level statements; the code generator
	// (codegen's chooseEntry) wraps them into __linescript_script_main (spec §3).
	TopLevel []Stmt
}

func NewProgram() *Program {
	return &Program{
		Classes: make(map[string]*Class),
		Macros:  make(map[string]*Macro),
	}
}

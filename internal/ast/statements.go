package ast

import (
	"strings"

	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

type stmtBase struct {
	pos lexer.Position
}

func (s *stmtBase) stmtNode()           {}
func (s *stmtBase) Pos() lexer.Position { return s.pos }

// DeclareStmt is `declare name[: type] [= init]`, optionally `const` or
// `owned`. FreeFunc is filled in by the checker for owned bindings: the
// free function determined from the initializer's constructor identity
// (spec §3 invariants).
type DeclareStmt struct {
	stmtBase
	Name         string
	DeclaredType types.Kind
	HasType      bool
	Const        bool
	Owned        bool
	Init         Expr
	FreeFunc     string
}

func NewDeclareStmt(pos lexer.Position, name string, init Expr) *DeclareStmt {
	return &DeclareStmt{stmtBase: stmtBase{pos: pos}, Name: name, Init: init}
}
func (s *DeclareStmt) String() string {
	var sb strings.Builder
	sb.WriteString("declare ")
	if s.Const {
		sb.WriteString("const ")
	}
	if s.Owned {
		sb.WriteString("owned ")
	}
	sb.WriteString(s.Name)
	if s.Init != nil {
		sb.WriteString(" = ")
		sb.WriteString(s.Init.String())
	}
	return sb.String()
}

// AssignStmt is `name = e` or a compound-assignment form (`+= -= *= /= %= ^=`).
// Target may also be a FieldGet when lowered from `v.x = e` (spec §4.2),
// in which case the parser wraps it directly rather than reusing Name.
type AssignStmt struct {
	stmtBase
	Name   string
	Target Expr // non-nil only for `v.x = e` forms; Name used for plain vars
	Op     lexer.TokenKind // ASSIGN or a compound-assign kind
	Value  Expr
}

func NewAssignStmt(pos lexer.Position, name string, op lexer.TokenKind, value Expr) *AssignStmt {
	return &AssignStmt{stmtBase: stmtBase{pos: pos}, Name: name, Op: op, Value: value}
}
func (s *AssignStmt) String() string {
	return s.Name + " " + s.Op.String() + " " + s.Value.String()
}

// ExprStmt is a bare expression used for its side effects.
type ExprStmt struct {
	stmtBase
	X Expr
}

func NewExprStmt(pos lexer.Position, x Expr) *ExprStmt { return &ExprStmt{stmtBase: stmtBase{pos: pos}, X: x} }
func (s *ExprStmt) String() string                     { return s.X.String() }

// ReturnStmt is `return [expr]`.
type ReturnStmt struct {
	stmtBase
	Value Expr // nil for a void return
}

func NewReturnStmt(pos lexer.Position, value Expr) *ReturnStmt {
	return &ReturnStmt{stmtBase: stmtBase{pos: pos}, Value: value}
}
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// IfStmt is `if cond { ... } elif cond { ... }... [else { ... }]`.
// Elifs holds zero or more (cond, body) pairs evaluated in order; Else is
// nil when there is no trailing else.
type ElifClause struct {
	Cond Expr
	Body []Stmt
}

type IfStmt struct {
	stmtBase
	Cond  Expr
	Then  []Stmt
	Elifs []ElifClause
	Else  []Stmt
}

func NewIfStmt(pos lexer.Position, cond Expr, then []Stmt) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{pos: pos}, Cond: cond, Then: then}
}
func (s *IfStmt) String() string { return "if " + s.Cond.String() + " { ... }" }

// WhileStmt is `while cond { ... }`.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body []Stmt
}

func NewWhileStmt(pos lexer.Position, cond Expr, body []Stmt) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{pos: pos}, Cond: cond, Body: body}
}
func (s *WhileStmt) String() string { return "while " + s.Cond.String() + " { ... }" }

// ForRangeStmt is `[parallel] for v in start..stop [step s] { ... }`.
type ForRangeStmt struct {
	stmtBase
	Var      string
	Start    Expr
	Stop     Expr
	Step     Expr // nil means literal step 1
	Parallel bool
	Body     []Stmt
}

func NewForRangeStmt(pos lexer.Position, v string, start, stop Expr, body []Stmt) *ForRangeStmt {
	return &ForRangeStmt{stmtBase: stmtBase{pos: pos}, Var: v, Start: start, Stop: stop, Body: body}
}
func (s *ForRangeStmt) String() string {
	prefix := ""
	if s.Parallel {
		prefix = "parallel "
	}
	return prefix + "for " + s.Var + " in " + s.Start.String() + ".." + s.Stop.String() + " { ... }"
}

// FormatBlock is `formatOutput([endSuffix]) do ... end`: a scoped
// acquisition of the thread-local format context (spec §9), releasing on
// every exit path.
type FormatBlock struct {
	stmtBase
	EndSuffix Expr // nil if omitted
	Body      []Stmt
}

func NewFormatBlock(pos lexer.Position, endSuffix Expr, body []Stmt) *FormatBlock {
	return &FormatBlock{stmtBase: stmtBase{pos: pos}, EndSuffix: endSuffix, Body: body}
}
func (s *FormatBlock) String() string { return "formatOutput() do ... end" }

// BreakStmt / ContinueStmt are loop-control statements.
type BreakStmt struct{ stmtBase }

func NewBreakStmt(pos lexer.Position) *BreakStmt { return &BreakStmt{stmtBase{pos: pos}} }
func (s *BreakStmt) String() string              { return "break" }

type ContinueStmt struct{ stmtBase }

func NewContinueStmt(pos lexer.Position) *ContinueStmt { return &ContinueStmt{stmtBase{pos: pos}} }
func (s *ContinueStmt) String() string                 { return "continue" }

// Package semantic implements LineScript's two-pass type checker: collect
// every builtin and user signature into overload groups, then check each
// function body, resolving overloads, enforcing throws contracts,
// ownership rules, and const write-once bindings (spec §4.3).
package semantic

import (
	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/errors"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// varInfo is what the checker knows about one local binding.
type varInfo struct {
	Type     types.Kind
	Const    bool
	Owned    bool
	FreeFunc string
	ClassOf  string // non-empty when the binding holds a class instance
}

// scope is a chain of block-local variable maps; for-loop variables
// shadow outer names only within the loop body (spec §3 invariant).
type scope struct {
	vars   map[string]*varInfo
	parent *scope
}

func newScope(parent *scope) *scope { return &scope{vars: make(map[string]*varInfo), parent: parent} }

func (s *scope) lookup(name string) (*varInfo, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) define(name string, v *varInfo) { s.vars[name] = v }

// Checker performs LineScript's semantic analysis over a parsed Program.
type Checker struct {
	symbols   *SymbolTable
	classes   map[string]*ast.Class
	errs      errors.List
	warnings  errors.List
	superuser bool

	currentFunction *ast.Function
	loopDepth       int
	parallelDepth   int
}

// New constructs a Checker with the builtin catalog pre-registered.
func New() *Checker {
	c := &Checker{symbols: NewSymbolTable(), classes: make(map[string]*ast.Class)}
	c.registerBuiltins()
	return c
}

// Errors returns accumulated hard errors (empty under superuser mode,
// where they are recorded as warnings instead).
func (c *Checker) Errors() []*errors.CompileError { return c.errs.Items() }

// Warnings returns accumulated, deduplicated warnings, printed even on
// success per spec §7.
func (c *Checker) Warnings() []*errors.CompileError { return c.warnings.Items() }

// Superuser reports whether `superuser()` was found anywhere in the
// source (spec §4.3/§5: a process-wide permissive mode for this compile).
func (c *Checker) Superuser() bool { return c.superuser }

func (c *Checker) fail(pos lexer.Position, format string, args ...any) {
	if c.superuser {
		c.warnings.Add(errors.NewWarning(errors.StageCheck, pos, format, args...), true)
		return
	}
	c.errs.Add(errors.New(errors.StageCheck, pos, format, args...), false)
}

// Check runs both phases over prog and returns the Checker; its Errors
// are empty under superuser mode.
func Check(prog *ast.Program) *Checker {
	c := New()
	c.classes = prog.Classes
	c.detectSuperuser(prog)
	c.collect(prog)
	c.checkProgram(prog)
	return c
}

// detectSuperuser scans the whole program once for a `superuser()` call
// anywhere in the source; its presence enables the permissive mode for
// the entire compile (spec §4.3/§9 — modeled as an explicit bool field
// rather than global mutable state).
func (c *Checker) detectSuperuser(prog *ast.Program) {
	for _, fn := range prog.Functions {
		if walkCallsFor(fn.Body, "superuser") {
			c.superuser = true
			return
		}
	}
	if walkCallsFor(prog.TopLevel, "superuser") {
		c.superuser = true
	}
}

func walkCallsFor(stmts []ast.Stmt, name string) bool {
	found := false
	walkStatements(stmts, func(s ast.Stmt) {
		if es, ok := s.(*ast.ExprStmt); ok {
			walkExpr(es.X, func(e ast.Expr) {
				if call, ok := e.(*ast.Call); ok && call.Callee == name {
					found = true
				}
			})
		}
	}, func(e ast.Expr) {
		if call, ok := e.(*ast.Call); ok && call.Callee == name {
			found = true
		}
	})
	return found
}

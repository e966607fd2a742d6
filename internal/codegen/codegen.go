// Package codegen translates a checked, optimized LineScript Program into
// a single portable C translation unit (spec §4.5). It emits calls into
// the external C runtime library (print/format/collection/graphics/
// physics/HTTP helpers) rather than implementing that runtime itself:
// the runtime is a collaborator specified only by the symbols codegen
// calls, not a component this package owns.
package codegen

import (
	"fmt"
	"strings"

	"github.com/linescript-lang/lsc/internal/ast"
)

// Config controls tier selection and loop-shape decisions that depend on
// the target build rather than the program itself.
type Config struct {
	// OpenMP enables LS_PAR_FOR_IF emission for parallel loops; when
	// false, parallel loops fall back to a plain scalar loop. Vector-hint
	// candidates get LS_OMP_SIMD LS_VEC_HINT either way.
	OpenMP bool
	// Superuser mirrors the checker's superuser() detection: when true,
	// codegen additionally emits per-statement step/memory budget guards.
	Superuser bool
}

// generator holds the mutable state threaded through a single Emit call.
type generator struct {
	prog    *ast.Program
	cfg     Config
	tier    runtimeTier
	out     strings.Builder
	cleanup []*cleanupScope
	// functionStartLocal is non-empty inside a function body that calls
	// stateSpeed(), naming the captured entry-time local.
	functionStartLocal string
	// currentClass is non-nil while emitting a method body, so bare
	// field references (indistinguishable from locals in the AST) can be
	// recognized and lowered to object_get/object_set.
	currentClass *ast.Class
}

// cleanupScope is one entry on the owned-handle cleanup stack: every
// `declare owned` binding registers its free function here, and every
// scope exit (fall-through, branch, return, break, continue) emits the
// matching free calls inside-out (spec §4.5).
type cleanupScope struct {
	entries []cleanupEntry
}

type cleanupEntry struct {
	freeFunc string
	varName  string
}

// Emit lowers prog into a complete C translation unit.
func Emit(prog *ast.Program, cfg Config) (string, error) {
	g := &generator{prog: prog, cfg: cfg}
	g.tier = detectTier(prog)

	entry, err := chooseEntry(prog)
	if err != nil {
		return "", fmt.Errorf("codegen: %w", err)
	}
	synthesizedEntry := entry.Name == syntheticMainName && !containsFunction(prog.Functions, entry)

	g.emitPrelude()
	g.out.WriteString("\n")

	for _, fn := range prog.Functions {
		g.emitFunctionPrototype(fn)
	}
	if synthesizedEntry {
		g.emitFunctionPrototype(entry)
	}
	g.out.WriteString("\n")

	// prog.Classes is a map; iterate prog.ClassOrder (declaration order)
	// instead so the emitted comments don't reorder between runs (spec §8
	// property 1).
	for _, name := range prog.ClassOrder {
		g.emitClassComment(prog.Classes[name])
	}

	for _, fn := range prog.Functions {
		if err := g.emitFunctionDefinition(fn); err != nil {
			return "", fmt.Errorf("codegen: %w", err)
		}
	}
	if synthesizedEntry {
		if err := g.emitFunctionDefinition(entry); err != nil {
			return "", fmt.Errorf("codegen: %w", err)
		}
	}

	if err := g.emitEntryWrapper(entry); err != nil {
		return "", fmt.Errorf("codegen: %w", err)
	}

	return g.out.String(), nil
}

func containsFunction(fns []*ast.Function, target *ast.Function) bool {
	for _, fn := range fns {
		if fn == target {
			return true
		}
	}
	return false
}

func (g *generator) emitClassComment(class *ast.Class) {
	fmt.Fprintf(&g.out, "/* class %s: fields stored via object_get/object_set on an i64 handle */\n", class.Name)
}

func (g *generator) pushCleanupScope() *cleanupScope {
	sc := &cleanupScope{}
	g.cleanup = append(g.cleanup, sc)
	return sc
}

func (g *generator) popCleanupScope() {
	g.cleanup = g.cleanup[:len(g.cleanup)-1]
}

func (g *generator) registerOwned(freeFunc, varName string) {
	if len(g.cleanup) == 0 {
		return
	}
	top := g.cleanup[len(g.cleanup)-1]
	top.entries = append(top.entries, cleanupEntry{freeFunc: freeFunc, varName: varName})
}

// emitCleanupsInsideOut writes free calls for every scope from upTo
// (inclusive) to the innermost, in inside-out order: innermost scope's
// entries fire first, each scope's own entries fire last-declared-first.
func (g *generator) emitCleanupsInsideOut(indent string, upTo int) {
	for i := len(g.cleanup) - 1; i >= upTo; i-- {
		sc := g.cleanup[i]
		for j := len(sc.entries) - 1; j >= 0; j-- {
			e := sc.entries[j]
			fmt.Fprintf(&g.out, "%s%s(%s);\n", indent, e.freeFunc, e.varName)
		}
	}
}

// emitAllCleanups fires every live scope's cleanups, used by `return`.
func (g *generator) emitAllCleanups(indent string) {
	g.emitCleanupsInsideOut(indent, 0)
}

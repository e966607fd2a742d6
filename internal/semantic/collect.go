package semantic

import (
	"fmt"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/types"
)

// collect is the checker's first pass: every user function is inserted
// into both the flat symbol table (by mangled name) and its overload
// group (by public name); duplicates within a group are errors unless
// superuser mode (spec §4.3).
func (c *Checker) collect(prog *ast.Program) {
	for _, fn := range prog.Functions {
		params := make([]types.Kind, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Type
		}
		symbol := fn.MangledSymbol
		if symbol == "" {
			symbol = fn.Name
			fn.MangledSymbol = symbol
		}
		sig := &Signature{
			Name: overloadGroupName(fn), Params: params, Return: fn.ReturnType,
			Throws: fn.Throws, Symbol: symbol, ClassOwner: fn.ClassOwner,
		}
		if dup := c.symbols.Define(sig); dup {
			c.fail(fn.Pos, "duplicate overload for %q with identical parameter types", sig.Name)
		}
	}
}

// overloadGroupName is the public name a function is grouped under:
// operator overrides use their synthetic key, class methods are grouped
// per-class (so two different classes' same-named method never collide),
// everything else groups on its plain name.
func overloadGroupName(fn *ast.Function) string {
	if fn.Operator != "" {
		return string(fn.Operator)
	}
	if fn.ClassOwner != "" {
		return fmt.Sprintf("%s.%s", fn.ClassOwner, fn.Name)
	}
	return fn.Name
}

package codegen

import (
	"fmt"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/types"
)

const syntheticMainName = "__linescript_script_main"

// chooseEntry selects the single function codegen wraps in C's main
// (spec §4.5): a user-defined main() takes priority, then a wrapper
// synthesized here over the program's top-level statements (when any
// exist), then the unique zero-argument function. More than one
// zero-arg candidate with no main and no top-level statements is a
// build error, since nothing disambiguates them.
//
// The synthesized wrapper is not inserted into prog.Functions — it
// exists only as the return value codegen uses to emit its own
// prototype and definition, since prog is otherwise a read-only
// checked/optimized tree by the time codegen runs.
func chooseEntry(prog *ast.Program) (*ast.Function, error) {
	var byName *ast.Function
	var zeroArgCandidates []*ast.Function

	for _, fn := range prog.Functions {
		if fn.ClassOwner != "" || fn.Extern {
			continue
		}
		if fn.Name == "main" {
			byName = fn
		}
		if len(fn.Params) == 0 {
			zeroArgCandidates = append(zeroArgCandidates, fn)
		}
	}

	if byName != nil {
		return byName, nil
	}
	if len(prog.TopLevel) > 0 {
		return &ast.Function{
			Name:          syntheticMainName,
			MangledSymbol: syntheticMainName,
			ReturnType:    types.Void,
			Body:          prog.TopLevel,
		}, nil
	}
	if len(zeroArgCandidates) == 1 {
		return zeroArgCandidates[0], nil
	}
	if len(zeroArgCandidates) == 0 {
		return nil, fmt.Errorf("no entry point: declare a main() function or a zero-argument function")
	}
	return nil, fmt.Errorf("ambiguous entry point: %d zero-argument functions and no main()", len(zeroArgCandidates))
}

// emitEntryWrapper emits the C main() that invokes entry after running,
// in declaration order, each declared CLI flag handler whose flag cli_has
// reports present (spec §6); the order of flags on the command line is
// not used.
// Under the ultra-minimal tier main is still the process entry point,
// but the body avoids any libc formatting the tier was chosen to drop.
func (g *generator) emitEntryWrapper(entry *ast.Function) error {
	g.out.WriteString("int main(int argc, char **argv) {\n")
	g.out.WriteString("\t(void)argc; (void)argv;\n")

	flagFns := make([]*ast.Function, 0)
	for _, fn := range g.prog.Functions {
		if fn.CLIFlagName != "" {
			flagFns = append(flagFns, fn)
		}
	}
	for _, fn := range flagFns {
		fmt.Fprintf(&g.out, "\tif (cli_has(\"%s\")) { %s(); }\n", fn.CLIFlagName, cName(fn))
	}

	if entry.ReturnType.String() == "void" {
		fmt.Fprintf(&g.out, "\t%s();\n", cName(entry))
		g.out.WriteString("\treturn 0;\n")
	} else {
		fmt.Fprintf(&g.out, "\treturn (int)%s();\n", cName(entry))
	}
	g.out.WriteString("}\n")
	return nil
}

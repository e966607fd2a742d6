package driver

import (
	"fmt"
	"os"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/cache"
	"github.com/linescript-lang/lsc/internal/codegen"
	"github.com/linescript-lang/lsc/internal/errors"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/optimizer"
	"github.com/linescript-lang/lsc/internal/parser"
	"github.com/linescript-lang/lsc/internal/semantic"
)

// TypedIR is the cacheable output of the frontend+optimizer+codegen
// pipeline (spec §4.6/§4.7): a generated C translation unit plus the two
// hashes that prove it is still valid for a given (inputs, config) pair.
type TypedIR struct {
	SourceHash uint64
	ConfigHash uint64
	CCode      string
}

// Diagnostics is every hard error a pipeline stage raised, already
// converted to the single diagnostic type the driver prints (spec §7).
// A non-empty Diagnostics always means Compile produced no TypedIR.
type Diagnostics []*errors.CompileError

func (d Diagnostics) Error() string {
	if len(d) == 0 {
		return "no diagnostics"
	}
	return fmt.Sprintf("%d error(s), first: %s", len(d), d[0].Format(false))
}

// Source is one input file already read into memory, so Compile never
// touches the filesystem itself (the suspension points spec §5 names are
// the caller's, not the core's).
type Source struct {
	Path    string
	Content []byte
}

// Compile runs the full frontend+optimizer+codegen pipeline over inputs
// and returns the resulting TypedIR, or the diagnostics collected by
// whichever stage aborted first (spec §4.7's `compile(inputs, options)`).
func Compile(inputs []Source, opts Options) (*TypedIR, Diagnostics) {
	var combined []byte
	var paths []string
	var contents [][]byte
	for _, in := range inputs {
		combined = append(combined, in.Content...)
		combined = append(combined, '\n')
		paths = append(paths, in.Path)
		contents = append(contents, in.Content)
	}
	source := string(combined)

	toks, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		return nil, convertLexErrors(lexErrs)
	}

	prog, parseErrs := parser.ParseProgram(toks)
	if len(parseErrs) > 0 {
		return nil, convertParseErrors(parseErrs)
	}

	checker := semantic.Check(prog)
	if len(checker.Errors()) > 0 {
		return nil, Diagnostics(checker.Errors())
	}

	optimizer.Run(prog, optimizer.NewConfig(opts.effectivePasses()))

	// Re-check after optimization: spec §4.7's pipeline runs TypeCheck
	// twice, since constant folding and loop reduction can only be
	// validated against the same invariants once they've run.
	checker = semantic.Check(prog)
	if len(checker.Errors()) > 0 {
		return nil, Diagnostics(checker.Errors())
	}

	cCode, err := codegen.Emit(prog, codegen.Config{
		OpenMP:    opts.OpenMP,
		Superuser: checker.Superuser(),
	})
	if err != nil {
		return nil, Diagnostics{errors.New(errors.StageCodegen, lexer.Position{}, "%s", err.Error())}
	}

	sourceHash := cache.HashSources(paths, contents)
	configHash := cache.HashConfig(cache.Config{
		CC:       opts.CC,
		Backend:  opts.Backend,
		MaxSpeed: opts.MaxSpeed,
		Passes:   opts.effectivePasses(),
		Target:   opts.Target,
		Sysroot:  opts.Sysroot,
		Linker:   opts.Linker,
	})

	return &TypedIR{SourceHash: sourceHash, ConfigHash: configHash, CCode: cCode}, nil
}

// Emit returns ir's generated C source (spec §4.7's `emit(TypedIR) → C
// source text`); it is a pure projection, since codegen has already run
// inside Compile.
func Emit(ir *TypedIR) string { return ir.CCode }

func convertLexErrors(errs []*lexer.Error) Diagnostics {
	out := make(Diagnostics, len(errs))
	for i, e := range errs {
		out[i] = errors.New(errors.StageLex, e.Pos, "%s", e.Msg)
	}
	return out
}

func convertParseErrors(errs []*parser.CompileError) Diagnostics {
	out := make(Diagnostics, len(errs))
	for i, e := range errs {
		out[i] = errors.New(errors.StageParse, e.Pos, "%s", e.Msg)
	}
	return out
}

// ResolveTypedIR loads a --consume-typed-ir bundle, or, when opts requests
// caching, a fresh bundle from the cache directory matching both the
// source and config hash (spec §4.6's cache-hit short-circuit). The
// second return is false on a miss (not an error): the caller should fall
// through to Compile.
func ResolveTypedIR(opts Options, sourceHash, configHash uint64) (*TypedIR, bool, error) {
	if opts.ConsumeTypedIR != "" {
		raw, err := os.ReadFile(opts.ConsumeTypedIR)
		if err != nil {
			return nil, false, fmt.Errorf("read typed-ir %s: %w", opts.ConsumeTypedIR, err)
		}
		b, err := cache.Unmarshal(string(raw))
		if err != nil {
			return nil, false, err
		}
		return &TypedIR{SourceHash: b.SourceHash, ConfigHash: b.ConfigHash, CCode: b.CCode}, true, nil
	}
	if opts.NoCache {
		return nil, false, nil
	}
	dir := opts.CacheDir
	if dir == "" {
		dir = ".lsc-cache"
	}
	b, ok, err := cache.Load(dir, configHash)
	if err != nil || !ok || !b.Fresh(sourceHash) {
		return nil, false, err
	}
	return &TypedIR{SourceHash: b.SourceHash, ConfigHash: b.ConfigHash, CCode: b.CCode}, true, nil
}

// StoreTypedIR persists ir to the cache directory (spec §4.6: "cache
// write occurs after successful code generation") and, when requested,
// to an explicit --emit-typed-ir file.
func StoreTypedIR(ir *TypedIR, opts Options) error {
	bundle := cache.Bundle{Format: cache.Format, SourceHash: ir.SourceHash, ConfigHash: ir.ConfigHash, CCode: ir.CCode}
	if opts.EmitTypedIR != "" {
		doc, err := cache.Marshal(bundle)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.EmitTypedIR, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write typed-ir %s: %w", opts.EmitTypedIR, err)
		}
	}
	if opts.NoCache {
		return nil
	}
	dir := opts.CacheDir
	if dir == "" {
		dir = ".lsc-cache"
	}
	return cache.Store(dir, bundle)
}

// flagDeclarations lists the CLI names of a parsed program's flag()
// declarations, in declaration order; ListFlags and DeclaredFlagSet in
// flags.go use it.
func flagDeclarations(prog *ast.Program) []string {
	var names []string
	for _, fn := range prog.Functions {
		if fn.CLIFlagName != "" {
			names = append(names, fn.CLIFlagName)
		}
	}
	return names
}

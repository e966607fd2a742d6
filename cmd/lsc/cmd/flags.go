package cmd

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/linescript-lang/lsc/internal/driver"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/parser"
)

// buildFlags is the flat-flag compatibility surface from §6, shared by
// build/run/check so `lsc build --cc gcc` behaves identically no matter
// which subcommand carries it.
type buildFlags struct {
	output         string
	cc             string
	backend        string
	target         string
	sysroot        string
	linker         string
	passes         int
	maxSpeed       bool
	incremental    bool
	cacheDir       string
	noCache        bool
	emitTypedIR    string
	consumeTypedIR string
	pgoGenerate    bool
	pgoUse         string
	boltUse        string
	keepC          bool
	dumpAST        bool
	listFlags      bool
	openmp         bool
}

func registerBuildFlags(c *cobra.Command, f *buildFlags) {
	c.Flags().StringVarP(&f.output, "output", "o", "", "output path")
	c.Flags().StringVar(&f.cc, "cc", "", "C compiler command (default clang)")
	c.Flags().StringVar(&f.backend, "backend", "", "auto|c|asm")
	c.Flags().StringVar(&f.target, "target", "", "target triple")
	c.Flags().StringVar(&f.sysroot, "sysroot", "", "sysroot path")
	c.Flags().StringVar(&f.linker, "linker", "", "linker name")
	c.Flags().IntVar(&f.passes, "passes", 0, "optimizer pass budget")
	c.Flags().BoolVar(&f.maxSpeed, "max-speed", false, "raise pass budget and toolchain flags")
	c.Flags().BoolVar(&f.maxSpeed, "O4", false, "alias for --max-speed")
	c.Flags().BoolVar(&f.incremental, "incremental", false, "accepted for compatibility; has no effect")
	c.Flags().StringVar(&f.cacheDir, "cache-dir", "", "typed-IR cache directory (default .lsc-cache)")
	c.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the typed-IR cache")
	c.Flags().StringVar(&f.emitTypedIR, "emit-typed-ir", "", "write the typed-IR bundle to <file>")
	c.Flags().StringVar(&f.consumeTypedIR, "consume-typed-ir", "", "skip the frontend, reading C from <file>'s bundle")
	c.Flags().BoolVar(&f.pgoGenerate, "pgo-generate", false, "instrument the build for profile generation")
	c.Flags().StringVar(&f.pgoUse, "pgo-use", "", "use profile data from <dir>")
	c.Flags().StringVar(&f.boltUse, "bolt-use", "", "BOLT profile <file> (accepted but not passed to the toolchain)")
	c.Flags().BoolVar(&f.keepC, "keep-c", false, "preserve the emitted C file")
	c.Flags().BoolVar(&f.dumpAST, "dump-ast", false, "pretty-print the parsed AST before type checking")
	c.Flags().BoolVar(&f.listFlags, "list-flags", false, "list declared flag() handlers and exit")
	c.Flags().BoolVar(&f.openmp, "openmp", false, "emit OpenMP pragmas for parallel/vector-hint loops")
}

// resolve merges config-file defaults, then flag-set overrides (flags
// the user actually passed take precedence), into driver.Options.
func (f *buildFlags) resolve(c *cobra.Command, mode driver.Mode) (driver.Options, error) {
	opts := driver.Defaults()
	opts.Mode = mode

	fc, err := loadConfigFile()
	if err != nil {
		return opts, fmt.Errorf("lsc.yaml: %w", err)
	}
	if fc.CC != "" {
		opts.CC = fc.CC
	}
	if fc.Backend != "" {
		opts.Backend = fc.Backend
	}
	if fc.Passes > 0 {
		opts.Passes = fc.Passes
	}
	if fc.CacheDir != "" {
		opts.CacheDir = fc.CacheDir
	}
	opts.MaxSpeed = opts.MaxSpeed || fc.MaxSpeed
	if fc.Target != "" {
		opts.Target = fc.Target
	}
	if fc.Sysroot != "" {
		opts.Sysroot = fc.Sysroot
	}
	if fc.Linker != "" {
		opts.Linker = fc.Linker
	}

	changed := c.Flags().Changed
	if changed("output") {
		opts.Output = f.output
	}
	if changed("cc") {
		opts.CC = f.cc
	}
	if changed("backend") {
		opts.Backend = f.backend
	}
	if changed("target") {
		opts.Target = f.target
	}
	if changed("sysroot") {
		opts.Sysroot = f.sysroot
	}
	if changed("linker") {
		opts.Linker = f.linker
	}
	if changed("passes") {
		opts.Passes = f.passes
	}
	if changed("max-speed") || changed("O4") {
		opts.MaxSpeed = f.maxSpeed
	}
	opts.Incremental = f.incremental
	if changed("cache-dir") {
		opts.CacheDir = f.cacheDir
	}
	opts.NoCache = f.noCache
	opts.EmitTypedIR = f.emitTypedIR
	opts.ConsumeTypedIR = f.consumeTypedIR
	opts.PGOGenerate = f.pgoGenerate
	opts.PGOUse = f.pgoUse
	opts.BoltUse = f.boltUse
	opts.KeepC = f.keepC
	opts.OpenMP = f.openmp

	return opts, nil
}

// maybeDumpAST parses paths standalone (ahead of the real pipeline) and
// pretty-prints the result via kr/pretty when --dump-ast is set, matching
// the teacher's own `dwscript run --dump-ast` debug affordance.
func (f *buildFlags) maybeDumpAST(paths []string) error {
	if !f.dumpAST {
		return nil
	}
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		toks, lexErrs := lexer.Tokenize(string(content))
		if len(lexErrs) > 0 {
			continue // the real pipeline below reports these properly
		}
		prog, parseErrs := parser.ParseProgram(toks)
		if len(parseErrs) > 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "AST (%s):\n%s\n", p, pretty.Sprint(prog))
	}
	return nil
}

// maybeListFlags implements the additive --list-flags option: parse
// paths, print every declared flag() handler and whether it appears in
// extraArgs (tokens after `--`), natural-sorted, and report whether the
// caller should exit immediately.
func (f *buildFlags) maybeListFlags(paths []string, extraArgs []string) (handled bool, err error) {
	if !f.listFlags {
		return false, nil
	}
	for _, p := range paths {
		content, readErr := os.ReadFile(p)
		if readErr != nil {
			return true, readErr
		}
		toks, lexErrs := lexer.Tokenize(string(content))
		if len(lexErrs) > 0 {
			return true, fmt.Errorf("%s: lex error", p)
		}
		prog, parseErrs := parser.ParseProgram(toks)
		if len(parseErrs) > 0 {
			return true, fmt.Errorf("%s: parse error", p)
		}
		declared := driver.DeclaredFlagSet(prog)
		active, _ := driver.ClassifyTokens(extraArgs, declared)
		activeSet := make(map[string]bool, len(active))
		for _, a := range active {
			activeSet[a] = true
		}
		for _, name := range driver.ListFlags(prog) {
			if !declared[name] {
				continue
			}
			mark := " "
			if activeSet[name] {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, name)
		}
	}
	return true, nil
}

package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linescript-lang/lsc/internal/cache"
	"github.com/linescript-lang/lsc/internal/errors"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// Result is what RunPipeline hands back to cmd/lsc: the process exit
// code spec §6 specifies (0 success, 1 any compile/build failure) plus
// the diagnostics to print and the path of any binary actually produced.
type Result struct {
	ExitCode    int
	Diagnostics Diagnostics
	CPath       string
	BinaryPath  string
}

// RunPipeline implements spec §4.7's fused build-and-run entry point: it
// reads inputs, resolves a cache hit or runs Compile, writes the C file,
// invokes the toolchain for Build/Run modes, and executes the resulting
// binary for Run mode.
func RunPipeline(paths []string, opts Options, tc Toolchain) Result {
	inputs, err := readInputs(paths)
	if err != nil {
		return Result{ExitCode: 1, Diagnostics: Diagnostics{ioFailure(err)}}
	}

	var sourcePaths []string
	var sourceBytes [][]byte
	for _, in := range inputs {
		sourcePaths = append(sourcePaths, in.Path)
		sourceBytes = append(sourceBytes, in.Content)
	}

	sourceHash := cache.HashSources(sourcePaths, sourceBytes)
	configHash := cache.HashConfig(cache.Config{
		CC:       opts.CC,
		Backend:  opts.Backend,
		MaxSpeed: opts.MaxSpeed,
		Passes:   opts.effectivePasses(),
		Target:   opts.Target,
		Sysroot:  opts.Sysroot,
		Linker:   opts.Linker,
	})

	ir, cached, cacheErr := ResolveTypedIR(opts, sourceHash, configHash)
	if cacheErr != nil {
		return Result{ExitCode: 1, Diagnostics: Diagnostics{ioFailure(cacheErr)}}
	}

	if !cached {
		var diags Diagnostics
		ir, diags = Compile(inputs, opts)
		if len(diags) > 0 {
			return Result{ExitCode: 1, Diagnostics: diags}
		}
		if err := StoreTypedIR(ir, opts); err != nil {
			return Result{ExitCode: 1, Diagnostics: Diagnostics{ioFailure(err)}}
		}
	}

	res := Result{ExitCode: 0}
	if opts.Mode == ModeCheck {
		return res
	}

	cPath := opts.Output + ".c"
	if opts.Output == "" {
		cPath = "a.out.c"
	}
	if err := os.WriteFile(cPath, []byte(Emit(ir)), 0o644); err != nil {
		return Result{ExitCode: 1, Diagnostics: Diagnostics{ioFailure(err)}}
	}
	res.CPath = cPath
	if !opts.KeepC {
		defer os.Remove(cPath)
	}

	binPath := opts.Output
	if binPath == "" {
		binPath = defaultBinaryName()
	}
	if err := tc.CompileC(cPath, binPath, opts); err != nil {
		return Result{ExitCode: 1, Diagnostics: Diagnostics{ioFailure(err)}}
	}
	res.BinaryPath = binPath

	if opts.Mode == ModeRun {
		code, err := tc.Run(absPath(binPath), opts.ForwardedTokens)
		if err != nil {
			return Result{ExitCode: 1, Diagnostics: Diagnostics{ioFailure(err)}}
		}
		res.ExitCode = code
	}
	return res
}

func readInputs(paths []string) ([]Source, error) {
	inputs := make([]Source, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		inputs = append(inputs, Source{Path: p, Content: content})
	}
	return inputs, nil
}

// ioFailure wraps a driver-level error (file IO, toolchain spawn) as the
// same CompileError diagnostic type the core stages raise, so cmd/lsc
// has one print path for every failure.
func ioFailure(err error) *errors.CompileError {
	return errors.New(errors.StageIO, lexer.Position{}, "%s", err.Error())
}

func defaultBinaryName() string {
	if os.PathSeparator == '\\' {
		return "a.exe"
	}
	return "a.out"
}

func absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	return filepath.Join(wd, p)
}

// Package driver sequences the compiler core's stages (spec §4.7): lex,
// parse, type-check, optimize, re-check, emit C, and consult the typed-IR
// cache, then spawns the external C toolchain and (in run mode) the
// resulting binary. It owns the CLI-facing contract from spec §6; the
// core packages it calls know nothing of flags, files, or processes.
package driver

import "github.com/linescript-lang/lsc/internal/optimizer"

// Mode selects how far RunPipeline carries a successful compile.
type Mode int

const (
	ModeCheck Mode = iota // parse + type-check + optimize only
	ModeBuild              // also emit C and invoke the toolchain
	ModeRun                // also execute the resulting binary
)

// Options mirrors the flat CLI flag surface of spec §6. It is filled in
// by cmd/lsc's flag parsing and passed through unchanged to RunPipeline.
type Options struct {
	Mode Mode

	Output string // -o

	CC      string // --cc, default "clang"
	Backend string // --backend auto|c|asm
	Target  string // --target
	Sysroot string // --sysroot
	Linker  string // --linker

	Passes   int  // --passes
	MaxSpeed bool // -O4 / --max-speed

	Incremental bool   // --incremental
	CacheDir    string // --cache-dir
	NoCache     bool   // --no-cache

	EmitTypedIR    string // --emit-typed-ir <file>
	ConsumeTypedIR string // --consume-typed-ir <file>

	PGOGenerate bool   // --pgo-generate
	PGOUse      string // --pgo-use <dir>
	BoltUse     string // --bolt-use <file>

	KeepC bool // --keep-c

	// ForwardedTokens holds every CLI token after `--`, passed verbatim as
	// argv to the compiled program's own cli_token/cli_has/cli_value
	// runtime classification (spec §6); lsc does not pre-sort these into
	// active/forwarded itself, since that distinction is the running
	// program's job, not the build's. --list-flags performs the
	// classification separately as a debug aid (see ClassifyTokens).
	ForwardedTokens []string

	OpenMP bool
}

// Defaults returns the options spec §6 states as the flag defaults.
func Defaults() Options {
	return Options{
		CC:      "clang",
		Backend: "auto",
		Passes:  optimizer.DefaultPasses,
	}
}

// effectivePasses applies -O4/--max-speed's pass-budget bump (spec §6:
// "raises pass budget and toolchain flags").
func (o Options) effectivePasses() int {
	if o.Passes > 0 {
		if o.MaxSpeed && o.Passes < maxSpeedMinPasses {
			return maxSpeedMinPasses
		}
		return o.Passes
	}
	if o.MaxSpeed {
		return maxSpeedMinPasses
	}
	return optimizer.DefaultPasses
}

const maxSpeedMinPasses = optimizer.MaxSpeedPasses

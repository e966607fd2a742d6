package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func src(path, text string) Source {
	return Source{Path: path, Content: []byte(text)}
}

func TestCompileProducesTypedIR(t *testing.T) {
	ir, diags := Compile([]Source{src("main.lsc", `println(1 + 2)`)}, Defaults())
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if ir.CCode == "" {
		t.Fatal("expected generated C code")
	}
	if ir.SourceHash == 0 || ir.ConfigHash == 0 {
		t.Fatal("expected non-zero hashes")
	}
}

func TestCompileReportsLexError(t *testing.T) {
	_, diags := Compile([]Source{src("main.lsc", "declare x = 1\n`")}, Defaults())
	if len(diags) == 0 {
		t.Fatal("expected a lex diagnostic")
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	text := `
fn add(a: i64, b: i64) -> i64 {
	return a + b
}
println(add(2, 3))
`
	ir1, diags1 := Compile([]Source{src("main.lsc", text)}, Defaults())
	ir2, diags2 := Compile([]Source{src("main.lsc", text)}, Defaults())
	if len(diags1) > 0 || len(diags2) > 0 {
		t.Fatalf("unexpected diagnostics: %v / %v", diags1, diags2)
	}
	if ir1.CCode != ir2.CCode {
		t.Fatal("expected byte-identical C across independent compiles of the same input")
	}
	if ir1.SourceHash != ir2.SourceHash || ir1.ConfigHash != ir2.ConfigHash {
		t.Fatal("expected identical hashes across independent compiles of the same input")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	opts := Defaults()
	opts.CacheDir = dir

	text := `println(42)`
	ir, diags := Compile([]Source{src("main.lsc", text)}, opts)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if err := StoreTypedIR(ir, opts); err != nil {
		t.Fatalf("store: %v", err)
	}

	loaded, hit, err := ResolveTypedIR(opts, ir.SourceHash, ir.ConfigHash)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit for an unchanged source")
	}
	if loaded.CCode != ir.CCode {
		t.Fatal("expected the cached c_code to match the original emission")
	}

	staleHash := ir.SourceHash ^ 1
	_, hit, err = ResolveTypedIR(opts, staleHash, ir.ConfigHash)
	if err != nil {
		t.Fatalf("resolve after source change: %v", err)
	}
	if hit {
		t.Fatal("expected a cache miss once the source hash no longer matches")
	}
}

type fakeToolchain struct {
	compiled bool
	ran      bool
}

func (f *fakeToolchain) CompileC(cPath, outPath string, opts Options) error {
	f.compiled = true
	return os.WriteFile(outPath, []byte("#!/bin/sh\nexit 7\n"), 0o755)
}

func (f *fakeToolchain) Run(path string, args []string) (int, error) {
	f.ran = true
	return 7, nil
}

func TestRunPipelineBuildInvokesToolchain(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.lsc")
	if err := os.WriteFile(mainPath, []byte(`println(1)`), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Defaults()
	opts.Mode = ModeBuild
	opts.Output = filepath.Join(dir, "out")
	opts.NoCache = true

	tc := &fakeToolchain{}
	res := RunPipeline([]string{mainPath}, opts, tc)
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d: %v", res.ExitCode, res.Diagnostics)
	}
	if !tc.compiled {
		t.Fatal("expected CompileC to be invoked")
	}
	if tc.ran {
		t.Fatal("build mode should not run the binary")
	}
	if res.BinaryPath != opts.Output {
		t.Fatalf("expected binary path %q, got %q", opts.Output, res.BinaryPath)
	}
}

func TestRunPipelineRunModeExecutesBinary(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.lsc")
	if err := os.WriteFile(mainPath, []byte(`println(1)`), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Defaults()
	opts.Mode = ModeRun
	opts.Output = filepath.Join(dir, "out")
	opts.NoCache = true

	tc := &fakeToolchain{}
	res := RunPipeline([]string{mainPath}, opts, tc)
	if !tc.ran {
		t.Fatal("expected Run to be invoked in run mode")
	}
	if res.ExitCode != 7 {
		t.Fatalf("expected the fake toolchain's exit code to propagate, got %d", res.ExitCode)
	}
}

func TestREPLAccumulatesSnippetsAndRollsBackOnError(t *testing.T) {
	r := NewREPL(Defaults())
	if _, diags := r.Eval(`declare x = 1`); len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if _, diags := r.Eval(`println(x)`); len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if _, diags := r.Eval(`println(undefined_name)`); len(diags) == 0 {
		t.Fatal("expected referencing an undefined name to fail")
	}
	if _, diags := r.Eval(`println(x + 1)`); len(diags) > 0 {
		t.Fatalf("unexpected diagnostics after rollback: %v", diags)
	}
}

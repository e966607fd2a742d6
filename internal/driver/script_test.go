package driver_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/linescript-lang/lsc/internal/driver"
)

// TestDriverScripts runs the end-to-end scripts under testdata/script
// against an in-process `compile` command backed by RunPipeline, the
// same way the teacher's cmd-level integration tests exercise a full
// lex→parse→check→run sequence but without forking a real process.
func TestDriverScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"compile": cmdCompile,
		},
	})
}

type countingToolchain struct{ compiles int }

func (c *countingToolchain) CompileC(cPath, outPath string, opts driver.Options) error {
	c.compiles++
	return os.WriteFile(outPath, []byte("compiled\n"), 0o644)
}

func (c *countingToolchain) Run(path string, args []string) (int, error) { return 0, nil }

// cmdCompile implements the `compile` testscript command: `compile
// build|run|check <file>...` followed by optional `-cache <dir>`.
func cmdCompile(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) < 2 {
		ts.Fatalf("usage: compile <mode> <file> [-cache <dir>]")
	}
	opts := driver.Defaults()
	switch args[0] {
	case "check":
		opts.Mode = driver.ModeCheck
	case "build":
		opts.Mode = driver.ModeBuild
	case "run":
		opts.Mode = driver.ModeRun
	default:
		ts.Fatalf("unknown mode %q", args[0])
	}
	opts.Output = ts.MkAbs("out")

	var files []string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-cache":
			i++
			opts.CacheDir = ts.MkAbs(args[i])
		default:
			files = append(files, ts.MkAbs(args[i]))
		}
	}

	tc := &countingToolchain{}
	res := driver.RunPipeline(files, opts, tc)
	ok := res.ExitCode == 0
	if ok == neg {
		for _, d := range res.Diagnostics {
			ts.Logf("%s", d.Format(false))
		}
		ts.Fatalf("compile %v: exit code %d, want ok=%v", args, res.ExitCode, !neg)
	}
	ts.Setenv("COMPILE_COUNT", fmt.Sprint(tc.compiles))
}

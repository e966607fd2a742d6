package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linescript-lang/lsc/internal/driver"
)

var buildOpts buildFlags

var buildCmd = &cobra.Command{
	Use:   "build [file...]",
	Short: "Compile LineScript source to a binary",
	Long: `Emit a C translation unit from one or more LineScript sources and
invoke the external C toolchain to produce a binary.

Examples:
  lsc build script.lsc -o script
  lsc build script.lsc --backend asm --max-speed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	registerBuildFlags(buildCmd, &buildOpts)
}

func runBuild(c *cobra.Command, args []string) error {
	return buildAndMaybeRun(c, args, driver.ModeBuild, &buildOpts)
}

// buildAndMaybeRun is the shared body behind `build`/`run`: resolve
// options, handle the debug/list-flags side channels, then hand off to
// RunPipeline and translate its Result into a process exit.
func buildAndMaybeRun(c *cobra.Command, args []string, mode driver.Mode, f *buildFlags) error {
	paths, extra := splitArgsAtDash(c, args)

	if handled, err := f.maybeListFlags(paths, extra); handled {
		return err
	}
	if err := f.maybeDumpAST(paths); err != nil {
		return err
	}

	opts, err := f.resolve(c, mode)
	if err != nil {
		return err
	}
	opts.ForwardedTokens = extra

	traceStage("resolved options: cc=%s backend=%s passes=%d", opts.CC, opts.Backend, opts.Passes)
	res := driver.RunPipeline(paths, opts, driver.ExecToolchain{})
	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Format(true))
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("build failed")
	}
	if verbose && res.BinaryPath != "" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", res.BinaryPath)
	}
	return nil
}

// splitArgsAtDash divides positional args into source paths and, for
// everything after a literal `--`, the extra tokens forwarded to the
// compiled program's cli_token/cli_has/cli_value helpers at run time
// (spec §6). cobra/pflag strip the `--` token itself from args, recording
// its position via ArgsLenAtDash instead of leaving it in the slice.
func splitArgsAtDash(c *cobra.Command, args []string) (paths []string, extra []string) {
	if n := c.ArgsLenAtDash(); n >= 0 {
		return args[:n], args[n:]
	}
	return args, nil
}

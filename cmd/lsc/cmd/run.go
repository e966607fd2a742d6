package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linescript-lang/lsc/internal/driver"
)

var runOpts buildFlags

var runCmd = &cobra.Command{
	Use:   "run [file...] [-- args...]",
	Short: "Compile and immediately run a LineScript program",
	Long: `Build a binary the same way "lsc build" does, then execute it.
Tokens after a literal -- are forwarded to the compiled program's
cli_token/cli_has/cli_value helpers rather than parsed by lsc itself.

Examples:
  lsc run script.lsc
  lsc run script.lsc -- --verbose input.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerBuildFlags(runCmd, &runOpts)
}

func runRun(c *cobra.Command, args []string) error {
	return buildAndMaybeRun(c, args, driver.ModeRun, &runOpts)
}

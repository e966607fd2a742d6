package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linescript-lang/lsc/internal/driver"
)

var checkOpts buildFlags

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Type-check LineScript source without generating C or invoking a toolchain",
	Long: `Run the lexer, parser, and type checker and report diagnostics.
No C file or binary is produced, and no external toolchain is spawned.

Examples:
  lsc check script.lsc`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	registerBuildFlags(checkCmd, &checkOpts)
}

func runCheck(c *cobra.Command, args []string) error {
	return buildAndMaybeRun(c, args, driver.ModeCheck, &checkOpts)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags), mirroring the teacher's
	// own Version/GitCommit/BuildDate vars.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose bool
	trace   bool
)

var rootCmd = &cobra.Command{
	Use:   "lsc",
	Short: "LineScript compiler",
	Long: `lsc compiles LineScript (.lsc/.ls) programs to a single portable C
translation unit and drives the external C toolchain.

Examples:
  # Type-check only
  lsc check script.lsc

  # Build a binary
  lsc build script.lsc -o script

  # Build and run in one step
  lsc run script.lsc`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "trace pipeline stages to stderr")
}

func traceStage(format string, args ...any) {
	if trace {
		fmt.Fprintf(os.Stderr, "[lsc] "+format+"\n", args...)
	}
}

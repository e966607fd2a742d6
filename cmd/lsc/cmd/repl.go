package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linescript-lang/lsc/internal/driver"
)

var replOpts buildFlags

var replCmd = &cobra.Command{
	Use:     "repl",
	Aliases: []string{"shell"},
	Short:   "Start an interactive LineScript session",
	Long: `Read one line at a time, accumulate it into a synthetic source
file, and re-run the compiler front end on the whole session after every
line. A line that fails to type-check is rolled back rather than poisoning
the session.`,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
	registerBuildFlags(replCmd, &replOpts)
}

func runREPL(c *cobra.Command, _ []string) error {
	opts, err := replOpts.resolve(c, driver.ModeCheck)
	if err != nil {
		return err
	}

	r := driver.NewREPL(opts)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stderr, "lsc repl — type an empty line to exit")
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			break
		}
		ir, diags := r.Eval(line)
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.Format(true))
		}
		if ir != nil {
			fmt.Fprintln(os.Stderr, "ok")
		}
	}
	return scanner.Err()
}

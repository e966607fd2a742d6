// Command lsc is the LineScript compiler driver: lexer, parser, type
// checker, optimizer, and C code generator behind a cobra CLI mirroring
// the teacher's dwscript binary.
package main

import (
	"os"

	"github.com/linescript-lang/lsc/cmd/lsc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

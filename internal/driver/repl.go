package driver

import "strings"

// REPL accumulates successive snippets into one synthetic source file and
// re-invokes Compile on the whole thing each time (spec §4.7: "the REPL
// loop that accumulates snippets into a synthetic source file and
// re-invokes compile"). It keeps no interpreter state of its own — every
// line re-runs the full pipeline, so a later redefinition behaves exactly
// like editing the file and recompiling.
type REPL struct {
	opts     Options
	snippets []string
}

// NewREPL starts an accumulation session for the given build options.
func NewREPL(opts Options) *REPL {
	opts.Mode = ModeCheck
	return &REPL{opts: opts}
}

// synthetic path name for the accumulated buffer codegen/cache hashing
// treats as the REPL's single input file.
const replSourcePath = "<repl>"

// Eval appends line to the session buffer and recompiles everything seen
// so far. On success the TypedIR reflects the whole session; on failure
// the line is rolled back so a typo doesn't poison subsequent attempts.
func (r *REPL) Eval(line string) (*TypedIR, Diagnostics) {
	candidate := append(append([]string{}, r.snippets...), line)
	source := Source{Path: replSourcePath, Content: []byte(strings.Join(candidate, "\n"))}
	ir, diags := Compile([]Source{source}, r.opts)
	if len(diags) > 0 {
		return nil, diags
	}
	r.snippets = candidate
	return ir, nil
}

// Buffer returns the accumulated source text, e.g. for --dump-ast support
// in an interactive session.
func (r *REPL) Buffer() string {
	return strings.Join(r.snippets, "\n")
}

// Package errors formats LineScript compiler diagnostics: the single-line
// "line L, col C: message" form from spec §6, plus an optional source-line-
// and-caret rendering for terminal use, mirroring the teacher's own
// internal/errors package.
package errors

import (
	"fmt"
	"strings"

	"github.com/linescript-lang/lsc/internal/lexer"
)

// Stage identifies which pipeline stage raised a CompileError, used only
// for the optional "LineScript error (<stage>): " prefix from spec §6.
type Stage string

const (
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageCheck   Stage = "check"
	StageOptimize Stage = "optimize"
	StageCodegen Stage = "codegen"
	StageCache   Stage = "cache"
	StageIO      Stage = "io"
)

// CompileError is a single diagnostic carrying a source span. The checker
// raises these directly, and the driver converts lexer and parser errors
// into them; the driver catches
// at the top level and prints one line per error (spec §7).
type CompileError struct {
	Pos      lexer.Position
	Msg      string
	Stage    Stage
	File     string
	Warning  bool
	Source   string // optional: full source text, for caret rendering
}

// New constructs a hard compile error.
func New(stage Stage, pos lexer.Position, format string, args ...any) *CompileError {
	return &CompileError{Stage: stage, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// NewWarning constructs a warning-severity diagnostic (emitted under
// superuser mode in place of what would otherwise be a hard error).
func NewWarning(stage Stage, pos lexer.Position, format string, args ...any) *CompileError {
	return &CompileError{Stage: stage, Pos: pos, Msg: fmt.Sprintf(format, args...), Warning: true}
}

func (e *CompileError) Error() string { return e.Format(false) }

// Format renders the diagnostic. The base form is
//
//	line <L>, col <C>: <message>
//
// optionally prefixed with "LineScript error (<stage-or-file>): " (or
// "LineScript failure (...)" for IO-stage errors), and optionally followed
// by a source line with a caret under the offending column when withCaret
// is true and Source is non-empty.
func (e *CompileError) Format(withCaret bool) string {
	var sb strings.Builder

	prefix := "LineScript error"
	if e.Stage == StageIO {
		prefix = "LineScript failure"
	}
	label := string(e.Stage)
	if e.File != "" {
		label = e.File
	}
	if label != "" {
		fmt.Fprintf(&sb, "%s (%s): ", prefix, label)
	}

	if e.Warning {
		fmt.Fprintf(&sb, "line %d, col %d: warning: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	} else {
		fmt.Fprintf(&sb, "line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}

	if withCaret && e.Source != "" {
		if line := sourceLine(e.Source, e.Pos.Line); line != "" {
			sb.WriteString("\n")
			sb.WriteString(line)
			sb.WriteString("\n")
			col := e.Pos.Column
			if col < 1 {
				col = 1
			}
			sb.WriteString(strings.Repeat(" ", col-1))
			sb.WriteString("^")
		}
	}

	return sb.String()
}

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// List is an ordered collection of diagnostics, used to accumulate
// warnings (deduplicated, first-occurrence order per SPEC_FULL) and to
// collect every error from a pass that does not abort on the first one.
type List struct {
	items []*CompileError
	seen  map[string]struct{}
}

// Add appends err, deduplicating by formatted message when dedupe is true
// (used for warnings, which spec §7 requires deduplicated).
func (l *List) Add(err *CompileError, dedupe bool) {
	if dedupe {
		if l.seen == nil {
			l.seen = make(map[string]struct{})
		}
		key := err.Format(false)
		if _, ok := l.seen[key]; ok {
			return
		}
		l.seen[key] = struct{}{}
	}
	l.items = append(l.items, err)
}

// Items returns the accumulated diagnostics in insertion order.
func (l *List) Items() []*CompileError { return l.items }

// Len reports how many diagnostics have been accumulated.
func (l *List) Len() int { return len(l.items) }

package parser

import (
	"fmt"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// CompileError is a parse-time failure carrying the offending token's
// span and a fixed message per production (spec §4.2's error policy).
type CompileError struct {
	Pos lexer.Position
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser is a recursive-descent parser over a LineScript token stream.
type Parser struct {
	c      *cursor
	errs   []*CompileError
	macros map[string]*ast.Macro
}

// New constructs a Parser over the full token stream produced by the
// lexer (including lexical errors, which the caller should check first).
func New(toks []lexer.Token) *Parser {
	return &Parser{c: newCursor(toks), macros: make(map[string]*ast.Macro)}
}

// Errors returns every parse error accumulated so far, in source order.
func (p *Parser) Errors() []*CompileError { return p.errs }

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) {
	p.errs = append(p.errs, &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// expect consumes the current token if it has kind k, else records an
// error and returns the zero Token. Used for mandatory punctuation.
func (p *Parser) expect(k lexer.TokenKind) lexer.Token {
	tok := p.c.cur()
	if tok.Kind != k {
		p.errorf(tok.Pos, "expected %s, got %s %q", k, tok.Kind, tok.Literal)
		return tok
	}
	return p.c.advance()
}

func (p *Parser) at(k lexer.TokenKind) bool { return p.c.cur().Kind == k }

func (p *Parser) accept(k lexer.TokenKind) bool {
	if p.at(k) {
		p.c.advance()
		return true
	}
	return false
}

// skipStmtTerminator consumes the optional statement terminator: a
// newline or semicolon. A closing brace/`end`/`else`/`elif` ends a block
// without requiring one (spec §4.2).
func (p *Parser) skipStmtTerminator() {
	for p.at(lexer.NEWLINE) || p.at(lexer.SEMICOLON) {
		p.c.advance()
	}
}

// ParseProgram parses the full token stream into a Program: every
// top-level function/class/macro/flag declaration, plus top-level
// statements later wrapped into __linescript_script_main by the code
// generator (codegen's chooseEntry) (spec §3).
func ParseProgram(toks []lexer.Token) (*ast.Program, []*CompileError) {
	p := New(toks)
	prog := ast.NewProgram()

	p.c.skipNewlines()
	for !p.at(lexer.EOF) {
		switch {
		case p.at(lexer.MACRO):
			if m := p.parseMacroDecl(); m != nil {
				prog.Macros[m.Name] = m
				p.macros[m.Name] = m
			}
		case p.at(lexer.CLASS):
			if c := p.parseClassDecl(); c != nil {
				prog.Classes[c.Name] = c
				prog.ClassOrder = append(prog.ClassOrder, c.Name)
				prog.Functions = append(prog.Functions, p.classMethods(c)...)
			}
		case p.isFunctionStart():
			if fn := p.parseFunctionDecl("", ast.Public); fn != nil {
				prog.Functions = append(prog.Functions, fn)
			}
		default:
			if stmt := p.parseStatement(); stmt != nil {
				prog.TopLevel = append(prog.TopLevel, stmt)
			}
		}
		p.c.skipNewlines()
	}

	return prog, p.errs
}

// isFunctionStart reports whether the cursor is at the start of a
// top-level function declaration: an optional inline/extern modifier
// sequence followed by fn/func/flag/operator, or a bare fn/func.
func (p *Parser) isFunctionStart() bool {
	switch p.c.cur().Kind {
	case lexer.FN, lexer.FUNC, lexer.FLAG, lexer.OPERATOR:
		return true
	case lexer.INLINE, lexer.EXTERN:
		return true
	default:
		return false
	}
}

// classMethods flattens a class's method overload groups into the
// Program's flat function list, in declaration order, so the code
// generator can emit every mangled symbol alongside free functions.
// c.Methods is a map, so iterating it directly would scramble emission
// order between runs (spec §8 property 1); c.MethodOrder records each key
// the first time registerMethod saw it and is iterated instead.
func (p *Parser) classMethods(c *ast.Class) []*ast.Function {
	var out []*ast.Function
	for _, key := range c.MethodOrder {
		for _, ov := range c.Methods[key] {
			out = append(out, ov.Fn)
		}
	}
	return out
}

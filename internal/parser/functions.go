package parser

import (
	"strings"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// parseFunctionDecl parses a top-level or class-member function
// declaration: an optional inline/extern modifier run, then fn/func,
// flag, or operator, a name, a parameter list, an optional `-> type`, an
// optional `throws E1, E2` clause, and a body (omitted for extern).
// classOwner/access are non-empty only when called from within a class
// body (spec §4.2).
func (p *Parser) parseFunctionDecl(classOwner string, access ast.Access) *ast.Function {
	fn := &ast.Function{ClassOwner: classOwner, Access: access, ReturnType: types.Void}

	for {
		switch p.c.cur().Kind {
		case lexer.INLINE:
			p.c.advance()
			fn.Inline = true
			continue
		case lexer.EXTERN:
			p.c.advance()
			fn.Extern = true
			continue
		}
		break
	}

	switch p.c.cur().Kind {
	case lexer.FLAG:
		return p.parseFlagDecl(fn)
	case lexer.OPERATOR:
		return p.parseOperatorDecl(fn)
	case lexer.FN, lexer.FUNC:
		p.c.advance()
	default:
		tok := p.c.cur()
		p.errorf(tok.Pos, "expected a function declaration, got %s %q", tok.Kind, tok.Literal)
		p.c.advance()
		return nil
	}

	nameTok := p.expect(lexer.IDENT)
	fn.Pos = nameTok.Pos
	fn.Name = nameTok.Literal
	fn.SourceName = nameTok.Literal

	if classOwner != "" && (nameTok.Literal == classOwner || nameTok.Literal == "constructor") {
		fn.IsConstructor = true
	}

	p.parseParamList(fn)

	if p.accept(lexer.ARROW) {
		fn.ReturnType = p.parseTypeName()
	}
	if p.accept(lexer.THROWS) {
		fn.Throws = p.parseThrowsList()
	}

	if classOwner != "" && fn.IsConstructor && p.accept(lexer.COLON) {
		p.expect(lexer.IDENT) // base class name, e.g. `Base` in `: Base(args)`
		fn.BaseInitArgs = p.parseArgList()
	}

	if fn.Extern {
		p.skipStmtTerminator()
		return fn
	}

	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseParamList(fn *ast.Function) {
	p.expect(lexer.LPAREN)
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		nameTok := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		typ := p.parseTypeName()
		fn.Params = append(fn.Params, ast.Param{Name: nameTok.Literal, Type: typ})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
}

func (p *Parser) parseThrowsList() []string {
	var kinds []string
	for {
		tok := p.expect(lexer.IDENT)
		kinds = append(kinds, tok.Literal)
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	return kinds
}

// parseFlagDecl parses `flag name-with-dashes()` (spec §4.2): a
// zero-argument void function whose symbol is
// `__ls_flag_<name with dashes -> underscores>`. Dashed names are not
// valid identifiers, so the dashed spelling is reassembled token by
// token, joined on MINUS.
func (p *Parser) parseFlagDecl(fn *ast.Function) *ast.Function {
	pos := p.expect(lexer.FLAG).Pos
	fn.Pos = pos
	fn.ReturnType = types.Void

	var parts []string
	parts = append(parts, p.expect(lexer.IDENT).Literal)
	for p.accept(lexer.MINUS) {
		// a dashed segment may spell a keyword, e.g. the `flag` in `my-debug-flag`
		if tok := p.c.cur(); tok.Kind != lexer.IDENT && lexer.LookupIdent(tok.Literal) == tok.Kind {
			parts = append(parts, p.c.advance().Literal)
			continue
		}
		parts = append(parts, p.expect(lexer.IDENT).Literal)
	}
	dashed := strings.Join(parts, "-")
	fn.SourceName = dashed
	fn.Name = dashed
	fn.CLIFlagName = dashed
	fn.MangledSymbol = "__ls_flag_" + strings.ReplaceAll(dashed, "-", "_")

	p.expect(lexer.LPAREN)
	p.expect(lexer.RPAREN)

	if fn.Extern {
		p.skipStmtTerminator()
		return fn
	}
	fn.Body = p.parseBlock()
	return fn
}

// parseOperatorDecl parses a binary `operator <symbol>(a: T, b: U) -> R`
// or a unary `operator unary <symbol>(a: T) -> R` override, assigning the
// synthetic method key from spec §4.2 (`__ls_op_<name>` / `__ls_uop_<name>`).
func (p *Parser) parseOperatorDecl(fn *ast.Function) *ast.Function {
	pos := p.expect(lexer.OPERATOR).Pos
	fn.Pos = pos

	unary := false
	if p.c.cur().Kind == lexer.IDENT && p.c.cur().Literal == "unary" {
		p.c.advance()
		unary = true
	}

	symTok := p.c.advance() // the operator token/symbol itself, e.g. '+'
	name := operatorName(symTok)
	fn.SourceName = name
	fn.Name = name
	if unary {
		fn.Operator = ast.OperatorKind("__ls_uop_" + name)
	} else {
		fn.Operator = ast.OperatorKind("__ls_op_" + name)
	}
	fn.MangledSymbol = string(fn.Operator)

	p.parseParamList(fn)
	if p.accept(lexer.ARROW) {
		fn.ReturnType = p.parseTypeName()
	}
	fn.Body = p.parseBlock()
	return fn
}

func operatorName(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.PLUS:
		return "add"
	case lexer.MINUS:
		return "sub"
	case lexer.STAR:
		return "mul"
	case lexer.SLASH:
		return "div"
	case lexer.PERCENT:
		return "mod"
	case lexer.POW:
		return "pow"
	case lexer.BANG:
		return "not"
	case lexer.EQ:
		return "eq"
	case lexer.NEQ:
		return "neq"
	default:
		return tok.Literal
	}
}

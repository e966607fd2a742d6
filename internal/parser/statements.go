package parser

import (
	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// compoundAssignOps lists every compound-assignment token (spec §4.2);
// these are statement-level operators, not expression operators, so they
// are not in the expression precedence table.
var compoundAssignOps = map[lexer.TokenKind]bool{
	lexer.ASSIGN: true, lexer.PLUS_ASSIGN: true, lexer.MINUS_ASSIGN: true,
	lexer.STAR_ASSIGN: true, lexer.SLASH_ASSIGN: true, lexer.PERCENT_ASSIGN: true,
	lexer.CARET_ASSIGN: true, lexer.POW_ASSIGN: true,
}

// parseStatement parses one statement and consumes its trailing
// terminator (newline/semicolon), if any.
func (p *Parser) parseStatement() ast.Stmt {
	var stmt ast.Stmt
	switch p.c.cur().Kind {
	case lexer.DECLARE:
		stmt = p.parseDeclareStmt()
	case lexer.RETURN:
		stmt = p.parseReturnStmt()
	case lexer.IF:
		stmt = p.parseIfStmt()
	case lexer.UNLESS:
		stmt = p.parseUnlessStmt()
	case lexer.WHILE:
		stmt = p.parseWhileStmt()
	case lexer.FOR:
		stmt = p.parseForStmt(false)
	case lexer.PARALLEL:
		p.c.advance()
		p.expect(lexer.FOR)
		stmt = p.parseForBody(true)
	case lexer.BREAK:
		pos := p.c.advance().Pos
		stmt = ast.NewBreakStmt(pos)
	case lexer.CONTINUE:
		pos := p.c.advance().Pos
		stmt = ast.NewContinueStmt(pos)
	case lexer.IDENT:
		switch {
		case p.c.cur().Literal == "formatOutput" && p.c.peek(1).Kind == lexer.LPAREN:
			stmt = p.parseFormatBlock()
		case p.c.peek(1).Kind != lexer.DOT && compoundAssignOps[p.c.peek(1).Kind]:
			stmt = p.parseAssignStmt()
		default:
			stmt = p.parseExprOrFieldAssignStmt()
		}
	default:
		pos := p.c.cur().Pos
		e := p.parseExpression(lowest)
		if e == nil {
			p.c.advance() // avoid an infinite loop on unrecognized tokens
			return nil
		}
		stmt = ast.NewExprStmt(pos, e)
	}
	p.skipStmtTerminator()
	return stmt
}

func (p *Parser) parseDeclareStmt() ast.Stmt {
	pos := p.expect(lexer.DECLARE).Pos
	isConst := p.accept(lexer.CONST)
	isOwned := p.accept(lexer.OWNED)
	nameTok := p.expect(lexer.IDENT)

	decl := ast.NewDeclareStmt(pos, nameTok.Literal, nil)
	decl.Const = isConst
	decl.Owned = isOwned

	if p.accept(lexer.COLON) {
		decl.DeclaredType = p.parseTypeName()
		decl.HasType = true
	}
	if p.accept(lexer.ASSIGN) {
		decl.Init = p.parseExpression(lowest)
	}
	return decl
}

func (p *Parser) parseTypeName() types.Kind {
	tok := p.expect(lexer.IDENT)
	switch tok.Literal {
	case "i32":
		return types.I32
	case "i64":
		return types.I64
	case "f32":
		return types.F32
	case "f64":
		return types.F64
	case "bool":
		return types.Bool
	case "str":
		return types.Str
	case "void":
		return types.Void
	default:
		p.errorf(tok.Pos, "unknown type name %q", tok.Literal)
		return types.Invalid
	}
}

func (p *Parser) parseAssignStmt() ast.Stmt {
	nameTok := p.expect(lexer.IDENT)
	opTok := p.c.advance()
	value := p.parseExpression(lowest)
	return ast.NewAssignStmt(nameTok.Pos, nameTok.Literal, opTok.Kind, value)
}

// parseExprOrFieldAssignStmt parses either a bare expression statement or
// a `v.x [op]= e` field assignment, lowered to an AssignStmt whose Target
// is the parsed FieldGet/MethodCall chain (spec §4.2: the code generator
// turns this into object_set(v, "x", formatOutput(rhs))).
func (p *Parser) parseExprOrFieldAssignStmt() ast.Stmt {
	pos := p.c.cur().Pos
	expr := p.parseExpression(lowest)
	if expr == nil {
		return nil
	}
	if _, isField := expr.(*ast.FieldGet); isField && compoundAssignOps[p.c.cur().Kind] {
		opTok := p.c.advance()
		value := p.parseExpression(lowest)
		return &ast.AssignStmt{Target: expr, Op: opTok.Kind, Value: value}
	}
	return ast.NewExprStmt(pos, expr)
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.expect(lexer.RETURN).Pos
	if p.at(lexer.NEWLINE) || p.at(lexer.SEMICOLON) || p.at(lexer.RBRACE) || p.at(lexer.END) || p.at(lexer.EOF) {
		return ast.NewReturnStmt(pos, nil)
	}
	return ast.NewReturnStmt(pos, p.parseExpression(lowest))
}

// parseBlock parses a `{ ... }` or `do ... end` block body, ending on
// the matching closer without consuming a trailing terminator inside
// (spec §4.2: the two block syntaxes are equivalent everywhere).
func (p *Parser) parseBlock() []ast.Stmt {
	var closer lexer.TokenKind
	switch {
	case p.accept(lexer.LBRACE):
		closer = lexer.RBRACE
	case p.accept(lexer.DO):
		closer = lexer.END
	default:
		tok := p.c.cur()
		p.errorf(tok.Pos, "expected '{' or 'do' to start a block, got %s %q", tok.Kind, tok.Literal)
		return nil
	}

	var stmts []ast.Stmt
	p.c.skipNewlines()
	for !p.at(closer) && !p.at(lexer.EOF) {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.c.skipNewlines()
	}
	p.expect(closer)
	return stmts
}

func (p *Parser) parseIfStmt() ast.Stmt {
	pos := p.expect(lexer.IF).Pos
	cond := p.parseExpression(lowest)
	then := p.parseBlock()
	ifs := ast.NewIfStmt(pos, cond, then)

	for p.lookNonNlAccept(lexer.ELIF) {
		elifCond := p.parseExpression(lowest)
		elifBody := p.parseBlock()
		ifs.Elifs = append(ifs.Elifs, ast.ElifClause{Cond: elifCond, Body: elifBody})
	}
	if p.lookNonNlAccept(lexer.ELSE) {
		ifs.Else = p.parseBlock()
	}
	return ifs
}

// parseUnlessStmt parses `unless c { ... }` as `if !c { ... }` (spec §4.2).
func (p *Parser) parseUnlessStmt() ast.Stmt {
	pos := p.expect(lexer.UNLESS).Pos
	cond := p.parseExpression(lowest)
	negated := ast.NewUnaryOp(cond.Pos(), lexer.BANG, cond)
	then := p.parseBlock()
	return ast.NewIfStmt(pos, negated, then)
}

// lookNonNlAccept consumes leading newlines and then accepts k if it is
// the next non-newline token; otherwise it leaves the cursor unchanged
// (so a trailing blank line before a closing brace isn't mistaken for an
// elif/else continuation).
func (p *Parser) lookNonNlAccept(k lexer.TokenKind) bool {
	save := p.c.pos
	p.c.skipNewlines()
	if p.at(k) {
		p.c.advance()
		return true
	}
	p.c.pos = save
	return false
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	pos := p.expect(lexer.WHILE).Pos
	cond := p.parseExpression(lowest)
	body := p.parseBlock()
	return ast.NewWhileStmt(pos, cond, body)
}

func (p *Parser) parseForStmt(parallel bool) ast.Stmt {
	p.expect(lexer.FOR)
	return p.parseForBody(parallel)
}

// parseFormatBlock parses `formatOutput(endSuffix?) do ... end` (spec
// §3/§4.5): a scoped region where text emission accumulates into a
// thread-local buffer, flushed with the optional end suffix on exit.
func (p *Parser) parseFormatBlock() ast.Stmt {
	pos := p.c.advance().Pos // consume 'formatOutput'
	p.expect(lexer.LPAREN)
	var endSuffix ast.Expr
	if !p.at(lexer.RPAREN) {
		endSuffix = p.parseExpression(lowest)
	}
	p.expect(lexer.RPAREN)
	body := p.parseBlock()
	return ast.NewFormatBlock(pos, endSuffix, body)
}

func (p *Parser) parseForBody(parallel bool) ast.Stmt {
	pos := p.c.cur().Pos
	varTok := p.expect(lexer.IDENT)
	p.expect(lexer.IN)
	start := p.parseExpression(lowest)
	p.expect(lexer.RANGE)
	stop := p.parseExpression(lowest)

	var step ast.Expr
	if p.accept(lexer.STEP) {
		step = p.parseExpression(lowest)
	}
	body := p.parseBlock()

	fr := ast.NewForRangeStmt(pos, varTok.Literal, start, stop, body)
	fr.Step = step
	fr.Parallel = parallel
	return fr
}

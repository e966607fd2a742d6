package parser

import (
	"strconv"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// Precedence levels, highest to lowest (spec §4.2): unary, power
// (right-associative), factor, term, comparison, equality, and, or. The
// constants below run lowest first, so a larger value binds tighter.
const (
	_ int = iota
	lowest
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precPower
	precUnary
)

var precedences = map[lexer.TokenKind]int{
	lexer.OROR:    precOr,
	lexer.ANDAND:  precAnd,
	lexer.EQ:      precEquality,
	lexer.NEQ:     precEquality,
	lexer.LT:      precComparison,
	lexer.GT:      precComparison,
	lexer.LE:      precComparison,
	lexer.GE:      precComparison,
	lexer.PLUS:    precTerm,
	lexer.MINUS:   precTerm,
	lexer.STAR:    precFactor,
	lexer.SLASH:   precFactor,
	lexer.PERCENT: precFactor,
	lexer.POW:     precPower,
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.c.cur().Kind]; ok {
		return prec
	}
	return lowest
}

// parseExpression parses an expression at minPrec or higher using
// precedence climbing; postfix `.field`/`.method(args)` access is parsed
// inside parsePostfix, binding tighter than any binary operator (spec
// §4.2).
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		prec := p.peekPrecedence()
		if prec == lowest || prec < minPrec {
			break
		}
		op := p.c.advance()
		// power is right-associative: recurse at the same precedence
		nextMin := prec + 1
		if op.Kind == lexer.POW {
			nextMin = prec
		}
		right := p.parseExpression(nextMin)
		if right == nil {
			return left
		}
		left = ast.NewBinaryOp(op.Pos, op.Kind, left, right)
	}
	return left
}

// parseUnary parses a unary negate/not, or falls through to a postfix
// expression. `and`/`or`/`not` keyword aliases are already folded to
// ANDAND/OROR/BANG by the lexer.
func (p *Parser) parseUnary() ast.Expr {
	switch p.c.cur().Kind {
	case lexer.MINUS, lexer.BANG:
		op := p.c.advance()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return ast.NewUnaryOp(op.Pos, op.Kind, x)
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by any chain of
// `.field` / `.method(args)` accesses.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for p.at(lexer.DOT) {
		dotPos := p.c.advance().Pos
		nameTok := p.expect(lexer.IDENT)
		if p.at(lexer.LPAREN) {
			args := p.parseArgList()
			expr = ast.NewMethodCall(dotPos, expr, nameTok.Literal, args)
		} else {
			expr = ast.NewFieldGet(dotPos, expr, nameTok.Literal)
		}
	}
	return expr
}

func (p *Parser) parseArgList() []ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		if e := p.parseExpression(lowest); e != nil {
			args = append(args, e)
		}
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.c.cur()
	switch tok.Kind {
	case lexer.INT:
		p.c.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid integer literal %q", tok.Literal)
			v = 0
		}
		return ast.NewIntLit(tok.Pos, v)
	case lexer.FLOAT:
		p.c.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid float literal %q", tok.Literal)
			v = 0
		}
		return ast.NewFloatLit(tok.Pos, v)
	case lexer.TRUE:
		p.c.advance()
		return ast.NewBoolLit(tok.Pos, true)
	case lexer.FALSE:
		p.c.advance()
		return ast.NewBoolLit(tok.Pos, false)
	case lexer.STRING:
		p.c.advance()
		return ast.NewStringLit(tok.Pos, tok.Literal)
	case lexer.EXPAND:
		return p.parseMacroExpand()
	case lexer.IDENT:
		p.c.advance()
		if p.at(lexer.LPAREN) {
			args := p.parseArgList()
			return ast.NewCall(tok.Pos, tok.Literal, args)
		}
		return ast.NewIdent(tok.Pos, tok.Literal)
	case lexer.LPAREN:
		p.c.advance()
		e := p.parseExpression(lowest)
		p.expect(lexer.RPAREN)
		return e
	default:
		p.errorf(tok.Pos, "unexpected token %s %q in expression", tok.Kind, tok.Literal)
		p.c.advance()
		return nil
	}
}

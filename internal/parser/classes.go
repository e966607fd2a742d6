package parser

import (
	"fmt"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// parseClassDecl parses `class Name [extends Base] ( { | do ) members
// ( } | end )` (spec §4.2), assigning each method overload its mangled
// symbol as members are added. Override legality is not checked.
func (p *Parser) parseClassDecl() *ast.Class {
	pos := p.expect(lexer.CLASS).Pos
	nameTok := p.expect(lexer.IDENT)
	c := ast.NewClass(pos, nameTok.Literal)

	if p.accept(lexer.EXTENDS) {
		baseTok := p.expect(lexer.IDENT)
		c.Base = baseTok.Literal
	}

	var closer lexer.TokenKind
	switch {
	case p.accept(lexer.LBRACE):
		closer = lexer.RBRACE
	case p.accept(lexer.DO):
		closer = lexer.END
	default:
		tok := p.c.cur()
		p.errorf(tok.Pos, "expected '{' or 'do' to start class body, got %s", tok.Kind)
		return c
	}

	p.c.skipNewlines()
	for !p.at(closer) && !p.at(lexer.EOF) {
		p.parseClassMember(c)
		p.c.skipNewlines()
	}
	p.expect(closer)
	return c
}

// parseClassMember parses one member: an optional access modifier, then
// optional method modifiers, then a field declaration or a
// method/operator/constructor.
func (p *Parser) parseClassMember(c *ast.Class) {
	access := ast.Public
	switch p.c.cur().Kind {
	case lexer.PUBLIC:
		p.c.advance()
	case lexer.PROTECTED:
		access = ast.Protected
		p.c.advance()
	case lexer.PRIVATE:
		access = ast.Private
		p.c.advance()
	}

	var isStatic, isVirtual, isOverride, isFinal bool
	for {
		switch p.c.cur().Kind {
		case lexer.STATIC:
			isStatic = true
			p.c.advance()
			continue
		case lexer.VIRTUAL:
			isVirtual = true
			p.c.advance()
			continue
		case lexer.OVERRIDE:
			isOverride = true
			p.c.advance()
			continue
		case lexer.FINAL:
			isFinal = true
			p.c.advance()
			continue
		}
		break
	}

	if p.at(lexer.DECLARE) {
		p.parseFieldDecl(c, access)
		return
	}

	fn := p.parseFunctionDecl(c.Name, access)
	if fn == nil {
		return
	}
	fn.Static = isStatic
	fn.Virtual = isVirtual || isOverride // override implicitly inherits virtual (spec §4.2)
	fn.Override = isOverride
	fn.Final = isFinal

	p.registerMethod(c, fn)
}

func (p *Parser) parseFieldDecl(c *ast.Class, access ast.Access) {
	pos := p.expect(lexer.DECLARE).Pos
	nameTok := p.expect(lexer.IDENT)
	fd := &ast.FieldDecl{Pos: pos, Name: nameTok.Literal, Access: access, Owner: c.Name}

	if p.accept(lexer.COLON) {
		fd.Type = p.parseTypeName()
	}
	if p.accept(lexer.ASSIGN) {
		fd.Default = p.parseExpression(lowest)
	}

	if _, exists := c.Fields[fd.Name]; exists {
		p.errorf(pos, "duplicate field declaration %q in class %q", fd.Name, c.Name)
		return
	}
	c.Fields[fd.Name] = fd
	c.FieldOrder = append(c.FieldOrder, fd.Name)
	p.skipStmtTerminator()
}

// registerMethod assigns fn's mangled symbol within c's overload group
// (spec §4.2). No override legality check (base arity, final base,
// static-ness, return type) is made here or in the semantic checker.
func (p *Parser) registerMethod(c *ast.Class, fn *ast.Function) {
	key := methodKey(fn)
	group := c.Methods[key]

	idx := len(group)
	if idx == 0 {
		c.MethodOrder = append(c.MethodOrder, key)
	}
	if fn.Operator != "" {
		fn.MangledSymbol = string(fn.Operator)
	} else {
		fn.MangledSymbol = fmt.Sprintf("__ls_cls_%s_%s", c.Name, key)
		if idx > 0 {
			fn.MangledSymbol = fmt.Sprintf("%s_%d", fn.MangledSymbol, idx)
		}
	}

	c.Methods[key] = append(group, &ast.MethodOverload{Fn: fn})
}

// methodKey is the overload-group key for a method: its public name, or
// its synthetic operator key for operator overrides.
func methodKey(fn *ast.Function) string {
	if fn.Operator != "" {
		return string(fn.Operator)
	}
	if fn.IsConstructor {
		return "constructor"
	}
	return fn.Name
}

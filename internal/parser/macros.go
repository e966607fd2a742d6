package parser

import (
	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
)

// parseMacroDecl parses `macro name(p1: kind, ...) = bodyExpr`. Only
// `expr`-kind parameters are fully implemented (spec §4.2); `stmt`/`item`
// parameters are accepted syntactically but rejected by parseMacroExpand
// if a macro using them is ever expanded.
func (p *Parser) parseMacroDecl() *ast.Macro {
	pos := p.expect(lexer.MACRO).Pos
	nameTok := p.expect(lexer.IDENT)
	m := &ast.Macro{Pos: pos, Name: nameTok.Literal}

	p.expect(lexer.LPAREN)
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		pnameTok := p.expect(lexer.IDENT)
		kind := ast.MacroParamExpr
		if p.accept(lexer.COLON) {
			kindTok := p.expect(lexer.IDENT)
			switch kindTok.Literal {
			case "expr":
				kind = ast.MacroParamExpr
			case "stmt":
				kind = ast.MacroParamStmt
			case "item":
				kind = ast.MacroParamItem
			default:
				p.errorf(kindTok.Pos, "unknown macro parameter kind %q", kindTok.Literal)
			}
		}
		m.Params = append(m.Params, ast.MacroParam{Name: pnameTok.Literal, Kind: kind})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.ASSIGN)
	m.Body = p.parseExpression(lowest)
	return m
}

// parseMacroExpand parses `expand(name(a1, ..., an))` and performs pure,
// capture-insensitive substitution: each parameter identifier in the
// macro body is replaced by a CLONE of the corresponding call argument,
// so later optimizer rewrites at one call site never affect another
// (spec §9's macro-hygiene note).
func (p *Parser) parseMacroExpand() ast.Expr {
	expandPos := p.expect(lexer.EXPAND).Pos
	p.expect(lexer.LPAREN)
	nameTok := p.expect(lexer.IDENT)
	args := p.parseArgList()
	p.expect(lexer.RPAREN)

	macro, ok := p.macros[nameTok.Literal]
	if !ok {
		p.errorf(nameTok.Pos, "undefined macro %q", nameTok.Literal)
		return ast.NewIntLit(expandPos, 0)
	}
	if len(args) != len(macro.Params) {
		p.errorf(nameTok.Pos, "macro %q expects %d argument(s), got %d", macro.Name, len(macro.Params), len(args))
		return ast.NewIntLit(expandPos, 0)
	}
	for _, param := range macro.Params {
		if param.Kind != ast.MacroParamExpr {
			p.errorf(nameTok.Pos, "macro %q: parameter %q of kind %s cannot be expanded; only expr parameters are supported", macro.Name, param.Name, param.Kind)
			return ast.NewIntLit(expandPos, 0)
		}
	}

	subst := make(map[string]ast.Expr, len(macro.Params))
	for i, param := range macro.Params {
		subst[param.Name] = args[i]
	}
	return substituteExpr(macro.Body, subst, expandPos)
}

// substituteExpr clones body, replacing every Ident whose Name matches a
// macro parameter with a fresh clone of the bound argument expression.
func substituteExpr(body ast.Expr, subst map[string]ast.Expr, callPos lexer.Position) ast.Expr {
	if body == nil {
		return nil
	}
	switch n := body.(type) {
	case *ast.Ident:
		if arg, ok := subst[n.Name]; ok {
			return cloneExpr(arg)
		}
		return ast.NewIdent(callPos, n.Name)
	case *ast.IntLit:
		return ast.NewIntLit(callPos, n.Value)
	case *ast.FloatLit:
		return ast.NewFloatLit(callPos, n.Value)
	case *ast.BoolLit:
		return ast.NewBoolLit(callPos, n.Value)
	case *ast.StringLit:
		return ast.NewStringLit(callPos, n.Value)
	case *ast.UnaryOp:
		return ast.NewUnaryOp(callPos, n.Op, substituteExpr(n.X, subst, callPos))
	case *ast.BinaryOp:
		return ast.NewBinaryOp(callPos, n.Op, substituteExpr(n.L, subst, callPos), substituteExpr(n.R, subst, callPos))
	case *ast.Call:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = substituteExpr(a, subst, callPos)
		}
		return ast.NewCall(callPos, n.Callee, args)
	case *ast.FieldGet:
		return ast.NewFieldGet(callPos, substituteExpr(n.Object, subst, callPos), n.Field)
	case *ast.MethodCall:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = substituteExpr(a, subst, callPos)
		}
		return ast.NewMethodCall(callPos, substituteExpr(n.Object, subst, callPos), n.Method, args)
	default:
		return body
	}
}

// cloneExpr deep-clones an argument expression so that substituting it
// into N macro-body references yields N independent subtrees.
func cloneExpr(e ast.Expr) ast.Expr {
	return substituteExpr(e, nil, e.Pos())
}

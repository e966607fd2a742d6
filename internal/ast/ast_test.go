package ast

import (
	"testing"

	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

func TestExprStringRoundTrip(t *testing.T) {
	pos := lexer.Position{Line: 1, Column: 1}
	bin := NewBinaryOp(pos, lexer.PLUS, NewIdent(pos, "x"), NewIntLit(pos, 1))
	if got, want := bin.String(), "(x + 1)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExprTypeState(t *testing.T) {
	pos := lexer.Position{Line: 1, Column: 1}
	lit := NewIntLit(pos, 42)
	if lit.IsTyped() {
		t.Fatal("fresh literal should not be typed yet")
	}
	lit.SetType(types.I64)
	if !lit.IsTyped() || lit.Type() != types.I64 {
		t.Fatalf("expected typed i64, got typed=%v type=%s", lit.IsTyped(), lit.Type())
	}
}

func TestClassFieldOwnership(t *testing.T) {
	pos := lexer.Position{Line: 1, Column: 1}
	c := NewClass(pos, "P")
	c.Fields["x"] = &FieldDecl{Name: "x", Type: types.I64, Owner: "P"}
	if c.Fields["x"].Owner != "P" {
		t.Fatal("field owner should be the declaring class")
	}
}

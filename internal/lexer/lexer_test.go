package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `fn main() -> i64 {
  declare s = 0
  for i in 0..10 {
    s = s + i
  }
  return 0
}`
	want := []TokenKind{
		FN, IDENT, LPAREN, RPAREN, ARROW, IDENT, LBRACE, NEWLINE,
		DECLARE, IDENT, ASSIGN, INT, NEWLINE,
		FOR, IDENT, IN, INT, RANGE, INT, LBRACE, NEWLINE,
		IDENT, ASSIGN, IDENT, PLUS, IDENT, NEWLINE,
		RBRACE, NEWLINE,
		RETURN, INT, NEWLINE,
		RBRACE, EOF,
	}
	toks, errs := Tokenize(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestKeywordAliases(t *testing.T) {
	toks, _ := Tokenize("and or not")
	want := []TokenKind{AND, OR, NOT, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks, errs := Tokenize(`"a\nb\tc\\d\"e"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Literal != "a\nb\tc\\d\"e" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestUnsupportedEscape(t *testing.T) {
	_, errs := Tokenize(`"a\qb"`)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, errs := Tokenize(`"abc`)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d", len(errs))
	}
}

func TestRawNewlineInString(t *testing.T) {
	// The literal ends at the raw newline (one error); the trailing quote
	// after `def` then opens a second literal that never closes (another).
	_, errs := Tokenize("\"abc\ndef\"")
	if len(errs) != 2 {
		t.Fatalf("want 2 errors, got %d", len(errs))
	}
}

func TestFloatVsInt(t *testing.T) {
	toks, _ := Tokenize("1 1.5 1.")
	if toks[0].Kind != INT {
		t.Errorf("want INT, got %s", toks[0].Kind)
	}
	if toks[1].Kind != FLOAT || toks[1].Literal != "1.5" {
		t.Errorf("want FLOAT 1.5, got %s %q", toks[1].Kind, toks[1].Literal)
	}
	// "1." with no following digit: '.' is not absorbed (range-friendly: 1..10)
	if toks[2].Kind != INT || toks[2].Literal != "1" {
		t.Errorf("want INT 1, got %s %q", toks[2].Kind, toks[2].Literal)
	}
}

func TestCompoundOperators(t *testing.T) {
	toks, _ := Tokenize("** **= -> .. == != <= >= && || ++ -- += -= *= /= %= ^=")
	want := []TokenKind{
		POW, POW_ASSIGN, ARROW, RANGE, EQ, NEQ, LE, GE, ANDAND, OROR,
		INC, DEC, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, CARET_ASSIGN, EOF,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestUnknownCharacter(t *testing.T) {
	_, errs := Tokenize("@")
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d", len(errs))
	}
}

func TestPositionTracking(t *testing.T) {
	toks, _ := Tokenize("ab\ncd")
	if toks[0].Pos != (Position{Line: 1, Column: 1}) {
		t.Errorf("got %v", toks[0].Pos)
	}
	// cd is on line 2, first column
	var cd Token
	for _, tok := range toks {
		if tok.Literal == "cd" {
			cd = tok
		}
	}
	if cd.Pos.Line != 2 {
		t.Errorf("want line 2, got %d", cd.Pos.Line)
	}
}

// Package parser implements LineScript's recursive-descent parser:
// one-token lookahead augmented by a non-newline peek helper used to
// decide whether a block-opening token follows a parameter list across
// intervening (optional) newlines (spec §4.2).
package parser

import "github.com/linescript-lang/lsc/internal/lexer"

// cursor buffers the full token stream up front (LineScript sources are
// small single-file compiles; spec's non-goals explicitly rule out
// sub-file incremental parsing, so there is no benefit to a streaming
// lexer/parser boundary here) and exposes one-token lookahead plus
// lookNonNl.
type cursor struct {
	toks []lexer.Token
	pos  int
}

func newCursor(toks []lexer.Token) *cursor {
	return &cursor{toks: toks}
}

// cur returns the current token without advancing.
func (c *cursor) cur() lexer.Token {
	if c.pos >= len(c.toks) {
		return c.toks[len(c.toks)-1] // EOF
	}
	return c.toks[c.pos]
}

// advance consumes the current token and returns it.
func (c *cursor) advance() lexer.Token {
	t := c.cur()
	if c.pos < len(c.toks)-1 {
		c.pos++
	}
	return t
}

// peek returns the token k positions ahead of the cursor (peek(0) == cur()).
func (c *cursor) peek(k int) lexer.Token {
	idx := c.pos + k
	if idx >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[idx]
}

// skipNewlines consumes any run of NEWLINE tokens at the cursor.
func (c *cursor) skipNewlines() {
	for c.cur().Kind == lexer.NEWLINE {
		c.advance()
	}
}

// lookNonNl returns the kind of the k-th non-newline token starting from
// the cursor (k=0 is the first non-newline token, which may be cur()
// itself). This lets the parser decide whether a `do`/`{`/`->`/`throws`
// follows a parameter list without being confused by source formatted
// across several lines (spec §4.2).
func (c *cursor) lookNonNl(k int) lexer.TokenKind {
	count := -1
	for i := 0; ; i++ {
		tok := c.peek(i)
		if tok.Kind == lexer.EOF {
			return lexer.EOF
		}
		if tok.Kind == lexer.NEWLINE {
			continue
		}
		count++
		if count == k {
			return tok.Kind
		}
	}
}

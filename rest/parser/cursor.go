package parser

import (
	"strconv"

	"github.com/restify-go/restify/rest"
)

// Cursor wraps an immutable token slice with a position index. Speculative
// lookahead is a saved index (Mark/ResetTo), never a copy of the buffer, so
// trying an alternative production and discarding it costs nothing.
type Cursor struct {
	tokens []Token
	pos    int
	limit  int           // exclusive upper bound; len(tokens) for the root cursor
	end    rest.Position // position reported for the synthetic EOF of a sub-region
}

func NewCursor(tokens []Token) *Cursor {
	c := &Cursor{tokens: tokens, limit: len(tokens)}
	if n := len(tokens); n > 0 {
		c.end = tokens[n-1].Span.Start
	}
	return c
}

func (c *Cursor) eofToken() Token {
	return Token{Kind: TokenEOF, Span: rest.Span{Start: c.end, End: c.end}}
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() Token {
	if c.pos >= c.limit {
		return c.eofToken()
	}
	return c.tokens[c.pos]
}

func (c *Cursor) PeekN(n int) Token {
	if c.pos+n >= c.limit {
		return c.eofToken()
	}
	return c.tokens[c.pos+n]
}

// Check reports whether the next token has the given kind, without
// consuming it.
func (c *Cursor) Check(kind TokenKind) bool {
	return c.Peek().Kind == kind
}

func (c *Cursor) Advance() Token {
	tok := c.Peek()
	if c.pos < c.limit {
		c.pos++
	}
	return tok
}

// AtEnd reports whether the cursor has exhausted its region.
func (c *Cursor) AtEnd() bool {
	return c.pos >= c.limit
}

// Mark snapshots the cursor position for speculative lookahead.
func (c *Cursor) Mark() int {
	return c.pos
}

// ResetTo discards a speculation by restoring a mark.
func (c *Cursor) ResetTo(mark int) {
	c.pos = mark
}

// Expect consumes the next token if it has the required kind, and otherwise
// fails with a syntax error carrying position and expected-vs-found.
func (c *Cursor) Expect(kind TokenKind) (Token, *rest.Error) {
	tok := c.Peek()
	if tok.Kind != kind {
		return Token{}, c.errExpected(tok, kind)
	}
	c.Advance()
	return tok, nil
}

// ExpectIdent consumes an identifier, also accepting keywords used in
// identifier position.
func (c *Cursor) ExpectIdent() (Token, *rest.Error) {
	tok := c.Peek()
	switch tok.Kind {
	case TokenIdent, TokenStruct, TokenEnum, TokenPub:
		c.Advance()
		return tok, nil
	}
	return Token{}, c.errExpected(tok, TokenIdent)
}

// ExpectString consumes a string literal and returns its unquoted value.
func (c *Cursor) ExpectString() (string, rest.Position, *rest.Error) {
	tok := c.Peek()
	if tok.Kind != TokenStringLiteral {
		return "", tok.Span.Start, c.errExpected(tok, TokenStringLiteral)
	}
	c.Advance()
	value, err := strconv.Unquote(tok.Literal)
	if err != nil {
		return "", tok.Span.Start, rest.Syntaxf(tok.Span.Start, "malformed string literal %s", tok.Literal)
	}
	return value, tok.Span.Start, nil
}

// ExpectInt consumes an integer literal.
func (c *Cursor) ExpectInt() (int64, rest.Position, *rest.Error) {
	tok := c.Peek()
	if tok.Kind != TokenIntLiteral {
		return 0, tok.Span.Start, c.errExpected(tok, TokenIntLiteral)
	}
	c.Advance()
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return 0, tok.Span.Start, rest.Syntaxf(tok.Span.Start, "malformed integer literal %s", tok.Literal)
	}
	return value, tok.Span.Start, nil
}

func (c *Cursor) errExpected(got Token, kinds ...TokenKind) *rest.Error {
	expected := make([]string, len(kinds))
	for i, k := range kinds {
		expected[i] = k.String()
	}
	found := got.Literal
	if got.Kind == TokenEOF {
		found = "end of input"
	}
	return &rest.Error{
		Kind:     rest.SyntaxError,
		Pos:      got.Span.Start,
		Msg:      "unexpected token",
		Expected: expected,
		Got:      found,
	}
}

var closing = map[TokenKind]TokenKind{
	TokenLBracket: TokenRBracket,
	TokenLBrace:   TokenRBrace,
	TokenLParen:   TokenRParen,
}

// Rebase consumes an opening delimiter and returns a sub-cursor bounded by
// its matching close, so a production parses its region as a self-contained
// unit. The parent cursor is left positioned after the closing delimiter.
// Only the position indexes are copied; both cursors share the token slice.
func (c *Cursor) Rebase(open TokenKind) (*Cursor, *rest.Error) {
	openTok, err := c.Expect(open)
	if err != nil {
		return nil, err
	}
	closeKind, ok := closing[open]
	if !ok {
		return nil, rest.Syntaxf(openTok.Span.Start, "token %s does not open a region", open)
	}

	depth := 1
	i := c.pos
	for ; i < c.limit; i++ {
		switch c.tokens[i].Kind {
		case open:
			depth++
		case closeKind:
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return nil, rest.Syntaxf(openTok.Span.Start, "unclosed %s", open)
	}

	sub := &Cursor{
		tokens: c.tokens,
		pos:    c.pos,
		limit:  i,
		end:    c.tokens[i].Span.Start,
	}
	c.pos = i + 1
	return sub, nil
}

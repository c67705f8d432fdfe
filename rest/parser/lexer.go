package parser

import "github.com/restify-go/restify/rest"

// Lexer turns declaration text into the token slice consumed by the cursor.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() rest.Position {
	return rest.Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: rest.Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(startPos)
	}

	if isLetter(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '-' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	if ch == '"' {
		return l.scanStringLiteral(startPos)
	}

	return l.scanPunct(startPos)
}

func (l *Lexer) token(kind TokenKind, start rest.Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    rest.Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanWhitespace(start rest.Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start rest.Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start rest.Position) Token {
	l.advanceN(2)
	for {
		if l.peek() == 0 {
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start rest.Position) Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenIdent, start)
	tok.Kind = LookupKeyword(tok.Literal)
	return tok
}

func (l *Lexer) scanNumber(start rest.Position) Token {
	if l.peek() == '-' {
		l.advance()
	}
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	return l.token(TokenIntLiteral, start)
}

// scanStringLiteral consumes a double-quoted string. The token's Literal
// keeps the quotes; unterminated strings become error tokens.
func (l *Lexer) scanStringLiteral(start rest.Position) Token {
	l.advance()
	for {
		ch := l.peek()
		if ch == 0 || ch == '\n' {
			return l.token(TokenError, start)
		}
		if ch == '\\' {
			l.advanceN(2)
			continue
		}
		if ch == '"' {
			l.advance()
			break
		}
		l.advance()
	}
	return l.token(TokenStringLiteral, start)
}

func (l *Lexer) scanPunct(start rest.Position) Token {
	ch := l.advance()
	switch ch {
	case '#':
		return l.token(TokenHash, start)
	case '[':
		return l.token(TokenLBracket, start)
	case ']':
		return l.token(TokenRBracket, start)
	case '{':
		return l.token(TokenLBrace, start)
	case '}':
		return l.token(TokenRBrace, start)
	case '(':
		return l.token(TokenLParen, start)
	case ')':
		return l.token(TokenRParen, start)
	case '<':
		return l.token(TokenLT, start)
	case '>':
		return l.token(TokenGT, start)
	case ':':
		if l.peek() == ':' {
			l.advance()
			return l.token(TokenColonColon, start)
		}
		return l.token(TokenColon, start)
	case ',':
		return l.token(TokenComma, start)
	case '?':
		return l.token(TokenQuestion, start)
	case '=':
		if l.peek() == '>' {
			l.advance()
			return l.token(TokenFatArrow, start)
		}
		return l.token(TokenAssign, start)
	}
	return l.token(TokenError, start)
}

// Tokenize runs the lexer to EOF, dropping whitespace and comments.
func Tokenize(input []byte, file string) []Token {
	lexer := NewLexer(input, file)
	var tokens []Token
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

package parser

import "github.com/restify-go/restify/rest"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenStringLiteral

	// Keywords
	TokenStruct
	TokenEnum
	TokenPub

	// Punctuation
	TokenHash
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLT
	TokenGT
	TokenColon
	TokenColonColon
	TokenComma
	TokenQuestion
	TokenAssign
	TokenFatArrow
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenStruct:        "struct",
	TokenEnum:          "enum",
	TokenPub:           "pub",
	TokenHash:          "#",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLT:            "<",
	TokenGT:            ">",
	TokenColon:         ":",
	TokenColonColon:    "::",
	TokenComma:         ",",
	TokenQuestion:      "?",
	TokenAssign:        "=",
	TokenFatArrow:      "=>",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    rest.Span
	Literal string
}

var keywords = map[string]TokenKind{
	"struct": TokenStruct,
	"enum":   TokenEnum,
	"pub":    TokenPub,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

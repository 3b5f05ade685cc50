package lexer

import "github.com/malphas-lang/nougat/internal/diag"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the source
	End      int    // exclusive end index
}

// IsZero reports whether the span carries no location (synthesized nodes).
func (s Span) IsZero() bool {
	return s.Line == 0 && s.Start == 0 && s.End == 0
}

// ToDiag converts the span into the shared diagnostic span.
func (s Span) ToDiag() diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// Merge returns the smallest span covering both a and b.
func Merge(a, b Span) Span {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	out := a
	if b.Start < a.Start {
		out.Line, out.Column, out.Start = b.Line, b.Column, b.Start
	}
	if b.End > a.End {
		out.End = b.End
	}
	return out
}

// Token represents a lexical token.
//
// Punctuation is always a single character. Joint is set when the next token
// is punctuation that follows without any trivia in between, so `::`, `->`
// and `=>` are recognized by the parser from two adjacent tokens and `>>`
// closes two generic lists without splitting.
type Token struct {
	Type    TokenType
	Literal string // exact source text
	Leading string // whitespace and comments preceding the token
	Joint   bool
	Span    Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT       TokenType = "IDENT"    // add, foobar, Self, r#type
	LIFETIME    TokenType = "LIFETIME" // 'a, '_, 'static
	INT         TokenType = "INT"      // 1343456, 0xff_u8
	FLOAT       TokenType = "FLOAT"    // 3.14, 1e9f32
	STRING      TokenType = "STRING"   // "hello", b"bytes", r#"raw"#
	CHAR        TokenType = "CHAR"     // 'a', b'\n'
	DOC_COMMENT TokenType = "DOC_COMMENT"

	// Punctuation
	ASSIGN    TokenType = "="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	BANG      TokenType = "!"
	AMPERSAND TokenType = "&"
	PIPE      TokenType = "|"
	CARET     TokenType = "^"
	PERCENT   TokenType = "%"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	QUESTION  TokenType = "?"
	AT        TokenType = "@"
	POUND     TokenType = "#"
	DOLLAR    TokenType = "$"
	TILDE     TokenType = "~"
	LT        TokenType = "<"
	GT        TokenType = ">"
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."

	// Delimiters
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	AS       TokenType = "AS"
	ASYNC    TokenType = "ASYNC"
	AWAIT    TokenType = "AWAIT"
	BREAK    TokenType = "BREAK"
	CONST    TokenType = "CONST"
	CONTINUE TokenType = "CONTINUE"
	DYN      TokenType = "DYN"
	ELSE     TokenType = "ELSE"
	ENUM     TokenType = "ENUM"
	EXTERN   TokenType = "EXTERN"
	FALSE    TokenType = "FALSE"
	FN       TokenType = "FN"
	FOR      TokenType = "FOR"
	IF       TokenType = "IF"
	IMPL     TokenType = "IMPL"
	IN       TokenType = "IN"
	LET      TokenType = "LET"
	LOOP     TokenType = "LOOP"
	MATCH    TokenType = "MATCH"
	MOD      TokenType = "MOD"
	MOVE     TokenType = "MOVE"
	MUT      TokenType = "MUT"
	PUB      TokenType = "PUB"
	REF      TokenType = "REF"
	RETURN   TokenType = "RETURN"
	STATIC   TokenType = "STATIC"
	STRUCT   TokenType = "STRUCT"
	TRAIT    TokenType = "TRAIT"
	TRUE     TokenType = "TRUE"
	TYPE     TokenType = "TYPE"
	UNSAFE   TokenType = "UNSAFE"
	USE      TokenType = "USE"
	WHERE    TokenType = "WHERE"
	WHILE    TokenType = "WHILE"
)

// Path keywords (self, Self, super, crate) lex as identifiers so they can be
// used as path segments without special cases.
var keywords = map[string]TokenType{
	"as":       AS,
	"async":    ASYNC,
	"await":    AWAIT,
	"break":    BREAK,
	"const":    CONST,
	"continue": CONTINUE,
	"dyn":      DYN,
	"else":     ELSE,
	"enum":     ENUM,
	"extern":   EXTERN,
	"false":    FALSE,
	"fn":       FN,
	"for":      FOR,
	"if":       IF,
	"impl":     IMPL,
	"in":       IN,
	"let":      LET,
	"loop":     LOOP,
	"match":    MATCH,
	"mod":      MOD,
	"move":     MOVE,
	"mut":      MUT,
	"pub":      PUB,
	"ref":      REF,
	"return":   RETURN,
	"static":   STATIC,
	"struct":   STRUCT,
	"trait":    TRAIT,
	"true":     TRUE,
	"type":     TYPE,
	"unsafe":   UNSAFE,
	"use":      USE,
	"where":    WHERE,
	"while":    WHILE,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsPunct reports whether the token type is single-character punctuation.
func IsPunct(t TokenType) bool {
	switch t {
	case ASSIGN, PLUS, MINUS, BANG, AMPERSAND, PIPE, CARET, PERCENT, ASTERISK,
		SLASH, QUESTION, AT, POUND, DOLLAR, TILDE, LT, GT, COMMA, SEMICOLON,
		COLON, DOT:
		return true
	}
	return false
}

// IsKeyword reports whether the token type is a reserved word.
func IsKeyword(t TokenType) bool {
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}

// Ident builds a synthesized identifier token.
func Ident(name string) Token {
	return Token{Type: LookupIdent(name), Literal: name}
}

// Punct builds a synthesized punctuation token.
func Punct(t TokenType) Token {
	return Token{Type: t, Literal: string(t)}
}

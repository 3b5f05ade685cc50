package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/malphas-lang/nougat/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedBlockComment
	ErrUnterminatedChar
	ErrIllegalRune
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrUnterminatedChar:
		return diag.CodeLexerUnterminatedChar
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     e.Span.ToDiag(),
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input    []rune
	filename string
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	span.Filename = l.filename
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	return NewFile("", input)
}

// NewFile creates a lexer whose spans carry the given filename.
func NewFile(filename, input string) *Lexer {
	l := &Lexer{
		input:    []rune(input),
		filename: filename,
		pos:      -1, // start before first rune
		line:     1,
		column:   0, // will be 1 after first read()
	}
	l.read()
	return l
}

// Tokenize lexes the whole input, terminated by an EOF token, and computes
// the Joint flag of every punctuation token.
func Tokenize(filename, input string) ([]Token, []LexerError) {
	l := NewFile(filename, input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	for i := 0; i+1 < len(toks); i++ {
		toks[i].Joint = IsPunct(toks[i].Type) && IsPunct(toks[i+1].Type) && toks[i+1].Leading == ""
	}
	return toks, l.Errors
}

// read advances the lexer to the next character. Line and column always
// reflect the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.pos = inputLen
		l.ch = 0
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the character n positions ahead without advancing
func (l *Lexer) peek(n int) rune {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, leading string, startLine, startColumn, startPos int) Token {
	return Token{
		Type:    tokType,
		Literal: string(l.input[startPos:l.pos]),
		Leading: leading,
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      l.pos,
		},
	}
}

// skipTrivia consumes whitespace and plain comments, returning their text.
// Doc comments are left in place since they become tokens.
func (l *Lexer) skipTrivia() string {
	start := l.pos
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.read()
		case l.ch == '/' && l.peek(1) == '/' && !l.atLineDoc():
			for l.ch != '\n' && l.ch != 0 {
				l.read()
			}
		case l.ch == '/' && l.peek(1) == '*' && !l.atBlockDoc():
			l.skipBlockComment()
		default:
			return string(l.input[start:l.pos])
		}
	}
}

// atLineDoc reports `///` (but not `////`) or `//!`.
func (l *Lexer) atLineDoc() bool {
	third := l.peek(2)
	if third == '!' {
		return true
	}
	return third == '/' && l.peek(3) != '/'
}

// atBlockDoc reports `/**` (but not `/**/` or `/***`) or `/*!`.
func (l *Lexer) atBlockDoc() bool {
	third := l.peek(2)
	if third == '!' {
		return true
	}
	return third == '*' && l.peek(3) != '*' && l.peek(3) != '/'
}

func (l *Lexer) skipBlockComment() {
	startLine, startColumn, startPos := l.currentSpanStart()
	l.read() // '/'
	l.read() // '*'
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.addError(
				ErrUnterminatedBlockComment,
				"unterminated block comment",
				Span{Line: startLine, Column: startColumn, Start: startPos, End: l.pos},
			)
			return
		}
		if l.ch == '/' && l.peek(1) == '*' {
			l.read()
			l.read()
			depth++
		} else if l.ch == '*' && l.peek(1) == '/' {
			l.read()
			l.read()
			depth--
		} else {
			l.read()
		}
	}
}

func (l *Lexer) readIdentifier() {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
}

// readNumber reads a number literal (decimal, hex, octal, binary, float)
// including any type suffix such as `u8` or `f32`.
func (l *Lexer) readNumber() TokenType {
	tokType := INT
	if l.ch == '0' && (l.peek(1) == 'x' || l.peek(1) == 'o' || l.peek(1) == 'b') {
		l.read()
		l.read()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.read()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.read()
		}
		// `1.0` is a float, `1..2` and `1.foo()` are not
		if l.ch == '.' && isDigit(l.peek(1)) {
			tokType = FLOAT
			l.read()
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
		if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peek(1)) || ((l.peek(1) == '+' || l.peek(1) == '-') && isDigit(l.peek(2)))) {
			tokType = FLOAT
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
	}
	if isLetter(l.ch) {
		start := l.pos
		l.readIdentifier()
		if strings.HasPrefix(string(l.input[start:l.pos]), "f") {
			tokType = FLOAT
		}
	}
	return tokType
}

// readQuoted consumes a quoted literal whose opening quote is the current
// character. It reports whether the closing quote was found.
func (l *Lexer) readQuoted(quote rune) bool {
	l.read() // opening quote
	for {
		switch l.ch {
		case 0:
			return false
		case quote:
			l.read()
			return true
		case '\\':
			l.read()
			if l.ch != 0 {
				l.read()
			}
		default:
			if quote == '\'' && l.ch == '\n' {
				return false
			}
			l.read()
		}
	}
}

// readRawString consumes `r#*"…"#*`; the current character is the `r`.
func (l *Lexer) readRawString() bool {
	l.read() // 'r'
	hashes := 0
	for l.ch == '#' {
		hashes++
		l.read()
	}
	if l.ch != '"' {
		return false
	}
	l.read()
	for l.ch != 0 {
		if l.ch == '"' {
			l.read()
			n := 0
			for n < hashes && l.ch == '#' {
				n++
				l.read()
			}
			if n == hashes {
				return true
			}
			continue
		}
		l.read()
	}
	return false
}

// atRawString reports whether `r"` or `r#…"` starts at offset off.
func (l *Lexer) atRawString(off int) bool {
	if l.peek(off) != 'r' {
		return false
	}
	i := off + 1
	for l.peek(i) == '#' {
		i++
	}
	return l.peek(i) == '"'
}

// lifetimeAhead decides whether the `'` at the current position opens a
// lifetime rather than a character literal.
func (l *Lexer) lifetimeAhead() bool {
	next := l.peek(1)
	if next == '\\' || !isLetter(next) {
		return false
	}
	return l.peek(2) != '\''
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	leading := l.skipTrivia()
	startLine, startColumn, startPos := l.currentSpanStart()

	switch {
	case l.ch == 0:
		return l.makeToken(EOF, leading, startLine, startColumn, startPos)

	case l.ch == '/' && l.peek(1) == '/':
		for l.ch != '\n' && l.ch != 0 {
			l.read()
		}
		return l.makeToken(DOC_COMMENT, leading, startLine, startColumn, startPos)

	case l.ch == '/' && l.peek(1) == '*':
		l.skipBlockComment()
		return l.makeToken(DOC_COMMENT, leading, startLine, startColumn, startPos)

	case l.ch == '"':
		if !l.readQuoted('"') {
			return l.unterminated(ErrUnterminatedString, "unterminated string literal", leading, startLine, startColumn, startPos)
		}
		return l.makeToken(STRING, leading, startLine, startColumn, startPos)

	case l.ch == '\'':
		if l.lifetimeAhead() {
			l.read()
			l.readIdentifier()
			return l.makeToken(LIFETIME, leading, startLine, startColumn, startPos)
		}
		if !l.readQuoted('\'') {
			return l.unterminated(ErrUnterminatedChar, "unterminated character literal", leading, startLine, startColumn, startPos)
		}
		return l.makeToken(CHAR, leading, startLine, startColumn, startPos)

	case l.ch == 'b' && l.peek(1) == '\'':
		l.read()
		if !l.readQuoted('\'') {
			return l.unterminated(ErrUnterminatedChar, "unterminated byte literal", leading, startLine, startColumn, startPos)
		}
		return l.makeToken(CHAR, leading, startLine, startColumn, startPos)

	case (l.ch == 'b' || l.ch == 'c') && l.peek(1) == '"':
		l.read()
		if !l.readQuoted('"') {
			return l.unterminated(ErrUnterminatedString, "unterminated string literal", leading, startLine, startColumn, startPos)
		}
		return l.makeToken(STRING, leading, startLine, startColumn, startPos)

	case l.atRawString(0) || ((l.ch == 'b' || l.ch == 'c') && l.atRawString(1)):
		if l.ch != 'r' {
			l.read()
		}
		if !l.readRawString() {
			return l.unterminated(ErrUnterminatedString, "unterminated raw string literal", leading, startLine, startColumn, startPos)
		}
		return l.makeToken(STRING, leading, startLine, startColumn, startPos)

	case l.ch == 'r' && l.peek(1) == '#' && isLetter(l.peek(2)):
		l.read()
		l.read()
		l.readIdentifier()
		return l.makeToken(IDENT, leading, startLine, startColumn, startPos)

	case isLetter(l.ch):
		l.readIdentifier()
		tok := l.makeToken(IDENT, leading, startLine, startColumn, startPos)
		tok.Type = LookupIdent(tok.Literal)
		return tok

	case isDigit(l.ch):
		tokType := l.readNumber()
		return l.makeToken(tokType, leading, startLine, startColumn, startPos)
	}

	ch := l.ch
	l.read()
	if tokType, ok := singleChar[ch]; ok {
		return l.makeToken(tokType, leading, startLine, startColumn, startPos)
	}
	tok := l.makeToken(ILLEGAL, leading, startLine, startColumn, startPos)
	l.addError(ErrIllegalRune, "illegal character "+strconv.QuoteRune(ch), tok.Span)
	return tok
}

func (l *Lexer) unterminated(kind LexerErrorKind, msg, leading string, line, column, pos int) Token {
	tok := l.makeToken(ILLEGAL, leading, line, column, pos)
	l.addError(kind, msg, Span{Line: line, Column: column, Start: pos, End: l.pos})
	return tok
}

var singleChar = map[rune]TokenType{
	'=': ASSIGN, '+': PLUS, '-': MINUS, '!': BANG, '&': AMPERSAND, '|': PIPE,
	'^': CARET, '%': PERCENT, '*': ASTERISK, '/': SLASH, '?': QUESTION, '@': AT,
	'#': POUND, '$': DOLLAR, '~': TILDE, '<': LT, '>': GT, ',': COMMA,
	';': SEMICOLON, ':': COLON, '.': DOT,
	'(': LPAREN, ')': RPAREN, '{': LBRACE, '}': RBRACE, '[': LBRACKET, ']': RBRACKET,
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

package parser

import (
	"slices"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/lexer"
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Parser is a recursive descent parser over a token slice.
//
// Structured productions (items, generics, types, bounds) build AST nodes;
// everything the rewrite never needs to look into (function bodies,
// initializers, macro arguments) is kept as tokens with their trivia.
// Productions abandon on the first error via reportError; entry points
// recover and expose the recorded errors through Errors and Err.
type Parser struct {
	toks []lexer.Token
	pos  int

	errors    []ParseError
	lexErrors []lexer.LexerError

	filename string
	lenient  bool
}

var eofToken = lexer.Token{Type: lexer.EOF}

// New returns a parser over the tokens of input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	toks, lexErrs := lexer.Tokenize(cfg.filename, input)
	return &Parser{toks: toks, lexErrors: lexErrs, filename: cfg.filename}
}

// NewFromTokens returns a parser over an already lexed token slice. A
// missing EOF terminator is implied.
func NewFromTokens(toks []lexer.Token, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{toks: toks, filename: cfg.filename}
}

// Pos returns the index of the next unconsumed token.
func (p *Parser) Pos() int { return p.pos }

// ParseFile parses a full source file. Items the parser cannot model are
// kept as VerbatimItem nodes so the file always round-trips; only
// unbalanced delimiters make it fail.
func (p *Parser) ParseFile() *ast.File {
	file := ast.NewFile(p.cur().Span)
	p.lenient = true
	defer func() { p.lenient = false }()
	ok := p.guard(func() {
		file.Attrs = p.parseInnerAttrs()
		for !p.at(lexer.EOF) {
			file.Items = append(file.Items, p.parseItemLenient())
		}
	})
	if !ok {
		return file
	}
	file.Trailing = p.cur().Leading
	if n := len(file.Items); n > 0 {
		file.SetSpan(lexer.Merge(file.Span(), file.Items[n-1].Span()))
	}
	return file
}

// ParseItem parses exactly one item.
func (p *Parser) ParseItem() ast.Item {
	var item ast.Item
	p.guard(func() {
		item = p.parseItem()
		p.expectEOF()
	})
	return item
}

// ParseItems parses items until the end of input.
func (p *Parser) ParseItems() []ast.Item {
	var items []ast.Item
	ok := p.guard(func() {
		for !p.at(lexer.EOF) {
			items = append(items, p.parseItem())
		}
	})
	if !ok {
		return nil
	}
	return items
}

// ParseType parses exactly one type.
func (p *Parser) ParseType() ast.Type {
	var ty ast.Type
	p.guard(func() {
		ty = p.parseType(true)
		p.expectEOF()
	})
	return ty
}

// ParseBounds parses a `+`-separated bound list spanning the whole input.
func (p *Parser) ParseBounds() []ast.Bound {
	var bounds []ast.Bound
	p.guard(func() {
		bounds = p.parseBounds()
		p.expectEOF()
	})
	return bounds
}

// ParseIdentList parses `A, B, C` with an optional trailing comma.
func (p *Parser) ParseIdentList() []*ast.Ident {
	var idents []*ast.Ident
	p.guard(func() {
		for !p.at(lexer.EOF) {
			idents = append(idents, p.parseIdent())
			if !p.eat(lexer.COMMA) {
				break
			}
		}
		p.expectEOF()
	})
	return idents
}

// ParseTypePrefix parses the longest type at the start of toks. It reports
// how many tokens the type used, or false when toks does not start with a
// type. A top-level `+` is never consumed, so `x as u32 + 1` stops before
// the operator.
func ParseTypePrefix(toks []lexer.Token) (ast.Type, int, bool) {
	p := NewFromTokens(toks)
	var ty ast.Type
	if !p.try(func() { ty = p.parseType(false) }) {
		return nil, 0, false
	}
	return ty, p.pos, true
}

// ParsePathPrefix parses the longest expression-style path at the start of
// toks, where generic arguments need a turbofish.
func ParsePathPrefix(toks []lexer.Token) (*ast.Path, int, bool) {
	p := NewFromTokens(toks)
	var path *ast.Path
	if !p.try(func() { path = p.parsePath(false) }) {
		return nil, 0, false
	}
	return path, p.pos, true
}

// ParseTurbofishPrefix parses the `::<...>` argument list at the start of
// toks.
func ParseTurbofishPrefix(toks []lexer.Token) (*ast.AngleArgs, int, bool) {
	p := NewFromTokens(toks)
	if !p.atPathSep(0) || p.peek(2).Type != lexer.LT {
		return nil, 0, false
	}
	var args *ast.AngleArgs
	ok := p.try(func() {
		p.next()
		p.next()
		args = p.parseAngleArgs()
		args.Turbofish = true
	})
	if !ok {
		return nil, 0, false
	}
	return args, p.pos, true
}

func (p *Parser) expectEOF() {
	if !p.at(lexer.EOF) {
		tok := p.cur()
		p.emitParseDiagnostic("unexpected trailing input "+describe(tok), diag.CodeParseTrailingInput, tok.Span)
		panic(bailout{})
	}
}

func (p *Parser) peek(n int) lexer.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return eofToken
}

func (p *Parser) cur() lexer.Token { return p.peek(0) }

func (p *Parser) at(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) atIdent(name string) bool {
	tok := p.cur()
	return tok.Type == lexer.IDENT && tok.Literal == name
}

func (p *Parser) next() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.toks) && tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) eat(t lexer.TokenType) bool {
	if p.at(t) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType, what string) lexer.Token {
	if !p.at(t) {
		p.reportExpectedError(what, p.cur())
	}
	return p.next()
}

// atPathSep reports whether `::` starts n tokens ahead.
func (p *Parser) atPathSep(n int) bool {
	first := p.peek(n)
	return first.Type == lexer.COLON && first.Joint && p.peek(n+1).Type == lexer.COLON
}

// atArrow reports whether `->` starts at the current token.
func (p *Parser) atArrow() bool {
	tok := p.cur()
	return tok.Type == lexer.MINUS && tok.Joint && p.peek(1).Type == lexer.GT
}

// atColon reports a single `:` that does not start a `::`.
func (p *Parser) atColon() bool {
	return p.at(lexer.COLON) && !p.atPathSep(0)
}

func (p *Parser) prevSpan() lexer.Span {
	if p.pos == 0 || p.pos > len(p.toks) {
		return lexer.Span{}
	}
	return p.toks[p.pos-1].Span
}

// spanFrom covers start through the last consumed token.
func (p *Parser) spanFrom(start lexer.Span) lexer.Span {
	return lexer.Merge(start, p.prevSpan())
}

func (p *Parser) parseIdent() *ast.Ident {
	tok := p.expect(lexer.IDENT, "identifier")
	return ast.NewIdent(tok.Literal, tok.Span)
}

func isOpenDelim(t lexer.TokenType) bool {
	return t == lexer.LPAREN || t == lexer.LBRACKET || t == lexer.LBRACE
}

func isCloseDelim(t lexer.TokenType) bool {
	return t == lexer.RPAREN || t == lexer.RBRACKET || t == lexer.RBRACE
}

// parseDelimited consumes a balanced group starting at an open delimiter
// and returns the tokens between the delimiters and the closing token.
func (p *Parser) parseDelimited() (lexer.TokenType, []lexer.Token, lexer.Token) {
	open := p.cur()
	if !isOpenDelim(open.Type) {
		p.reportExpectedError("`(`, `[` or `{`", open)
	}
	p.next()
	start := p.pos
	depth := 0
	for {
		tok := p.cur()
		switch {
		case tok.Type == lexer.EOF:
			p.reportError("unclosed delimiter `"+open.Literal+"`", open.Span)
		case isOpenDelim(tok.Type):
			depth++
		case isCloseDelim(tok.Type):
			if depth == 0 {
				inner := slices.Clone(p.toks[start:p.pos])
				p.next()
				return open.Type, inner, tok
			}
			depth--
		}
		p.next()
	}
}

// collectUntil gathers tokens up to, but not including, the first token at
// nesting depth zero for which stop returns true. A `::` is never offered
// to stop, and an unmatched closing delimiter always ends the region.
func (p *Parser) collectUntil(stop func(lexer.Token) bool) []lexer.Token {
	start := p.pos
	depth := 0
	for {
		tok := p.cur()
		if tok.Type == lexer.EOF {
			if depth > 0 {
				p.reportError("unclosed delimiter", tok.Span)
			}
			return slices.Clone(p.toks[start:p.pos])
		}
		if p.atPathSep(0) {
			p.next()
			p.next()
			continue
		}
		if depth == 0 && stop(tok) {
			return slices.Clone(p.toks[start:p.pos])
		}
		switch {
		case isOpenDelim(tok.Type):
			depth++
		case isCloseDelim(tok.Type):
			if depth == 0 {
				return slices.Clone(p.toks[start:p.pos])
			}
			depth--
		}
		p.next()
	}
}

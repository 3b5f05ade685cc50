package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/lexer"
	"github.com/malphas-lang/nougat/internal/parser"
)

// tokenScanner rewrites the types it can find inside an opaque token region
// such as a function body. Types are recognized after a single `:`, after
// `->`, after `as`, and inside turbofish arguments. Nested items and macro
// invocations are copied untouched.
type tokenScanner struct {
	r    ast.Rewriter
	toks []lexer.Token
	out  []lexer.Token
}

func rewriteTokens(r ast.Rewriter, toks []lexer.Token) []lexer.Token {
	if len(toks) == 0 {
		return toks
	}
	s := &tokenScanner{r: r, toks: toks, out: make([]lexer.Token, 0, len(toks))}
	s.run()
	return s.out
}

func (s *tokenScanner) at(i int) lexer.Token {
	if i >= 0 && i < len(s.toks) {
		return s.toks[i]
	}
	return lexer.Token{Type: lexer.EOF}
}

func (s *tokenScanner) run() {
	i := 0
	for i < len(s.toks) {
		if s.statementStart(i) {
			if end := s.nestedItemEnd(i); end > i {
				s.out = append(s.out, s.toks[i:end]...)
				i = end
				continue
			}
		}
		if end := s.macroEnd(i); end > i {
			s.out = append(s.out, s.toks[i:end]...)
			i = end
			continue
		}
		if n := s.typeIntroducer(i); n > 0 {
			s.out = append(s.out, s.toks[i:i+n]...)
			i += n
			if end, ok := s.rewriteType(i); ok {
				i = end
			}
			continue
		}
		if end, ok := s.rewriteTurbofish(i); ok {
			i = end
			continue
		}
		s.out = append(s.out, s.toks[i])
		i++
	}
}

// rewriteType splices the rewritten form of the type starting at i. It
// reports false, leaving the output alone, when there is no type there or
// the rewrite is a no-op.
func (s *tokenScanner) rewriteType(i int) (int, bool) {
	ty, n, ok := parser.ParseTypePrefix(s.toks[i:])
	if !ok || n == 0 {
		return i, false
	}
	before := ast.String(ty)
	ty = ast.RewriteTypeTree(s.r, ty)
	after := ast.String(ty)
	if before == after {
		return i, false
	}
	s.splice(i, i+n, after)
	return i + n, true
}

func (s *tokenScanner) rewriteTurbofish(i int) (int, bool) {
	if !s.pathSep(i) || s.at(i+2).Type != lexer.LT {
		return i, false
	}
	args, n, ok := parser.ParseTurbofishPrefix(s.toks[i:])
	if !ok {
		return i, false
	}
	before := ast.String(args)
	for _, arg := range args.Args {
		switch arg := arg.(type) {
		case *ast.TypeArg:
			arg.Type = ast.RewriteTypeTree(s.r, arg.Type)
		case *ast.AssocBinding:
			arg.Type = ast.RewriteTypeTree(s.r, arg.Type)
		}
	}
	after := ast.String(args)
	if before == after {
		return i, false
	}
	s.splice(i, i+n, after)
	return i + n, true
}

// splice replaces toks[from:to] with the tokens of text. The replacement
// keeps the leading trivia of the region and takes its span.
func (s *tokenScanner) splice(from, to int, text string) {
	toks, _ := lexer.Tokenize("", text)
	toks = toks[:len(toks)-1]
	if len(toks) == 0 {
		return
	}
	span := lexer.Merge(s.toks[from].Span, s.toks[to-1].Span)
	for k := range toks {
		toks[k].Span = span
	}
	toks[0].Leading = s.toks[from].Leading
	toks[len(toks)-1].Joint = s.toks[to-1].Joint
	s.out = append(s.out, toks...)
}

func (s *tokenScanner) pathSep(i int) bool {
	t := s.at(i)
	return t.Type == lexer.COLON && t.Joint && s.at(i+1).Type == lexer.COLON
}

// typeIntroducer returns the number of tokens at i that announce a type,
// or zero.
func (s *tokenScanner) typeIntroducer(i int) int {
	t := s.at(i)
	switch t.Type {
	case lexer.AS:
		return 1
	case lexer.MINUS:
		if t.Joint && s.at(i+1).Type == lexer.GT {
			return 2
		}
	case lexer.COLON:
		if s.pathSep(i) {
			return 0
		}
		prev := s.at(i - 1)
		if prev.Type == lexer.LIFETIME || (prev.Type == lexer.COLON && prev.Joint) {
			return 0
		}
		return 1
	}
	return 0
}

func (s *tokenScanner) statementStart(i int) bool {
	switch s.at(i - 1).Type {
	case lexer.EOF, lexer.SEMICOLON, lexer.LBRACE, lexer.RBRACE:
		return true
	}
	return false
}

// macroEnd returns the index past a `name!(...)` invocation at i, or i.
func (s *tokenScanner) macroEnd(i int) int {
	if s.at(i).Type != lexer.IDENT || s.at(i+1).Type != lexer.BANG || !isOpen(s.at(i+2).Type) {
		return i
	}
	return s.groupEnd(i + 2)
}

// nestedItemEnd returns the index past an item declared at i, or i when
// the statement is not an item.
func (s *tokenScanner) nestedItemEnd(i int) int {
	j := i
	for {
		switch {
		case s.at(j).Type == lexer.DOC_COMMENT:
			j++
			continue
		case s.at(j).Type == lexer.POUND && s.at(j+1).Type == lexer.LBRACKET:
			j = s.groupEnd(j + 1)
			continue
		}
		break
	}
	if s.at(j).Type == lexer.PUB {
		j++
		if s.at(j).Type == lexer.LPAREN {
			j = s.groupEnd(j)
		}
	}
	if !s.itemKeyword(j) {
		return i
	}
	return s.itemEnd(j)
}

func (s *tokenScanner) itemKeyword(j int) bool {
	next := s.at(j + 1).Type
	switch t := s.at(j); t.Type {
	case lexer.FN, lexer.STRUCT, lexer.ENUM, lexer.TRAIT, lexer.IMPL, lexer.MOD,
		lexer.TYPE, lexer.USE, lexer.EXTERN:
		return true
	case lexer.STATIC:
		return next == lexer.IDENT || next == lexer.MUT
	case lexer.CONST:
		switch next {
		case lexer.FN, lexer.UNSAFE, lexer.ASYNC, lexer.EXTERN:
			return true
		case lexer.IDENT:
			return s.at(j+2).Type == lexer.COLON
		}
	case lexer.UNSAFE:
		switch next {
		case lexer.FN, lexer.IMPL, lexer.TRAIT, lexer.EXTERN:
			return true
		}
	case lexer.ASYNC:
		return next == lexer.FN || next == lexer.UNSAFE
	case lexer.IDENT:
		switch t.Literal {
		case "union":
			return next == lexer.IDENT
		case "auto":
			return next == lexer.TRAIT
		case "macro_rules":
			return next == lexer.BANG
		case "default":
			return s.itemKeyword(j + 1)
		}
	}
	return false
}

// itemEnd finds the `;` or the closing brace that ends the item at j.
func (s *tokenScanner) itemEnd(j int) int {
	for j < len(s.toks) {
		switch t := s.toks[j].Type; {
		case t == lexer.SEMICOLON:
			return j + 1
		case t == lexer.LBRACE:
			return s.groupEnd(j)
		case isOpen(t):
			j = s.groupEnd(j)
		case t == lexer.EOF:
			return j
		default:
			j++
		}
	}
	return j
}

// groupEnd returns the index past the delimiter matching the one at open,
// or the end of the region when it is unbalanced.
func (s *tokenScanner) groupEnd(open int) int {
	end, _ := s.matchingClose(open)
	return end
}

func (s *tokenScanner) matchingClose(open int) (int, bool) {
	depth := 0
	for j := open; j < len(s.toks); j++ {
		switch t := s.toks[j].Type; {
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case t == lexer.EOF:
			return j, false
		}
	}
	return len(s.toks), false
}

func isOpen(t lexer.TokenType) bool {
	return t == lexer.LPAREN || t == lexer.LBRACKET || t == lexer.LBRACE
}

func isClose(t lexer.TokenType) bool {
	return t == lexer.RPAREN || t == lexer.RBRACKET || t == lexer.RBRACE
}

package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/lexer"
)

// MacroName is the name of the qualified-path macro.
const MacroName = "Gat"

// MacroCall is one `Gat!(...)` invocation found in a token slice.
type MacroCall struct {
	// Start and End delimit the whole invocation, path prefix included.
	Start, End int
	// Args holds the tokens between the delimiters.
	Args []lexer.Token
}

// Span covers the invocation in the source the tokens were lexed from.
func (c MacroCall) Span(toks []lexer.Token) lexer.Span {
	return lexer.Merge(toks[c.Start].Span, toks[c.End-1].Span)
}

// FindMacroCalls returns the outermost `Gat!`, `nougat::Gat!` and
// `::nougat::Gat!` invocations of toks in order. Bodies of `macro_rules!`
// definitions are skipped.
func FindMacroCalls(toks []lexer.Token) ([]MacroCall, error) {
	s := &tokenScanner{toks: toks}
	var calls []MacroCall
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Type == lexer.IDENT && t.Literal == "macro_rules" && s.at(i+1).Type == lexer.BANG {
			j := i + 2
			for j < len(toks) && !isOpen(toks[j].Type) && toks[j].Type != lexer.EOF {
				j++
			}
			i = s.groupEnd(j) - 1
			continue
		}
		if t.Type != lexer.IDENT || t.Literal != MacroName || s.at(i+1).Type != lexer.BANG || !isOpen(s.at(i+2).Type) {
			continue
		}
		if s.at(i-1).Type == lexer.DOT {
			continue
		}
		start := macroPathStart(s, i)
		end, ok := s.matchingClose(i + 2)
		if !ok {
			return nil, diag.NewError(diag.New(diag.CodeExpandUnterminatedCall, t.Span.ToDiag(),
				"unterminated `Gat!` invocation"))
		}
		calls = append(calls, MacroCall{
			Start: start,
			End:   end,
			Args:  toks[i+3 : end-1],
		})
		i = end - 1
	}
	return calls, nil
}

// macroPathStart extends the invocation at i leftwards over a `nougat::`
// or `::nougat::` prefix.
func macroPathStart(s *tokenScanner, i int) int {
	if !s.pathSep(i-2) || s.at(i-3).Type != lexer.IDENT || s.at(i-3).Literal != "nougat" {
		return i
	}
	start := i - 3
	if s.pathSep(start - 2) {
		start -= 2
	}
	return start
}

// expandNestedCalls replaces every `Gat!` invocation inside toks by the
// tokens of its expansion, innermost first.
func expandNestedCalls(toks []lexer.Token) ([]lexer.Token, error) {
	calls, err := FindMacroCalls(toks)
	if err != nil || len(calls) == 0 {
		return toks, err
	}
	out := make([]lexer.Token, 0, len(toks))
	prev := 0
	for _, call := range calls {
		node, err := expandMacro(call.Args)
		if err != nil {
			return nil, err
		}
		repl, _ := lexer.Tokenize("", ast.String(node))
		repl = repl[:len(repl)-1]
		span := call.Span(toks)
		for k := range repl {
			repl[k].Span = span
		}
		if len(repl) > 0 {
			repl[0].Leading = toks[call.Start].Leading
			repl[len(repl)-1].Joint = toks[call.End-1].Joint
		}
		out = append(out, toks[prev:call.Start]...)
		out = append(out, repl...)
		prev = call.End
	}
	return append(out, toks[prev:]...), nil
}

package expand

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/gat"
	"github.com/malphas-lang/nougat/internal/lexer"
	"github.com/malphas-lang/nougat/internal/parser"
)

// Preview is the expansion of the single macro site under a position.
type Preview struct {
	// Macro names the site: `Gat!`, `#[gat]` or `#[apply(Gat!)]`.
	Macro string
	Span  lexer.Span
	// Text is the expansion, or empty when Err is set.
	Text string
	Err  error
}

// PreviewAt expands the innermost-listed site of src covering rune offset
// pos. `Gat!` invocations win over the annotated item around them. It
// reports false when no site covers pos or src does not parse.
func (e *Expander) PreviewAt(filename, src string, pos int) (Preview, bool) {
	toks, lexErrs := lexer.Tokenize(filename, src)
	if len(lexErrs) > 0 {
		return Preview{}, false
	}
	if calls, err := gat.FindMacroCalls(toks); err == nil {
		for _, call := range calls {
			span := call.Span(toks)
			if pos < span.Start || pos >= span.End {
				continue
			}
			pv := Preview{Macro: "Gat!", Span: span}
			node, err := gat.Macro(call.Args)
			if err != nil {
				pv.Err = err
				return pv, true
			}
			if item, ok := node.(ast.Item); ok {
				pv.Text = ast.PrintItems([]ast.Item{item}, "")
			} else {
				pv.Text = ast.String(node)
			}
			return pv, true
		}
	}

	p := parser.New(src, parser.WithFilename(filename))
	file := p.ParseFile()
	if p.Err() != nil {
		return Preview{}, false
	}
	s, ok := siteAt(file, pos)
	if !ok {
		return Preview{}, false
	}
	pv := Preview{Macro: s.kind.String(), Span: s.item.Span()}
	out, err := s.expand()
	if err != nil {
		pv.Err = err
		return pv, true
	}
	pv.Text = ast.PrintItems(out, "")
	e.log.Debugw("previewed site", "file", filename, "item", itemName(s.item), "macro", pv.Macro)
	return pv, true
}

// siteAt finds the annotated item of file covering pos.
func siteAt(file *ast.File, pos int) (site, bool) {
	for _, s := range sites(file) {
		span := s.item.Span()
		if pos >= span.Start && pos < span.End {
			return s, true
		}
	}
	return site{}, false
}

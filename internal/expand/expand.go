// Package expand runs the lifetime-GAT rewrites over whole source files.
//
// Expansion happens in two passes. The first replaces every `Gat!(...)`
// invocation by its expansion. The second parses the result and rewrites
// every item carrying `#[gat]` or `#[apply(Gat!)]`, at any inline module
// depth. Rewritten text is spliced back into the source so that everything
// else is preserved byte for byte.
package expand

import (
	"strings"

	"go.uber.org/zap"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
	"github.com/malphas-lang/nougat/internal/lexer"
	"github.com/malphas-lang/nougat/internal/parser"
)

// Result is the outcome of expanding one file.
type Result struct {
	Filename string
	// Output is the expanded text. It equals the input when expansion
	// failed.
	Output string
	// Expanded counts the macro sites that were rewritten.
	Expanded int
	// Diagnostics are reported against DiagSource, which differs from the
	// input when `Gat!` invocations were expanded before an annotated item
	// failed.
	Diagnostics []diag.Diagnostic
	DiagSource  string
}

// Failed reports whether any diagnostic was produced.
func (r *Result) Failed() bool { return len(r.Diagnostics) > 0 }

// Expander rewrites nougat macro sites.
type Expander struct {
	log *zap.SugaredLogger
}

// New returns an expander logging to log; a nil log discards everything.
func New(log *zap.SugaredLogger) *Expander {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Expander{log: log}
}

// edit replaces the runes [start, end) of a source.
type edit struct {
	start, end int
	text       string
}

// Source expands one file held in memory.
func (e *Expander) Source(filename, src string) *Result {
	res := &Result{Filename: filename, Output: src, DiagSource: src}

	stage1, n, ds := e.expandCalls(filename, src)
	if len(ds) > 0 {
		res.Diagnostics = ds
		return res
	}
	res.DiagSource = stage1

	out, m, ds := e.expandItems(filename, stage1)
	if len(ds) > 0 {
		res.Diagnostics = ds
		return res
	}
	res.Output = out
	res.Expanded = n + m
	e.log.Debugw("expanded file", "file", filename, "sites", res.Expanded)
	return res
}

func (e *Expander) expandCalls(filename, src string) (string, int, []diag.Diagnostic) {
	toks, lexErrs := lexer.Tokenize(filename, src)
	if len(lexErrs) > 0 {
		var ds []diag.Diagnostic
		for _, le := range lexErrs {
			ds = append(ds, le.ToDiagnostic())
		}
		return src, 0, ds
	}
	calls, err := gat.FindMacroCalls(toks)
	if err != nil {
		return src, 0, diag.FromError(err)
	}

	var (
		edits []edit
		ds    []diag.Diagnostic
	)
	for _, call := range calls {
		span := call.Span(toks)
		node, err := gat.Macro(call.Args)
		if err != nil {
			ds = append(ds, diag.FromError(err)...)
			continue
		}
		var text string
		if item, ok := node.(ast.Item); ok {
			text = ast.PrintItems([]ast.Item{item}, indentAt(src, span.Start))
		} else {
			text = ast.String(node)
		}
		e.log.Debugw("expanded macro call", "file", filename, "macro", "Gat!", "line", span.Line)
		edits = append(edits, edit{start: span.Start, end: span.End, text: text})
	}
	if len(ds) > 0 {
		return src, 0, ds
	}
	return apply(src, edits), len(edits), nil
}

func (e *Expander) expandItems(filename, src string) (string, int, []diag.Diagnostic) {
	p := parser.New(src, parser.WithFilename(filename))
	file := p.ParseFile()
	if err := p.Err(); err != nil {
		return src, 0, diag.FromError(err)
	}

	var (
		edits []edit
		ds    []diag.Diagnostic
	)
	for _, site := range sites(file) {
		item := site.item
		out, err := site.expand()
		if err != nil {
			ds = append(ds, diag.FromError(err)...)
			continue
		}
		span := item.Span()
		e.log.Debugw("expanded item",
			"file", filename,
			"item", itemName(item),
			"macro", site.kind.String(),
			"generated", len(out)-1)
		edits = append(edits, edit{
			start: span.Start,
			end:   span.End,
			text:  ast.PrintItems(out, indentAt(src, span.Start)),
		})
	}
	if len(ds) > 0 {
		return src, 0, ds
	}
	return apply(src, edits), len(edits), nil
}

// apply performs non-overlapping edits given in source order.
func apply(src string, edits []edit) string {
	if len(edits) == 0 {
		return src
	}
	runes := []rune(src)
	var b strings.Builder
	prev := 0
	for _, ed := range edits {
		b.WriteString(string(runes[prev:ed.start]))
		b.WriteString(ed.text)
		prev = ed.end
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

// indentAt returns the whitespace between the start of the line holding
// rune offset pos and pos, or "" when something else precedes pos on that
// line.
func indentAt(src string, pos int) string {
	runes := []rune(src)
	if pos > len(runes) {
		pos = len(runes)
	}
	i := pos
	for i > 0 && runes[i-1] != '\n' {
		if runes[i-1] != ' ' && runes[i-1] != '\t' {
			return ""
		}
		i--
	}
	return string(runes[i:pos])
}

func itemName(item ast.Item) string {
	switch it := item.(type) {
	case *ast.TraitItem:
		return "trait " + it.Ident.Name
	case *ast.ImplItem:
		if it.Trait != nil {
			return "impl " + ast.String(it.Trait) + " for " + ast.String(it.SelfType)
		}
		return "impl " + ast.String(it.SelfType)
	case *ast.UseItem:
		return "use " + ast.String(it.Tree)
	case *ast.ModItem:
		return "mod " + it.Ident.Name
	case *ast.FnItem:
		return "fn " + it.Sig.Ident.Name
	case *ast.TypeItem:
		return "type " + it.Ident.Name
	case *ast.StructItem:
		return "struct " + it.Ident.Name
	case *ast.EnumItem:
		return "enum " + it.Ident.Name
	}
	return "item"
}

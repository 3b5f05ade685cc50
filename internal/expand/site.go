package expand

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
	"github.com/malphas-lang/nougat/internal/parser"
)

type siteKind int

const (
	siteGat siteKind = iota
	siteApply
)

func (k siteKind) String() string {
	if k == siteApply {
		return "#[apply(Gat!)]"
	}
	return "#[gat]"
}

// site is an item annotated with one of the nougat attributes.
type site struct {
	kind siteKind
	attr *ast.Attribute
	item ast.Item
}

// sites lists the annotated items of file in source order, looking into
// inline modules that are not annotated themselves.
func sites(file *ast.File) []site {
	var out []site
	ast.Walk(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.File:
			return true
		case ast.Item:
			if s, ok := findSite(n); ok {
				out = append(out, s)
				return false
			}
			mod, isMod := n.(*ast.ModItem)
			return isMod && mod.Inline
		}
		return false
	})
	return out
}

// findSite looks for the first nougat attribute on item.
func findSite(item ast.Item) (site, bool) {
	for _, attr := range item.Attributes() {
		if attr.IsDoc() || attr.Inner || attr.Path == nil {
			continue
		}
		switch {
		case isGatAttr(attr.Path):
			return site{kind: siteGat, attr: attr, item: item}, true
		case isApplyAttr(attr):
			return site{kind: siteApply, attr: attr, item: item}, true
		}
	}
	return site{}, false
}

func pathString(p *ast.Path) string {
	names := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		if seg.Args != nil {
			return ""
		}
		names[i] = seg.Ident.Name
	}
	return strings.Join(names, "::")
}

func isGatAttr(p *ast.Path) bool {
	switch pathString(p) {
	case "gat":
		return !p.Global
	case "nougat::gat":
		return true
	}
	return false
}

func isApplyAttr(attr *ast.Attribute) bool {
	switch pathString(attr.Path) {
	case "apply":
		if attr.Path.Global {
			return false
		}
	case "macro_rules_attribute::apply":
	default:
		return false
	}
	args := strings.Join(strings.Fields(ast.TokensString(attr.Tokens)), "")
	switch args {
	case "(Gat!)", "(nougat::Gat!)", "(::nougat::Gat!)":
		return true
	}
	return false
}

// expand runs the macro named by the site's attribute. The attribute is
// dropped from the output; every other attribute is kept.
func (s site) expand() ([]ast.Item, error) {
	item := s.item
	rest := make([]*ast.Attribute, 0, len(item.Attributes()))
	for _, attr := range item.Attributes() {
		if attr != s.attr {
			rest = append(rest, attr)
		}
	}

	if v, ok := item.(*ast.VerbatimItem); ok {
		p := parser.NewFromTokens(v.Tokens)
		strict := p.ParseItem()
		if err := p.Err(); err != nil {
			return nil, withPrefix(s.kind.String(), err)
		}
		item = strict
	}
	item = ast.CloneItem(item)
	item.SetAttributes(rest)

	if s.kind == siteApply {
		return []ast.Item{gat.Apply(item)}, nil
	}
	return gat.Attribute(s.attr.Tokens, item)
}

func withPrefix(macro string, err error) error {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.WithPrefix(macro)
	}
	return errors.Wrapf(err, "`%s`", macro)
}

package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/lexer"
)

// selfNormalizer spells out `Self::Assoc<'a>` as
// `<Self as Trait<..>>::Assoc<'a>` so that the path rewrite can see which
// trait the associated type belongs to.
type selfNormalizer struct {
	ast.BaseRewriter
	trait *ast.Path
}

func (selfNormalizer) EnterItem(ast.Item) bool { return false }

func (n selfNormalizer) RewriteType(t ast.Type) ast.Type {
	pt, ok := t.(*ast.PathType)
	if !ok || pt.QSelf != nil || pt.Path.Global {
		return t
	}
	segs := pt.Path.Segments
	if len(segs) < 2 || segs[0].Ident.Name != "Self" || segs[0].Args != nil {
		return t
	}
	if !hasAngleArgs(pt.Path.Last()) {
		return t
	}

	self := ast.NewPathType(&ast.Path{Segments: []*ast.PathSegment{segs[0]}})
	self.SetSpan(segs[0].Span())
	self.Path.SetSpan(segs[0].Span())

	path := ast.ClonePath(n.trait)
	path.Segments = append(path.Segments, segs[1:]...)
	path.SetSpan(pt.Path.Span())

	out := &ast.PathType{
		QSelf: &ast.QSelf{Type: self, Position: len(n.trait.Segments), HasAs: true},
		Path:  path,
	}
	out.SetSpan(pt.Span())
	return out
}

func (n selfNormalizer) RewriteTokens(toks []lexer.Token) []lexer.Token {
	return rewriteTokens(n, toks)
}

// normalizeSelf rewrites `Self::` paths in place across a trait or impl
// body, relative to trait.
func normalizeSelf(trait *ast.Path, items []ast.Item) {
	r := selfNormalizer{trait: trait}
	for _, item := range items {
		ast.Rewrite(r, item)
	}
}

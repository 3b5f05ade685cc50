package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/lexer"
)

// pathRewriter applies QualifiedPath to every qualified path type it meets
// and Bounds to every bound list. Paths that are not lifetime-generic
// associated types fail the rewrite and are left as written.
type pathRewriter struct {
	ast.BaseRewriter
}

// Items nested in a module are left for their own expansion.
func (pathRewriter) EnterItem(ast.Item) bool { return false }

func (pathRewriter) RewriteType(t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.PathType:
		if t.QSelf == nil || !hasAngleArgs(t.Path.Last()) {
			return t
		}
		if out, err := QualifiedPath(t); err == nil {
			return out
		}
	case *ast.ImplTraitType:
		if bounds, ok := Bounds(t.Bounds); ok {
			t.Bounds = bounds
		}
	}
	return t
}

func (pathRewriter) RewriteBounds(bounds []ast.Bound) []ast.Bound {
	out, _ := Bounds(bounds)
	return out
}

func (r pathRewriter) RewriteTokens(toks []lexer.Token) []lexer.Token {
	return rewriteTokens(r, toks)
}

func hasAngleArgs(seg *ast.PathSegment) bool {
	if seg == nil {
		return false
	}
	_, ok := seg.Args.(*ast.AngleArgs)
	return ok
}

// Apply runs the qualified-path rewrite over a copy of item and returns the
// copy. Applied to an inline module, each direct child is rewritten as if
// it had been annotated itself.
func Apply(item ast.Item) ast.Item {
	out := ast.CloneItem(item)
	if mod, ok := out.(*ast.ModItem); ok {
		for _, child := range mod.Items {
			ast.Rewrite(pathRewriter{}, child)
		}
		return mod
	}
	ast.Rewrite(pathRewriter{}, out)
	return out
}

// rewriteBody runs the qualified-path rewrite in place over the members of
// a trait or impl body.
func rewriteBody(items []ast.Item) {
	for _, item := range items {
		ast.Rewrite(pathRewriter{}, item)
	}
}

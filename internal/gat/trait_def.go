package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
)

// TransformTrait moves every lifetime-generic associated type of trait into
// its own auxiliary trait and makes trait require each of them for all
// lifetimes. It returns the auxiliary traits followed by the rewritten
// trait; trait itself is not modified.
func TransformTrait(trait *ast.TraitItem) ([]ast.Item, error) {
	tr := ast.CloneItem(trait).(*ast.TraitItem)
	if tr.Generics == nil {
		tr.Generics = &ast.Generics{}
	}

	current := pathWithArgs(tr.Ident.Name, tr.Ident.Span(), tr.Generics.ForwardArgs())
	normalizeSelf(current, []ast.Item{tr})
	rewriteBody([]ast.Item{tr})

	var (
		lgats []*lgat
		kept  []ast.Item
		diags []diag.Diagnostic
	)
	for _, member := range tr.Items {
		ti, ok := isLGAT(member)
		if !ok {
			kept = append(kept, member)
			continue
		}
		l, ds := lgatFromTraitDef(ti)
		diags = append(diags, ds...)
		lgats = append(lgats, l)
	}
	if err := diag.NewError(diags...); err != nil {
		return nil, err
	}
	tr.Items = kept

	out := make([]ast.Item, 0, len(lgats)+1)
	for _, l := range lgats {
		out = append(out, auxTrait(tr, l))
		tr.Supertraits = append(tr.Supertraits, auxSupertrait(tr, l))
	}
	return append(out, tr), nil
}

// auxTrait declares
//
//	trait Trait__Assoc<'a.., TraitParams.., __ImplicitBounds = (&'a Ty,)>
//	where TraitPredicates..
//	{
//	    type T: Bounds;
//	}
func auxTrait(tr *ast.TraitItem, l *lgat) *ast.TraitItem {
	generics := ast.CloneGenerics(tr.Generics)
	params := lifetimeParams(l.lifetimes)
	params = append(params, generics.Params...)
	params = append(params, &ast.TypeParam{
		Ident:   ast.NewIdent(ImplicitBoundsParam, l.ident.Span()),
		Default: l.implicitBounds(),
	})
	generics.Params = params

	member := &ast.TypeItem{
		Ident:  ast.NewIdent(AssocName, l.ident.Span()),
		Bounds: ast.CloneBounds(l.bounds),
	}
	aux := &ast.TraitItem{
		Attrs:    append(ast.CloneAttrs(l.attrs), allowAttr()),
		Vis:      ast.CloneVis(tr.Vis),
		Ident:    ast.NewIdent(AuxTraitName(tr.Ident.Name, l.ident.Name), l.ident.Span()),
		Generics: generics,
		Items:    []ast.Item{member},
	}
	aux.SetSpan(l.ident.Span())
	return aux
}

// auxSupertrait builds `for<'a..> Trait__Assoc<'a.., TraitArgs..>`.
func auxSupertrait(tr *ast.TraitItem, l *lgat) *ast.TraitBound {
	args := lifetimeArgs(l.lifetimes)
	args = append(args, tr.Generics.ForwardArgs()...)
	bound := &ast.TraitBound{
		Lifetimes: boundLifetimes(l.lifetimes),
		Path:      pathWithArgs(AuxTraitName(tr.Ident.Name, l.ident.Name), l.ident.Span(), args),
	}
	bound.SetSpan(l.ident.Span())
	return bound
}

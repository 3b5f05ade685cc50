package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
)

// TransformImpl is the impl-side counterpart of TransformTrait: every
// lifetime-generic associated type of impl becomes an impl of the matching
// auxiliary trait. It returns those impls followed by the rewritten impl;
// impl itself is not modified.
func TransformImpl(impl *ast.ImplItem) ([]ast.Item, error) {
	switch {
	case impl.Trait == nil:
		return nil, diag.NewError(errorAt(diag.CodeGatExpectedTraitFor, impl.SelfType, "expected `TraitName for`"))
	case impl.Negative:
		return nil, diag.NewError(errorAt(diag.CodeGatNegativeImpl, impl.Trait, "negative impls are not supported"))
	}

	im := ast.CloneItem(impl).(*ast.ImplItem)
	if im.Generics == nil {
		im.Generics = &ast.Generics{}
	}
	normalizeSelf(ast.ClonePath(impl.Trait), []ast.Item{im})
	rewriteBody([]ast.Item{im})

	var (
		lgats []*lgat
		kept  []ast.Item
		diags []diag.Diagnostic
	)
	for _, member := range im.Items {
		ti, ok := isLGAT(member)
		if !ok {
			kept = append(kept, member)
			continue
		}
		l, ds := lgatFromImpl(ti)
		diags = append(diags, ds...)
		lgats = append(lgats, l)
	}
	if args, ok := im.Trait.Last().Args.(*ast.ParenArgs); ok && len(lgats) > 0 {
		diags = append(diags, errorAt(diag.CodeGatExpectedAngle, args, "expected angle brackets"))
	}
	if err := diag.NewError(diags...); err != nil {
		return nil, err
	}
	im.Items = kept

	out := make([]ast.Item, 0, len(lgats)+1)
	for _, l := range lgats {
		out = append(out, auxImpl(im, l))
	}
	return append(out, im), nil
}

// auxImpl builds
//
//	impl<'a.., ImplParams..> Trait__Assoc<'a.., TraitArgs..> for SelfTy
//	where ImplPredicates..
//	{
//	    type T = Value;
//	}
func auxImpl(im *ast.ImplItem, l *lgat) *ast.ImplItem {
	trait := ast.ClonePath(im.Trait)
	last := trait.Last()
	last.Ident = ast.NewIdent(AuxTraitName(last.Ident.Name, l.ident.Name), l.ident.Span())
	if args, ok := last.Args.(*ast.AngleArgs); ok {
		args.Args = append(lifetimeArgs(l.lifetimes), args.Args...)
	} else {
		last.Args = argsOrNil(lifetimeArgs(l.lifetimes))
	}

	generics := ast.CloneGenerics(im.Generics)
	generics.Params = append(lifetimeParams(l.lifetimes), generics.Params...)

	member := &ast.TypeItem{
		Ident: ast.NewIdent(AssocName, l.ident.Span()),
		Value: ast.CloneType(l.value),
	}
	aux := &ast.ImplItem{
		Attrs:    append(ast.CloneAttrs(l.attrs), allowAttr()),
		Generics: generics,
		Trait:    trait,
		SelfType: ast.CloneType(im.SelfType),
		Items:    []ast.Item{member},
	}
	aux.SetSpan(l.ident.Span())
	return aux
}

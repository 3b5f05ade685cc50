package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
)

// QualifiedPath rewrites `<Ty as path::Trait<A..>>::Assoc<'a..>` into
// `<Ty as path::Trait__Assoc<'a.., A..>>::T`. The input is left untouched.
//
// The associated type's lifetimes lead the merged argument list so that
// lifetimes precede types, matching the parameter order of the auxiliary
// trait declared by TransformTrait.
func QualifiedPath(ty *ast.PathType) (*ast.PathType, error) {
	if ty.QSelf == nil {
		return nil, diag.NewError(errorAt(diag.CodeGatExpectedQualifier, ty, "expected a qualifier"))
	}
	if !ty.QSelf.HasAs {
		return nil, diag.NewError(errorAt(diag.CodeGatExpectedAs, ty, "expected `as`"))
	}

	segs := ty.Path.Segments
	pos := ty.QSelf.Position
	switch {
	case pos >= len(segs):
		return nil, diag.NewError(errorAt(diag.CodeGatExpectedQualifiedTy, ty, "expected an associated type after the qualifier"))
	case pos+1 < len(segs):
		return nil, diag.NewError(errorAt(diag.CodeGatNestedAssocPath, segs[pos+1], "nested associated paths are not supported"))
	}

	assoc := segs[pos]
	var assocArgs *ast.AngleArgs
	switch args := assoc.Args.(type) {
	case nil:
		return nil, diag.NewError(errorAt(diag.CodeGatMissingLifetimes, assoc.Ident, "missing lifetime generics"))
	case *ast.ParenArgs:
		return nil, diag.NewError(errorAt(diag.CodeGatExpectedAngle, args, "expected angle brackets"))
	case *ast.AngleArgs:
		assocArgs = args
	}
	for _, arg := range assocArgs.Args {
		if _, ok := arg.(*ast.LifetimeArg); !ok {
			return nil, diag.NewError(errorAt(diag.CodeGatNonLifetimeArg, arg, "only lifetime generics are supported"))
		}
	}

	trait := segs[pos-1]
	merged := ast.CloneGenericArgs(assocArgs.Args)
	switch args := trait.Args.(type) {
	case *ast.ParenArgs:
		return nil, diag.NewError(errorAt(diag.CodeGatExpectedAngle, args, "expected angle brackets"))
	case *ast.AngleArgs:
		merged = append(merged, ast.CloneGenericArgs(args.Args)...)
	}

	out := &ast.PathType{
		QSelf: &ast.QSelf{Type: ast.CloneType(ty.QSelf.Type), Position: pos, HasAs: true},
		Path:  &ast.Path{Global: ty.Path.Global},
	}
	out.SetSpan(ty.Span())
	out.Path.SetSpan(ty.Path.Span())

	for _, seg := range segs[:pos-1] {
		out.Path.Segments = append(out.Path.Segments, ast.CloneSegment(seg))
	}
	auxSeg := &ast.PathSegment{
		Ident: ast.NewIdent(AuxTraitName(trait.Ident.Name, assoc.Ident.Name), assoc.Ident.Span()),
		Args:  argsOrNil(merged),
	}
	auxSeg.SetSpan(trait.Span())
	member := &ast.PathSegment{Ident: ast.NewIdent(AssocName, assoc.Ident.Span())}
	member.SetSpan(assoc.Span())
	out.Path.Segments = append(out.Path.Segments, auxSeg, member)
	return out, nil
}

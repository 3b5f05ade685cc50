package gat

import "github.com/malphas-lang/nougat/internal/ast"

// Bounds rewrites lifetime-generic bindings inside a bound list. A bound
// `Trait<A, Assoc<'a> = V>` becomes `Trait<A>` followed by
// `Trait__Assoc<'a, A, T = V>`; higher-ranked binders and path prefixes are
// carried over to the added bound. It reports whether anything changed.
func Bounds(bounds []ast.Bound) ([]ast.Bound, bool) {
	var (
		out     []ast.Bound
		aux     []ast.Bound
		changed bool
	)
	for _, b := range bounds {
		tb, ok := b.(*ast.TraitBound)
		if !ok || tb.Path == nil || tb.Path.Last() == nil {
			out = append(out, b)
			continue
		}
		args, ok := tb.Path.Last().Args.(*ast.AngleArgs)
		if !ok || !hasLifetimeBinding(args) {
			out = append(out, b)
			continue
		}
		changed = true
		kept := ast.CloneBound(tb).(*ast.TraitBound)
		var rest []ast.GenericArg
		for _, arg := range args.Args {
			if bind, ok := arg.(*ast.AssocBinding); ok && bind.Args != nil {
				aux = append(aux, auxBound(tb, args, bind))
				continue
			}
			rest = append(rest, ast.CloneGenericArg(arg))
		}
		last := kept.Path.Last()
		if len(rest) == 0 {
			last.Args = nil
		} else {
			last.Args.(*ast.AngleArgs).Args = rest
		}
		out = append(out, kept)
	}
	if !changed {
		return bounds, false
	}
	return append(out, aux...), true
}

func hasLifetimeBinding(args *ast.AngleArgs) bool {
	for _, arg := range args.Args {
		if bind, ok := arg.(*ast.AssocBinding); ok && bind.Args != nil {
			return true
		}
	}
	return false
}

// auxBound builds `Trait__Assoc<'gat.., 'trait.., Types.., T = V>` for one
// binding of tb. Other bindings of tb are not repeated.
func auxBound(tb *ast.TraitBound, traitArgs *ast.AngleArgs, bind *ast.AssocBinding) *ast.TraitBound {
	out := &ast.TraitBound{
		Lifetimes: ast.CloneBoundLifetimes(tb.Lifetimes),
		Path:      &ast.Path{Global: tb.Path.Global},
	}
	out.SetSpan(bind.Span())
	segs := tb.Path.Segments
	for _, seg := range segs[:len(segs)-1] {
		out.Path.Segments = append(out.Path.Segments, ast.CloneSegment(seg))
	}

	args := ast.CloneGenericArgs(bind.Args.Args)
	for _, arg := range traitArgs.Args {
		if _, ok := arg.(*ast.LifetimeArg); ok {
			args = append(args, ast.CloneGenericArg(arg))
		}
	}
	for _, arg := range traitArgs.Args {
		switch arg.(type) {
		case *ast.TypeArg, *ast.ConstArg:
			args = append(args, ast.CloneGenericArg(arg))
		}
	}
	value := &ast.AssocBinding{Ident: ast.NewIdent(AssocName, bind.Ident.Span()), Type: ast.CloneType(bind.Type)}
	value.SetSpan(bind.Span())
	args = append(args, value)

	trait := segs[len(segs)-1]
	seg := &ast.PathSegment{
		Ident: ast.NewIdent(AuxTraitName(trait.Ident.Name, bind.Ident.Name), bind.Ident.Span()),
		Args:  &ast.AngleArgs{Args: args},
	}
	seg.SetSpan(bind.Span())
	out.Path.Segments = append(out.Path.Segments, seg)
	return out
}

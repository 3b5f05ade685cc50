package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
)

// lgat is a lifetime-generic associated type pulled out of a trait or impl
// body.
type lgat struct {
	attrs     []*ast.Attribute
	ident     *ast.Ident
	lifetimes []*ast.Lifetime
	// outlives holds one `Ty: 'a` requirement per entry of the where clause.
	outlives []outlives
	bounds   []ast.Bound // trait definitions only
	value    ast.Type    // impls only
}

type outlives struct {
	lifetime *ast.Lifetime
	ty       ast.Type
}

// isLGAT reports whether a body member declares generic parameters and so
// has to be moved into an auxiliary trait.
func isLGAT(item ast.Item) (*ast.TypeItem, bool) {
	ti, ok := item.(*ast.TypeItem)
	return ti, ok && ti.Generics.HasParams()
}

// lgatGenerics validates the generics of an associated type and splits
// them into its lifetimes and outlives requirements. Every violation is
// reported.
func lgatGenerics(g *ast.Generics) ([]*ast.Lifetime, []outlives, []diag.Diagnostic) {
	var (
		lifetimes []*ast.Lifetime
		reqs      []outlives
		diags     []diag.Diagnostic
	)
	for _, param := range g.Params {
		lp, ok := param.(*ast.LifetimeParam)
		if !ok {
			diags = append(diags, errorAt(diag.CodeGatNonLifetimeParam, param, "non-lifetime GATs are not supported"))
			continue
		}
		if len(lp.Attrs) > 0 {
			diags = append(diags, errorAt(diag.CodeGatLifetimeAttribute, lp.Attrs[0], "lifetime attributes are not supported"))
		}
		if len(lp.Bounds) > 0 {
			diags = append(diags, errorAt(diag.CodeGatLifetimeBound, lp.Bounds[0], "lifetime bounds are not supported").
				WithHelp("use a `where Ty: 'a` clause instead"))
		}
		lifetimes = append(lifetimes, lp.Lifetime)
	}

	declared := func(lt *ast.Lifetime) bool {
		for _, d := range lifetimes {
			if d.Name == lt.Name {
				return true
			}
		}
		return false
	}

	if g.Where == nil {
		return lifetimes, reqs, diags
	}
	for _, pred := range g.Where.Predicates {
		tp, ok := pred.(*ast.TypePredicate)
		if !ok {
			diags = append(diags, errorAt(diag.CodeGatUnsupportedWhere, pred, "unsupported `where` predicate"))
			continue
		}
		if tp.Lifetimes != nil && len(tp.Lifetimes.Params) > 0 {
			diags = append(diags, errorAt(diag.CodeGatHigherRanked, tp.Lifetimes.Params[0], "higher-order lifetimes are not supported"))
			continue
		}
		for _, b := range tp.Bounds {
			lb, ok := b.(*ast.LifetimeBound)
			if !ok {
				diags = append(diags, errorAt(diag.CodeGatUnsupportedBound, b, "unsupported bound").
					WithNote("only outlives bounds such as `Self: 'a` are supported"))
				continue
			}
			if !declared(lb.Lifetime) {
				diags = append(diags, errorAt(diag.CodeGatUndeclaredLifetime, lb, "expected a GAT-generic lifetime"))
				continue
			}
			reqs = append(reqs, outlives{lifetime: lb.Lifetime, ty: tp.Type})
		}
	}
	return lifetimes, reqs, diags
}

func lgatFromTraitDef(ti *ast.TypeItem) (*lgat, []diag.Diagnostic) {
	lifetimes, reqs, diags := lgatGenerics(ti.Generics)
	if ti.Value != nil {
		diags = append(diags, errorAt(diag.CodeGatDefaultValue, ti.Value, "default GATs are not supported"))
	}
	return &lgat{
		attrs:     ti.Attrs,
		ident:     ti.Ident,
		lifetimes: lifetimes,
		outlives:  reqs,
		bounds:    ti.Bounds,
	}, diags
}

func lgatFromImpl(ti *ast.TypeItem) (*lgat, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	if ti.Vis != nil {
		diags = append(diags, errorAt(diag.CodeGatVisibility, ti.Vis, "visibility is not supported"))
	}
	if ti.Default {
		diags = append(diags, errorAt(diag.CodeGatSpecialization, ti, "specialization (`default`) is not supported"))
	}
	lifetimes, reqs, more := lgatGenerics(ti.Generics)
	diags = append(diags, more...)
	if ti.Value == nil {
		diags = append(diags, errorAt(diag.CodeGatMissingValue, ti.Ident, "missing associated type value"))
	}
	return &lgat{
		attrs:     ti.Attrs,
		ident:     ti.Ident,
		lifetimes: lifetimes,
		outlives:  reqs,
		value:     ti.Value,
	}, diags
}

// implicitBounds builds the `(&'a Ty, ..)` default of the implicit
// parameter. Mentioning `&'a Ty` is what makes `Ty: 'a` hold inside a
// `for<'a>` quantification.
func (l *lgat) implicitBounds() ast.Type {
	tuple := &ast.TupleType{}
	for _, req := range l.outlives {
		tuple.Elems = append(tuple.Elems, &ast.RefType{
			Lifetime: ast.CloneLifetime(req.lifetime),
			Elem:     ast.CloneType(req.ty),
		})
	}
	return tuple
}

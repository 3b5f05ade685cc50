package ast

import "github.com/malphas-lang/nougat/internal/lexer"

// Generics is a declaration's generic parameter list plus its where clause.
type Generics struct {
	spanned
	Params []GenericParam
	Where  *WhereClause
}

// IsEmpty reports whether there is nothing to print.
func (g *Generics) IsEmpty() bool {
	return g == nil || (len(g.Params) == 0 && (g.Where == nil || len(g.Where.Predicates) == 0))
}

// HasParams reports whether the parameter list is non-empty.
func (g *Generics) HasParams() bool {
	return g != nil && len(g.Params) > 0
}

// LifetimeParam is `'a: 'b + 'c`.
type LifetimeParam struct {
	spanned
	Attrs    []*Attribute
	Lifetime *Lifetime
	Bounds   []*Lifetime
}

// TypeParam is `T: Bound = Default`.
type TypeParam struct {
	spanned
	Attrs   []*Attribute
	Ident   *Ident
	Bounds  []Bound
	Default Type
}

// ConstParam is `const N: usize = 3`.
type ConstParam struct {
	spanned
	Attrs   []*Attribute
	Ident   *Ident
	Type    Type
	Default []lexer.Token
}

func (*LifetimeParam) genericParamNode() {}
func (*TypeParam) genericParamNode()     {}
func (*ConstParam) genericParamNode()    {}

// WhereClause is a `where` clause.
type WhereClause struct {
	spanned
	Predicates []WherePredicate
}

// TypePredicate is `for<'a> Type: Bounds`.
type TypePredicate struct {
	spanned
	Lifetimes *BoundLifetimes
	Type      Type
	Bounds    []Bound
}

// LifetimePredicate is `'a: 'b`.
type LifetimePredicate struct {
	spanned
	Lifetime *Lifetime
	Bounds   []*Lifetime
}

func (*TypePredicate) wherePredicateNode()     {}
func (*LifetimePredicate) wherePredicateNode() {}

// ForwardArgs echoes the parameters back as arguments (identity
// substitution): `<'a, T, const N: usize>` becomes `<'a, T, N>`.
func (g *Generics) ForwardArgs() []GenericArg {
	if g == nil {
		return nil
	}
	out := make([]GenericArg, 0, len(g.Params))
	for _, param := range g.Params {
		switch param := param.(type) {
		case *LifetimeParam:
			out = append(out, &LifetimeArg{Lifetime: &Lifetime{Name: param.Lifetime.Name}})
		case *TypeParam:
			out = append(out, &TypeArg{Type: NewPathType(NewPath(param.Ident.Name))})
		case *ConstParam:
			out = append(out, &ConstArg{Tokens: []lexer.Token{lexer.Ident(param.Ident.Name)}})
		}
	}
	return out
}

package ast

import "github.com/malphas-lang/nougat/internal/lexer"

// Path represents a `::`-separated path such as `::std::vec::Vec<T>`.
type Path struct {
	spanned
	Global   bool // leading `::`
	Segments []*PathSegment
}

// NewPath builds an unspanned single or multi segment path without arguments.
func NewPath(names ...string) *Path {
	p := &Path{}
	for _, name := range names {
		p.Segments = append(p.Segments, &PathSegment{Ident: &Ident{Name: name}})
	}
	return p
}

// Last returns the final segment, or nil for an empty path.
func (p *Path) Last() *PathSegment {
	if len(p.Segments) == 0 {
		return nil
	}
	return p.Segments[len(p.Segments)-1]
}

// IsIdent reports whether the path is exactly the single argument-less
// segment name.
func (p *Path) IsIdent(name string) bool {
	return !p.Global && len(p.Segments) == 1 && p.Segments[0].Args == nil && p.Segments[0].Ident.Name == name
}

// PathSegment is one segment of a path with its optional arguments.
type PathSegment struct {
	spanned
	Ident *Ident
	Args  PathArgs
}

// AngleArgs is an angle-bracketed argument list; Turbofish marks `::<...>`.
type AngleArgs struct {
	spanned
	Turbofish bool
	Args      []GenericArg
}

func (*AngleArgs) pathArgsNode() {}

// Lifetimes returns the lifetime arguments in order.
func (a *AngleArgs) Lifetimes() []*Lifetime {
	var out []*Lifetime
	for _, arg := range a.Args {
		if lt, ok := arg.(*LifetimeArg); ok {
			out = append(out, lt.Lifetime)
		}
	}
	return out
}

// ParenArgs is the `Fn(A, B) -> C` sugar.
type ParenArgs struct {
	spanned
	Inputs []Type
	Output Type
}

func (*ParenArgs) pathArgsNode() {}

// LifetimeArg is a lifetime argument.
type LifetimeArg struct {
	spanned
	Lifetime *Lifetime
}

// TypeArg is a type argument.
type TypeArg struct {
	spanned
	Type Type
}

// ConstArg is a const argument (literal, block or forwarded const param),
// kept as tokens.
type ConstArg struct {
	spanned
	Tokens []lexer.Token
}

// AssocBinding binds an associated type: `Item = T` or, with lifetime
// generics, `Item<'a> = &'a T`.
type AssocBinding struct {
	spanned
	Ident *Ident
	Args  *AngleArgs
	Type  Type
}

// AssocConstraint constrains an associated type: `Item: Display`.
type AssocConstraint struct {
	spanned
	Ident  *Ident
	Args   *AngleArgs
	Bounds []Bound
}

func (*LifetimeArg) genericArgNode()     {}
func (*TypeArg) genericArgNode()         {}
func (*ConstArg) genericArgNode()        {}
func (*AssocBinding) genericArgNode()    {}
func (*AssocConstraint) genericArgNode() {}

// QSelf is the `<Type as Trait>` qualifier of a path type. The first
// Position segments of the path belong to the trait; the rest follow `>::`.
type QSelf struct {
	Type     Type
	Position int
	HasAs    bool
}

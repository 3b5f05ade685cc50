package ast

import "github.com/malphas-lang/nougat/internal/lexer"

// PathType is a (possibly qualified) path used as a type:
// `Vec<T>`, `Self::Item<'a>`, `<T as Trait>::Assoc<'a>`.
type PathType struct {
	spanned
	QSelf *QSelf
	Path  *Path
}

// NewPathType wraps a path into a type.
func NewPathType(p *Path) *PathType {
	return &PathType{Path: p}
}

// RefType is `&'a mut T`.
type RefType struct {
	spanned
	Lifetime *Lifetime
	Mut      bool
	Elem     Type
}

// PtrType is `*const T` or `*mut T`.
type PtrType struct {
	spanned
	Mut  bool
	Elem Type
}

// SliceType is `[T]`.
type SliceType struct {
	spanned
	Elem Type
}

// ArrayType is `[T; N]` with the length expression kept as tokens.
type ArrayType struct {
	spanned
	Elem Type
	Len  []lexer.Token
}

// TupleType is `()`, `(A,)` or `(A, B)`.
type TupleType struct {
	spanned
	Elems []Type
}

// ParenType is a parenthesized type `(T)`.
type ParenType struct {
	spanned
	Elem Type
}

// NeverType is `!`.
type NeverType struct {
	spanned
}

// InferType is `_`.
type InferType struct {
	spanned
}

// ImplTraitType is `impl Bound + Bound`.
type ImplTraitType struct {
	spanned
	Bounds []Bound
}

// TraitObjectType is `dyn Bound + Bound` (Dyn false for the bare form).
type TraitObjectType struct {
	spanned
	Dyn    bool
	Bounds []Bound
}

// FnPtrParam is one parameter of a function pointer type.
type FnPtrParam struct {
	Name string // optional binding name, `_` included
	Type Type
}

// FnPtrType is `for<'a> unsafe extern "C" fn(A, B) -> C`.
type FnPtrType struct {
	spanned
	Lifetimes *BoundLifetimes
	Unsafe    bool
	Abi       string // `extern "C"` when present
	Params    []*FnPtrParam
	Variadic  bool
	Output    Type
}

// MacroType is a macro invocation in type position, such as `Gat!(...)`.
type MacroType struct {
	spanned
	Path   *Path
	Delim  lexer.TokenType // LPAREN, LBRACKET or LBRACE
	Tokens []lexer.Token   // tokens between the delimiters
	Close  string          // trivia before the closing delimiter
}

func (*PathType) typeNode()        {}
func (*RefType) typeNode()         {}
func (*PtrType) typeNode()         {}
func (*SliceType) typeNode()       {}
func (*ArrayType) typeNode()       {}
func (*TupleType) typeNode()       {}
func (*ParenType) typeNode()       {}
func (*NeverType) typeNode()       {}
func (*InferType) typeNode()       {}
func (*ImplTraitType) typeNode()   {}
func (*TraitObjectType) typeNode() {}
func (*FnPtrType) typeNode()       {}
func (*MacroType) typeNode()       {}

// TraitBound is a trait in a bound list: `?Sized`, `for<'a> Fn(&'a T)`,
// `(Trait)`.
type TraitBound struct {
	spanned
	Paren     bool
	Maybe     bool // `?Trait`
	Lifetimes *BoundLifetimes
	Path      *Path
}

// LifetimeBound is a lifetime in a bound list.
type LifetimeBound struct {
	spanned
	Lifetime *Lifetime
}

func (*TraitBound) boundNode()    {}
func (*LifetimeBound) boundNode() {}

// BoundLifetimes is a `for<'a, 'b>` binder.
type BoundLifetimes struct {
	spanned
	Params []*LifetimeParam
}

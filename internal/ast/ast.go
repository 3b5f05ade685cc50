package ast

import "github.com/malphas-lang/nougat/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// spanned carries the source span of a node. Nodes synthesized by a rewrite
// have a zero span.
type spanned struct {
	span lexer.Span
}

// Span returns the node span.
func (s *spanned) Span() lexer.Span { return s.span }

// SetSpan updates the node span.
func (s *spanned) SetSpan(span lexer.Span) { s.span = span }

// Type represents a type expression.
type Type interface {
	Node
	typeNode()
}

// Item represents a module-level item or a member of a trait or impl body.
type Item interface {
	Node
	Attributes() []*Attribute
	SetAttributes([]*Attribute)
	itemNode()
}

// Bound is one `+`-separated entry of a bound list.
type Bound interface {
	Node
	boundNode()
}

// GenericParam is one entry of a `<...>` parameter list.
type GenericParam interface {
	Node
	genericParamNode()
}

// GenericArg is one entry of a `<...>` argument list.
type GenericArg interface {
	Node
	genericArgNode()
}

// PathArgs are the arguments attached to a path segment: either
// angle-bracketed (`Vec<T>`) or parenthesized (`Fn(A) -> B`).
type PathArgs interface {
	Node
	pathArgsNode()
}

// WherePredicate is one entry of a where clause.
type WherePredicate interface {
	Node
	wherePredicateNode()
}

// File represents a parsed source file.
type File struct {
	spanned
	Attrs []*Attribute // inner attributes (`#![...]`, `//!`)
	Items []Item
	// Trailing holds the trivia after the last item.
	Trailing string
}

// NewFile constructs a file node with the provided span.
func NewFile(span lexer.Span) *File {
	return &File{spanned: spanned{span: span}}
}

// Ident represents an identifier.
type Ident struct {
	spanned
	Name string
}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, spanned: spanned{span: span}}
}

// Lifetime represents a lifetime such as `'a`; Name includes the quote.
type Lifetime struct {
	spanned
	Name string
}

// NewLifetime constructs a lifetime node.
func NewLifetime(name string, span lexer.Span) *Lifetime {
	return &Lifetime{Name: name, spanned: spanned{span: span}}
}

// Attribute is an outer (`#[...]`) or inner (`#![...]`) attribute, or a doc
// comment kept verbatim.
type Attribute struct {
	spanned
	Inner bool
	// Doc holds the raw text of a doc comment; Path and Tokens are unset.
	Doc  string
	Path *Path
	// Tokens holds whatever follows the path inside the brackets, such as a
	// delimited group or `= "value"`.
	Tokens []lexer.Token
}

// IsDoc reports whether the attribute came from a doc comment.
func (a *Attribute) IsDoc() bool { return a.Doc != "" }

// Visibility is an explicit visibility such as `pub` or `pub(crate)`.
// A nil *Visibility means inherited (private).
type Visibility struct {
	spanned
	Tokens []lexer.Token
}

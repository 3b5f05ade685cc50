package ast

import "github.com/malphas-lang/nougat/internal/lexer"

// TraitItem is a trait definition.
type TraitItem struct {
	spanned
	Attrs       []*Attribute
	Vis         *Visibility
	Unsafe      bool
	Auto        bool
	Ident       *Ident
	Generics    *Generics
	Supertraits []Bound
	InnerAttrs  []*Attribute
	Items       []Item
}

// ImplItem is an impl block, inherent (Trait == nil) or of a trait.
type ImplItem struct {
	spanned
	Attrs      []*Attribute
	Unsafe     bool
	Generics   *Generics
	Negative   bool
	Trait      *Path
	SelfType   Type
	InnerAttrs []*Attribute
	Items      []Item
}

// UseItem is a `use` declaration.
type UseItem struct {
	spanned
	Attrs  []*Attribute
	Vis    *Visibility
	Global bool
	Tree   UseTree
}

// ModItem is a module, inline (`mod m { ... }`) or out-of-line (`mod m;`).
type ModItem struct {
	spanned
	Attrs      []*Attribute
	Vis        *Visibility
	Unsafe     bool
	Ident      *Ident
	Inline     bool
	InnerAttrs []*Attribute
	Items      []Item
}

// FnItem is a function or method, with or without a body.
type FnItem struct {
	spanned
	Attrs   []*Attribute
	Vis     *Visibility
	Default bool
	Sig     *FnSig
	Body    *Block // nil for `fn f();`
}

// FnSig is a function signature.
type FnSig struct {
	spanned
	Const    bool
	Async    bool
	Unsafe   bool
	Abi      string
	Ident    *Ident
	Generics *Generics
	Params   []*FnParam
	Output   Type
}

// FnParam is a parameter. Receivers (`&'a mut self`) and patterns are kept as
// tokens; Type is nil for shorthand receivers and variadics.
type FnParam struct {
	spanned
	Attrs   []*Attribute
	Pattern []lexer.Token
	Type    Type
}

// Block is a brace-delimited body kept as tokens.
type Block struct {
	spanned
	Tokens []lexer.Token
	Close  string // trivia before the closing brace
}

// TypeItem is a `type` item: a module-level alias, or an associated type of
// a trait (Bounds, optional default Value) or impl (Value).
type TypeItem struct {
	spanned
	Attrs    []*Attribute
	Vis      *Visibility
	Default  bool
	Ident    *Ident
	Generics *Generics
	Bounds   []Bound
	Value    Type
}

// FieldsKind distinguishes struct and variant shapes.
type FieldsKind int

const (
	FieldsUnit FieldsKind = iota
	FieldsNamed
	FieldsTuple
)

// Field is a named or positional field.
type Field struct {
	spanned
	Attrs []*Attribute
	Vis   *Visibility
	Ident *Ident // nil for tuple fields
	Type  Type
}

// StructItem is a struct or union definition.
type StructItem struct {
	spanned
	Attrs    []*Attribute
	Vis      *Visibility
	Union    bool
	Ident    *Ident
	Generics *Generics
	Kind     FieldsKind
	Fields   []*Field
}

// Variant is an enum variant.
type Variant struct {
	spanned
	Attrs        []*Attribute
	Ident        *Ident
	Kind         FieldsKind
	Fields       []*Field
	Discriminant []lexer.Token
}

// EnumItem is an enum definition.
type EnumItem struct {
	spanned
	Attrs    []*Attribute
	Vis      *Visibility
	Ident    *Ident
	Generics *Generics
	Variants []*Variant
}

// ConstItem is a `const` or `static` item; Value is the initializer tokens.
type ConstItem struct {
	spanned
	Attrs  []*Attribute
	Vis    *Visibility
	Static bool
	Mut    bool
	Ident  *Ident
	Type   Type
	Value  []lexer.Token
}

// VerbatimItem is any item kept as raw tokens: macro invocations,
// `macro_rules!`, `extern crate`, extern blocks and anything the parser does
// not model.
type VerbatimItem struct {
	spanned
	Attrs  []*Attribute
	Tokens []lexer.Token
}

func (i *TraitItem) Attributes() []*Attribute    { return i.Attrs }
func (i *ImplItem) Attributes() []*Attribute     { return i.Attrs }
func (i *UseItem) Attributes() []*Attribute      { return i.Attrs }
func (i *ModItem) Attributes() []*Attribute      { return i.Attrs }
func (i *FnItem) Attributes() []*Attribute       { return i.Attrs }
func (i *TypeItem) Attributes() []*Attribute     { return i.Attrs }
func (i *StructItem) Attributes() []*Attribute   { return i.Attrs }
func (i *EnumItem) Attributes() []*Attribute     { return i.Attrs }
func (i *ConstItem) Attributes() []*Attribute    { return i.Attrs }
func (i *VerbatimItem) Attributes() []*Attribute { return i.Attrs }

func (i *TraitItem) SetAttributes(a []*Attribute)    { i.Attrs = a }
func (i *ImplItem) SetAttributes(a []*Attribute)     { i.Attrs = a }
func (i *UseItem) SetAttributes(a []*Attribute)      { i.Attrs = a }
func (i *ModItem) SetAttributes(a []*Attribute)      { i.Attrs = a }
func (i *FnItem) SetAttributes(a []*Attribute)       { i.Attrs = a }
func (i *TypeItem) SetAttributes(a []*Attribute)     { i.Attrs = a }
func (i *StructItem) SetAttributes(a []*Attribute)   { i.Attrs = a }
func (i *EnumItem) SetAttributes(a []*Attribute)     { i.Attrs = a }
func (i *ConstItem) SetAttributes(a []*Attribute)    { i.Attrs = a }
func (i *VerbatimItem) SetAttributes(a []*Attribute) { i.Attrs = a }

func (*TraitItem) itemNode()    {}
func (*ImplItem) itemNode()     {}
func (*UseItem) itemNode()      {}
func (*ModItem) itemNode()      {}
func (*FnItem) itemNode()       {}
func (*TypeItem) itemNode()     {}
func (*StructItem) itemNode()   {}
func (*EnumItem) itemNode()     {}
func (*ConstItem) itemNode()    {}
func (*VerbatimItem) itemNode() {}

// UseTree is the tree of a `use` declaration.
type UseTree interface {
	Node
	useTreeNode()
}

// UsePath is `segment::tree`.
type UsePath struct {
	spanned
	Ident *Ident
	Tree  UseTree
}

// UseName is a plain name.
type UseName struct {
	spanned
	Ident *Ident
}

// UseRename is `name as rename`; Rename may be `_`.
type UseRename struct {
	spanned
	Ident  *Ident
	Rename *Ident
}

// UseGlob is `*`.
type UseGlob struct {
	spanned
}

// UseGroup is `{a, b::c}`.
type UseGroup struct {
	spanned
	Items []UseTree
}

func (*UsePath) useTreeNode()   {}
func (*UseName) useTreeNode()   {}
func (*UseRename) useTreeNode() {}
func (*UseGlob) useTreeNode()   {}
func (*UseGroup) useTreeNode()  {}

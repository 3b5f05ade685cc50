package ast

import "github.com/malphas-lang/nougat/internal/lexer"

// Rewriter is a mutating visitor with one hook per rewritable node kind.
//
// Types are visited post-order: a type's children are rewritten before the
// type itself is handed to RewriteType. RewriteBounds sees the bound lists
// of generic type parameters and where predicates after their inner types
// have been rewritten. RewriteTokens sees opaque token regions such as
// function bodies and const initializers. EnterItem decides whether an item
// nested in a module is visited at all.
type Rewriter interface {
	EnterItem(Item) bool
	RewriteType(Type) Type
	RewriteBounds([]Bound) []Bound
	RewriteTokens([]lexer.Token) []lexer.Token
}

// BaseRewriter provides identity hooks that enter every item.
type BaseRewriter struct{}

func (BaseRewriter) EnterItem(Item) bool                           { return true }
func (BaseRewriter) RewriteType(t Type) Type                       { return t }
func (BaseRewriter) RewriteBounds(b []Bound) []Bound               { return b }
func (BaseRewriter) RewriteTokens(t []lexer.Token) []lexer.Token { return t }

// Rewrite applies r to item in place. The root item is always visited;
// items nested in a module are visited only when r.EnterItem allows it.
func Rewrite(r Rewriter, item Item) {
	w := rewriter{r: r}
	w.item(item)
}

// RewriteTypeTree applies r to t and its children and returns the
// replacement for t.
func RewriteTypeTree(r Rewriter, t Type) Type {
	w := rewriter{r: r}
	return w.typ(t)
}

// RewriteBoundList applies r to the types inside bounds, then to the list
// itself.
func RewriteBoundList(r Rewriter, bounds []Bound) []Bound {
	w := rewriter{r: r}
	return w.bounds(bounds, true)
}

type rewriter struct {
	r Rewriter
}

func (w rewriter) item(item Item) {
	switch it := item.(type) {
	case *TraitItem:
		w.generics(it.Generics)
		it.Supertraits = w.bounds(it.Supertraits, false)
		for _, member := range it.Items {
			w.item(member)
		}

	case *ImplItem:
		w.generics(it.Generics)
		if it.Trait != nil {
			w.path(it.Trait)
		}
		it.SelfType = w.typ(it.SelfType)
		for _, member := range it.Items {
			w.item(member)
		}

	case *ModItem:
		for _, child := range it.Items {
			if w.r.EnterItem(child) {
				w.item(child)
			}
		}

	case *FnItem:
		w.generics(it.Sig.Generics)
		for _, param := range it.Sig.Params {
			param.Type = w.typ(param.Type)
		}
		it.Sig.Output = w.typ(it.Sig.Output)
		if it.Body != nil {
			it.Body.Tokens = w.r.RewriteTokens(it.Body.Tokens)
		}

	case *TypeItem:
		w.generics(it.Generics)
		it.Bounds = w.bounds(it.Bounds, false)
		it.Value = w.typ(it.Value)

	case *StructItem:
		w.generics(it.Generics)
		w.fields(it.Fields)

	case *EnumItem:
		w.generics(it.Generics)
		for _, v := range it.Variants {
			w.fields(v.Fields)
			if len(v.Discriminant) > 0 {
				v.Discriminant = w.r.RewriteTokens(v.Discriminant)
			}
		}

	case *ConstItem:
		it.Type = w.typ(it.Type)
		if len(it.Value) > 0 {
			it.Value = w.r.RewriteTokens(it.Value)
		}
	}
}

func (w rewriter) fields(fields []*Field) {
	for _, f := range fields {
		f.Type = w.typ(f.Type)
	}
}

func (w rewriter) generics(g *Generics) {
	if g == nil {
		return
	}
	for _, param := range g.Params {
		switch param := param.(type) {
		case *TypeParam:
			param.Bounds = w.bounds(param.Bounds, true)
			param.Default = w.typ(param.Default)
		case *ConstParam:
			param.Type = w.typ(param.Type)
		}
	}
	if g.Where == nil {
		return
	}
	for _, pred := range g.Where.Predicates {
		if pred, ok := pred.(*TypePredicate); ok {
			pred.Type = w.typ(pred.Type)
			pred.Bounds = w.bounds(pred.Bounds, true)
		}
	}
}

func (w rewriter) bounds(bounds []Bound, hook bool) []Bound {
	for _, b := range bounds {
		if tb, ok := b.(*TraitBound); ok {
			w.path(tb.Path)
		}
	}
	if hook && len(bounds) > 0 {
		return w.r.RewriteBounds(bounds)
	}
	return bounds
}

func (w rewriter) path(p *Path) {
	for _, seg := range p.Segments {
		switch args := seg.Args.(type) {
		case *AngleArgs:
			w.angleArgs(args)
		case *ParenArgs:
			for i, in := range args.Inputs {
				args.Inputs[i] = w.typ(in)
			}
			args.Output = w.typ(args.Output)
		}
	}
}

func (w rewriter) angleArgs(args *AngleArgs) {
	if args == nil {
		return
	}
	for _, arg := range args.Args {
		switch arg := arg.(type) {
		case *TypeArg:
			arg.Type = w.typ(arg.Type)
		case *AssocBinding:
			arg.Type = w.typ(arg.Type)
		case *AssocConstraint:
			arg.Bounds = w.bounds(arg.Bounds, false)
		}
	}
}

func (w rewriter) typ(t Type) Type {
	switch t := t.(type) {
	case nil:
		return nil
	case *PathType:
		if t.QSelf != nil {
			t.QSelf.Type = w.typ(t.QSelf.Type)
		}
		w.path(t.Path)
	case *RefType:
		t.Elem = w.typ(t.Elem)
	case *PtrType:
		t.Elem = w.typ(t.Elem)
	case *SliceType:
		t.Elem = w.typ(t.Elem)
	case *ArrayType:
		t.Elem = w.typ(t.Elem)
		t.Len = w.r.RewriteTokens(t.Len)
	case *ParenType:
		t.Elem = w.typ(t.Elem)
	case *TupleType:
		for i, elem := range t.Elems {
			t.Elems[i] = w.typ(elem)
		}
	case *ImplTraitType:
		t.Bounds = w.bounds(t.Bounds, false)
	case *TraitObjectType:
		t.Bounds = w.bounds(t.Bounds, false)
	case *FnPtrType:
		for _, p := range t.Params {
			p.Type = w.typ(p.Type)
		}
		t.Output = w.typ(t.Output)
	}
	return w.r.RewriteType(t)
}

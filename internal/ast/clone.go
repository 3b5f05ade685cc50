package ast

import (
	"slices"

	"github.com/malphas-lang/nougat/internal/lexer"
)

// Deep copies. Rewrites mutate trees in place, so anything that must stay
// untouched (a caller's input, a path reused in several outputs) goes
// through these first.

func cloneTokens(toks []lexer.Token) []lexer.Token {
	return slices.Clone(toks)
}

func CloneIdent(id *Ident) *Ident {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func CloneLifetime(lt *Lifetime) *Lifetime {
	if lt == nil {
		return nil
	}
	c := *lt
	return &c
}

func cloneLifetimes(lts []*Lifetime) []*Lifetime {
	if lts == nil {
		return nil
	}
	out := make([]*Lifetime, len(lts))
	for i, lt := range lts {
		out[i] = CloneLifetime(lt)
	}
	return out
}

func CloneAttrs(attrs []*Attribute) []*Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]*Attribute, len(attrs))
	for i, a := range attrs {
		c := *a
		c.Path = ClonePath(a.Path)
		c.Tokens = cloneTokens(a.Tokens)
		out[i] = &c
	}
	return out
}

func CloneVis(v *Visibility) *Visibility {
	if v == nil {
		return nil
	}
	c := *v
	c.Tokens = cloneTokens(v.Tokens)
	return &c
}

func ClonePath(p *Path) *Path {
	if p == nil {
		return nil
	}
	c := *p
	c.Segments = make([]*PathSegment, len(p.Segments))
	for i, seg := range p.Segments {
		c.Segments[i] = CloneSegment(seg)
	}
	return &c
}

func CloneSegment(seg *PathSegment) *PathSegment {
	if seg == nil {
		return nil
	}
	c := *seg
	c.Ident = CloneIdent(seg.Ident)
	c.Args = clonePathArgs(seg.Args)
	return &c
}

func clonePathArgs(args PathArgs) PathArgs {
	switch args := args.(type) {
	case *AngleArgs:
		return CloneAngleArgs(args)
	case *ParenArgs:
		c := *args
		c.Inputs = CloneTypes(args.Inputs)
		c.Output = CloneType(args.Output)
		return &c
	}
	return nil
}

func CloneAngleArgs(a *AngleArgs) *AngleArgs {
	if a == nil {
		return nil
	}
	c := *a
	c.Args = CloneGenericArgs(a.Args)
	return &c
}

func CloneGenericArgs(args []GenericArg) []GenericArg {
	if args == nil {
		return nil
	}
	out := make([]GenericArg, len(args))
	for i, arg := range args {
		out[i] = CloneGenericArg(arg)
	}
	return out
}

func CloneGenericArg(arg GenericArg) GenericArg {
	switch arg := arg.(type) {
	case *LifetimeArg:
		c := *arg
		c.Lifetime = CloneLifetime(arg.Lifetime)
		return &c
	case *TypeArg:
		c := *arg
		c.Type = CloneType(arg.Type)
		return &c
	case *ConstArg:
		c := *arg
		c.Tokens = cloneTokens(arg.Tokens)
		return &c
	case *AssocBinding:
		c := *arg
		c.Ident = CloneIdent(arg.Ident)
		c.Args = CloneAngleArgs(arg.Args)
		c.Type = CloneType(arg.Type)
		return &c
	case *AssocConstraint:
		c := *arg
		c.Ident = CloneIdent(arg.Ident)
		c.Args = CloneAngleArgs(arg.Args)
		c.Bounds = CloneBounds(arg.Bounds)
		return &c
	}
	return arg
}

func CloneTypes(ts []Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = CloneType(t)
	}
	return out
}

func CloneType(t Type) Type {
	switch t := t.(type) {
	case nil:
		return nil
	case *PathType:
		c := *t
		if t.QSelf != nil {
			q := *t.QSelf
			q.Type = CloneType(t.QSelf.Type)
			c.QSelf = &q
		}
		c.Path = ClonePath(t.Path)
		return &c
	case *RefType:
		c := *t
		c.Lifetime = CloneLifetime(t.Lifetime)
		c.Elem = CloneType(t.Elem)
		return &c
	case *PtrType:
		c := *t
		c.Elem = CloneType(t.Elem)
		return &c
	case *SliceType:
		c := *t
		c.Elem = CloneType(t.Elem)
		return &c
	case *ArrayType:
		c := *t
		c.Elem = CloneType(t.Elem)
		c.Len = cloneTokens(t.Len)
		return &c
	case *TupleType:
		c := *t
		c.Elems = CloneTypes(t.Elems)
		return &c
	case *ParenType:
		c := *t
		c.Elem = CloneType(t.Elem)
		return &c
	case *NeverType:
		c := *t
		return &c
	case *InferType:
		c := *t
		return &c
	case *ImplTraitType:
		c := *t
		c.Bounds = CloneBounds(t.Bounds)
		return &c
	case *TraitObjectType:
		c := *t
		c.Bounds = CloneBounds(t.Bounds)
		return &c
	case *FnPtrType:
		c := *t
		c.Lifetimes = CloneBoundLifetimes(t.Lifetimes)
		c.Params = make([]*FnPtrParam, len(t.Params))
		for i, p := range t.Params {
			c.Params[i] = &FnPtrParam{Name: p.Name, Type: CloneType(p.Type)}
		}
		c.Output = CloneType(t.Output)
		return &c
	case *MacroType:
		c := *t
		c.Path = ClonePath(t.Path)
		c.Tokens = cloneTokens(t.Tokens)
		return &c
	}
	return t
}

func CloneBounds(bounds []Bound) []Bound {
	if bounds == nil {
		return nil
	}
	out := make([]Bound, len(bounds))
	for i, b := range bounds {
		out[i] = CloneBound(b)
	}
	return out
}

func CloneBound(b Bound) Bound {
	switch b := b.(type) {
	case *TraitBound:
		c := *b
		c.Lifetimes = CloneBoundLifetimes(b.Lifetimes)
		c.Path = ClonePath(b.Path)
		return &c
	case *LifetimeBound:
		c := *b
		c.Lifetime = CloneLifetime(b.Lifetime)
		return &c
	}
	return b
}

// CloneBoundLifetimes copies a `for<..>` binder.
func CloneBoundLifetimes(bl *BoundLifetimes) *BoundLifetimes {
	if bl == nil {
		return nil
	}
	c := *bl
	c.Params = make([]*LifetimeParam, len(bl.Params))
	for i, p := range bl.Params {
		c.Params[i] = cloneLifetimeParam(p)
	}
	return &c
}

func cloneLifetimeParam(p *LifetimeParam) *LifetimeParam {
	c := *p
	c.Attrs = CloneAttrs(p.Attrs)
	c.Lifetime = CloneLifetime(p.Lifetime)
	c.Bounds = cloneLifetimes(p.Bounds)
	return &c
}

func CloneGenericParams(params []GenericParam) []GenericParam {
	if params == nil {
		return nil
	}
	out := make([]GenericParam, len(params))
	for i, param := range params {
		switch param := param.(type) {
		case *LifetimeParam:
			out[i] = cloneLifetimeParam(param)
		case *TypeParam:
			c := *param
			c.Attrs = CloneAttrs(param.Attrs)
			c.Ident = CloneIdent(param.Ident)
			c.Bounds = CloneBounds(param.Bounds)
			c.Default = CloneType(param.Default)
			out[i] = &c
		case *ConstParam:
			c := *param
			c.Attrs = CloneAttrs(param.Attrs)
			c.Ident = CloneIdent(param.Ident)
			c.Type = CloneType(param.Type)
			c.Default = cloneTokens(param.Default)
			out[i] = &c
		}
	}
	return out
}

func CloneWhere(w *WhereClause) *WhereClause {
	if w == nil {
		return nil
	}
	c := *w
	c.Predicates = make([]WherePredicate, len(w.Predicates))
	for i, pred := range w.Predicates {
		switch pred := pred.(type) {
		case *TypePredicate:
			pc := *pred
			pc.Lifetimes = CloneBoundLifetimes(pred.Lifetimes)
			pc.Type = CloneType(pred.Type)
			pc.Bounds = CloneBounds(pred.Bounds)
			c.Predicates[i] = &pc
		case *LifetimePredicate:
			pc := *pred
			pc.Lifetime = CloneLifetime(pred.Lifetime)
			pc.Bounds = cloneLifetimes(pred.Bounds)
			c.Predicates[i] = &pc
		}
	}
	return &c
}

func CloneGenerics(g *Generics) *Generics {
	if g == nil {
		return nil
	}
	c := *g
	c.Params = CloneGenericParams(g.Params)
	c.Where = CloneWhere(g.Where)
	return &c
}

func cloneFields(fields []*Field) []*Field {
	if fields == nil {
		return nil
	}
	out := make([]*Field, len(fields))
	for i, f := range fields {
		c := *f
		c.Attrs = CloneAttrs(f.Attrs)
		c.Vis = CloneVis(f.Vis)
		c.Ident = CloneIdent(f.Ident)
		c.Type = CloneType(f.Type)
		out[i] = &c
	}
	return out
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Tokens = cloneTokens(b.Tokens)
	return &c
}

func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = CloneItem(item)
	}
	return out
}

func CloneItem(item Item) Item {
	switch it := item.(type) {
	case *TraitItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		c.Ident = CloneIdent(it.Ident)
		c.Generics = CloneGenerics(it.Generics)
		c.Supertraits = CloneBounds(it.Supertraits)
		c.InnerAttrs = CloneAttrs(it.InnerAttrs)
		c.Items = CloneItems(it.Items)
		return &c
	case *ImplItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Generics = CloneGenerics(it.Generics)
		c.Trait = ClonePath(it.Trait)
		c.SelfType = CloneType(it.SelfType)
		c.InnerAttrs = CloneAttrs(it.InnerAttrs)
		c.Items = CloneItems(it.Items)
		return &c
	case *UseItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		c.Tree = cloneUseTree(it.Tree)
		return &c
	case *ModItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		c.Ident = CloneIdent(it.Ident)
		c.InnerAttrs = CloneAttrs(it.InnerAttrs)
		c.Items = CloneItems(it.Items)
		return &c
	case *FnItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		sig := *it.Sig
		sig.Ident = CloneIdent(it.Sig.Ident)
		sig.Generics = CloneGenerics(it.Sig.Generics)
		sig.Params = make([]*FnParam, len(it.Sig.Params))
		for i, p := range it.Sig.Params {
			pc := *p
			pc.Attrs = CloneAttrs(p.Attrs)
			pc.Pattern = cloneTokens(p.Pattern)
			pc.Type = CloneType(p.Type)
			sig.Params[i] = &pc
		}
		sig.Output = CloneType(it.Sig.Output)
		c.Sig = &sig
		c.Body = cloneBlock(it.Body)
		return &c
	case *TypeItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		c.Ident = CloneIdent(it.Ident)
		c.Generics = CloneGenerics(it.Generics)
		c.Bounds = CloneBounds(it.Bounds)
		c.Value = CloneType(it.Value)
		return &c
	case *StructItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		c.Ident = CloneIdent(it.Ident)
		c.Generics = CloneGenerics(it.Generics)
		c.Fields = cloneFields(it.Fields)
		return &c
	case *EnumItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		c.Ident = CloneIdent(it.Ident)
		c.Generics = CloneGenerics(it.Generics)
		c.Variants = make([]*Variant, len(it.Variants))
		for i, v := range it.Variants {
			vc := *v
			vc.Attrs = CloneAttrs(v.Attrs)
			vc.Ident = CloneIdent(v.Ident)
			vc.Fields = cloneFields(v.Fields)
			vc.Discriminant = cloneTokens(v.Discriminant)
			c.Variants[i] = &vc
		}
		return &c
	case *ConstItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Vis = CloneVis(it.Vis)
		c.Ident = CloneIdent(it.Ident)
		c.Type = CloneType(it.Type)
		c.Value = cloneTokens(it.Value)
		return &c
	case *VerbatimItem:
		c := *it
		c.Attrs = CloneAttrs(it.Attrs)
		c.Tokens = cloneTokens(it.Tokens)
		return &c
	}
	return item
}

func cloneUseTree(t UseTree) UseTree {
	switch t := t.(type) {
	case *UsePath:
		c := *t
		c.Ident = CloneIdent(t.Ident)
		c.Tree = cloneUseTree(t.Tree)
		return &c
	case *UseName:
		c := *t
		c.Ident = CloneIdent(t.Ident)
		return &c
	case *UseRename:
		c := *t
		c.Ident = CloneIdent(t.Ident)
		c.Rename = CloneIdent(t.Rename)
		return &c
	case *UseGlob:
		c := *t
		return &c
	case *UseGroup:
		c := *t
		c.Items = make([]UseTree, len(t.Items))
		for i, sub := range t.Items {
			c.Items[i] = cloneUseTree(sub)
		}
		return &c
	}
	return t
}

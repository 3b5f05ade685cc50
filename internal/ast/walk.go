package ast

// Walk traverses the tree rooted at node in depth-first order, calling fn
// for each node. If fn returns false the children of that node are skipped.
// Token regions (bodies, initializers, macro arguments) are not entered.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, item := range n.Items {
			Walk(item, fn)
		}

	case *TraitItem:
		walkGenerics(n.Generics, fn)
		walkBounds(n.Supertraits, fn)
		for _, item := range n.Items {
			Walk(item, fn)
		}

	case *ImplItem:
		walkGenerics(n.Generics, fn)
		if n.Trait != nil {
			Walk(n.Trait, fn)
		}
		Walk(n.SelfType, fn)
		for _, item := range n.Items {
			Walk(item, fn)
		}

	case *ModItem:
		for _, item := range n.Items {
			Walk(item, fn)
		}

	case *FnItem:
		walkGenerics(n.Sig.Generics, fn)
		for _, param := range n.Sig.Params {
			if param.Type != nil {
				Walk(param.Type, fn)
			}
		}
		if n.Sig.Output != nil {
			Walk(n.Sig.Output, fn)
		}

	case *TypeItem:
		walkGenerics(n.Generics, fn)
		walkBounds(n.Bounds, fn)
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *StructItem:
		walkGenerics(n.Generics, fn)
		for _, field := range n.Fields {
			Walk(field.Type, fn)
		}

	case *EnumItem:
		walkGenerics(n.Generics, fn)
		for _, v := range n.Variants {
			for _, field := range v.Fields {
				Walk(field.Type, fn)
			}
		}

	case *ConstItem:
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *Path:
		for _, seg := range n.Segments {
			Walk(seg, fn)
		}

	case *PathSegment:
		if n.Args != nil {
			Walk(n.Args, fn)
		}

	case *AngleArgs:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *ParenArgs:
		for _, in := range n.Inputs {
			Walk(in, fn)
		}
		if n.Output != nil {
			Walk(n.Output, fn)
		}

	case *TypeArg:
		Walk(n.Type, fn)

	case *AssocBinding:
		if n.Args != nil {
			Walk(n.Args, fn)
		}
		Walk(n.Type, fn)

	case *AssocConstraint:
		walkBounds(n.Bounds, fn)

	case *PathType:
		if n.QSelf != nil {
			Walk(n.QSelf.Type, fn)
		}
		Walk(n.Path, fn)

	case *RefType:
		Walk(n.Elem, fn)
	case *PtrType:
		Walk(n.Elem, fn)
	case *SliceType:
		Walk(n.Elem, fn)
	case *ArrayType:
		Walk(n.Elem, fn)
	case *ParenType:
		Walk(n.Elem, fn)
	case *TupleType:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}
	case *ImplTraitType:
		walkBounds(n.Bounds, fn)
	case *TraitObjectType:
		walkBounds(n.Bounds, fn)
	case *FnPtrType:
		for _, p := range n.Params {
			Walk(p.Type, fn)
		}
		if n.Output != nil {
			Walk(n.Output, fn)
		}

	case *TraitBound:
		Walk(n.Path, fn)

	case *TypePredicate:
		Walk(n.Type, fn)
		walkBounds(n.Bounds, fn)
	}
}

func walkBounds(bounds []Bound, fn func(Node) bool) {
	for _, b := range bounds {
		Walk(b, fn)
	}
}

func walkGenerics(g *Generics, fn func(Node) bool) {
	if g == nil {
		return
	}
	for _, param := range g.Params {
		if !fn(param) {
			continue
		}
		switch param := param.(type) {
		case *TypeParam:
			walkBounds(param.Bounds, fn)
			if param.Default != nil {
				Walk(param.Default, fn)
			}
		case *ConstParam:
			Walk(param.Type, fn)
		}
	}
	if g.Where != nil {
		for _, pred := range g.Where.Predicates {
			Walk(pred, fn)
		}
	}
}

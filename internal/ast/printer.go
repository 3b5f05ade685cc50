package ast

import (
	"strings"

	"github.com/malphas-lang/nougat/internal/lexer"
)

const indentUnit = "    "

// Printer renders nodes back to source text.
//
// Structured nodes are printed canonically with four-space indentation on
// top of Base, the column the first item starts at. Token regions keep the
// trivia they were lexed with, so bodies come out exactly as written.
type Printer struct {
	Base  string
	b     strings.Builder
	depth int
}

// String prints a single node with no base indentation.
func String(node Node) string {
	p := &Printer{}
	p.node(node)
	return p.b.String()
}

// PrintItems prints items one after the other, each continuation line
// prefixed with base. The first line carries no indentation so the result
// can be spliced at the original item position.
func PrintItems(items []Item, base string) string {
	p := &Printer{Base: base}
	for i, item := range items {
		if i > 0 {
			p.newline()
		}
		p.item(item)
	}
	return p.b.String()
}

func (p *Printer) write(parts ...string) {
	for _, s := range parts {
		p.b.WriteString(s)
	}
}

func (p *Printer) newline() {
	p.b.WriteString("\n")
	p.b.WriteString(p.Base)
	for range p.depth {
		p.b.WriteString(indentUnit)
	}
}

func (p *Printer) node(node Node) {
	switch n := node.(type) {
	case *File:
		for _, a := range n.Attrs {
			p.attr(a)
			p.newline()
		}
		for i, item := range n.Items {
			if i > 0 {
				p.newline()
			}
			p.item(item)
		}
	case Item:
		p.item(n)
	case Type:
		p.typ(n)
	case Bound:
		p.bound(n)
	case *Path:
		p.path(n)
	case *PathSegment:
		p.segment(n)
	case GenericArg:
		p.genericArg(n)
	case GenericParam:
		p.genericParam(n)
	case WherePredicate:
		p.predicate(n)
	case *Generics:
		p.genericParams(n)
		p.where(n)
	case *AngleArgs:
		p.angleArgs(n)
	case *ParenArgs:
		p.parenArgs(n)
	case *Attribute:
		p.attr(n)
	case UseTree:
		p.useTree(n)
	case *Lifetime:
		p.write(n.Name)
	case *Ident:
		p.write(n.Name)
	}
}

// Tokens prints a token region. When trimFirst is set the trivia in front
// of the first token is dropped unless it holds a comment.
func (p *Printer) tokens(toks []lexer.Token, trimFirst bool) {
	for i, t := range toks {
		if t.Type == lexer.EOF {
			break
		}
		lead := t.Leading
		if i == 0 && trimFirst {
			lead = strings.TrimSpace(lead)
			if lead != "" {
				lead += " "
			}
		}
		p.write(lead, t.Literal)
	}
}

// TokensString prints a token region with its first trivia trimmed.
func TokensString(toks []lexer.Token) string {
	p := &Printer{}
	p.tokens(toks, true)
	return p.b.String()
}

func (p *Printer) attrs(attrs []*Attribute) {
	for _, a := range attrs {
		p.attr(a)
		p.newline()
	}
}

func (p *Printer) attr(a *Attribute) {
	if a.IsDoc() {
		p.write(a.Doc)
		return
	}
	if a.Inner {
		p.write("#![")
	} else {
		p.write("#[")
	}
	p.path(a.Path)
	p.tokens(a.Tokens, false)
	p.write("]")
}

func (p *Printer) vis(v *Visibility) {
	if v == nil {
		return
	}
	p.tokens(v.Tokens, true)
	p.write(" ")
}

func (p *Printer) ident(id *Ident) {
	if id != nil {
		p.write(id.Name)
	}
}

func (p *Printer) item(item Item) {
	p.attrs(item.Attributes())

	switch it := item.(type) {
	case *TraitItem:
		p.vis(it.Vis)
		if it.Unsafe {
			p.write("unsafe ")
		}
		if it.Auto {
			p.write("auto ")
		}
		p.write("trait ", it.Ident.Name)
		p.genericParams(it.Generics)
		if len(it.Supertraits) > 0 {
			p.write(": ")
			p.boundList(it.Supertraits)
		}
		p.where(it.Generics)
		p.body(it.InnerAttrs, it.Items)

	case *ImplItem:
		if it.Unsafe {
			p.write("unsafe ")
		}
		p.write("impl")
		p.genericParams(it.Generics)
		p.write(" ")
		if it.Trait != nil {
			if it.Negative {
				p.write("!")
			}
			p.path(it.Trait)
			p.write(" for ")
		}
		p.typ(it.SelfType)
		p.where(it.Generics)
		p.body(it.InnerAttrs, it.Items)

	case *UseItem:
		p.vis(it.Vis)
		p.write("use ")
		if it.Global {
			p.write("::")
		}
		p.useTree(it.Tree)
		p.write(";")

	case *ModItem:
		p.vis(it.Vis)
		if it.Unsafe {
			p.write("unsafe ")
		}
		p.write("mod ", it.Ident.Name)
		if !it.Inline {
			p.write(";")
			return
		}
		p.body(it.InnerAttrs, it.Items)

	case *FnItem:
		p.vis(it.Vis)
		if it.Default {
			p.write("default ")
		}
		p.fnSig(it.Sig)
		if it.Body == nil {
			p.write(";")
			return
		}
		p.write(" {")
		p.tokens(it.Body.Tokens, false)
		p.write(it.Body.Close, "}")

	case *TypeItem:
		p.vis(it.Vis)
		if it.Default {
			p.write("default ")
		}
		p.write("type ", it.Ident.Name)
		p.genericParams(it.Generics)
		if len(it.Bounds) > 0 {
			p.write(": ")
			p.boundList(it.Bounds)
		}
		if it.Value != nil {
			p.write(" = ")
			p.typ(it.Value)
		}
		p.where(it.Generics)
		p.write(";")

	case *StructItem:
		p.vis(it.Vis)
		if it.Union {
			p.write("union ")
		} else {
			p.write("struct ")
		}
		p.write(it.Ident.Name)
		p.genericParams(it.Generics)
		switch it.Kind {
		case FieldsUnit:
			p.where(it.Generics)
			p.write(";")
		case FieldsTuple:
			p.tupleFields(it.Fields)
			p.where(it.Generics)
			p.write(";")
		case FieldsNamed:
			p.where(it.Generics)
			p.namedFields(it.Fields)
		}

	case *EnumItem:
		p.vis(it.Vis)
		p.write("enum ", it.Ident.Name)
		p.genericParams(it.Generics)
		p.where(it.Generics)
		if len(it.Variants) == 0 {
			p.write(" {}")
			return
		}
		p.write(" {")
		p.depth++
		for _, v := range it.Variants {
			p.newline()
			p.attrs(v.Attrs)
			p.write(v.Ident.Name)
			switch v.Kind {
			case FieldsTuple:
				p.tupleFields(v.Fields)
			case FieldsNamed:
				p.namedFields(v.Fields)
			}
			if len(v.Discriminant) > 0 {
				p.write(" = ")
				p.tokens(v.Discriminant, true)
			}
			p.write(",")
		}
		p.depth--
		p.newline()
		p.write("}")

	case *ConstItem:
		p.vis(it.Vis)
		if it.Static {
			p.write("static ")
			if it.Mut {
				p.write("mut ")
			}
		} else {
			p.write("const ")
		}
		p.write(it.Ident.Name)
		if it.Type != nil {
			p.write(": ")
			p.typ(it.Type)
		}
		if len(it.Value) > 0 {
			p.write(" = ")
			p.tokens(it.Value, true)
		}
		p.write(";")

	case *VerbatimItem:
		p.tokens(it.Tokens, true)
	}
}

func (p *Printer) body(inner []*Attribute, items []Item) {
	if len(inner) == 0 && len(items) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.depth++
	for _, a := range inner {
		p.newline()
		p.attr(a)
	}
	for _, member := range items {
		p.newline()
		p.item(member)
	}
	p.depth--
	p.newline()
	p.write("}")
}

func (p *Printer) namedFields(fields []*Field) {
	if len(fields) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.depth++
	for _, f := range fields {
		p.newline()
		p.attrs(f.Attrs)
		p.vis(f.Vis)
		p.write(f.Ident.Name, ": ")
		p.typ(f.Type)
		p.write(",")
	}
	p.depth--
	p.newline()
	p.write("}")
}

func (p *Printer) tupleFields(fields []*Field) {
	p.write("(")
	for i, f := range fields {
		if i > 0 {
			p.write(", ")
		}
		for _, a := range f.Attrs {
			p.attr(a)
			p.write(" ")
		}
		p.vis(f.Vis)
		p.typ(f.Type)
	}
	p.write(")")
}

func (p *Printer) fnSig(sig *FnSig) {
	if sig.Const {
		p.write("const ")
	}
	if sig.Async {
		p.write("async ")
	}
	if sig.Unsafe {
		p.write("unsafe ")
	}
	if sig.Abi != "" {
		p.write(sig.Abi, " ")
	}
	p.write("fn ", sig.Ident.Name)
	p.genericParams(sig.Generics)
	p.write("(")
	for i, param := range sig.Params {
		if i > 0 {
			p.write(", ")
		}
		for _, a := range param.Attrs {
			p.attr(a)
			p.write(" ")
		}
		p.tokens(param.Pattern, true)
		if param.Type != nil {
			p.write(": ")
			p.typ(param.Type)
		}
	}
	p.write(")")
	if sig.Output != nil {
		p.write(" -> ")
		p.typ(sig.Output)
	}
	p.where(sig.Generics)
}

func (p *Printer) useTree(t UseTree) {
	switch t := t.(type) {
	case *UsePath:
		p.write(t.Ident.Name, "::")
		p.useTree(t.Tree)
	case *UseName:
		p.write(t.Ident.Name)
	case *UseRename:
		p.write(t.Ident.Name, " as ", t.Rename.Name)
	case *UseGlob:
		p.write("*")
	case *UseGroup:
		p.write("{")
		for i, sub := range t.Items {
			if i > 0 {
				p.write(", ")
			}
			p.useTree(sub)
		}
		p.write("}")
	}
}

func (p *Printer) genericParams(g *Generics) {
	if !g.HasParams() {
		return
	}
	p.write("<")
	for i, param := range g.Params {
		if i > 0 {
			p.write(", ")
		}
		p.genericParam(param)
	}
	p.write(">")
}

func (p *Printer) genericParam(param GenericParam) {
	switch param := param.(type) {
	case *LifetimeParam:
		for _, a := range param.Attrs {
			p.attr(a)
			p.write(" ")
		}
		p.write(param.Lifetime.Name)
		p.lifetimeBounds(param.Bounds)
	case *TypeParam:
		for _, a := range param.Attrs {
			p.attr(a)
			p.write(" ")
		}
		p.write(param.Ident.Name)
		if len(param.Bounds) > 0 {
			p.write(": ")
			p.boundList(param.Bounds)
		}
		if param.Default != nil {
			p.write(" = ")
			p.typ(param.Default)
		}
	case *ConstParam:
		for _, a := range param.Attrs {
			p.attr(a)
			p.write(" ")
		}
		p.write("const ", param.Ident.Name, ": ")
		p.typ(param.Type)
		if len(param.Default) > 0 {
			p.write(" = ")
			p.tokens(param.Default, true)
		}
	}
}

func (p *Printer) lifetimeBounds(bounds []*Lifetime) {
	for i, lt := range bounds {
		if i == 0 {
			p.write(": ")
		} else {
			p.write(" + ")
		}
		p.write(lt.Name)
	}
}

func (p *Printer) where(g *Generics) {
	if g == nil || g.Where == nil || len(g.Where.Predicates) == 0 {
		return
	}
	p.write(" where ")
	for i, pred := range g.Where.Predicates {
		if i > 0 {
			p.write(", ")
		}
		p.predicate(pred)
	}
}

func (p *Printer) predicate(pred WherePredicate) {
	switch pred := pred.(type) {
	case *TypePredicate:
		p.boundLifetimes(pred.Lifetimes)
		p.typ(pred.Type)
		p.write(":")
		if len(pred.Bounds) > 0 {
			p.write(" ")
			p.boundList(pred.Bounds)
		}
	case *LifetimePredicate:
		p.write(pred.Lifetime.Name)
		p.lifetimeBounds(pred.Bounds)
	}
}

func (p *Printer) boundLifetimes(bl *BoundLifetimes) {
	if bl == nil {
		return
	}
	p.write("for<")
	for i, param := range bl.Params {
		if i > 0 {
			p.write(", ")
		}
		p.genericParam(param)
	}
	p.write("> ")
}

func (p *Printer) boundList(bounds []Bound) {
	for i, b := range bounds {
		if i > 0 {
			p.write(" + ")
		}
		p.bound(b)
	}
}

func (p *Printer) bound(b Bound) {
	switch b := b.(type) {
	case *TraitBound:
		if b.Paren {
			p.write("(")
		}
		if b.Maybe {
			p.write("?")
		}
		p.boundLifetimes(b.Lifetimes)
		p.path(b.Path)
		if b.Paren {
			p.write(")")
		}
	case *LifetimeBound:
		p.write(b.Lifetime.Name)
	}
}

func (p *Printer) path(path *Path) {
	if path.Global {
		p.write("::")
	}
	for i, seg := range path.Segments {
		if i > 0 {
			p.write("::")
		}
		p.segment(seg)
	}
}

func (p *Printer) segment(seg *PathSegment) {
	p.write(seg.Ident.Name)
	switch args := seg.Args.(type) {
	case *AngleArgs:
		p.angleArgs(args)
	case *ParenArgs:
		p.parenArgs(args)
	}
}

func (p *Printer) parenArgs(args *ParenArgs) {
	p.write("(")
	for i, in := range args.Inputs {
		if i > 0 {
			p.write(", ")
		}
		p.typ(in)
	}
	p.write(")")
	if args.Output != nil {
		p.write(" -> ")
		p.typ(args.Output)
	}
}

func (p *Printer) angleArgs(args *AngleArgs) {
	if args.Turbofish {
		p.write("::")
	}
	p.write("<")
	for i, arg := range args.Args {
		if i > 0 {
			p.write(", ")
		}
		p.genericArg(arg)
	}
	p.write(">")
}

func (p *Printer) genericArg(arg GenericArg) {
	switch arg := arg.(type) {
	case *LifetimeArg:
		p.write(arg.Lifetime.Name)
	case *TypeArg:
		p.typ(arg.Type)
	case *ConstArg:
		p.tokens(arg.Tokens, true)
	case *AssocBinding:
		p.write(arg.Ident.Name)
		if arg.Args != nil {
			p.angleArgs(arg.Args)
		}
		p.write(" = ")
		p.typ(arg.Type)
	case *AssocConstraint:
		p.write(arg.Ident.Name)
		if arg.Args != nil {
			p.angleArgs(arg.Args)
		}
		p.write(": ")
		p.boundList(arg.Bounds)
	}
}

func (p *Printer) typ(t Type) {
	switch t := t.(type) {
	case *PathType:
		if t.QSelf == nil {
			p.path(t.Path)
			return
		}
		p.write("<")
		p.typ(t.QSelf.Type)
		segs := t.Path.Segments
		pos := min(t.QSelf.Position, len(segs))
		if t.QSelf.HasAs {
			p.write(" as ")
			p.path(&Path{Global: t.Path.Global, Segments: segs[:pos]})
		}
		p.write(">")
		for _, seg := range segs[pos:] {
			p.write("::")
			p.segment(seg)
		}
	case *RefType:
		p.write("&")
		if t.Lifetime != nil {
			p.write(t.Lifetime.Name, " ")
		}
		if t.Mut {
			p.write("mut ")
		}
		p.typ(t.Elem)
	case *PtrType:
		if t.Mut {
			p.write("*mut ")
		} else {
			p.write("*const ")
		}
		p.typ(t.Elem)
	case *SliceType:
		p.write("[")
		p.typ(t.Elem)
		p.write("]")
	case *ArrayType:
		p.write("[")
		p.typ(t.Elem)
		p.write("; ")
		p.tokens(t.Len, true)
		p.write("]")
	case *TupleType:
		p.write("(")
		for i, elem := range t.Elems {
			if i > 0 {
				p.write(", ")
			}
			p.typ(elem)
		}
		if len(t.Elems) == 1 {
			p.write(",")
		}
		p.write(")")
	case *ParenType:
		p.write("(")
		p.typ(t.Elem)
		p.write(")")
	case *NeverType:
		p.write("!")
	case *InferType:
		p.write("_")
	case *ImplTraitType:
		p.write("impl ")
		p.boundList(t.Bounds)
	case *TraitObjectType:
		if t.Dyn {
			p.write("dyn ")
		}
		p.boundList(t.Bounds)
	case *FnPtrType:
		p.boundLifetimes(t.Lifetimes)
		if t.Unsafe {
			p.write("unsafe ")
		}
		if t.Abi != "" {
			p.write(t.Abi, " ")
		}
		p.write("fn(")
		for i, param := range t.Params {
			if i > 0 {
				p.write(", ")
			}
			if param.Name != "" {
				p.write(param.Name, ": ")
			}
			p.typ(param.Type)
		}
		if t.Variadic {
			if len(t.Params) > 0 {
				p.write(", ")
			}
			p.write("...")
		}
		p.write(")")
		if t.Output != nil {
			p.write(" -> ")
			p.typ(t.Output)
		}
	case *MacroType:
		p.path(t.Path)
		p.write("!")
		open, close := delimiters(t.Delim)
		p.write(open)
		p.tokens(t.Tokens, false)
		p.write(t.Close, close)
	}
}

func delimiters(open lexer.TokenType) (string, string) {
	switch open {
	case lexer.LBRACKET:
		return "[", "]"
	case lexer.LBRACE:
		return "{", "}"
	}
	return "(", ")"
}

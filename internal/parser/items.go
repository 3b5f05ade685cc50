package parser

import (
	"slices"
	"strings"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/lexer"
)

type spanSetter interface {
	SetSpan(lexer.Span)
}

func isInnerDoc(lit string) bool {
	return strings.HasPrefix(lit, "//!") || strings.HasPrefix(lit, "/*!")
}

func (p *Parser) parseOuterAttrs() []*ast.Attribute {
	var attrs []*ast.Attribute
	for {
		tok := p.cur()
		switch {
		case tok.Type == lexer.DOC_COMMENT && !isInnerDoc(tok.Literal):
			p.next()
			a := &ast.Attribute{Doc: tok.Literal}
			a.SetSpan(tok.Span)
			attrs = append(attrs, a)
		case tok.Type == lexer.POUND && p.peek(1).Type == lexer.LBRACKET:
			attrs = append(attrs, p.parseAttr(false))
		default:
			return attrs
		}
	}
}

func (p *Parser) parseInnerAttrs() []*ast.Attribute {
	var attrs []*ast.Attribute
	for {
		tok := p.cur()
		switch {
		case tok.Type == lexer.DOC_COMMENT && isInnerDoc(tok.Literal):
			p.next()
			a := &ast.Attribute{Inner: true, Doc: tok.Literal}
			a.SetSpan(tok.Span)
			attrs = append(attrs, a)
		case tok.Type == lexer.POUND && p.peek(1).Type == lexer.BANG && p.peek(2).Type == lexer.LBRACKET:
			attrs = append(attrs, p.parseAttr(true))
		default:
			return attrs
		}
	}
}

func (p *Parser) parseAttr(inner bool) *ast.Attribute {
	start := p.expect(lexer.POUND, "`#`").Span
	if inner {
		p.expect(lexer.BANG, "`!`")
	}
	p.expect(lexer.LBRACKET, "`[`")
	a := &ast.Attribute{Inner: inner, Path: p.parseAttrPath()}
	a.Tokens = p.collectUntil(func(t lexer.Token) bool { return t.Type == lexer.RBRACKET })
	p.expect(lexer.RBRACKET, "`]`")
	a.SetSpan(p.spanFrom(start))
	return a
}

// parseAttrPath parses a simple path whose segments may be keywords, as in
// `#[unsafe(no_mangle)]`.
func (p *Parser) parseAttrPath() *ast.Path {
	start := p.cur().Span
	path := &ast.Path{}
	if p.atPathSep(0) {
		path.Global = true
		p.next()
		p.next()
	}
	for {
		tok := p.cur()
		if tok.Type != lexer.IDENT && !lexer.IsKeyword(tok.Type) {
			p.reportExpectedError("attribute path", tok)
		}
		p.next()
		seg := &ast.PathSegment{Ident: ast.NewIdent(tok.Literal, tok.Span)}
		seg.SetSpan(tok.Span)
		path.Segments = append(path.Segments, seg)
		if !p.atPathSep(0) {
			break
		}
		p.next()
		p.next()
	}
	path.SetSpan(p.spanFrom(start))
	return path
}

// parseVisibility parses `pub`, `pub(crate)`, `pub(self)`, `pub(super)` and
// `pub(in path)`. A parenthesized group after `pub` that is none of these
// belongs to the surrounding production (tuple fields).
func (p *Parser) parseVisibility() *ast.Visibility {
	if !p.at(lexer.PUB) {
		return nil
	}
	start := p.pos
	p.next()
	if p.at(lexer.LPAREN) {
		inner := p.peek(1)
		restricted := inner.Type == lexer.IN ||
			(inner.Type == lexer.IDENT && (inner.Literal == "crate" || inner.Literal == "self" || inner.Literal == "super") && p.peek(2).Type == lexer.RPAREN)
		if restricted {
			p.parseDelimited()
		}
	}
	v := &ast.Visibility{Tokens: slices.Clone(p.toks[start:p.pos])}
	v.SetSpan(p.spanFrom(p.toks[start].Span))
	return v
}

func (p *Parser) parseItem() ast.Item {
	start := p.cur().Span
	attrs := p.parseOuterAttrs()
	bodyStart := p.pos
	vis := p.parseVisibility()

	item := p.parseItemKind(vis)
	if item == nil {
		p.pos = bodyStart
		item = p.parseVerbatim()
	}
	item.SetAttributes(attrs)
	item.(spanSetter).SetSpan(p.spanFrom(start))
	return item
}

// parseItemLenient parses an item, keeping it as raw tokens when it does not
// parse.
func (p *Parser) parseItemLenient() ast.Item {
	var item ast.Item
	if p.try(func() { item = p.parseItem() }) {
		return item
	}
	start := p.cur().Span
	attrs := p.parseOuterAttrs()
	v := p.parseVerbatim()
	v.Attrs = attrs
	v.SetSpan(p.spanFrom(start))
	return v
}

// parseItemKind dispatches on the item keyword, looking past qualifiers. It
// returns nil for items that are only kept as tokens.
func (p *Parser) parseItemKind(vis *ast.Visibility) ast.Item {
	tok := p.cur()
	switch tok.Type {
	case lexer.USE:
		return p.parseUse(vis)
	case lexer.TRAIT:
		return p.parseTrait(vis)
	case lexer.IMPL:
		return p.parseImpl()
	case lexer.MOD:
		return p.parseMod(vis)
	case lexer.TYPE:
		return p.parseTypeItem(vis, false)
	case lexer.STRUCT:
		return p.parseStruct(vis, false)
	case lexer.ENUM:
		return p.parseEnum(vis)
	case lexer.STATIC:
		return p.parseConst(vis)
	case lexer.CONST:
		if p.peek(1).Type == lexer.IDENT && p.peek(2).Type == lexer.COLON && !p.atPathSep(2) {
			return p.parseConst(vis)
		}
		if p.fnAhead(0) {
			return p.parseFn(vis, false)
		}
	case lexer.FN, lexer.ASYNC, lexer.EXTERN:
		if p.fnAhead(0) {
			return p.parseFn(vis, false)
		}
	case lexer.UNSAFE:
		next := p.peek(1)
		switch {
		case next.Type == lexer.TRAIT || (next.Type == lexer.IDENT && next.Literal == "auto"):
			return p.parseTrait(vis)
		case next.Type == lexer.IMPL:
			return p.parseImpl()
		case next.Type == lexer.MOD:
			return p.parseMod(vis)
		case p.fnAhead(0):
			return p.parseFn(vis, false)
		}
	case lexer.IDENT:
		next := p.peek(1)
		switch tok.Literal {
		case "auto":
			if next.Type == lexer.TRAIT {
				return p.parseTrait(vis)
			}
		case "union":
			if next.Type == lexer.IDENT {
				return p.parseStruct(vis, true)
			}
		case "default":
			switch {
			case next.Type == lexer.TYPE:
				p.next()
				return p.parseTypeItem(vis, true)
			case p.fnAhead(1):
				p.next()
				return p.parseFn(vis, true)
			}
		}
	}
	return nil
}

// fnAhead reports whether the tokens starting n ahead are function
// qualifiers followed by `fn`.
func (p *Parser) fnAhead(n int) bool {
	for {
		switch p.peek(n).Type {
		case lexer.FN:
			return true
		case lexer.CONST, lexer.ASYNC, lexer.UNSAFE:
			n++
		case lexer.EXTERN:
			n++
			if p.peek(n).Type == lexer.STRING {
				n++
			}
		default:
			return false
		}
	}
}

// parseVerbatim keeps an item as raw tokens: everything up to a `;` at
// depth zero, or up to the end of the first top-level brace group.
func (p *Parser) parseVerbatim() *ast.VerbatimItem {
	start := p.pos
	depth := 0
loop:
	for {
		tok := p.cur()
		switch {
		case tok.Type == lexer.EOF:
			if depth > 0 || p.pos == start {
				p.reportExpectedError("item", tok)
			}
			break loop
		case isOpenDelim(tok.Type):
			depth++
		case isCloseDelim(tok.Type):
			if depth == 0 {
				p.reportExpectedError("item", tok)
			}
			depth--
			if depth == 0 && tok.Type == lexer.RBRACE {
				p.next()
				break loop
			}
		case tok.Type == lexer.SEMICOLON && depth == 0:
			p.next()
			break loop
		}
		p.next()
	}
	v := &ast.VerbatimItem{Tokens: slices.Clone(p.toks[start:p.pos])}
	v.SetSpan(p.spanFrom(p.toks[start].Span))
	return v
}

// parseItemBody parses `{ inner-attrs items }`.
func (p *Parser) parseItemBody(lenient bool) ([]*ast.Attribute, []ast.Item) {
	p.expect(lexer.LBRACE, "`{`")
	inner := p.parseInnerAttrs()
	var items []ast.Item
	for !p.at(lexer.RBRACE) {
		if p.at(lexer.EOF) {
			p.reportExpectedError("`}`", p.cur())
		}
		if lenient {
			items = append(items, p.parseItemLenient())
		} else {
			items = append(items, p.parseItem())
		}
	}
	p.next()
	return inner, items
}

func (p *Parser) parseTrait(vis *ast.Visibility) *ast.TraitItem {
	it := &ast.TraitItem{Vis: vis}
	it.Unsafe = p.eat(lexer.UNSAFE)
	if p.atIdent("auto") {
		p.next()
		it.Auto = true
	}
	p.expect(lexer.TRAIT, "`trait`")
	it.Ident = p.parseIdent()
	it.Generics = p.parseGenerics()
	if p.atColon() {
		p.next()
		it.Supertraits = p.parseBounds()
	}
	p.parseWhere(it.Generics)
	if p.at(lexer.ASSIGN) {
		p.reportError("trait aliases are not supported", p.cur().Span)
	}
	it.InnerAttrs, it.Items = p.parseItemBody(false)
	return it
}

func (p *Parser) parseImpl() *ast.ImplItem {
	it := &ast.ImplItem{}
	it.Unsafe = p.eat(lexer.UNSAFE)
	p.expect(lexer.IMPL, "`impl`")
	if p.at(lexer.LT) && p.peek(1).Type != lexer.LT {
		it.Generics = p.parseGenerics()
	} else {
		it.Generics = &ast.Generics{}
	}
	it.Negative = p.eat(lexer.BANG)

	ty := p.parseType(true)
	if p.eat(lexer.FOR) {
		pt, ok := ty.(*ast.PathType)
		if !ok || pt.QSelf != nil {
			p.reportError("expected a trait path before `for`", ty.Span())
		}
		it.Trait = pt.Path
		it.SelfType = p.parseType(true)
	} else {
		if it.Negative {
			p.reportExpectedError("`for`", p.cur())
		}
		it.SelfType = ty
	}
	p.parseWhere(it.Generics)
	it.InnerAttrs, it.Items = p.parseItemBody(false)
	return it
}

func (p *Parser) parseUse(vis *ast.Visibility) *ast.UseItem {
	p.expect(lexer.USE, "`use`")
	it := &ast.UseItem{Vis: vis}
	if p.atPathSep(0) {
		it.Global = true
		p.next()
		p.next()
	}
	it.Tree = p.parseUseTree()
	p.expect(lexer.SEMICOLON, "`;`")
	return it
}

func (p *Parser) parseUseTree() ast.UseTree {
	start := p.cur().Span
	switch {
	case p.eat(lexer.ASTERISK):
		t := &ast.UseGlob{}
		t.SetSpan(start)
		return t
	case p.eat(lexer.LBRACE):
		t := &ast.UseGroup{}
		for !p.at(lexer.RBRACE) {
			t.Items = append(t.Items, p.parseUseTree())
			if !p.eat(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACE, "`}`")
		t.SetSpan(p.spanFrom(start))
		return t
	}

	ident := p.parseIdent()
	if p.atPathSep(0) {
		p.next()
		p.next()
		t := &ast.UsePath{Ident: ident, Tree: p.parseUseTree()}
		t.SetSpan(p.spanFrom(start))
		return t
	}
	if p.eat(lexer.AS) {
		t := &ast.UseRename{Ident: ident, Rename: p.parseIdent()}
		t.SetSpan(p.spanFrom(start))
		return t
	}
	t := &ast.UseName{Ident: ident}
	t.SetSpan(start)
	return t
}

func (p *Parser) parseMod(vis *ast.Visibility) *ast.ModItem {
	it := &ast.ModItem{Vis: vis}
	it.Unsafe = p.eat(lexer.UNSAFE)
	p.expect(lexer.MOD, "`mod`")
	it.Ident = p.parseIdent()
	if p.eat(lexer.SEMICOLON) {
		return it
	}
	it.Inline = true
	it.InnerAttrs, it.Items = p.parseItemBody(p.lenient)
	return it
}

func (p *Parser) parseFn(vis *ast.Visibility, isDefault bool) *ast.FnItem {
	it := &ast.FnItem{Vis: vis, Default: isDefault}
	start := p.cur().Span
	sig := &ast.FnSig{}
	sig.Const = p.eat(lexer.CONST)
	sig.Async = p.eat(lexer.ASYNC)
	sig.Unsafe = p.eat(lexer.UNSAFE)
	sig.Abi = p.parseAbi()
	p.expect(lexer.FN, "`fn`")
	sig.Ident = p.parseIdent()
	sig.Generics = p.parseGenerics()

	p.expect(lexer.LPAREN, "`(`")
	for !p.at(lexer.RPAREN) {
		sig.Params = append(sig.Params, p.parseFnParam())
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "`)`")
	if p.atArrow() {
		p.next()
		p.next()
		sig.Output = p.parseType(true)
	}
	p.parseWhere(sig.Generics)
	sig.SetSpan(p.spanFrom(start))
	it.Sig = sig

	if p.eat(lexer.SEMICOLON) {
		return it
	}
	if !p.at(lexer.LBRACE) {
		p.reportExpectedError("`{` or `;`", p.cur())
	}
	bodyStart := p.cur().Span
	_, inner, closeTok := p.parseDelimited()
	it.Body = &ast.Block{Tokens: inner, Close: closeTok.Leading}
	it.Body.SetSpan(p.spanFrom(bodyStart))
	return it
}

func (p *Parser) parseFnParam() *ast.FnParam {
	start := p.cur().Span
	param := &ast.FnParam{Attrs: p.parseOuterAttrs()}
	param.Pattern = p.collectUntil(func(t lexer.Token) bool {
		return t.Type == lexer.COMMA || t.Type == lexer.COLON
	})
	if len(param.Pattern) == 0 {
		p.reportExpectedError("parameter", p.cur())
	}
	if p.atColon() {
		p.next()
		param.Type = p.parseType(true)
	}
	param.SetSpan(p.spanFrom(start))
	return param
}

func (p *Parser) parseTypeItem(vis *ast.Visibility, isDefault bool) *ast.TypeItem {
	p.expect(lexer.TYPE, "`type`")
	it := &ast.TypeItem{Vis: vis, Default: isDefault}
	it.Ident = p.parseIdent()
	it.Generics = p.parseGenerics()
	if p.atColon() {
		p.next()
		it.Bounds = p.parseBounds()
	}
	p.parseWhere(it.Generics)
	if p.eat(lexer.ASSIGN) {
		it.Value = p.parseType(true)
	}
	p.parseWhere(it.Generics)
	p.expect(lexer.SEMICOLON, "`;`")
	return it
}

func (p *Parser) parseStruct(vis *ast.Visibility, union bool) *ast.StructItem {
	if union {
		p.next()
	} else {
		p.expect(lexer.STRUCT, "`struct`")
	}
	it := &ast.StructItem{Vis: vis, Union: union}
	it.Ident = p.parseIdent()
	it.Generics = p.parseGenerics()

	if p.at(lexer.LPAREN) {
		it.Kind = ast.FieldsTuple
		it.Fields = p.parseTupleFields()
		p.parseWhere(it.Generics)
		p.expect(lexer.SEMICOLON, "`;`")
		return it
	}
	p.parseWhere(it.Generics)
	if p.eat(lexer.SEMICOLON) {
		it.Kind = ast.FieldsUnit
		return it
	}
	it.Kind = ast.FieldsNamed
	it.Fields = p.parseNamedFields()
	return it
}

func (p *Parser) parseNamedFields() []*ast.Field {
	p.expect(lexer.LBRACE, "`{`")
	var fields []*ast.Field
	for !p.at(lexer.RBRACE) {
		start := p.cur().Span
		f := &ast.Field{Attrs: p.parseOuterAttrs(), Vis: p.parseVisibility()}
		f.Ident = p.parseIdent()
		p.expect(lexer.COLON, "`:`")
		f.Type = p.parseType(true)
		f.SetSpan(p.spanFrom(start))
		fields = append(fields, f)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "`}`")
	return fields
}

func (p *Parser) parseTupleFields() []*ast.Field {
	p.expect(lexer.LPAREN, "`(`")
	var fields []*ast.Field
	for !p.at(lexer.RPAREN) {
		start := p.cur().Span
		f := &ast.Field{Attrs: p.parseOuterAttrs(), Vis: p.parseVisibility()}
		f.Type = p.parseType(true)
		f.SetSpan(p.spanFrom(start))
		fields = append(fields, f)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "`)`")
	return fields
}

func (p *Parser) parseEnum(vis *ast.Visibility) *ast.EnumItem {
	p.expect(lexer.ENUM, "`enum`")
	it := &ast.EnumItem{Vis: vis}
	it.Ident = p.parseIdent()
	it.Generics = p.parseGenerics()
	p.parseWhere(it.Generics)
	p.expect(lexer.LBRACE, "`{`")
	for !p.at(lexer.RBRACE) {
		start := p.cur().Span
		v := &ast.Variant{Attrs: p.parseOuterAttrs()}
		p.parseVisibility()
		v.Ident = p.parseIdent()
		switch {
		case p.at(lexer.LPAREN):
			v.Kind = ast.FieldsTuple
			v.Fields = p.parseTupleFields()
		case p.at(lexer.LBRACE):
			v.Kind = ast.FieldsNamed
			v.Fields = p.parseNamedFields()
		}
		if p.eat(lexer.ASSIGN) {
			v.Discriminant = p.collectUntil(func(t lexer.Token) bool { return t.Type == lexer.COMMA })
		}
		v.SetSpan(p.spanFrom(start))
		it.Variants = append(it.Variants, v)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "`}`")
	return it
}

func (p *Parser) parseConst(vis *ast.Visibility) *ast.ConstItem {
	it := &ast.ConstItem{Vis: vis}
	if p.eat(lexer.STATIC) {
		it.Static = true
		it.Mut = p.eat(lexer.MUT)
	} else {
		p.expect(lexer.CONST, "`const`")
	}
	it.Ident = p.parseIdent()
	if p.atColon() {
		p.next()
		it.Type = p.parseType(true)
	}
	if p.eat(lexer.ASSIGN) {
		it.Value = p.collectUntil(func(t lexer.Token) bool { return t.Type == lexer.SEMICOLON })
	}
	p.expect(lexer.SEMICOLON, "`;`")
	return it
}

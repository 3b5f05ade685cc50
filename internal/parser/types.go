package parser

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/lexer"
)

// parseType parses a type. With allowPlus unset, `impl A + B` and bare
// trait objects stop after their first bound, as in reference and return
// types of `Fn` sugar.
func (p *Parser) parseType(allowPlus bool) ast.Type {
	start := p.cur().Span
	tok := p.cur()

	switch tok.Type {
	case lexer.LPAREN:
		return p.parseParenOrTuple()

	case lexer.LBRACKET:
		p.next()
		elem := p.parseType(true)
		if p.eat(lexer.RBRACKET) {
			ty := &ast.SliceType{Elem: elem}
			ty.SetSpan(p.spanFrom(start))
			return ty
		}
		p.expect(lexer.SEMICOLON, "`;` or `]`")
		length := p.collectUntil(func(t lexer.Token) bool { return t.Type == lexer.RBRACKET })
		p.expect(lexer.RBRACKET, "`]`")
		ty := &ast.ArrayType{Elem: elem, Len: length}
		ty.SetSpan(p.spanFrom(start))
		return ty

	case lexer.AMPERSAND:
		p.next()
		ty := &ast.RefType{}
		if p.at(lexer.LIFETIME) {
			lt := p.next()
			ty.Lifetime = ast.NewLifetime(lt.Literal, lt.Span)
		}
		ty.Mut = p.eat(lexer.MUT)
		ty.Elem = p.parseType(false)
		ty.SetSpan(p.spanFrom(start))
		return ty

	case lexer.ASTERISK:
		p.next()
		ty := &ast.PtrType{}
		switch {
		case p.eat(lexer.MUT):
			ty.Mut = true
		case p.eat(lexer.CONST):
		default:
			p.reportExpectedError("`mut` or `const`", p.cur())
		}
		ty.Elem = p.parseType(false)
		ty.SetSpan(p.spanFrom(start))
		return ty

	case lexer.BANG:
		p.next()
		ty := &ast.NeverType{}
		ty.SetSpan(tok.Span)
		return ty

	case lexer.LT:
		return p.parseQualifiedPathType()

	case lexer.IMPL:
		p.next()
		ty := &ast.ImplTraitType{Bounds: p.parseBoundsMode(allowPlus)}
		ty.SetSpan(p.spanFrom(start))
		return ty

	case lexer.DYN:
		p.next()
		ty := &ast.TraitObjectType{Dyn: true, Bounds: p.parseBoundsMode(allowPlus)}
		ty.SetSpan(p.spanFrom(start))
		return ty

	case lexer.FN, lexer.UNSAFE, lexer.EXTERN:
		return p.parseFnPtrType(nil, start)

	case lexer.FOR:
		binder := p.parseBoundLifetimes()
		if p.at(lexer.FN) || p.at(lexer.UNSAFE) || p.at(lexer.EXTERN) {
			return p.parseFnPtrType(binder, start)
		}
		first := &ast.TraitBound{Lifetimes: binder, Path: p.parsePath(true)}
		first.SetSpan(p.spanFrom(start))
		return p.bareTraitObject(first, start, allowPlus)

	case lexer.QUESTION:
		p.reportError("`?Trait` is only allowed in bounds", tok.Span)

	case lexer.IDENT:
		if tok.Literal == "_" {
			p.next()
			ty := &ast.InferType{}
			ty.SetSpan(tok.Span)
			return ty
		}
	case lexer.COLON:
		if !p.atPathSep(0) {
			p.reportExpectedError("type", tok)
		}
	default:
		p.reportExpectedError("type", tok)
	}

	path := p.parsePath(true)
	if p.at(lexer.BANG) && isOpenDelim(p.peek(1).Type) {
		p.next()
		delim, inner, closeTok := p.parseDelimited()
		ty := &ast.MacroType{Path: path, Delim: delim, Tokens: inner, Close: closeTok.Leading}
		ty.SetSpan(p.spanFrom(start))
		return ty
	}
	if allowPlus && p.at(lexer.PLUS) && p.boundStartAt(1) {
		first := &ast.TraitBound{Path: path}
		first.SetSpan(path.Span())
		return p.bareTraitObject(first, start, true)
	}
	ty := ast.NewPathType(path)
	ty.SetSpan(path.Span())
	return ty
}

func (p *Parser) bareTraitObject(first ast.Bound, start lexer.Span, allowPlus bool) ast.Type {
	bounds := []ast.Bound{first}
	for allowPlus && p.at(lexer.PLUS) && p.boundStartAt(1) {
		p.next()
		bounds = append(bounds, p.parseBound())
	}
	ty := &ast.TraitObjectType{Bounds: bounds}
	ty.SetSpan(p.spanFrom(start))
	return ty
}

func (p *Parser) parseParenOrTuple() ast.Type {
	start := p.expect(lexer.LPAREN, "`(`").Span
	var elems []ast.Type
	trailingComma := false
	for !p.at(lexer.RPAREN) {
		elems = append(elems, p.parseType(true))
		trailingComma = p.eat(lexer.COMMA)
		if !trailingComma {
			break
		}
	}
	p.expect(lexer.RPAREN, "`)`")

	if len(elems) == 1 && !trailingComma {
		ty := &ast.ParenType{Elem: elems[0]}
		ty.SetSpan(p.spanFrom(start))
		return ty
	}
	ty := &ast.TupleType{Elems: elems}
	ty.SetSpan(p.spanFrom(start))
	return ty
}

// parseQualifiedPathType parses `<Type as Trait>::Rest` and `<Type>::Rest`.
func (p *Parser) parseQualifiedPathType() ast.Type {
	start := p.expect(lexer.LT, "`<`").Span
	qself := &ast.QSelf{Type: p.parseType(true)}
	path := &ast.Path{}
	if p.eat(lexer.AS) {
		trait := p.parsePath(true)
		path.Global = trait.Global
		path.Segments = trait.Segments
		qself.HasAs = true
		qself.Position = len(trait.Segments)
	}
	p.expect(lexer.GT, "`>`")
	if !p.atPathSep(0) {
		p.reportExpectedError("`::`", p.cur())
	}
	for p.atPathSep(0) {
		p.next()
		p.next()
		path.Segments = append(path.Segments, p.parseSegment(true))
	}
	path.SetSpan(p.spanFrom(start))

	ty := &ast.PathType{QSelf: qself, Path: path}
	ty.SetSpan(p.spanFrom(start))
	return ty
}

func (p *Parser) parseFnPtrType(binder *ast.BoundLifetimes, start lexer.Span) *ast.FnPtrType {
	ty := &ast.FnPtrType{Lifetimes: binder}
	ty.Unsafe = p.eat(lexer.UNSAFE)
	ty.Abi = p.parseAbi()
	p.expect(lexer.FN, "`fn`")
	p.expect(lexer.LPAREN, "`(`")
	for !p.at(lexer.RPAREN) {
		p.parseOuterAttrs()
		if p.at(lexer.DOT) && p.peek(1).Type == lexer.DOT && p.peek(2).Type == lexer.DOT {
			p.next()
			p.next()
			p.next()
			ty.Variadic = true
			p.eat(lexer.COMMA)
			break
		}
		param := &ast.FnPtrParam{}
		if p.at(lexer.IDENT) && p.peek(1).Type == lexer.COLON && !p.atPathSep(1) {
			param.Name = p.next().Literal
			p.next()
		}
		param.Type = p.parseType(true)
		ty.Params = append(ty.Params, param)
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "`)`")
	if p.atArrow() {
		p.next()
		p.next()
		ty.Output = p.parseType(false)
	}
	ty.SetSpan(p.spanFrom(start))
	return ty
}

// parseAbi parses an optional `extern` or `extern "C"` qualifier.
func (p *Parser) parseAbi() string {
	if !p.eat(lexer.EXTERN) {
		return ""
	}
	if p.at(lexer.STRING) {
		return "extern " + p.next().Literal
	}
	return "extern"
}

// parsePath parses a path. In type mode generic arguments follow a segment
// directly (`Vec<T>`) and `Fn(A) -> B` sugar is recognized; otherwise they
// need a turbofish (`Vec::<T>`).
func (p *Parser) parsePath(typeMode bool) *ast.Path {
	start := p.cur().Span
	path := &ast.Path{}
	if p.atPathSep(0) {
		path.Global = true
		p.next()
		p.next()
	}
	for {
		path.Segments = append(path.Segments, p.parseSegment(typeMode))
		if p.atPathSep(0) && p.peek(2).Type == lexer.IDENT {
			p.next()
			p.next()
			continue
		}
		break
	}
	path.SetSpan(p.spanFrom(start))
	return path
}

func (p *Parser) parseSegment(typeMode bool) *ast.PathSegment {
	start := p.cur().Span
	seg := &ast.PathSegment{Ident: p.parseIdent()}

	switch {
	case p.atPathSep(0) && p.peek(2).Type == lexer.LT:
		p.next()
		p.next()
		args := p.parseAngleArgs()
		args.Turbofish = true
		seg.Args = args
	case typeMode && p.at(lexer.LT):
		seg.Args = p.parseAngleArgs()
	case typeMode && p.at(lexer.LPAREN):
		seg.Args = p.parseParenArgs()
	}
	seg.SetSpan(p.spanFrom(start))
	return seg
}

func (p *Parser) parseParenArgs() *ast.ParenArgs {
	start := p.expect(lexer.LPAREN, "`(`").Span
	args := &ast.ParenArgs{}
	for !p.at(lexer.RPAREN) {
		args.Inputs = append(args.Inputs, p.parseType(true))
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "`)`")
	if p.atArrow() {
		p.next()
		p.next()
		args.Output = p.parseType(false)
	}
	args.SetSpan(p.spanFrom(start))
	return args
}

func (p *Parser) parseAngleArgs() *ast.AngleArgs {
	start := p.expect(lexer.LT, "`<`").Span
	args := &ast.AngleArgs{}
	for !p.at(lexer.GT) {
		args.Args = append(args.Args, p.parseGenericArg())
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.GT, "`>`")
	args.SetSpan(p.spanFrom(start))
	return args
}

func (p *Parser) parseGenericArg() ast.GenericArg {
	start := p.cur().Span
	tok := p.cur()

	switch tok.Type {
	case lexer.LIFETIME:
		p.next()
		arg := &ast.LifetimeArg{Lifetime: ast.NewLifetime(tok.Literal, tok.Span)}
		arg.SetSpan(tok.Span)
		return arg
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR, lexer.TRUE, lexer.FALSE, lexer.MINUS, lexer.LBRACE:
		arg := &ast.ConstArg{Tokens: p.parseConstArgTokens()}
		arg.SetSpan(p.spanFrom(start))
		return arg
	case lexer.IDENT:
		if arg := p.tryAssocArg(); arg != nil {
			return arg
		}
	}

	arg := &ast.TypeArg{Type: p.parseType(true)}
	arg.SetSpan(p.spanFrom(start))
	return arg
}

// tryAssocArg parses `Name = T`, `Name<'a> = T`, `Name: Bounds` or
// `Name<'a>: Bounds`, leaving the position untouched when the argument is
// a plain type.
func (p *Parser) tryAssocArg() ast.GenericArg {
	var out ast.GenericArg
	p.try(func() {
		start := p.cur().Span
		ident := p.parseIdent()
		var args *ast.AngleArgs
		if p.at(lexer.LT) {
			args = p.parseAngleArgs()
		}
		switch {
		case p.at(lexer.ASSIGN) && !(p.cur().Joint && p.peek(1).Type == lexer.ASSIGN):
			p.next()
			arg := &ast.AssocBinding{Ident: ident, Args: args, Type: p.parseType(true)}
			arg.SetSpan(p.spanFrom(start))
			out = arg
		case p.atColon():
			p.next()
			arg := &ast.AssocConstraint{Ident: ident, Args: args, Bounds: p.parseBounds()}
			arg.SetSpan(p.spanFrom(start))
			out = arg
		default:
			panic(bailout{})
		}
	})
	return out
}

// parseConstArgTokens parses a const generic argument or default: a block,
// a possibly negated literal, or a single identifier.
func (p *Parser) parseConstArgTokens() []lexer.Token {
	start := p.pos
	switch {
	case p.at(lexer.LBRACE):
		p.parseDelimited()
	case p.at(lexer.MINUS):
		p.next()
		p.next()
	default:
		p.next()
	}
	return append([]lexer.Token(nil), p.toks[start:p.pos]...)
}

func (p *Parser) atBoundStart() bool { return p.boundStartAt(0) }

func (p *Parser) boundStartAt(n int) bool {
	switch p.peek(n).Type {
	case lexer.LIFETIME, lexer.LPAREN, lexer.QUESTION, lexer.FOR, lexer.IDENT, lexer.TILDE:
		return true
	case lexer.COLON:
		return p.atPathSep(n)
	}
	return false
}

// parseBounds parses a possibly empty `+`-separated bound list; a trailing
// `+` is accepted.
func (p *Parser) parseBounds() []ast.Bound {
	return p.parseBoundsMode(true)
}

func (p *Parser) parseBoundsMode(allowPlus bool) []ast.Bound {
	var bounds []ast.Bound
	for p.atBoundStart() {
		bounds = append(bounds, p.parseBound())
		if !allowPlus || !p.eat(lexer.PLUS) {
			break
		}
	}
	return bounds
}

func (p *Parser) parseBound() ast.Bound {
	start := p.cur().Span
	if p.at(lexer.LIFETIME) {
		tok := p.next()
		b := &ast.LifetimeBound{Lifetime: ast.NewLifetime(tok.Literal, tok.Span)}
		b.SetSpan(tok.Span)
		return b
	}

	b := &ast.TraitBound{}
	b.Paren = p.eat(lexer.LPAREN)
	if p.at(lexer.TILDE) {
		p.reportError("`~const` bounds are not supported", p.cur().Span)
	}
	b.Maybe = p.eat(lexer.QUESTION)
	if p.at(lexer.FOR) {
		b.Lifetimes = p.parseBoundLifetimes()
	}
	b.Path = p.parsePath(true)
	if b.Paren {
		p.expect(lexer.RPAREN, "`)`")
	}
	b.SetSpan(p.spanFrom(start))
	return b
}

// parseBoundLifetimes parses a `for<'a, 'b>` binder.
func (p *Parser) parseBoundLifetimes() *ast.BoundLifetimes {
	start := p.expect(lexer.FOR, "`for`").Span
	p.expect(lexer.LT, "`<`")
	binder := &ast.BoundLifetimes{}
	for !p.at(lexer.GT) {
		binder.Params = append(binder.Params, p.parseLifetimeParam(p.parseOuterAttrs()))
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.GT, "`>`")
	binder.SetSpan(p.spanFrom(start))
	return binder
}

func (p *Parser) parseLifetimeParam(attrs []*ast.Attribute) *ast.LifetimeParam {
	start := p.cur().Span
	tok := p.expect(lexer.LIFETIME, "lifetime")
	param := &ast.LifetimeParam{Attrs: attrs, Lifetime: ast.NewLifetime(tok.Literal, tok.Span)}
	if p.atColon() {
		p.next()
		param.Bounds = p.parseLifetimeBounds()
	}
	if len(attrs) > 0 {
		start = attrs[0].Span()
	}
	param.SetSpan(p.spanFrom(start))
	return param
}

func (p *Parser) parseLifetimeBounds() []*ast.Lifetime {
	var out []*ast.Lifetime
	for p.at(lexer.LIFETIME) {
		tok := p.next()
		out = append(out, ast.NewLifetime(tok.Literal, tok.Span))
		if !p.eat(lexer.PLUS) {
			break
		}
	}
	return out
}

// parseGenerics parses an optional `<...>` parameter list. The where clause
// is attached later by parseWhere.
func (p *Parser) parseGenerics() *ast.Generics {
	g := &ast.Generics{}
	if !p.at(lexer.LT) {
		return g
	}
	start := p.next().Span
	for !p.at(lexer.GT) {
		attrs := p.parseOuterAttrs()
		switch {
		case p.at(lexer.LIFETIME):
			g.Params = append(g.Params, p.parseLifetimeParam(attrs))
		case p.at(lexer.CONST):
			pstart := p.next().Span
			param := &ast.ConstParam{Attrs: attrs, Ident: p.parseIdent()}
			p.expect(lexer.COLON, "`:`")
			param.Type = p.parseType(true)
			if p.eat(lexer.ASSIGN) {
				param.Default = p.parseConstArgTokens()
			}
			param.SetSpan(p.spanFrom(pstart))
			g.Params = append(g.Params, param)
		default:
			pstart := p.cur().Span
			param := &ast.TypeParam{Attrs: attrs, Ident: p.parseIdent()}
			if p.atColon() {
				p.next()
				param.Bounds = p.parseBounds()
			}
			if p.eat(lexer.ASSIGN) {
				param.Default = p.parseType(true)
			}
			param.SetSpan(p.spanFrom(pstart))
			g.Params = append(g.Params, param)
		}
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.GT, "`>`")
	g.SetSpan(p.spanFrom(start))
	return g
}

// parseWhere parses an optional where clause into g, appending to any
// predicates already present.
func (p *Parser) parseWhere(g *ast.Generics) {
	if !p.at(lexer.WHERE) {
		return
	}
	start := p.next().Span
	if g.Where == nil {
		g.Where = &ast.WhereClause{}
		g.Where.SetSpan(start)
	}
	for p.atWherePredicateStart() {
		g.Where.Predicates = append(g.Where.Predicates, p.parseWherePredicate())
		if !p.eat(lexer.COMMA) {
			break
		}
	}
	g.Where.SetSpan(p.spanFrom(g.Where.Span()))
}

func (p *Parser) atWherePredicateStart() bool {
	switch p.cur().Type {
	case lexer.LBRACE, lexer.SEMICOLON, lexer.ASSIGN, lexer.EOF:
		return false
	}
	return true
}

func (p *Parser) parseWherePredicate() ast.WherePredicate {
	start := p.cur().Span
	if p.at(lexer.LIFETIME) {
		tok := p.next()
		pred := &ast.LifetimePredicate{Lifetime: ast.NewLifetime(tok.Literal, tok.Span)}
		p.expect(lexer.COLON, "`:`")
		pred.Bounds = p.parseLifetimeBounds()
		pred.SetSpan(p.spanFrom(start))
		return pred
	}

	pred := &ast.TypePredicate{}
	if p.at(lexer.FOR) {
		pred.Lifetimes = p.parseBoundLifetimes()
	}
	pred.Type = p.parseType(true)
	if !p.atColon() {
		p.reportExpectedError("`:`", p.cur())
	}
	p.next()
	pred.Bounds = p.parseBounds()
	pred.SetSpan(p.spanFrom(start))
	return pred
}

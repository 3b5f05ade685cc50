package gat

import (
	"github.com/cockroachdb/errors"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/lexer"
)

// errorAt builds an expansion diagnostic anchored at node.
func errorAt(code diag.Code, node ast.Node, msg string) diag.Diagnostic {
	var span lexer.Span
	if node != nil {
		span = node.Span()
	}
	return diag.New(code, span.ToDiag(), msg).WithPrimarySpan(span.ToDiag(), "")
}

// prefixed names the macro in every diagnostic carried by err.
func prefixed(macro string, err error) error {
	if err == nil {
		return nil
	}
	var de *diag.Error
	if errors.As(err, &de) {
		return de.WithPrefix(macro)
	}
	return errors.Wrapf(err, "`%s`", macro)
}

func lifetimeArgs(lts []*ast.Lifetime) []ast.GenericArg {
	out := make([]ast.GenericArg, 0, len(lts))
	for _, lt := range lts {
		arg := &ast.LifetimeArg{Lifetime: ast.CloneLifetime(lt)}
		arg.SetSpan(lt.Span())
		out = append(out, arg)
	}
	return out
}

func lifetimeParams(lts []*ast.Lifetime) []ast.GenericParam {
	out := make([]ast.GenericParam, 0, len(lts))
	for _, lt := range lts {
		param := &ast.LifetimeParam{Lifetime: ast.CloneLifetime(lt)}
		param.SetSpan(lt.Span())
		out = append(out, param)
	}
	return out
}

// boundLifetimes builds the `for<'a, 'b>` binder over lts.
func boundLifetimes(lts []*ast.Lifetime) *ast.BoundLifetimes {
	binder := &ast.BoundLifetimes{}
	for _, param := range lifetimeParams(lts) {
		binder.Params = append(binder.Params, param.(*ast.LifetimeParam))
	}
	return binder
}

// argsOrNil wraps args into an angle-bracketed list, or nil when there are
// none, so that `Trait<>` is never produced.
func argsOrNil(args []ast.GenericArg) ast.PathArgs {
	if len(args) == 0 {
		return nil
	}
	return &ast.AngleArgs{Args: args}
}

// pathWithArgs builds a single-segment path `name<args>`.
func pathWithArgs(name string, span lexer.Span, args []ast.GenericArg) *ast.Path {
	seg := &ast.PathSegment{Ident: ast.NewIdent(name, span), Args: argsOrNil(args)}
	seg.SetSpan(span)
	path := &ast.Path{Segments: []*ast.PathSegment{seg}}
	path.SetSpan(span)
	return path
}

// newAttribute builds an outer attribute `#[path args]` from source text.
func newAttribute(path, args string) *ast.Attribute {
	toks, _ := lexer.Tokenize("", args)
	return &ast.Attribute{Path: ast.NewPath(path), Tokens: toks[:len(toks)-1]}
}

// allowAttr silences lints on generated items.
func allowAttr() *ast.Attribute {
	return newAttribute("allow", "(warnings, clippy::all)")
}

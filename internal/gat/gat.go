package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/lexer"
	"github.com/malphas-lang/nougat/internal/parser"
)

const (
	attrMacro = "#[gat]"
	bangMacro = "Gat!"
)

// Attribute expands an item annotated with `#[gat]`. args holds the tokens
// following the attribute path, such as `(Item)` for an import.
//
// Traits and trait impls take no arguments; an import takes the names of
// the associated types whose auxiliary traits it should also bring into
// scope.
func Attribute(args []lexer.Token, item ast.Item) ([]ast.Item, error) {
	out, err := attribute(args, item)
	return out, prefixed(attrMacro, err)
}

func attribute(args []lexer.Token, item ast.Item) ([]ast.Item, error) {
	inner, err := attributeArgs(args)
	if err != nil {
		return nil, err
	}
	switch it := item.(type) {
	case *ast.TraitItem:
		if err := noArgs(inner); err != nil {
			return nil, err
		}
		return TransformTrait(it)
	case *ast.ImplItem:
		if err := noArgs(inner); err != nil {
			return nil, err
		}
		return TransformImpl(it)
	case *ast.UseItem:
		p := parser.NewFromTokens(inner)
		names := p.ParseIdentList()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return TransformUse(names, it)
	}
	return nil, diag.NewError(errorAt(diag.CodeGatUnsupportedItem, item,
		"expected a `trait`, an `impl… Trait for`, or a `use`"))
}

// attributeArgs strips the parentheses around the attribute arguments.
func attributeArgs(args []lexer.Token) ([]lexer.Token, error) {
	if len(args) > 0 && args[len(args)-1].Type == lexer.EOF {
		args = args[:len(args)-1]
	}
	if len(args) == 0 {
		return nil, nil
	}
	if args[0].Type == lexer.LPAREN && args[len(args)-1].Type == lexer.RPAREN {
		return args[1 : len(args)-1], nil
	}
	return nil, unexpectedArgs(args)
}

func noArgs(args []lexer.Token) error {
	if len(args) == 0 {
		return nil
	}
	return unexpectedArgs(args)
}

func unexpectedArgs(args []lexer.Token) error {
	span := lexer.Merge(args[0].Span, args[len(args)-1].Span)
	return diag.NewError(diag.New(diag.CodeGatUnexpectedArgs, span.ToDiag(), "unexpected arguments").
		WithPrimarySpan(span.ToDiag(), "").
		WithHelp("only `#[gat(Name, ..)] use ..;` takes arguments"))
}

// Macro expands the input of a `Gat!(...)` invocation. The input is one of
//
//   - a qualified path `<Ty as Trait>::Assoc<'a>`, rewritten strictly by
//     QualifiedPath after its inner types have been rewritten,
//   - an `impl Trait<Assoc<'a> = V>` type, rewritten by Bounds,
//   - an item, rewritten by Apply.
//
// Invocations nested in the input are expanded first.
func Macro(input []lexer.Token) (ast.Node, error) {
	node, err := expandMacro(input)
	return node, prefixed(bangMacro, err)
}

func expandMacro(input []lexer.Token) (ast.Node, error) {
	input, err := expandNestedCalls(input)
	if err != nil {
		return nil, err
	}

	if len(input) == 0 || input[0].Type != lexer.LT {
		p := parser.NewFromTokens(input)
		if ty, ok := p.ParseType().(*ast.ImplTraitType); ok && p.Err() == nil {
			return ast.RewriteTypeTree(pathRewriter{}, ty), nil
		}
		p = parser.NewFromTokens(input)
		item := p.ParseItem()
		if _, verbatim := item.(*ast.VerbatimItem); item != nil && !verbatim && p.Err() == nil {
			return Apply(item), nil
		}
	}

	p := parser.NewFromTokens(input)
	ty := p.ParseType()
	if err := p.Err(); err != nil {
		return nil, err
	}
	pt, ok := ty.(*ast.PathType)
	if !ok {
		return nil, diag.NewError(errorAt(diag.CodeGatExpectedQualifier, ty, "expected a qualified path"))
	}
	rewriteInner(pt)
	out, err := QualifiedPath(pt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// rewriteInner applies the tree-wide rewrite to the qualifier and
// arguments of pt but not to pt itself.
func rewriteInner(pt *ast.PathType) {
	r := pathRewriter{}
	if pt.QSelf != nil {
		pt.QSelf.Type = ast.RewriteTypeTree(r, pt.QSelf.Type)
	}
	for _, seg := range pt.Path.Segments {
		switch args := seg.Args.(type) {
		case *ast.AngleArgs:
			for _, arg := range args.Args {
				switch arg := arg.(type) {
				case *ast.TypeArg:
					arg.Type = ast.RewriteTypeTree(r, arg.Type)
				case *ast.AssocBinding:
					arg.Type = ast.RewriteTypeTree(r, arg.Type)
				case *ast.AssocConstraint:
					arg.Bounds = ast.RewriteBoundList(r, arg.Bounds)
				}
			}
		case *ast.ParenArgs:
			for i, in := range args.Inputs {
				args.Inputs[i] = ast.RewriteTypeTree(r, in)
			}
			args.Output = ast.RewriteTypeTree(r, args.Output)
		}
	}
}

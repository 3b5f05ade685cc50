package gat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
)

func TestAttributeDispatch(t *testing.T) {
	out, err := gat.Attribute(nil, parseItem(t, lendingIterator))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.IsType(t, &ast.TraitItem{}, out[0])

	out, err = gat.Attribute(tokens(t, "(Item)"), parseItem(t, "use a::LendingIterator;"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Contains(t, printItems(out[1:]), "use a::{LendingIterator__Item};")
}

func TestAttributeErrorsArePrefixed(t *testing.T) {
	tests := []struct {
		name string
		args string
		src  string
		code diag.Code
		msg  string
	}{
		{"arguments on trait", "(Item)", "trait T {}", diag.CodeGatUnexpectedArgs, "`#[gat]`: unexpected arguments"},
		{"struct", "", "struct S;", diag.CodeGatUnsupportedItem, "`#[gat]`: expected a `trait`, an `impl… Trait for`, or a `use`"},
		{"bad lgat", "", "trait T { type A<X>; }", diag.CodeGatNonLifetimeParam, "`#[gat]`: non-lifetime GATs are not supported"},
		{"use without names", "", "use a::T;", diag.CodeGatMissingAssocNames, "`#[gat]`: expected a list of associated type names, e.g. `#[gat(Item)]`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gat.Attribute(tokens(t, tt.args), parseItem(t, tt.src))
			d := single(t, err)
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.msg, d.Message)
		})
	}
}

func TestApplyRewritesDirectChildrenOnly(t *testing.T) {
	mod := parseItem(t, `mod m {
    type A<'a, I> = <I as Tr>::B<'a>;
    mod inner {
        type C<'a, I> = <I as Tr>::B<'a>;
    }
}`)
	out := gat.Apply(mod)
	assert.Equal(t, dedent(`
mod m {
    type A<'a, I> = <I as Tr__B<'a>>::T;
    mod inner {
        type C<'a, I> = <I as Tr>::B<'a>;
    }
}`), printItems([]ast.Item{out}))
}

func TestApplyRewritesBounds(t *testing.T) {
	fn := parseItem(t, "fn f<I>(i: I) where I: for<'a> LendingIterator<Item<'a> = &'a u8> {}")
	out := gat.Apply(fn)
	assert.Equal(t,
		"fn f<I>(i: I) where I: for<'a> LendingIterator + for<'a> LendingIterator__Item<'a, T = &'a u8> {}",
		printItems([]ast.Item{out}))
}

func TestApplyRewritesFunctionBodies(t *testing.T) {
	fn := parseItem(t, "fn f<'a, I>(x: I) { let y: <I as Tr>::B<'a> = todo!(<I as Tr>::B<'a>); let z = g::<<I as Tr>::B<'a>>(); }")
	out := gat.Apply(fn)
	assert.Equal(t,
		"fn f<'a, I>(x: I) { let y: <I as Tr__B<'a>>::T = todo!(<I as Tr>::B<'a>); let z = g::<<I as Tr__B<'a>>::T>(); }",
		printItems([]ast.Item{out}))
}

func TestApplySkipsItemsNestedInBodies(t *testing.T) {
	src := "fn f() { type X<'a, I> = <I as Tr>::B<'a>; let n: u8 = 0; }"
	out := gat.Apply(parseItem(t, src))
	assert.Equal(t, src, printItems([]ast.Item{out}))
}

package gat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/gat"
	"github.com/malphas-lang/nougat/internal/parser"
)

func implBounds(t *testing.T, src string) []ast.Bound {
	t.Helper()
	p := parser.New(src)
	ty, ok := p.ParseType().(*ast.ImplTraitType)
	require.NoError(t, p.Err())
	require.True(t, ok, "expected an impl Trait type")
	return ty.Bounds
}

func TestBounds(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{
			"impl LendingIterator<Item<'a> = &'a u8>",
			"impl LendingIterator + LendingIterator__Item<'a, T = &'a u8>",
		},
		{
			"impl Send + lib::Lend<'s, X, Out<'o> = Y, Extra = Z>",
			"impl Send + lib::Lend<'s, X, Extra = Z> + lib::Lend__Out<'o, 's, X, T = Y>",
		},
		{
			"impl Tr<'x, u8, Item<'a> = V>",
			"impl Tr<'x, u8> + Tr__Item<'a, 'x, u8, T = V>",
		},
		{
			"impl for<'a> Tr<A<'a> = &'a (), B<'a> = ()>",
			"impl for<'a> Tr + for<'a> Tr__A<'a, T = &'a ()> + for<'a> Tr__B<'a, T = ()>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bounds := implBounds(t, tt.in)
			out, changed := gat.Bounds(bounds)
			require.True(t, changed)
			assert.Equal(t, tt.want, ast.String(&ast.ImplTraitType{Bounds: out}))
		})
	}
}

func TestBoundsWithoutLifetimeBindings(t *testing.T) {
	bounds := implBounds(t, "impl Iterator<Item = u8> + 'static")
	out, changed := gat.Bounds(bounds)
	assert.False(t, changed)
	assert.Equal(t, "impl Iterator<Item = u8> + 'static", ast.String(&ast.ImplTraitType{Bounds: out}))
}

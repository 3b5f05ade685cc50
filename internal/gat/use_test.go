package gat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
)

func idents(names ...string) []*ast.Ident {
	out := make([]*ast.Ident, len(names))
	for i, n := range names {
		out[i] = &ast.Ident{Name: n}
	}
	return out
}

func TestTransformUse(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		names []string
		want  string
	}{
		{
			"renamed",
			"use crate::iter::LendingIterator as LI;",
			[]string{"Item"},
			"use crate::iter::{LendingIterator__Item as LI__Item};",
		},
		{
			"plain",
			"pub use ::lib::Container;",
			[]string{"Iter", "Keys"},
			"pub use ::lib::{Container__Iter, Container__Keys};",
		},
		{
			"underscore",
			"use lib::{Lend as _};",
			[]string{"Out"},
			"use lib::{Lend__Out as _};",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			use := parseItem(t, tt.src).(*ast.UseItem)
			out, err := gat.TransformUse(idents(tt.names...), use)
			require.NoError(t, err)
			require.Len(t, out, 2)
			assert.Equal(t, tt.src, printItems(out[:1]))
			assert.Equal(t, "#[doc(hidden)]\n/** Not part of the public API */\n"+tt.want, printItems(out[1:]))
		})
	}
}

func TestTransformUseRejects(t *testing.T) {
	use := parseItem(t, "use lib::{A, B};").(*ast.UseItem)
	_, err := gat.TransformUse(idents("Item"), use)
	assert.Equal(t, diag.CodeGatUnsupportedImport, single(t, err).Code)

	_, err = gat.TransformUse(nil, parseItem(t, "use lib::A;").(*ast.UseItem))
	assert.Equal(t, diag.CodeGatMissingAssocNames, single(t, err).Code)
}

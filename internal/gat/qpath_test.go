package gat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
)

func TestQualifiedPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<I as LendingIterator>::Item<'a>", "<I as LendingIterator__Item<'a>>::T"},
		{"<Self as Container<T>>::Iter<'a, 'b>", "<Self as Container__Iter<'a, 'b, T>>::T"},
		{"<Vec<u8> as crate::lib::Lend<'x, N>>::Out<'y>", "<Vec<u8> as crate::lib::Lend__Out<'y, 'x, N>>::T"},
		{"<&'s S as r#Trait>::r#Item<'s>", "<&'s S as Trait__Item<'s>>::T"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in := parsePathType(t, tt.in)
			out, err := gat.QualifiedPath(in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ast.String(out))
			assert.Equal(t, tt.in, ast.String(in), "input must be left untouched")
		})
	}
}

func TestQualifiedPathRejects(t *testing.T) {
	tests := []struct {
		in   string
		code diag.Code
		msg  string
	}{
		{"I::Item<'a>", diag.CodeGatExpectedQualifier, "expected a qualifier"},
		{"<I>::Item<'a>", diag.CodeGatExpectedAs, "expected `as`"},
		{"<I as Tr>::Item<'a>::Next", diag.CodeGatNestedAssocPath, "nested associated paths are not supported"},
		{"<I as Tr>::Item", diag.CodeGatMissingLifetimes, "missing lifetime generics"},
		{"<I as Tr>::Item<'a, U>", diag.CodeGatNonLifetimeArg, "only lifetime generics are supported"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := gat.QualifiedPath(parsePathType(t, tt.in))
			d := single(t, err)
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.msg, d.Message)
			assert.Equal(t, diag.StageExpand, d.Stage)
		})
	}
}

func TestAuxTraitName(t *testing.T) {
	assert.Equal(t, "LendingIterator__Item", gat.AuxTraitName("LendingIterator", "Item"))
	assert.Equal(t, "match__type", gat.AuxTraitName("r#match", "r#type"))
}

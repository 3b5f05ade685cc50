package gat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
)

const lendingIterator = `pub trait LendingIterator {
    type Item<'next> where Self: 'next;
    fn next(&mut self) -> Option<Self::Item<'_>>;
}`

func TestTransformTraitLendingIterator(t *testing.T) {
	trait := parseItem(t, lendingIterator).(*ast.TraitItem)
	out, err := gat.TransformTrait(trait)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, dedent(`
#[allow(warnings, clippy::all)]
pub trait LendingIterator__Item<'next, __ImplicitBounds = (&'next Self,)> {
    type T;
}
pub trait LendingIterator: for<'next> LendingIterator__Item<'next> {
    fn next(&mut self) -> Option<<Self as LendingIterator__Item<'_>>::T>;
}`), printItems(out))
	assert.Equal(t, lendingIterator, printItems([]ast.Item{trait}), "input must be left untouched")
}

func TestTransformTraitForwardsTraitGenerics(t *testing.T) {
	trait := parseItem(t, `trait Container<T>: Sized where T: Clone {
    /// Borrowing iterator.
    type Iter<'a>: Iterator<Item = &'a T> where Self: 'a, T: 'a;
    const LEN: usize;
}`).(*ast.TraitItem)
	out, err := gat.TransformTrait(trait)
	require.NoError(t, err)

	assert.Equal(t, dedent(`
/// Borrowing iterator.
#[allow(warnings, clippy::all)]
trait Container__Iter<'a, T, __ImplicitBounds = (&'a Self, &'a T)> where T: Clone {
    type T: Iterator<Item = &'a T>;
}
trait Container<T>: Sized + for<'a> Container__Iter<'a, T> where T: Clone {
    const LEN: usize;
}`), printItems(out))
}

func TestTransformTraitWithoutGATsIsIdentity(t *testing.T) {
	src := "trait Plain: Clone {\n    type Item;\n    fn get(&self) -> Self::Item;\n}"
	out, err := gat.TransformTrait(parseItem(t, src).(*ast.TraitItem))
	require.NoError(t, err)
	assert.Equal(t, src, printItems(out))
}

func TestTransformTraitRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
		col  int
	}{
		{"type parameter", "trait T { type A<X>; }", diag.CodeGatNonLifetimeParam, "non-lifetime GATs are not supported", 18},
		{"lifetime attribute", "trait T { type A<#[x] 'a>; }", diag.CodeGatLifetimeAttribute, "lifetime attributes are not supported", 18},
		{"lifetime bound", "trait T { type A<'a: 'static>; }", diag.CodeGatLifetimeBound, "lifetime bounds are not supported", 22},
		{"foreign lifetime", "trait T { type A<'a> where Self: 'b; }", diag.CodeGatUndeclaredLifetime, "expected a GAT-generic lifetime", 34},
		{"trait bound in where", "trait T { type A<'a> where Self: Clone; }", diag.CodeGatUnsupportedBound, "unsupported bound", 34},
		{"lifetime predicate", "trait T { type A<'a> where 'a: 'static; }", diag.CodeGatUnsupportedWhere, "unsupported `where` predicate", 28},
		{"higher ranked", "trait T { type A<'a> where for<'x> &'x Self: 'a; }", diag.CodeGatHigherRanked, "higher-order lifetimes are not supported", 32},
		{"default value", "trait T { type A<'a> = &'a u8; }", diag.CodeGatDefaultValue, "default GATs are not supported", 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gat.TransformTrait(parseItem(t, tt.src).(*ast.TraitItem))
			d := single(t, err)
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.msg, d.Message)
			assert.Equal(t, 1, d.Span.Line)
			assert.Equal(t, tt.col, d.Span.Column)
		})
	}
}

func TestTransformTraitReportsEveryViolation(t *testing.T) {
	_, err := gat.TransformTrait(parseItem(t, "trait T {\n    type A<X>;\n    type B<'a> = u8;\n}").(*ast.TraitItem))
	ds := diag.FromError(err)
	require.Len(t, ds, 2)
	assert.Equal(t, diag.CodeGatNonLifetimeParam, ds[0].Code)
	assert.Equal(t, diag.CodeGatDefaultValue, ds[1].Code)
	assert.Equal(t, 2, ds[0].Span.Line)
	assert.Equal(t, 3, ds[1].Span.Line)
}

func TestTransformImplLendingIterator(t *testing.T) {
	src := `impl<'s> LendingIterator for Windows<'s> {
    type Item<'next> = &'next mut [u8];
    fn next(&mut self) -> Option<Self::Item<'_>> { None }
}`
	impl := parseItem(t, src).(*ast.ImplItem)
	out, err := gat.TransformImpl(impl)
	require.NoError(t, err)

	assert.Equal(t, dedent(`
#[allow(warnings, clippy::all)]
impl<'next, 's> LendingIterator__Item<'next> for Windows<'s> {
    type T = &'next mut [u8];
}
impl<'s> LendingIterator for Windows<'s> {
    fn next(&mut self) -> Option<<Self as LendingIterator__Item<'_>>::T> { None }
}`), printItems(out))
	assert.Equal(t, src, printItems([]ast.Item{impl}))
}

func TestTransformImplKeepsTraitPathAndArgs(t *testing.T) {
	impl := parseItem(t, "impl<T: Clone> lib::Container<T> for Vec<T> {\n    type Iter<'a> = std::slice::Iter<'a, T> where Self: 'a;\n}").(*ast.ImplItem)
	out, err := gat.TransformImpl(impl)
	require.NoError(t, err)

	assert.Equal(t, dedent(`
#[allow(warnings, clippy::all)]
impl<'a, T: Clone> lib::Container__Iter<'a, T> for Vec<T> {
    type T = std::slice::Iter<'a, T>;
}
impl<T: Clone> lib::Container<T> for Vec<T> {}`), printItems(out))
}

func TestTransformImplRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
		col  int
	}{
		{"inherent impl", "impl S { type A<'a> = u8; }", diag.CodeGatExpectedTraitFor, "expected `TraitName for`", 6},
		{"negative impl", "impl !Tr for S {}", diag.CodeGatNegativeImpl, "negative impls are not supported", 7},
		{"visibility", "impl Tr for S { pub type A<'a> = u8; }", diag.CodeGatVisibility, "visibility is not supported", 17},
		{"specialization", "impl Tr for S { default type A<'a> = u8; }", diag.CodeGatSpecialization, "specialization (`default`) is not supported", 17},
		{"missing value", "impl Tr for S { type A<'a>; }", diag.CodeGatMissingValue, "missing associated type value", 22},
		{"parenthesized trait", "impl Fn(u8) for S { type A<'a> = u8; }", diag.CodeGatExpectedAngle, "expected angle brackets", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gat.TransformImpl(parseItem(t, tt.src).(*ast.ImplItem))
			d := single(t, err)
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.msg, d.Message)
			assert.Equal(t, 1, d.Span.Line)
			assert.Equal(t, tt.col, d.Span.Column)
		})
	}
}

func TestTransformTraitIsIdempotent(t *testing.T) {
	out, err := gat.TransformTrait(parseItem(t, lendingIterator).(*ast.TraitItem))
	require.NoError(t, err)
	first := printItems(out)

	again, err := gat.TransformTrait(out[1].(*ast.TraitItem))
	require.NoError(t, err)
	assert.Equal(t, printItems(out[1:]), printItems(again))

	applied := make([]ast.Item, 0, len(out))
	for _, item := range out {
		applied = append(applied, gat.Apply(ast.CloneItem(item)))
	}
	assert.Equal(t, first, printItems(applied))
}

func TestTransformImplIsIdempotent(t *testing.T) {
	src := "impl<'s> LendingIterator for Windows<'s> {\n    type Item<'next> = &'next mut [u8];\n    fn next(&mut self) -> Option<Self::Item<'_>> { None }\n}"
	out, err := gat.TransformImpl(parseItem(t, src).(*ast.ImplItem))
	require.NoError(t, err)

	again, err := gat.TransformImpl(out[1].(*ast.ImplItem))
	require.NoError(t, err)
	assert.Equal(t, printItems(out[1:]), printItems(again))
}

func TestTransformLeavesNestedItemsAlone(t *testing.T) {
	const nested = "mod m { type Z<'q> = Self::A<'q>; }"

	trait := parseItem(t, "trait T {\n    type A<'a>;\n    fn f(&self) {\n        "+nested+"\n    }\n}").(*ast.TraitItem)
	out, err := gat.TransformTrait(trait)
	require.NoError(t, err)
	assert.Contains(t, printItems(out), nested)

	impl := parseItem(t, "impl T for S {\n    type A<'a> = &'a u8;\n    fn f(&self) {\n        "+nested+"\n    }\n}").(*ast.ImplItem)
	out, err = gat.TransformImpl(impl)
	require.NoError(t, err)
	assert.Contains(t, printItems(out), nested)
}

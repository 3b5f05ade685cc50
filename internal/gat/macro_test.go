package gat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/gat"
)

func macroString(t *testing.T, src string) string {
	t.Helper()
	node, err := gat.Macro(tokens(t, src))
	require.NoError(t, err)
	if item, ok := node.(ast.Item); ok {
		return printItems([]ast.Item{item})
	}
	return ast.String(node)
}

func TestMacro(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"qualified path", "<I as LendingIterator>::Item<'a>", "<I as LendingIterator__Item<'a>>::T"},
		{
			"nested qualifier",
			"<<I as LendingIterator>::Item<'a> as Borrow<'b>>::Target<'c>",
			"<<I as LendingIterator__Item<'a>>::T as Borrow__Target<'c, 'b>>::T",
		},
		{
			"nested invocation",
			"<Gat!(<I as Lend>::Out<'a>) as Lend>::Out<'b>",
			"<<I as Lend__Out<'a>>::T as Lend__Out<'b>>::T",
		},
		{"impl trait", "impl LendingIterator<Item<'a> = &'a u8>", "impl LendingIterator + LendingIterator__Item<'a, T = &'a u8>"},
		{"item", "type Alias<'a, I> = <I as Lend>::Out<'a>;", "type Alias<'a, I> = <I as Lend__Out<'a>>::T;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, macroString(t, tt.in))
		})
	}
}

func TestMacroErrorsArePrefixed(t *testing.T) {
	_, err := gat.Macro(tokens(t, "<I as Lend>::Out"))
	d := single(t, err)
	assert.Equal(t, diag.CodeGatMissingLifetimes, d.Code)
	assert.Equal(t, "`Gat!`: missing lifetime generics", d.Message)

	_, err = gat.Macro(tokens(t, "&'a u8"))
	assert.Equal(t, diag.CodeGatExpectedQualifier, single(t, err).Code)
}

func TestFindMacroCalls(t *testing.T) {
	toks := tokens(t, `let x: Gat!(<I as T>::A<'a>) = nougat::Gat!(<J as T>::A<'b>);
macro_rules! m { () => { Gat!(skipped) } }
type Y = ::nougat::Gat![<K as T>::A<'c>];`)
	calls, err := gat.FindMacroCalls(toks)
	require.NoError(t, err)
	require.Len(t, calls, 3)

	want := []string{
		"Gat!(<I as T>::A<'a>)",
		"nougat::Gat!(<J as T>::A<'b>)",
		"::nougat::Gat![<K as T>::A<'c>]",
	}
	for i, call := range calls {
		assert.Equal(t, want[i], ast.TokensString(toks[call.Start:call.End]))
	}
	assert.Equal(t, "<J as T>::A<'b>", ast.TokensString(calls[1].Args))
	assert.Equal(t, 1, calls[0].Span(toks).Line)
	assert.Equal(t, 3, calls[2].Span(toks).Line)
}

func TestFindMacroCallsUnterminated(t *testing.T) {
	_, err := gat.FindMacroCalls(tokens(t, "type X = Gat!(<I as T>::A<'a>;"))
	assert.Equal(t, diag.CodeExpandUnterminatedCall, single(t, err).Code)
}

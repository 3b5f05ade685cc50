package gat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/lexer"
	"github.com/malphas-lang/nougat/internal/parser"
)

func parseItem(t *testing.T, src string) ast.Item {
	t.Helper()
	p := parser.New(src, parser.WithFilename("lib.rs"))
	item := p.ParseItem()
	require.NoError(t, p.Err(), "parse %q", src)
	return item
}

func parsePathType(t *testing.T, src string) *ast.PathType {
	t.Helper()
	p := parser.New(src)
	ty := p.ParseType()
	require.NoError(t, p.Err(), "parse %q", src)
	pt, ok := ty.(*ast.PathType)
	require.True(t, ok, "expected a path type, got %T", ty)
	return pt
}

// tokens lexes src without the trailing EOF.
func tokens(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, errs := lexer.Tokenize("lib.rs", src)
	require.Empty(t, errs)
	return toks[:len(toks)-1]
}

func printItems(items []ast.Item) string {
	return ast.PrintItems(items, "")
}

func dedent(s string) string {
	return strings.TrimPrefix(s, "\n")
}

// single returns the only diagnostic carried by err.
func single(t *testing.T, err error) diag.Diagnostic {
	t.Helper()
	require.Error(t, err)
	ds := diag.FromError(err)
	require.Len(t, ds, 1, "diagnostics: %v", ds)
	return ds[0]
}

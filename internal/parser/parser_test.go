package parser

import (
	"strings"
	"testing"

	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/lexer"
)

func parseItemOK(t *testing.T, input string) ast.Item {
	t.Helper()
	p := New(input, WithFilename("test.rs"))
	item := p.ParseItem()
	if err := p.Err(); err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return item
}

func TestParseTypeRoundTrip(t *testing.T) {
	tests := []string{
		"<I as LendingIterator>::Item<'a>",
		"<T>::Assoc",
		"::std::vec::Vec<T>",
		"Vec::<T>",
		"&'a mut [u8]",
		"*const u8",
		"[T; 4]",
		"()",
		"(A,)",
		"(A, B)",
		"!",
		"_",
		"impl for<'a> Fn(&'a str) -> bool + Send",
		"dyn Iterator<Item = u8> + 'static",
		"Trait<'a, T, 3, Assoc<'b> = X, Other: Bound>",
		"unsafe extern \"C\" fn(u8) -> !",
		"for<'a> fn(x: &'a u8) -> &'a u8",
		"m!(a, b)",
	}

	for _, input := range tests {
		p := New(input)
		ty := p.ParseType()
		if err := p.Err(); err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got := ast.String(ty); got != input {
			t.Fatalf("round trip mismatch:\n input: %s\n   got: %s", input, got)
		}
	}
}

func TestParseQualifiedPath(t *testing.T) {
	p := New("<Self as crate::Trait<T>>::Item<'a>")
	ty, ok := p.ParseType().(*ast.PathType)
	if !ok || p.Err() != nil {
		t.Fatalf("expected a path type, got %T (%v)", ty, p.Err())
	}
	if ty.QSelf == nil || !ty.QSelf.HasAs {
		t.Fatalf("expected an `as` qualifier")
	}
	if ty.QSelf.Position != 2 {
		t.Fatalf("expected qualifier position 2, got %d", ty.QSelf.Position)
	}
	if len(ty.Path.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(ty.Path.Segments))
	}
	last := ty.Path.Last()
	args, ok := last.Args.(*ast.AngleArgs)
	if !ok || len(args.Lifetimes()) != 1 {
		t.Fatalf("expected one lifetime argument on %q", last.Ident.Name)
	}
}

func TestParseItemRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trait", "pub trait LendingIterator {\n    type Item<'next> where Self: 'next;\n    fn next(&mut self) -> Option<Self::Item<'_>>;\n}"},
		{"supertraits", "trait A<T>: B + for<'x> C<'x> where T: Clone {}"},
		{"impl", "impl<'a, T: Clone> Trait<'a> for Wrapper<T> where T: 'a {}"},
		{"inherent impl", "impl S {\n    const N: usize = 1 + 2;\n}"},
		{"negative impl", "impl !Send for S {}"},
		{"use", "use ::a::{b as c, d::*, e};"},
		{"tuple struct", "pub(crate) struct S<T>(pub T, u8);"},
		{"unit struct", "struct U;"},
		{"named struct", "struct P<'a> {\n    x: &'a u8,\n}"},
		{"enum", "enum E {\n    A,\n    B(u8),\n    C {\n        x: u8,\n    },\n    D = 4,\n}"},
		{"fn", "fn f<T>(x: T) -> T where T: Copy { x }"},
		{"mod", "mod m {\n    fn a() {}\n}"},
		{"extern mod", "mod m;"},
		{"type alias", "type A<'a> = &'a str;"},
		{"default type", "default type Item<'a> = &'a T;"},
		{"static", "static mut COUNT: u32 = 0;"},
		{"attrs", "#[derive(Debug)]\n/// Docs.\nstruct S;"},
		{"const generics", "struct A<const N: usize = 3>;"},
		{"unsafe trait", "unsafe auto trait Marker {}"},
		{"union", "union U {\n    a: u8,\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := parseItemOK(t, tt.input)
			if _, ok := item.(*ast.VerbatimItem); ok {
				t.Fatalf("expected a structured item, got verbatim")
			}
			if got := ast.PrintItems([]ast.Item{item}, ""); got != tt.input {
				t.Fatalf("round trip mismatch:\n input: %q\n   got: %q", tt.input, got)
			}
		})
	}
}

func TestParseImplShape(t *testing.T) {
	impl, ok := parseItemOK(t, "unsafe impl<'a> Tr<'a> for &'a S {}").(*ast.ImplItem)
	if !ok {
		t.Fatalf("expected *ast.ImplItem")
	}
	if !impl.Unsafe {
		t.Fatalf("expected unsafe impl")
	}
	if impl.Trait == nil || impl.Trait.Last().Ident.Name != "Tr" {
		t.Fatalf("expected trait Tr, got %v", impl.Trait)
	}
	if _, ok := impl.SelfType.(*ast.RefType); !ok {
		t.Fatalf("expected a reference self type, got %T", impl.SelfType)
	}
}

func TestParseItemSpanCoversAttributes(t *testing.T) {
	item := parseItemOK(t, "#[gat]\ntrait T {}")
	span := item.Span()
	if span.Start != 0 || span.End != len("#[gat]\ntrait T {}") {
		t.Fatalf("expected span to cover the whole item, got [%d,%d)", span.Start, span.End)
	}
}

func TestParseFileKeepsUnmodeledItems(t *testing.T) {
	input := "macro_rules! m { () => {} }\nimpl Foo for {}\nstatic X: u8 = 1;\n// trailing\n"
	p := New(input)
	file := p.ParseFile()
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(file.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(file.Items))
	}
	for i, want := range []string{"macro_rules! m { () => {} }", "impl Foo for {}"} {
		v, ok := file.Items[i].(*ast.VerbatimItem)
		if !ok {
			t.Fatalf("item %d: expected verbatim, got %T", i, file.Items[i])
		}
		if got := ast.TokensString(v.Tokens); got != want {
			t.Fatalf("item %d: expected %q, got %q", i, want, got)
		}
	}
	if _, ok := file.Items[2].(*ast.ConstItem); !ok {
		t.Fatalf("expected a static item, got %T", file.Items[2])
	}
	if file.Trailing != "\n// trailing\n" {
		t.Fatalf("unexpected trailing trivia %q", file.Trailing)
	}
}

func TestParseFileInlineModules(t *testing.T) {
	p := New("mod outer {\n    mod inner {\n        trait T {}\n    }\n}")
	file := p.ParseFile()
	if p.Err() != nil {
		t.Fatalf("unexpected error: %v", p.Err())
	}
	outer := file.Items[0].(*ast.ModItem)
	inner := outer.Items[0].(*ast.ModItem)
	if _, ok := inner.Items[0].(*ast.TraitItem); !ok {
		t.Fatalf("expected a trait inside the nested module, got %T", inner.Items[0])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		msg   string
	}{
		{"missing semicolon", "use a::b", diag.CodeParseExpected, "expected `;`, found end of input"},
		{"trailing input", "struct S; struct T;", diag.CodeParseTrailingInput, "unexpected trailing input `struct`"},
		{"trait alias", "trait A = B;", diag.CodeParseUnexpectedToken, "trait aliases are not supported"},
		{"bad impl trait", "impl &S for T {}", diag.CodeParseUnexpectedToken, "expected a trait path before `for`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.input)
			p.ParseItem()
			errs := p.Errors()
			if len(errs) == 0 {
				t.Fatalf("expected a parse error")
			}
			if errs[0].Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, errs[0].Code)
			}
			if errs[0].Message != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, errs[0].Message)
			}
		})
	}
}

func TestParseFileUnbalancedFails(t *testing.T) {
	p := New("struct S { x: u8")
	p.ParseFile()
	if p.Err() == nil {
		t.Fatalf("expected an error for an unclosed brace")
	}
}

func TestErrCarriesLexerErrors(t *testing.T) {
	p := New(`const S: &str = "open;`)
	p.ParseFile()
	err := p.Err()
	if err == nil || !strings.Contains(err.Error(), "unterminated string literal") {
		t.Fatalf("expected the lexer error to surface, got %v", err)
	}
}

func tokens(t *testing.T, input string) []lexer.Token {
	t.Helper()
	toks, errs := lexer.Tokenize("", input)
	if len(errs) > 0 {
		t.Fatalf("lex %q: %v", input, errs)
	}
	return toks
}

func TestParseTypePrefix(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		consumed int
	}{
		{"u32 + 1", "u32", 1},
		{"Vec<T>, x", "Vec<T>", 4},
		{"<I as T>::A<'a>;", "<I as T>::A<'a>", 11},
		{"impl A + B", "impl A", 2},
	}
	for _, tt := range tests {
		ty, n, ok := ParseTypePrefix(tokens(t, tt.input))
		if !ok {
			t.Fatalf("%q: expected a type", tt.input)
		}
		if got := ast.String(ty); got != tt.want || n != tt.consumed {
			t.Fatalf("%q: expected %q using %d tokens, got %q using %d", tt.input, tt.want, tt.consumed, got, n)
		}
	}

	if _, _, ok := ParseTypePrefix(tokens(t, "= 3")); ok {
		t.Fatalf("expected no type at `=`")
	}
}

func TestParsePathPrefix(t *testing.T) {
	path, n, ok := ParsePathPrefix(tokens(t, "a::b::<T>::c < d"))
	if !ok {
		t.Fatalf("expected a path")
	}
	if got := ast.String(path); got != "a::b::<T>::c" {
		t.Fatalf("unexpected path %q", got)
	}
	if n != 12 {
		t.Fatalf("expected 12 tokens, got %d", n)
	}
}

func TestParseTurbofishPrefix(t *testing.T) {
	args, n, ok := ParseTurbofishPrefix(tokens(t, "::<'a, T>()"))
	if !ok {
		t.Fatalf("expected turbofish arguments")
	}
	if got := ast.String(args); got != "::<'a, T>" {
		t.Fatalf("unexpected arguments %q", got)
	}
	if n != 7 {
		t.Fatalf("expected 7 tokens, got %d", n)
	}
	if _, _, ok := ParseTurbofishPrefix(tokens(t, "::x")); ok {
		t.Fatalf("`::x` is not a turbofish")
	}
}

func TestParseIdentList(t *testing.T) {
	p := NewFromTokens(tokens(t, "Item, Other,"))
	ids := p.ParseIdentList()
	if p.Err() != nil || len(ids) != 2 || ids[1].Name != "Other" {
		t.Fatalf("unexpected result %v (%v)", ids, p.Err())
	}
}

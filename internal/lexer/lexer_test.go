package lexer

import (
	"strings"
	"testing"
)

type tokenCase struct {
	typ     TokenType
	literal string
}

func expectTokens(t *testing.T, input string, want []tokenCase) []Token {
	t.Helper()
	toks, errs := Tokenize("test.rs", input)
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt.typ {
			t.Fatalf("tokens[%d] - type wrong. expected=%q, got=%q", i, tt.typ, toks[i].Type)
		}
		if toks[i].Literal != tt.literal {
			t.Fatalf("tokens[%d] - literal wrong. expected=%q, got=%q", i, tt.literal, toks[i].Literal)
		}
	}
	return toks
}

func TestNextToken_TraitHeader(t *testing.T) {
	expectTokens(t, `pub trait LendingIterator { type Item<'next> where Self: 'next; }`, []tokenCase{
		{PUB, "pub"},
		{TRAIT, "trait"},
		{IDENT, "LendingIterator"},
		{LBRACE, "{"},
		{TYPE, "type"},
		{IDENT, "Item"},
		{LT, "<"},
		{LIFETIME, "'next"},
		{GT, ">"},
		{WHERE, "where"},
		{IDENT, "Self"},
		{COLON, ":"},
		{LIFETIME, "'next"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	})
}

func TestNextToken_PathKeywordsAreIdents(t *testing.T) {
	for _, word := range []string{"self", "Self", "super", "crate", "union", "auto", "default", "macro_rules"} {
		toks, _ := Tokenize("", word)
		if toks[0].Type != IDENT {
			t.Fatalf("%q: expected IDENT, got %q", word, toks[0].Type)
		}
	}
}

func TestNextToken_RawIdent(t *testing.T) {
	expectTokens(t, `r#type r#"raw "string""#`, []tokenCase{
		{IDENT, "r#type"},
		{STRING, `r#"raw "string""#`},
		{EOF, ""},
	})
}

func TestNextToken_LifetimesAndChars(t *testing.T) {
	expectTokens(t, `'a 'static '_ 'x' '\n' b'z'`, []tokenCase{
		{LIFETIME, "'a"},
		{LIFETIME, "'static"},
		{LIFETIME, "'_"},
		{CHAR, "'x'"},
		{CHAR, `'\n'`},
		{CHAR, "b'z'"},
		{EOF, ""},
	})
}

func TestNextToken_Numbers(t *testing.T) {
	expectTokens(t, `1_000 0xff_u8 3.14 1e9 2f32 1..2`, []tokenCase{
		{INT, "1_000"},
		{INT, "0xff_u8"},
		{FLOAT, "3.14"},
		{FLOAT, "1e9"},
		{FLOAT, "2f32"},
		{INT, "1"},
		{DOT, "."},
		{DOT, "."},
		{INT, "2"},
		{EOF, ""},
	})
}

func TestNextToken_Strings(t *testing.T) {
	expectTokens(t, `"a \" b" b"bytes" c"cstr" br"raw"`, []tokenCase{
		{STRING, `"a \" b"`},
		{STRING, `b"bytes"`},
		{STRING, `c"cstr"`},
		{STRING, `br"raw"`},
		{EOF, ""},
	})
}

func TestJointPunctuation(t *testing.T) {
	toks := expectTokens(t, `a::b -> c : :`, []tokenCase{
		{IDENT, "a"},
		{COLON, ":"},
		{COLON, ":"},
		{IDENT, "b"},
		{MINUS, "-"},
		{GT, ">"},
		{IDENT, "c"},
		{COLON, ":"},
		{COLON, ":"},
		{EOF, ""},
	})
	joint := []bool{false, true, false, false, true, false, false, false, false, false}
	for i, want := range joint {
		if toks[i].Joint != want {
			t.Fatalf("tokens[%d] %q - joint wrong. expected=%v, got=%v", i, toks[i].Literal, want, toks[i].Joint)
		}
	}
}

func TestTriviaIsKeptAsLeading(t *testing.T) {
	input := "fn  f() /* c */ {\n    // line\n    x\n}"
	toks, errs := Tokenize("", input)
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Leading)
		b.WriteString(tok.Literal)
	}
	if b.String() != input {
		t.Fatalf("leading trivia and literals do not round-trip:\n%q\n%q", b.String(), input)
	}
	if toks[1].Leading != "  " {
		t.Fatalf("expected two spaces before `f`, got %q", toks[1].Leading)
	}
	if toks[4].Leading != " /* c */ " {
		t.Fatalf("expected block comment before `{`, got %q", toks[4].Leading)
	}
}

func TestDocCommentsAreTokens(t *testing.T) {
	expectTokens(t, "/// outer\n//! inner\n//// plain\n/** block */ /*! inner block */ /**/ x", []tokenCase{
		{DOC_COMMENT, "/// outer"},
		{DOC_COMMENT, "//! inner"},
		{DOC_COMMENT, "/** block */"},
		{DOC_COMMENT, "/*! inner block */"},
		{IDENT, "x"},
		{EOF, ""},
	})
}

func TestNestedBlockComment(t *testing.T) {
	expectTokens(t, "a /* outer /* inner */ still outer */ b", []tokenCase{
		{IDENT, "a"},
		{IDENT, "b"},
		{EOF, ""},
	})
}

func TestSpansTrackLinesAndRunes(t *testing.T) {
	toks, _ := Tokenize("f.rs", "é\n  x")
	x := toks[1]
	if x.Span.Line != 2 || x.Span.Column != 3 {
		t.Fatalf("expected x at 2:3, got %d:%d", x.Span.Line, x.Span.Column)
	}
	if x.Span.Start != 4 || x.Span.End != 5 {
		t.Fatalf("expected rune offsets [4,5), got [%d,%d)", x.Span.Start, x.Span.End)
	}
	if x.Span.Filename != "f.rs" {
		t.Fatalf("expected filename f.rs, got %q", x.Span.Filename)
	}
}

func TestMergeSpans(t *testing.T) {
	a := Span{Line: 1, Column: 5, Start: 4, End: 6}
	b := Span{Line: 1, Column: 1, Start: 0, End: 2}
	got := Merge(a, b)
	if got.Start != 0 || got.End != 6 || got.Column != 1 {
		t.Fatalf("unexpected merged span %+v", got)
	}
	if Merge(Span{}, a) != a {
		t.Fatalf("merging with a zero span should return the other span")
	}
}

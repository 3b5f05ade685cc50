package lexer

import (
	"testing"

	"github.com/malphas-lang/nougat/internal/diag"
)

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    LexerErrorKind
		message string
		end     int
	}{
		{"unterminated string", `"hello`, ErrUnterminatedString, "unterminated string literal", 6},
		{"unterminated raw string", `r#"hello"`, ErrUnterminatedString, "unterminated raw string literal", 9},
		{"unterminated char", "'\\n", ErrUnterminatedChar, "unterminated character literal", 3},
		{"unterminated byte", "b'x", ErrUnterminatedChar, "unterminated byte literal", 3},
		{"unterminated block comment", "/* open /* nested */", ErrUnterminatedBlockComment, "unterminated block comment", 20},
		{"illegal rune", "`", ErrIllegalRune, "illegal character '`'", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Tokenize("bad.rs", tt.input)
			if len(errs) != 1 {
				t.Fatalf("expected 1 lexer error, got %d: %v", len(errs), errs)
			}
			err := errs[0]
			if err.Kind != tt.kind {
				t.Fatalf("expected kind %v, got %v", tt.kind, err.Kind)
			}
			if err.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, err.Message)
			}
			if err.Span.Line != 1 || err.Span.Column != 1 || err.Span.Start != 0 {
				t.Fatalf("expected span to start at 1:1, got %+v", err.Span)
			}
			if err.Span.End != tt.end {
				t.Fatalf("expected span end %d, got %d", tt.end, err.Span.End)
			}
			if err.Span.Filename != "bad.rs" {
				t.Fatalf("expected filename bad.rs, got %q", err.Span.Filename)
			}
		})
	}
}

func TestUnterminatedLiteralYieldsIllegalToken(t *testing.T) {
	toks, _ := Tokenize("", `x "open`)
	if toks[1].Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q", toks[1].Type)
	}
	if toks[1].Literal != `"open` {
		t.Fatalf("expected literal %q, got %q", `"open`, toks[1].Literal)
	}
	if toks[len(toks)-1].Type != EOF {
		t.Fatalf("expected the token stream to end in EOF")
	}
}

func TestLexerErrorToDiagnostic(t *testing.T) {
	err := LexerError{
		Kind:    ErrUnterminatedString,
		Message: "unterminated string literal",
		Span:    Span{Filename: "a.rs", Line: 1, Column: 3, Start: 2, End: 6},
	}
	d := err.ToDiagnostic()
	if d.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, d.Stage)
	}
	if d.Code != diag.CodeLexerUnterminatedString {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerUnterminatedString, d.Code)
	}
	if d.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, d.Severity)
	}
	want := diag.Span{Filename: "a.rs", Line: 1, Column: 3, Start: 2, End: 6}
	if d.Span != want {
		t.Fatalf("expected span %+v, got %+v", want, d.Span)
	}
}

package parser

import (
	"fmt"

	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/lexer"
)

// ParseError captures a parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
	Code     diag.Code
}

// ToDiagnostic converts the error into a parser-stage diagnostic.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	d := diag.New(e.Code, e.Span.ToDiag(), e.Message)
	d.Stage = diag.StageParser
	if e.Severity != "" {
		d.Severity = e.Severity
	}
	return d.WithPrimarySpan(e.Span.ToDiag(), "")
}

// bailout unwinds the parser to the nearest recovery point.
type bailout struct{}

func (p *Parser) emitParseDiagnostic(msg string, code diag.Code, span lexer.Span) {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}

	p.errors = append(p.errors, ParseError{
		Message:  msg,
		Span:     span,
		Severity: diag.SeverityError,
		Code:     code,
	})
}

// reportError records an error and abandons the current production.
func (p *Parser) reportError(msg string, span lexer.Span) {
	p.emitParseDiagnostic(msg, diag.CodeParseUnexpectedToken, span)
	panic(bailout{})
}

// reportExpectedError reports a missing token and abandons the current
// production.
func (p *Parser) reportExpectedError(expected string, found lexer.Token) {
	p.emitParseDiagnostic(fmt.Sprintf("expected %s, found %s", expected, describe(found)), diag.CodeParseExpected, found.Span)
	panic(bailout{})
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of input"
	}
	return "`" + tok.Literal + "`"
}

// Errors returns all parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Err folds lexer and parser errors into a single error, or nil.
func (p *Parser) Err() error {
	var ds []diag.Diagnostic
	for _, e := range p.lexErrors {
		ds = append(ds, e.ToDiagnostic())
	}
	for _, e := range p.errors {
		ds = append(ds, e.ToDiagnostic())
	}
	return diag.NewError(ds...)
}

// guard runs fn, turning a bailout into a false result. Errors recorded by
// fn are kept.
func (p *Parser) guard(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
			ok = false
		}
	}()
	fn()
	return true
}

// try runs fn speculatively. On failure the position is restored and any
// error fn recorded is discarded.
func (p *Parser) try(fn func()) bool {
	pos, n := p.pos, len(p.errors)
	if p.guard(fn) {
		return true
	}
	p.pos = pos
	p.errors = p.errors[:n]
	return false
}

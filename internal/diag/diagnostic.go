package diag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Stage identifies which phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
	StageExpand Stage = "expand"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// LabeledSpan represents a span with an optional label (like Rust's primary/secondary labels).
type LabeledSpan struct {
	Span  Span   `json:"span" yaml:"span"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Style string `json:"style" yaml:"style"` // "primary" or "secondary"
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedString       Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnterminatedBlockComment Code = "LEXER_UNTERMINATED_BLOCK_COMMENT"
	CodeLexerUnterminatedChar         Code = "LEXER_UNTERMINATED_CHAR"
	CodeLexerIllegalRune              Code = "LEXER_ILLEGAL_RUNE"

	// Parser errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseExpected        Code = "PARSE_EXPECTED"
	CodeParseTrailingInput   Code = "PARSE_TRAILING_INPUT"

	// Qualified path shape
	CodeGatExpectedQualifier   Code = "GAT_EXPECTED_QUALIFIER"
	CodeGatExpectedAs          Code = "GAT_EXPECTED_AS"
	CodeGatNestedAssocPath     Code = "GAT_NESTED_ASSOC_PATH"
	CodeGatMissingLifetimes    Code = "GAT_MISSING_LIFETIME_GENERICS"
	CodeGatExpectedAngle       Code = "GAT_EXPECTED_ANGLE_BRACKETS"
	CodeGatNonLifetimeArg      Code = "GAT_NON_LIFETIME_ARGUMENT"
	CodeGatExpectedQualifiedTy Code = "GAT_EXPECTED_QUALIFIED_PATH"

	// Associated type declarations
	CodeGatNonLifetimeParam    Code = "GAT_NON_LIFETIME_PARAM"
	CodeGatLifetimeAttribute   Code = "GAT_LIFETIME_ATTRIBUTE"
	CodeGatLifetimeBound       Code = "GAT_LIFETIME_BOUND"
	CodeGatUnsupportedWhere    Code = "GAT_UNSUPPORTED_WHERE_PREDICATE"
	CodeGatHigherRanked        Code = "GAT_HIGHER_RANKED_LIFETIME"
	CodeGatUnsupportedBound    Code = "GAT_UNSUPPORTED_BOUND"
	CodeGatUndeclaredLifetime  Code = "GAT_UNDECLARED_LIFETIME"
	CodeGatDefaultValue        Code = "GAT_DEFAULT_VALUE"
	CodeGatMissingValue        Code = "GAT_MISSING_VALUE"
	CodeGatVisibility          Code = "GAT_VISIBILITY"
	CodeGatSpecialization      Code = "GAT_SPECIALIZATION"
	CodeGatExpectedTraitFor    Code = "GAT_EXPECTED_TRAIT_FOR"
	CodeGatNegativeImpl        Code = "GAT_NEGATIVE_IMPL"
	CodeGatUnsupportedImport   Code = "GAT_UNSUPPORTED_IMPORT"
	CodeGatUnexpectedArgs      Code = "GAT_UNEXPECTED_ARGUMENTS"
	CodeGatMissingAssocNames   Code = "GAT_MISSING_ASSOC_NAMES"
	CodeGatUnsupportedItem     Code = "GAT_UNSUPPORTED_ITEM"
	CodeExpandUnterminatedCall Code = "EXPAND_UNTERMINATED_MACRO_CALL"
)

// Span represents a location in source code.
type Span struct {
	Filename string `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage    `json:"stage" yaml:"stage"`
	Severity Severity `json:"severity" yaml:"severity"`
	Code     Code     `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
	Span     Span     `json:"span" yaml:"span"`
	// LabeledSpans allows multiple spans with labels (like Rust's error format)
	// The first span is treated as primary, others as secondary
	LabeledSpans []LabeledSpan `json:"labels,omitempty" yaml:"labels,omitempty"`
	Notes        []string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Help         string        `json:"help,omitempty" yaml:"help,omitempty"`
}

// New builds an error diagnostic for the expansion stage.
func New(code Code, span Span, message string) Diagnostic {
	return Diagnostic{
		Stage:    StageExpand,
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Span:     span,
	}
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// Error reports one or more diagnostics as a single failure.
type Error struct {
	Diagnostics []Diagnostic
}

// NewError wraps diagnostics into an error. It returns nil when ds is empty.
func NewError(ds ...Diagnostic) error {
	if len(ds) == 0 {
		return nil
	}
	return &Error{Diagnostics: ds}
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return "no diagnostics"
	}
	first := e.Diagnostics[0]
	msg := first.Message
	if first.Span.IsValid() {
		msg = first.Span.String() + ": " + msg
	}
	if n := len(e.Diagnostics) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// WithPrefix returns a copy of e whose messages name the macro that
// produced them, e.g. "`#[gat]`: default GATs are not supported".
func (e *Error) WithPrefix(name string) *Error {
	out := &Error{Diagnostics: make([]Diagnostic, len(e.Diagnostics))}
	prefix := "`" + name + "`: "
	for i, d := range e.Diagnostics {
		if !strings.HasPrefix(d.Message, prefix) {
			d.Message = prefix + d.Message
		}
		out.Diagnostics[i] = d
	}
	return out
}

// Messages returns the diagnostic messages in order.
func (e *Error) Messages() []string {
	out := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		out[i] = d.Message
	}
	return out
}

// FromError returns the diagnostics carried by err. Any other error becomes
// a single diagnostic holding its message.
func FromError(err error) []Diagnostic {
	var de *Error
	if errors.As(err, &de) {
		return slices.Clone(de.Diagnostics)
	}
	return []Diagnostic{{
		Stage:    StageExpand,
		Severity: SeverityError,
		Message:  err.Error(),
	}}
}

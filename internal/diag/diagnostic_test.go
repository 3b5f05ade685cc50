package diag_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/nougat/internal/diag"
)

func sample() diag.Diagnostic {
	return diag.New(diag.CodeGatNonLifetimeArg,
		diag.Span{Filename: "lib.rs", Line: 2, Column: 20, Start: 30, End: 31},
		"non-lifetime GATs are not supported").
		WithHelp("only lifetime generics are supported")
}

func TestNewErrorIsNilWithoutDiagnostics(t *testing.T) {
	assert.NoError(t, diag.NewError())
}

func TestErrorMessage(t *testing.T) {
	err := diag.NewError(sample(), sample())
	assert.Equal(t, "lib.rs:2:20: non-lifetime GATs are not supported (and 1 more)", err.Error())
}

func TestWithPrefixIsIdempotent(t *testing.T) {
	var de *diag.Error
	require.True(t, errors.As(diag.NewError(sample()), &de))

	once := de.WithPrefix("#[gat]")
	twice := once.WithPrefix("#[gat]")
	assert.Equal(t, []string{"`#[gat]`: non-lifetime GATs are not supported"}, twice.Messages())
	assert.Equal(t, "non-lifetime GATs are not supported", de.Diagnostics[0].Message, "original must be untouched")
}

func TestFromError(t *testing.T) {
	wrapped := errors.Wrap(diag.NewError(sample()), "context")
	ds := diag.FromError(wrapped)
	require.Len(t, ds, 1)
	assert.Equal(t, diag.CodeGatNonLifetimeArg, ds[0].Code)

	plain := diag.FromError(errors.New("boom"))
	require.Len(t, plain, 1)
	assert.Equal(t, "boom", plain[0].Message)
	assert.Equal(t, diag.SeverityError, plain[0].Severity)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "human"} {
		f, err := diag.ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, diag.FormatHuman, f)
	}
	_, err := diag.ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, diag.WriteReport(&buf, diag.FormatJSON, diag.Report{
		Files:       []string{"lib.rs"},
		Diagnostics: []diag.Diagnostic{sample()},
	}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	ds := got["diagnostics"].([]any)
	require.Len(t, ds, 1)
	first := ds[0].(map[string]any)
	assert.Equal(t, string(diag.CodeGatNonLifetimeArg), first["code"])
	assert.Equal(t, "lib.rs", first["span"].(map[string]any)["file"])
}

func TestWriteReportYAMLEmitsEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, diag.WriteReport(&buf, diag.FormatYAML, diag.Report{Files: []string{"a.rs"}}))

	var got struct {
		Files       []string         `yaml:"files"`
		Diagnostics []map[string]any `yaml:"diagnostics"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"a.rs"}, got.Files)
	assert.Contains(t, buf.String(), "diagnostics: []")
}

func TestWriteReportRejectsHuman(t *testing.T) {
	assert.Error(t, diag.WriteReport(&bytes.Buffer{}, diag.FormatHuman, diag.Report{}))
}

func TestFormatterPrintsSnippet(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.SetColor(false)
	f.AddSource("lib.rs", "trait T {\n    type Item<T>;\n}\n")

	d := diag.New(diag.CodeGatNonLifetimeArg,
		diag.Span{Filename: "lib.rs", Line: 2, Column: 15, Start: 24, End: 25},
		"non-lifetime GATs are not supported")
	f.FormatAll([]diag.Diagnostic{d})

	out := buf.String()
	assert.Contains(t, out, "non-lifetime GATs are not supported")
	assert.Contains(t, out, "lib.rs:2:15")
	assert.Contains(t, out, "type Item<T>;")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "could not expand due to 1 previous error"))
}

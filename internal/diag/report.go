package diag

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects how diagnostics are rendered.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatHuman:
		return FormatHuman, nil
	case FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown diagnostics format %q (want human, json or yaml)", s)
}

// Report is the machine-readable envelope for one run.
type Report struct {
	Files       []string     `json:"files" yaml:"files"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// WriteReport encodes r in a machine-readable format.
func WriteReport(w io.Writer, format Format, r Report) error {
	if r.Diagnostics == nil {
		r.Diagnostics = []Diagnostic{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q is not machine-readable", format)
}

package lsp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/malphas-lang/nougat/internal/diag"
)

// TextDocumentHover previews the expansion of the macro site under the
// cursor.
func (s *Server) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (result *protocol.Hover, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("panic in hover handler", "panic", r, "uri", params.TextDocument.URI)
			result, err = nil, nil
		}
	}()

	doc, ok := s.document(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	pos := positionToOffset(doc.Content, int(params.Position.Line), int(params.Position.Character))
	if pos < 0 {
		return nil, nil
	}

	pv, ok := s.exp.PreviewAt(uriToPath(doc.URI), doc.Content, pos)
	if !ok {
		return nil, nil
	}
	s.log.Debugw("hover preview", "uri", doc.URI, "macro", pv.Macro, "failed", pv.Err != nil)

	var b strings.Builder
	if pv.Err != nil {
		fmt.Fprintf(&b, "**%s** does not expand:\n\n", pv.Macro)
		for _, d := range diag.FromError(pv.Err) {
			fmt.Fprintf(&b, "- %s\n", d.Message)
		}
	} else {
		fmt.Fprintf(&b, "**%s** expands to\n\n", pv.Macro)
		b.WriteString("```rust\n")
		b.WriteString(strings.TrimRight(pv.Text, "\n"))
		b.WriteString("\n```\n")
	}

	rng := protocol.Range{
		Start: offsetToPosition(doc.Content, pv.Span.Start),
		End:   offsetToPosition(doc.Content, pv.Span.End),
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &rng,
	}, nil
}

// positionToOffset converts a zero-based line and character to a rune
// offset, or -1 when the line does not exist. Characters past the end of a
// line clamp to its end.
func positionToOffset(content string, line, character int) int {
	runes := []rune(content)
	offset := 0
	for l := 0; l < line; l++ {
		for offset < len(runes) && runes[offset] != '\n' {
			offset++
		}
		if offset == len(runes) {
			return -1
		}
		offset++
	}
	for c := 0; c < character && offset < len(runes) && runes[offset] != '\n'; c++ {
		offset++
	}
	return offset
}

// offsetToPosition is the inverse of positionToOffset.
func offsetToPosition(content string, offset int) protocol.Position {
	var line, col protocol.UInteger
	for i, r := range []rune(content) {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return protocol.Position{Line: line, Character: col}
}

// uriToPath converts a file URI to a path, leaving anything else as is.
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	path := u.Path
	// file:///C:/x parses to /C:/x.
	if len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path
}

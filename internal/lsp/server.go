// Package lsp serves nougat diagnostics and expansion previews over the
// Language Server Protocol.
package lsp

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/malphas-lang/nougat/internal/diag"
	"github.com/malphas-lang/nougat/internal/expand"
	"github.com/malphas-lang/nougat/internal/version"
)

const (
	serverName = "nougat"

	// maxDocuments caps the open-document cache.
	maxDocuments = 200
)

// Server tracks open documents and re-expands them on every change.
type Server struct {
	exp     *expand.Expander
	log     *zap.SugaredLogger
	handler protocol.Handler

	mu        sync.RWMutex
	documents map[string]*Document
}

// Document is an open file and the outcome of its last expansion.
type Document struct {
	URI     string
	Content string
	Version int32
	Result  *expand.Result
}

// NewServer returns a server expanding with exp.
func NewServer(exp *expand.Expander, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		exp:       exp,
		log:       log,
		documents: make(map[string]*Document),
	}
	s.handler = protocol.Handler{
		Initialize:            s.Initialize,
		Initialized:           s.Initialized,
		Shutdown:              s.Shutdown,
		SetTrace:              s.SetTrace,
		TextDocumentDidOpen:   s.TextDocumentDidOpen,
		TextDocumentDidChange: s.TextDocumentDidChange,
		TextDocumentDidClose:  s.TextDocumentDidClose,
		TextDocumentHover:     s.TextDocumentHover,
	}
	return s
}

// RunStdio serves a single client over stdin and stdout until it exits.
func (s *Server) RunStdio() error {
	srv := glspserver.NewServer(&s.handler, serverName, false)
	s.log.Infow("serving LSP over stdio")
	return srv.RunStdio()
}

// Initialize advertises full-document sync and hover.
func (s *Server) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.log.Infow("LSP client initializing", "client", params.ClientInfo)

	syncKind := protocol.TextDocumentSyncKindFull
	openClose := true
	v := version.Get().Version
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			HoverProvider: &protocol.HoverOptions{},
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: &openClose,
				Change:    &syncKind,
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &v,
		},
	}, nil
}

func (s *Server) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Debugw("LSP client initialized")
	return nil
}

func (s *Server) Shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.log.Infow("LSP client shutting down")
	return nil
}

func (s *Server) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen expands the document and publishes its diagnostics.
func (s *Server) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.mu.Lock()
	if _, exists := s.documents[uri]; !exists && len(s.documents) >= maxDocuments {
		s.mu.Unlock()
		s.log.Warnw("document cache limit reached", "uri", uri, "max", maxDocuments)
		return errors.Newf("document cache limit reached (%d documents open)", maxDocuments)
	}
	doc := &Document{
		URI:     uri,
		Content: params.TextDocument.Text,
		Version: int32(params.TextDocument.Version),
	}
	s.update(doc)
	s.documents[uri] = doc
	snap := *doc
	s.mu.Unlock()

	s.log.Debugw("document opened", "uri", uri, "length", len(snap.Content))
	s.publish(ctx, snap)
	return nil
}

// TextDocumentDidChange takes the last whole-document change.
func (s *Server) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.mu.Lock()
	doc, ok := s.documents[uri]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	changed := false
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc.Content = whole.Text
			changed = true
		}
	}
	if changed {
		doc.Version = int32(params.TextDocument.Version)
		s.update(doc)
	}
	snap := *doc
	s.mu.Unlock()

	s.log.Debugw("document changed", "uri", uri, "changes", len(params.ContentChanges))
	if changed {
		s.publish(ctx, snap)
	}
	return nil
}

// TextDocumentDidClose forgets the document and clears its diagnostics.
func (s *Server) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.mu.Lock()
	delete(s.documents, uri)
	s.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	s.log.Debugw("document closed", "uri", uri)
	return nil
}

// document returns a snapshot of an open document.
func (s *Server) document(uri string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[uri]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// update re-expands doc. Callers hold s.mu.
func (s *Server) update(doc *Document) {
	doc.Result = s.exp.Source(uriToPath(doc.URI), doc.Content)
}

func (s *Server) publish(ctx *glsp.Context, doc Document) {
	res := doc.Result
	out := make([]protocol.Diagnostic, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		out = append(out, toProtocol(d, res.DiagSource))
	}
	version := protocol.UInteger(doc.Version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(doc.URI),
		Version:     &version,
		Diagnostics: out,
	})
}

// toProtocol converts d, whose span refers to src.
func toProtocol(d diag.Diagnostic, src string) protocol.Diagnostic {
	start := protocol.Position{}
	if d.Span.Line > 0 {
		start = protocol.Position{
			Line:      protocol.UInteger(d.Span.Line - 1),
			Character: protocol.UInteger(max(d.Span.Column-1, 0)),
		}
	}
	end := start
	if d.Span.End > d.Span.Start {
		end = offsetToPosition(src, d.Span.End)
	}

	severity := diagnosticSeverity(d.Severity)
	source := serverName
	message := d.Message
	if d.Help != "" {
		message += "\nhelp: " + d.Help
	}
	pd := protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
	if d.Code != "" {
		pd.Code = &protocol.IntegerOrString{Value: string(d.Code)}
	}
	return pd
}

func diagnosticSeverity(sev diag.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.SeverityNote:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

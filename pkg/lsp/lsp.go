// Package lsp serves Lox diagnostics to editors over the Language Server
// Protocol.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/runtime"
)

const lspName = "lox-lsp"

var log = commonlog.GetLogger("lox.lsp")

// Server checks open documents and publishes their diagnostics.
type Server struct {
	mu   sync.Mutex
	docs map[protocol.DocumentUri]string

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// New creates a language server reporting the given version.
func New(version string) *Server {
	s := &Server{
		docs:    make(map[protocol.DocumentUri]string),
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)
	return s
}

// Run serves on stdio until the client disconnects.
func (s *Server) Run() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("language server initializing")

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()

	s.publish(ctx, uri, text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// Full sync: the last event carries the whole document.
	if len(params.ContentChanges) == 0 {
		return nil
	}
	whole, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		log.Warningf("%s: ignoring incremental change event", uri)
		return nil
	}

	s.mu.Lock()
	s.docs[uri] = whole.Text
	s.mu.Unlock()

	s.publish(ctx, uri, whole.Text)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diags := runtime.Check(text, string(uri))
	log.Debugf("%s: %d diagnostics", uri, len(diags))
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: ToProtocol(diags),
	})
}

// ToProtocol converts Lox diagnostics to LSP diagnostics. Lox lines and
// columns are 1-based; LSP positions are 0-based. The range covers the
// offending lexeme, or one character when its length is unknown.
func ToProtocol(diags []diagnostics.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		line := protocol.UInteger(max(d.Line-1, 0))
		col := protocol.UInteger(max(d.Column-1, 0))
		length := protocol.UInteger(max(d.Length, 1))

		severity := protocol.DiagnosticSeverityError
		if !d.IsError() {
			severity = protocol.DiagnosticSeverityWarning
		}
		source := lspName

		message := d.Message
		if d.Hint != "" {
			message += " (" + d.Hint + ")"
		}

		result = append(result, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + length},
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   &source,
			Message:  message,
		})
	}
	return result
}

func boolPtr(b bool) *bool {
	return &b
}

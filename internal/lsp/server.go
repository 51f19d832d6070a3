// Package lsp serves script outlines and references to editors over the
// Language Server Protocol.
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/mvp-joe/scriptlens/internal/syntax"
	"github.com/mvp-joe/scriptlens/internal/workspace"
)

// Custom request methods.
const (
	MethodOutline    = "scriptlens/outline"
	MethodReferences = "scriptlens/references"
)

// ReferencesParams are the parameters of a scriptlens/references request.
// Roots falls back to the server defaults when empty.
type ReferencesParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Roots        []string                        `json:"roots,omitempty"`
}

// OutlineParams are the parameters of a scriptlens/outline request.
type OutlineParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

var errShutdown = &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "server is shutting down"}

// Server answers LSP requests from the documents the client syncs. Requests
// are handled in arrival order on the connection's read loop, so a request
// always sees every preceding didOpen or didChange.
type Server struct {
	svc          *workspace.Service
	defaultRoots []string
	logger       *slog.Logger

	mu       sync.Mutex
	shutdown bool
}

// NewServer creates a language server over svc.
func NewServer(svc *workspace.Service, defaultRoots []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:          svc,
		defaultRoots: defaultRoots,
		logger:       logger,
	}
}

// Serve runs the protocol over rwc until the client disconnects, sends exit,
// or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))

	s.logger.Info("language server started")
	select {
	case <-conn.DisconnectNotify():
		s.logger.Info("language server stopped")
		return nil
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	}
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	s.logger.Debug("lsp message", "method", req.Method, "notification", req.Notif)

	if req.Method == "exit" {
		return nil, conn.Close()
	}
	if s.isShutdown() && !req.Notif {
		return nil, errShutdown
	}

	switch req.Method {
	case "initialize":
		return s.initialize(req)
	case "initialized":
		return nil, nil
	case "shutdown":
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		return nil, nil
	case "textDocument/didOpen":
		return nil, s.didOpen(req)
	case "textDocument/didChange":
		return nil, s.didChange(req)
	case "textDocument/didClose":
		return nil, s.didClose(req)
	case "textDocument/documentSymbol":
		return s.documentSymbol(ctx, req)
	case MethodOutline:
		return s.outline(ctx, req)
	case MethodReferences:
		return s.references(ctx, req)
	}

	if req.Notif {
		return nil, nil
	}
	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("method not supported: %s", req.Method)}
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

func (s *Server) initialize(req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.InitializeParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	if params.ClientInfo != nil {
		s.logger.Info("client connected", "client", params.ClientInfo.Name, "version", params.ClientInfo.Version)
	}

	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentSymbolProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "scriptlens",
			Version: "1.0.0",
		},
	}, nil
}

func (s *Server) didOpen(req *jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return err
	}
	doc := params.TextDocument
	uri := string(doc.URI)

	lang, err := languageOf(uri, string(doc.LanguageID))
	if err != nil {
		s.logger.Debug("ignoring document", "uri", uri, "language", doc.LanguageID)
		return nil
	}
	s.svc.Workspace().Open(uri, lang, doc.Version, []byte(doc.Text))
	return nil
}

func (s *Server) didChange(req *jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return err
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync: the last change carries the whole document.
	uri := string(params.TextDocument.URI)
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	err := s.svc.Workspace().Update(uri, params.TextDocument.Version, []byte(text))
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		s.logger.Debug("change for unopened document", "uri", uri)
	case errors.Is(err, workspace.ErrStaleVersion):
		s.logger.Warn("dropping stale change", "uri", uri, "version", params.TextDocument.Version)
	}
	return nil
}

func (s *Server) didClose(req *jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := decodeParams(req, &params); err != nil {
		return err
	}
	_ = s.svc.Workspace().Close(string(params.TextDocument.URI))
	return nil
}

func (s *Server) documentSymbol(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.DocumentSymbolParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	return DocumentSymbols(s.svc.Outline(ctx, string(params.TextDocument.URI))), nil
}

func (s *Server) outline(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params OutlineParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	return s.svc.Outline(ctx, string(params.TextDocument.URI)), nil
}

func (s *Server) references(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params ReferencesParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	roots := params.Roots
	if len(roots) == 0 {
		roots = s.defaultRoots
	}
	return s.svc.References(ctx, string(params.TextDocument.URI), roots).Lists(), nil
}

// languageOf prefers the client's language id and falls back to the file extension.
func languageOf(uri, languageID string) (syntax.Language, error) {
	if lang, err := syntax.LanguageForID(languageID); err == nil {
		return lang, nil
	}
	return syntax.LanguageForPath(uri)
}

func decodeParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

package lsp

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/mvp-joe/scriptlens/internal/analysis"
	"github.com/mvp-joe/scriptlens/internal/workspace"
)

// Test Plan for the language server:
// - initialize advertises full sync and document symbols
// - didOpen followed by documentSymbol returns a nested symbol tree
// - didChange is reflected by the next references request
// - stale changes are dropped
// - scriptlens/outline returns the flat outline
// - documents in unsupported languages are ignored
// - unknown requests fail with MethodNotFound
// - after shutdown requests fail; exit ends Serve

var testRoots = []string{"Things", "Items", "Users"}

type testClient struct {
	conn *jsonrpc2.Conn
	done chan error
}

func startServer(t *testing.T) *testClient {
	t.Helper()

	svc, err := workspace.NewService(workspace.New(nil), workspace.CacheOptions{MaxEntries: 64}, nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	serverSide, clientSide := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewServer(svc, testRoots, nil).Serve(ctx, serverSide)
	}()

	stream := jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(
		func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (interface{}, error) {
			return nil, nil
		},
	))

	client := &testClient{conn: conn, done: done}
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return client
}

func (c *testClient) open(t *testing.T, uri, languageID string, version int32, text string) {
	t.Helper()
	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didOpen", protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentURI(uri),
			LanguageID: protocol.LanguageIdentifier(languageID),
			Version:    version,
			Text:       text,
		},
	}))
}

func (c *testClient) change(t *testing.T, uri string, version int32, text string) {
	t.Helper()
	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didChange", protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Version:                version,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: text}},
	}))
}

func (c *testClient) references(t *testing.T, uri string, roots []string) map[string][]string {
	t.Helper()
	var result map[string][]string
	require.NoError(t, c.conn.Call(context.Background(), MethodReferences, ReferencesParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
		Roots:        roots,
	}, &result))
	return result
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()

	client := startServer(t)

	var result protocol.InitializeResult
	require.NoError(t, client.conn.Call(context.Background(), "initialize", protocol.InitializeParams{
		ClientInfo: &protocol.ClientInfo{Name: "test-editor", Version: "0.1"},
	}, &result))

	assert.Equal(t, true, result.Capabilities.DocumentSymbolProvider)
	assert.NotNil(t, result.Capabilities.TextDocumentSync)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "scriptlens", result.ServerInfo.Name)

	require.NoError(t, client.conn.Notify(context.Background(), "initialized", protocol.InitializedParams{}))
}

func TestServer_DocumentSymbols(t *testing.T) {
	t.Parallel()

	client := startServer(t)
	uri := "file:///rules/lamp.ts"
	client.open(t, uri, "typescript", 1, "class Lamp {\n  on() {}\n}\nfunction helper() {}\n")

	var symbols []protocol.DocumentSymbol
	require.NoError(t, client.conn.Call(context.Background(), "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}, &symbols))

	require.Len(t, symbols, 2)
	assert.Equal(t, "Lamp", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindClass, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "on", symbols[0].Children[0].Name)
	assert.Equal(t, protocol.SymbolKindMethod, symbols[0].Children[0].Kind)
	assert.Equal(t, uint32(1), symbols[0].Children[0].Range.Start.Line)
	assert.Equal(t, "helper", symbols[1].Name)
	assert.Equal(t, uint32(3), symbols[1].Range.Start.Line)
}

func TestServer_ChangeUpdatesReferences(t *testing.T) {
	t.Parallel()

	client := startServer(t)
	uri := "file:///rules/switch.js"
	client.open(t, uri, "javascript", 1, `Items.Switch.state`)

	assert.Equal(t, map[string][]string{
		"Things": {},
		"Items":  {"Switch"},
		"Users":  {},
	}, client.references(t, uri, nil))

	client.change(t, uri, 2, `Items.Dimmer.value; Things["fan"]`)
	assert.Equal(t, map[string][]string{
		"Items":  {"Dimmer"},
		"Things": {"fan"},
	}, client.references(t, uri, []string{"Items", "Things"}))

	// Older versions never overwrite newer text.
	client.change(t, uri, 1, `Items.Stale`)
	assert.Equal(t, map[string][]string{"Items": {"Dimmer"}}, client.references(t, uri, []string{"Items"}))
}

func TestServer_Outline(t *testing.T) {
	t.Parallel()

	client := startServer(t)
	uri := "file:///rules/api.ts"
	client.open(t, uri, "typescript", 1, `const api = { ping() {} }`)

	var tokens []analysis.OutlineToken
	require.NoError(t, client.conn.Call(context.Background(), MethodOutline, OutlineParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}, &tokens))

	assert.Equal(t, []analysis.OutlineToken{
		{Name: "api", Kind: analysis.KindObjectLiteral, Ordinal: 1},
		{Name: "ping", Kind: analysis.KindMethod, Ordinal: 2, IndentAmount: 1},
	}, tokens)
}

func TestServer_UnsupportedLanguageIgnored(t *testing.T) {
	t.Parallel()

	client := startServer(t)
	uri := "file:///notes/readme.md"
	client.open(t, uri, "markdown", 1, "# Things.a")

	var symbols []protocol.DocumentSymbol
	require.NoError(t, client.conn.Call(context.Background(), "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}, &symbols))
	assert.Empty(t, symbols)
}

func TestServer_UnknownMethod(t *testing.T) {
	t.Parallel()

	client := startServer(t)

	var result interface{}
	err := client.conn.Call(context.Background(), "textDocument/hover", map[string]interface{}{}, &result)
	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr), "expected rpc error, got %v", err)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
}

func TestServer_ShutdownAndExit(t *testing.T) {
	t.Parallel()

	client := startServer(t)
	ctx := context.Background()

	var result interface{}
	require.NoError(t, client.conn.Call(ctx, "shutdown", nil, &result))

	err := client.conn.Call(ctx, MethodOutline, OutlineParams{}, &result)
	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr), "expected rpc error, got %v", err)
	assert.Equal(t, int64(jsonrpc2.CodeInvalidRequest), rpcErr.Code)

	require.NoError(t, client.conn.Notify(ctx, "exit", nil))
	select {
	case err := <-client.done:
		assert.NoError(t, err)
		client.done <- err
	case <-time.After(5 * time.Second):
		t.Fatal("exit did not stop the server")
	}
}

func TestDocumentSymbols_Nesting(t *testing.T) {
	t.Parallel()

	tokens := []analysis.OutlineToken{
		{Name: "outer", Kind: analysis.KindFunction, Ordinal: 1, Line: 0, IndentAmount: 0},
		{Name: "Inner", Kind: analysis.KindClass, Ordinal: 2, Line: 1, IndentAmount: 1},
		{Name: "run", Kind: analysis.KindMethod, Ordinal: 3, Line: 2, IndentAmount: 2},
		{Name: "x", Kind: analysis.KindGet, Ordinal: 4, Line: 3, IndentAmount: 2},
		{Name: "sibling", Kind: analysis.KindFunction, Ordinal: 5, Line: 6, IndentAmount: 0},
		{Name: "toggle", Kind: analysis.KindMethod, Ordinal: 6, Line: 8, IndentAmount: 0},
	}

	symbols := DocumentSymbols(tokens)
	require.Len(t, symbols, 3)
	assert.Equal(t, "outer", symbols[0].Name)
	require.Len(t, symbols[0].Children, 1)
	inner := symbols[0].Children[0]
	assert.Equal(t, "Inner", inner.Name)
	require.Len(t, inner.Children, 2)
	assert.Equal(t, "run", inner.Children[0].Name)
	assert.Equal(t, protocol.SymbolKindProperty, inner.Children[1].Kind)
	assert.Equal(t, "Get", inner.Children[1].Detail)
	assert.Equal(t, "sibling", symbols[1].Name)
	assert.Empty(t, symbols[1].Children)
	assert.Equal(t, "toggle", symbols[2].Name)

	assert.Empty(t, DocumentSymbols(nil))
	assert.NotNil(t, DocumentSymbols(nil))
}

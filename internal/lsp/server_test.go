package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muraak/cdiag/internal/invoke"
)

// cannedRunner stands in for the compiler during server tests.
type cannedRunner struct {
	stderr string
}

func (c cannedRunner) Run(ctx context.Context, dir, command string, args []string) (invoke.Result, error) {
	return invoke.Result{Stderr: []byte(c.stderr), ExitCode: 1}, nil
}

// testClient drives a server over in-memory pipes the way an editor
// would over stdio.
type testClient struct {
	t      *testing.T
	toSrv  io.WriteCloser
	from   *bufio.Reader
	runErr chan error
}

func startServer(t *testing.T, runner invoke.Runner) *testClient {
	t.Helper()

	clientIn, srvOut := io.Pipe()
	srvIn, clientOut := io.Pipe()

	srv := NewServer(srvIn, srvOut, ServerOptions{Runner: runner})
	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(context.Background()) }()

	t.Cleanup(func() {
		clientOut.Close()
		srvOut.Close()
	})
	return &testClient{
		t:      t,
		toSrv:  clientOut,
		from:   bufio.NewReader(clientIn),
		runErr: runErr,
	}
}

func (c *testClient) send(msg map[string]any) {
	c.t.Helper()
	payload, err := json.Marshal(msg)
	require.NoError(c.t, err)
	require.NoError(c.t, writeMessage(c.toSrv, payload))
}

// recv reads one message from the server.
func (c *testClient) recv() rpcMessage {
	c.t.Helper()
	payload, err := readMessage(c.from)
	require.NoError(c.t, err)
	var msg rpcMessage
	require.NoError(c.t, json.Unmarshal(payload, &msg))
	return msg
}

// waitNotification reads messages until one with the given method
// arrives, answering nothing in between.
func (c *testClient) waitNotification(method string) rpcMessage {
	c.t.Helper()
	for i := 0; i < 20; i++ {
		msg := c.recv()
		if msg.Method == method {
			return msg
		}
	}
	c.t.Fatalf("no %s notification arrived", method)
	return rpcMessage{}
}

func (c *testClient) initialize(configuration bool) {
	c.t.Helper()
	c.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"rootUri": "file:///work",
			"capabilities": map[string]any{
				"workspace": map[string]any{"configuration": configuration},
			},
		},
	})
	resp := c.recv()
	require.Empty(c.t, resp.Method, "expected the initialize response first")
	c.send(map[string]any{"jsonrpc": "2.0", "method": "initialized"})
}

const serverTestDoc = "int main() {\n  int x;\n}\n"

func TestServer_PublishesDiagnosticsOnOpen(t *testing.T) {
	client := startServer(t, cannedRunner{stderr: "foo.c:2:5: warning: unused variable 'x'\n"})
	client.initialize(false)

	client.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": didOpenTextDocumentParams{
			TextDocument: textDocumentItem{
				URI:        "file:///work/foo.c",
				LanguageID: "c",
				Version:    1,
				Text:       serverTestDoc,
			},
		},
	})

	msg := client.waitNotification("textDocument/publishDiagnostics")
	var params publishDiagnosticsParams
	require.NoError(t, json.Unmarshal(msg.Params, &params))

	assert.Equal(t, "file:///work/foo.c", params.URI)
	require.Len(t, params.Diagnostics, 1)
	d := params.Diagnostics[0]
	assert.Equal(t, 2, d.Severity)
	assert.Equal(t, 1, d.Range.Start.Line)
	assert.Equal(t, 0, d.Range.Start.Character)
	assert.Equal(t, "gcc", d.Source)
	assert.Contains(t, d.Message, "unused variable")
}

func TestServer_ClearsDiagnosticsOnClose(t *testing.T) {
	client := startServer(t, cannedRunner{stderr: "foo.c:2:5: error: bad\n"})
	client.initialize(false)

	client.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": didOpenTextDocumentParams{
			TextDocument: textDocumentItem{URI: "file:///work/foo.c", Version: 1, Text: serverTestDoc},
		},
	})
	first := client.waitNotification("textDocument/publishDiagnostics")
	var params publishDiagnosticsParams
	require.NoError(t, json.Unmarshal(first.Params, &params))
	require.NotEmpty(t, params.Diagnostics)

	client.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didClose",
		"params": didCloseTextDocumentParams{
			TextDocument: textDocumentIdentifier{URI: "file:///work/foo.c"},
		},
	})
	second := client.waitNotification("textDocument/publishDiagnostics")
	require.NoError(t, json.Unmarshal(second.Params, &params))
	assert.Empty(t, params.Diagnostics, "a closed document keeps no diagnostics")
}

func TestServer_PullsWorkspaceConfiguration(t *testing.T) {
	client := startServer(t, cannedRunner{stderr: "foo.c:2:5: warning: w\n"})
	client.initialize(true)

	client.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": didOpenTextDocumentParams{
			TextDocument: textDocumentItem{URI: "file:///work/foo.c", Version: 1, Text: serverTestDoc},
		},
	})

	// The validation pass pulls settings for the document first.
	req := client.waitNotification("workspace/configuration")
	var cfgParams configurationParams
	require.NoError(t, json.Unmarshal(req.Params, &cfgParams))
	require.Len(t, cfgParams.Items, 1)
	assert.Equal(t, "file:///work/foo.c", cfgParams.Items[0].ScopeURI)
	assert.Equal(t, "cdiag", cfgParams.Items[0].Section)

	client.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(req.ID),
		"result":  []any{map[string]any{"maxNumberOfProblems": 50}},
	})

	msg := client.waitNotification("textDocument/publishDiagnostics")
	var params publishDiagnosticsParams
	require.NoError(t, json.Unmarshal(msg.Params, &params))
	assert.Len(t, params.Diagnostics, 1)
}

func TestServer_ShutdownThenExit(t *testing.T) {
	client := startServer(t, cannedRunner{})
	client.initialize(false)

	client.send(map[string]any{"jsonrpc": "2.0", "id": 2, "method": "shutdown"})
	resp := client.recv()
	require.Empty(t, resp.Method)

	client.send(map[string]any{"jsonrpc": "2.0", "method": "exit"})
	select {
	case err := <-client.runErr:
		assert.ErrorIs(t, err, ErrExit)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after exit")
	}
}

func TestServer_ExitWithoutShutdown(t *testing.T) {
	client := startServer(t, cannedRunner{})
	client.initialize(false)

	client.send(map[string]any{"jsonrpc": "2.0", "method": "exit"})
	select {
	case err := <-client.runErr:
		assert.ErrorIs(t, err, ErrExitWithoutShutdown)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after exit")
	}
}

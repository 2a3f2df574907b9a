// Package lsp serves compiler diagnostics to an editor over stdio
// JSON-RPC. The server owns document lifecycle and settings plumbing;
// the extraction work itself lives in the validate service.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muraak/cdiag/internal/config"
	"github.com/muraak/cdiag/internal/diag"
	"github.com/muraak/cdiag/internal/invoke"
	"github.com/muraak/cdiag/internal/validate"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// configurationTimeout bounds how long a validation pass waits for the
// editor to answer a workspace/configuration pull.
const configurationTimeout = 5 * time.Second

// ServerOptions configures server behavior.
type ServerOptions struct {
	// Runner overrides the compiler runner, for tests.
	Runner invoke.Runner
	// BaseSettings seed per-document settings when the client cannot
	// serve workspace/configuration. Zero value means defaults.
	BaseSettings *config.Settings
}

// Server handles stdio JSON-RPC for the cdiag language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu                    sync.Mutex
	openDocs              map[string]string
	versions              map[string]int
	workspaceRoot         string
	shutdownRequested     bool
	supportsConfiguration bool
	globalSettings        config.Settings

	pending map[string]chan json.RawMessage
	nextID  atomic.Int64

	validator *validate.Service
	baseCtx   context.Context
}

// NewServer constructs a language server reading from in and writing
// to out.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	base := config.Default()
	if opts.BaseSettings != nil {
		base = *opts.BaseSettings
	}
	s := &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		openDocs:       make(map[string]string),
		versions:       make(map[string]int),
		globalSettings: base,
		pending:        make(map[string]chan json.RawMessage),
	}
	s.validator = validate.NewService(validate.Options{
		Source:   s,
		Runner:   opts.Runner,
		Reporter: s,
	})
	return s
}

// Run serves LSP requests until shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			if len(msg.ID) > 0 {
				s.deliverResponse(&msg)
			}
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}

	s.mu.Lock()
	s.workspaceRoot = root
	s.supportsConfiguration = params.Capabilities.Workspace.Configuration
	s.mu.Unlock()
	s.validator.SetWorkspaceRoot(root)

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    1, // full document sync
				Save: saveOptions{
					IncludeText: true,
				},
			},
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.openDocs[uri] = params.TextDocument.Text
	s.versions[uri] = params.TextDocument.Version
	s.mu.Unlock()
	s.validateDocument(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	// Full sync: each change without a range carries the whole text.
	for _, change := range params.ContentChanges {
		if change.Range == nil {
			s.openDocs[uri] = change.Text
		}
	}
	s.versions[uri] = params.TextDocument.Version
	s.mu.Unlock()
	s.validateDocument(uri)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	if params.Text != nil {
		s.openDocs[uri] = *params.Text
	}
	s.mu.Unlock()
	s.validateDocument(uri)
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.openDocs, uri)
	delete(s.versions, uri)
	s.mu.Unlock()
	s.validator.Forget(uri)
	// A closed document keeps no diagnostics.
	return s.sendPublish(uri, nil)
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil
		}
	}

	s.mu.Lock()
	supports := s.supportsConfiguration
	s.mu.Unlock()

	if !supports && len(params.Settings) > 0 {
		var wrapper lspSettings
		if err := json.Unmarshal(params.Settings, &wrapper); err == nil {
			merged, err := mergeSettings(config.Default(), wrapper.CDiag)
			if err != nil {
				s.ReportEngineError("", fmt.Errorf("parse settings: %w", err))
			} else {
				s.mu.Lock()
				s.globalSettings = merged
				s.mu.Unlock()
			}
		}
	}

	// Cached settings are stale wholesale: drop them and revalidate
	// every open document on its fresh bundle.
	s.validator.InvalidateSettings()
	s.mu.Lock()
	uris := make([]string, 0, len(s.openDocs))
	for uri := range s.openDocs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	for _, uri := range uris {
		s.validateDocument(uri)
	}
	return nil
}

// validateDocument runs a validation pass in the background and
// publishes the replacement set when the pass completes. A pass
// superseded by a newer trigger publishes nothing.
func (s *Server) validateDocument(uri string) {
	s.mu.Lock()
	text, ok := s.openDocs[uri]
	s.mu.Unlock()
	if !ok {
		return
	}

	doc := validate.Document{
		URI:  uri,
		Path: uriToPath(uri),
		Text: text,
	}

	go func() {
		set, err := s.validator.Validate(s.baseCtx, doc)
		if err != nil {
			// Engine errors were already reported; cancelled passes
			// are superseded and must not publish stale results.
			return
		}
		if err := s.sendPublish(uri, toLSPDiagnostics(set)); err != nil {
			s.logf("publish diagnostics for %s: %v", uri, err)
		}
	}()
}

// SettingsFor implements validate.SettingsSource. When the client
// serves workspace/configuration, settings are pulled per document;
// otherwise the last pushed (or seeded) global bundle applies.
func (s *Server) SettingsFor(ctx context.Context, uri string) (config.Settings, error) {
	s.mu.Lock()
	supports := s.supportsConfiguration
	base := s.globalSettings
	s.mu.Unlock()

	if !supports {
		return base, nil
	}

	raw, err := s.requestConfiguration(ctx, uri)
	if err != nil {
		s.logf("configuration pull for %s failed, using defaults: %v", uri, err)
		return base, nil
	}
	merged, err := mergeSettings(config.Default(), raw)
	if err != nil {
		return base, fmt.Errorf("parse settings for %s: %w", uri, err)
	}
	return merged, nil
}

// requestConfiguration sends a workspace/configuration request scoped
// to uri and waits for the client's answer.
func (s *Server) requestConfiguration(ctx context.Context, uri string) (json.RawMessage, error) {
	id := s.nextID.Add(1)
	key := fmt.Sprintf("%d", id)
	ch := make(chan json.RawMessage, 1)

	s.mu.Lock()
	s.pending[key] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
	}()

	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "workspace/configuration",
		"params": configurationParams{
			Items: []configurationItem{{ScopeURI: uri, Section: "cdiag"}},
		},
	}
	if err := s.send(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, configurationTimeout)
	defer cancel()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-ch:
		var items []json.RawMessage
		if err := json.Unmarshal(result, &items); err != nil {
			return nil, fmt.Errorf("configuration response: %w", err)
		}
		if len(items) == 0 {
			return nil, nil
		}
		return items[0], nil
	}
}

// deliverResponse routes a client response to the waiting request.
func (s *Server) deliverResponse(msg *rpcMessage) {
	var key string
	if err := json.Unmarshal(msg.ID, &key); err != nil {
		// Numeric id.
		key = string(msg.ID)
	}
	s.mu.Lock()
	ch, ok := s.pending[key]
	s.mu.Unlock()
	if ok {
		ch <- msg.Result
	}
}

// ReportEngineError implements validate.Reporter: engine failures show
// up in the editor as a labeled error notification, clearly separate
// from compiler diagnostics.
func (s *Server) ReportEngineError(uri string, err error) {
	msg := "Diagnostic Error: " + err.Error()
	s.logf("%s (%s)", msg, uri)
	notification := map[string]any{
		"jsonrpc": "2.0",
		"method":  "window/showMessage",
		"params": showMessageParams{
			Type:    messageTypeError,
			Message: msg,
		},
	}
	if sendErr := s.send(notification); sendErr != nil {
		s.logf("showMessage failed: %v", sendErr)
	}
}

func toLSPDiagnostics(set diag.Set) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, len(set))
	for _, r := range set {
		out = append(out, lspDiagnostic{
			Range: lspRange{
				Start: position{Line: r.Range.Start.Line, Character: r.Range.Start.Character},
				End:   position{Line: r.Range.End.Line, Character: r.Range.End.Character},
			},
			Severity: int(r.Severity),
			Source:   r.Source,
			Message:  r.Message,
		})
	}
	return out
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"error":   rpcError{Code: code, Message: message},
	})
}

func (s *Server) sendPublish(uri string, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Diagnostics: list,
		},
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}

package lsp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"ssagraph/grammar"
	"ssagraph/internal/builder"
	"ssagraph/internal/config"
	"ssagraph/internal/errors"
)

// Define the set of supported semantic token types (advertised in the legend)
var SemanticTokenTypes = []string{
	"namespace", // block labels
	"variable",
	"keyword",
	"modifier",
	"operator",
	"comment",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration, readonly, etc.)
var SemanticTokenModifiers = []string{
	"declaration",
}

func logger() commonlog.Logger {
	return commonlog.GetLogger("ssagraph.lsp")
}

// ScriptHandler implements the LSP server handlers for graph scripts
type ScriptHandler struct {
	mu      sync.RWMutex
	content map[string]string
	scripts map[string]*grammar.Script
	config  *config.Config
}

// NewScriptHandler creates and returns a new ScriptHandler instance. A nil
// cfg means the defaults.
func NewScriptHandler(cfg *config.Config) *ScriptHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ScriptHandler{
		content: make(map[string]string),
		scripts: make(map[string]*grammar.Script),
		config:  cfg,
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *ScriptHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	logger().Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true), // support full-document semantic token requests
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *ScriptHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	logger().Info("LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *ScriptHandler) Shutdown(ctx *glsp.Context) error {
	logger().Info("LSP Shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

// SetTrace handles the client's $/setTrace notification
func (h *ScriptHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *ScriptHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	logger().Infof("Opened file: %s", params.TextDocument.URI)

	diagnostics, err := h.updateScript(params.TextDocument.URI, &params.TextDocument.Text)
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}

	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *ScriptHandler) TextDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	logger().Infof("Closed file: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.scripts, path)

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// Only full-document sync is advertised, so the last whole-text change wins.
func (h *ScriptHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	logger().Debugf("Changed file: %s", params.TextDocument.URI)

	var text *string
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			text = &whole.Text
		}
	}

	diagnostics, err := h.updateScript(params.TextDocument.URI, text)
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}

	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentCompletion offers statement keywords, modifiers and the block
// labels and variables declared in the document
func (h *ScriptHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	var items []protocol.CompletionItem

	keyword := protocol.CompletionItemKindKeyword
	for _, kw := range grammar.Keywords {
		items = append(items, protocol.CompletionItem{Label: kw, Kind: &keyword})
	}
	for _, mod := range grammar.Modifiers {
		items = append(items, protocol.CompletionItem{Label: mod, Kind: &keyword})
	}

	path, err := uriToPath(params.TextDocument.URI)
	if err == nil {
		h.mu.RLock()
		script := h.scripts[path]
		h.mu.RUnlock()

		labels, variables := collectNames(script)
		reference := protocol.CompletionItemKindReference
		for _, label := range labels {
			items = append(items, protocol.CompletionItem{Label: label, Kind: &reference, Detail: ptrString("block")})
		}
		variable := protocol.CompletionItemKindVariable
		for _, v := range variables {
			items = append(items, protocol.CompletionItem{Label: v, Kind: &variable, Detail: ptrString("variable")})
		}
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *ScriptHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	logger().Debugf("TextDocumentSemanticTokensFull called for: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	script, err := h.getOrUpdateScript(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(script)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

func (h *ScriptHandler) getOrUpdateScript(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (*grammar.Script, error) {
	h.mu.RLock()
	script, ok := h.scripts[path]
	h.mu.RUnlock()

	if !ok {
		diagnostics, err := h.updateScript(rawURI, nil)
		if err != nil {
			return nil, err
		}

		h.mu.RLock()
		script = h.scripts[path]
		h.mu.RUnlock()

		sendDiagnosticNotification(ctx, rawURI, diagnostics)
	}

	return script, nil
}

// updateScript parses and runs the document and returns its diagnostics. A
// nil text reuses the last known content, or reads the document from disk.
// The last script that parsed is kept for semantic tokens and completion.
func (h *ScriptHandler) updateScript(rawURI protocol.DocumentUri, text *string) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.RLock()
	content, cached := h.content[path]
	h.mu.RUnlock()

	switch {
	case text != nil:
		content = *text
	case !cached:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		content = string(raw)
	}

	h.mu.Lock()
	h.content[path] = content
	h.mu.Unlock()

	script, err := grammar.ParseString(path, content)
	if err != nil {
		return ConvertDiagnostics([]errors.CompilerError{builder.ParseError(err)}), nil
	}

	b := builder.New(io.Discard, h.config)
	b.Run(script)
	b.Finish(builder.EndOf(path, script))

	h.mu.Lock()
	h.scripts[path] = script
	h.mu.Unlock()

	return ConvertDiagnostics(b.Errors()), nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) → C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	diagnosticsJSON, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		logger().Errorf("Failed to marshal diagnostics: %s", err)
		return
	}

	logger().Debugf("Sending diagnostics: %s", diagnosticsJSON)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrString(s string) *string {
	return &s
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

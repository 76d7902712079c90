package codebase

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/mjc/format"
	"github.com/dhamidi/mjc/minijava/parser"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "mjc"

var lspLog = commonlog.GetLogger("mjc.lsp")

type LSPServer struct {
	codebase   *Codebase
	extensions []string
	handler    protocol.Handler
	server     *server.Server
	version    string

	mu   sync.RWMutex
	open map[string]protocol.DocumentUri // path -> uri of open documents
}

func NewLSPServer(version string, extensions ...string) *LSPServer {
	ls := &LSPServer{
		version:    version,
		extensions: extensions,
		open:       make(map[string]protocol.DocumentUri),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFormatting:     ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.extensions...)
	lspLog.Infof("initialize: root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Warningf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	lspLog.Infof("indexed %d files", len(ls.codebase.Files()))
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	ls.open[path] = params.TextDocument.URI
	ls.mu.Unlock()

	file := ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, file)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			file := ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, file)
		}
	}
	return nil
}

// textDocumentDidClose reloads the file from disk, since the editor buffer
// may have been discarded unsaved, and clears its diagnostics.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	delete(ls.open, path)
	ls.mu.Unlock()

	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, nil)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.codebase.ScanFile(path); err != nil {
		return nil
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, ls.codebase.GetFile(path))
	return nil
}

// IsOpen reports whether the editor currently has path open.
func (ls *LSPServer) IsOpen(path string) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	_, ok := ls.open[path]
	return ok
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, file *FileInfo) {
	diagnostics := []protocol.Diagnostic{}
	if file != nil {
		diagnostics = toProtocolDiagnostics(file.Content, file.Diagnostics)
	}
	lspLog.Debugf("publish %d diagnostics for %s", len(diagnostics), uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostics(content []byte, diags parser.Diagnostics) []protocol.Diagnostic {
	source := lsName
	result := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == parser.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		code := protocol.IntegerOrString{Value: d.Phase.String()}
		result = append(result, protocol.Diagnostic{
			Range:    toProtocolRange(content, d.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil || file.Program == nil {
		return nil, nil
	}
	return documentSymbols(file.Content, file.Program), nil
}

func documentSymbols(content []byte, prog *parser.Program) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	if mc := prog.Main; mc != nil {
		main := protocol.DocumentSymbol{
			Name:           mc.Name.Name,
			Kind:           protocol.SymbolKindClass,
			Range:          toProtocolRange(content, mc.Span()),
			SelectionRange: toProtocolRange(content, mc.Name.Span()),
		}
		detail := "void main(String[] " + mc.ArgsName.Name + ")"
		main.Children = []protocol.DocumentSymbol{{
			Name:           "main",
			Detail:         &detail,
			Kind:           protocol.SymbolKindMethod,
			Range:          toProtocolRange(content, mc.Span()),
			SelectionRange: toProtocolRange(content, mc.ArgsName.Span()),
		}}
		symbols = append(symbols, main)
	}

	for _, class := range prog.Classes {
		sym := protocol.DocumentSymbol{
			Name:           class.ClassName().Name,
			Kind:           protocol.SymbolKindClass,
			Range:          toProtocolRange(content, class.Span()),
			SelectionRange: toProtocolRange(content, class.ClassName().Span()),
		}
		if derived, ok := class.(*parser.DerivedClass); ok {
			detail := "extends " + derived.Super.Name
			sym.Detail = &detail
		}
		for _, f := range class.FieldDecls() {
			detail := typeName(f.Type)
			if f.Mutability == parser.Mutable {
				detail = "mutable " + detail
			}
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           f.Name.Name,
				Detail:         &detail,
				Kind:           protocol.SymbolKindField,
				Range:          toProtocolRange(content, f.Span()),
				SelectionRange: toProtocolRange(content, f.Name.Span()),
			})
		}
		for _, m := range class.MethodDecls() {
			detail := formatMethodSignature(m)
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           m.Name.Name,
				Detail:         &detail,
				Kind:           protocol.SymbolKindMethod,
				Range:          toProtocolRange(content, m.Span()),
				SelectionRange: toProtocolRange(content, m.Name.Span()),
			})
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

// textDocumentFormatting replaces the whole document with its pretty
// printed form. Documents with errors are left alone.
func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}
	return formattingEdits(path, file.Content), nil
}

func formattingEdits(path string, content []byte) []protocol.TextEdit {
	formatted, err := format.FormatFile(content, path)
	if err != nil {
		lspLog.Debugf("format %s: %s", path, err)
		return nil
	}
	if bytes.Equal(formatted, content) {
		return []protocol.TextEdit{}
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endOfDocument(content),
		},
		NewText: string(formatted),
	}}
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)

	var completions []CompletionItem
	switch {
	case afterNew(file.Content, line, col):
		completions = ls.codebase.ClassCompletions()
	case findTriggerPosition(file.Content, line, col) >= 0:
		completions = ls.codebase.MemberCompletions()
	}
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		insertFormat := protocol.InsertTextFormatSnippet

		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &insertFormat,
		})
	}

	return items, nil
}

// findTriggerPosition returns the column of the '.' that the identifier
// ending at col hangs off, or -1.
func findTriggerPosition(content []byte, line, col int) int {
	lineContent := sourceLine(content, line)
	if lineContent == "" {
		return -1
	}

	i := min(col, len(lineContent)) - 1
	for i >= 0 && isIdentByte(lineContent[i]) {
		i--
	}
	if i >= 0 && lineContent[i] == '.' {
		return i
	}
	return -1
}

func afterNew(content []byte, line, col int) bool {
	lineContent := sourceLine(content, line)
	prefix := lineContent[:min(col, len(lineContent))]
	prefix = strings.TrimRightFunc(prefix, func(r rune) bool {
		return r < utf8.RuneSelf && isIdentByte(byte(r))
	})
	return strings.HasSuffix(prefix, "new ")
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func sourceLine(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindField:
		return protocol.CompletionItemKindField
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	default:
		return protocol.CompletionItemKindText
	}
}

func toProtocolRange(content []byte, span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(content, span.Start),
		End:   toProtocolPosition(content, span.End),
	}
}

// toProtocolPosition converts a 1-based byte position into the 0-based
// UTF-16 position the protocol uses.
func toProtocolPosition(content []byte, pos parser.Position) protocol.Position {
	if pos.Line == 0 {
		return protocol.Position{}
	}
	lineStart := pos.Offset - (pos.Column - 1)
	if lineStart < 0 || pos.Offset > len(content) {
		return protocol.Position{Line: protocol.UInteger(pos.Line - 1), Character: protocol.UInteger(pos.Column - 1)}
	}
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: utf16Len(content[lineStart:pos.Offset]),
	}
}

func endOfDocument(content []byte) protocol.Position {
	line := bytes.Count(content, []byte("\n"))
	last := content[bytes.LastIndexByte(content, '\n')+1:]
	return protocol.Position{Line: protocol.UInteger(line), Character: utf16Len(last)}
}

func utf16Len(b []byte) protocol.UInteger {
	var n protocol.UInteger
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}

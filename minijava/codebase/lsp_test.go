package codebase

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/mjc/minijava/parser"
)

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func newTestContext(sent *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, _ := params.(protocol.PublishDiagnosticsParams)
			*sent = append(*sent, notification{method: method, params: p})
		},
	}
}

func TestToProtocolDiagnostics(t *testing.T) {
	src := []byte("class M { public static void main(String[] a) {\n    System.out.println(1)\n} }")
	p := parser.ParseProgram(bytes.NewReader(src))
	p.Finish()

	diags := toProtocolDiagnostics(src, p.Diagnostics())
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Message != "expected ';', got '}'" {
		t.Errorf("Message = %q", d.Message)
	}
	if d.Range.Start != (protocol.Position{Line: 2, Character: 0}) {
		t.Errorf("Range.Start = %+v", d.Range.Start)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("Severity = %v", d.Severity)
	}
	if d.Code == nil || d.Code.Value != "syntax" {
		t.Errorf("Code = %+v", d.Code)
	}
}

func TestToProtocolPosition(t *testing.T) {
	src := []byte("// é😀\nint x;")
	tests := []struct {
		name string
		pos  parser.Position
		want protocol.Position
	}{
		{"start", parser.Position{Offset: 0, Line: 1, Column: 1}, protocol.Position{Line: 0, Character: 0}},
		{"after multibyte", parser.Position{Offset: 9, Line: 1, Column: 10}, protocol.Position{Line: 0, Character: 6}},
		{"second line", parser.Position{Offset: 14, Line: 2, Column: 5}, protocol.Position{Line: 1, Character: 4}},
		{"unset", parser.Position{}, protocol.Position{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toProtocolPosition(src, tt.pos); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEndOfDocument(t *testing.T) {
	tests := []struct {
		content string
		want    protocol.Position
	}{
		{"", protocol.Position{Line: 0, Character: 0}},
		{"a\nbc", protocol.Position{Line: 1, Character: 2}},
		{"a\n", protocol.Position{Line: 1, Character: 0}},
	}
	for _, tt := range tests {
		if got := endOfDocument([]byte(tt.content)); got != tt.want {
			t.Errorf("endOfDocument(%q) = %+v, want %+v", tt.content, got, tt.want)
		}
	}
}

func TestDocumentSymbols(t *testing.T) {
	src := []byte("class M { public static void main(String[] a) { } }\n" +
		"class A extends B { mutable int x; public int f(int y) { return y; } }\n")
	p := parser.ParseProgram(bytes.NewReader(src))
	prog := p.Finish()
	if prog == nil {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}

	symbols := documentSymbols(src, prog)
	if len(symbols) != 2 {
		t.Fatalf("got %d symbols, want 2", len(symbols))
	}

	main := symbols[0]
	if main.Name != "M" || main.Kind != protocol.SymbolKindClass || len(main.Children) != 1 {
		t.Errorf("main symbol = %+v", main)
	}

	a := symbols[1]
	if a.Name != "A" || a.Detail == nil || *a.Detail != "extends B" {
		t.Errorf("class symbol = %+v", a)
	}
	if a.Range.Start != (protocol.Position{Line: 1, Character: 0}) {
		t.Errorf("class range = %+v", a.Range)
	}
	if a.SelectionRange.Start != (protocol.Position{Line: 1, Character: 6}) {
		t.Errorf("class selection range = %+v", a.SelectionRange)
	}
	if len(a.Children) != 2 {
		t.Fatalf("got %d members, want 2", len(a.Children))
	}
	field, method := a.Children[0], a.Children[1]
	if field.Name != "x" || field.Kind != protocol.SymbolKindField || *field.Detail != "mutable int" {
		t.Errorf("field symbol = %+v", field)
	}
	if method.Name != "f" || method.Kind != protocol.SymbolKindMethod || *method.Detail != "int f(int y)" {
		t.Errorf("method symbol = %+v", method)
	}
}

func TestFormattingEdits(t *testing.T) {
	compact := []byte("class M{public static void main(String[] a){System.out.println(1);}}")
	edits := formattingEdits("M.java", compact)
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1", len(edits))
	}
	want := "class M {\n    public static void main(String[] a) {\n        System.out.println(1);\n    }\n}\n"
	if edits[0].NewText != want {
		t.Errorf("NewText = %q, want %q", edits[0].NewText, want)
	}
	if edits[0].Range.End != (protocol.Position{Line: 0, Character: protocol.UInteger(len(compact))}) {
		t.Errorf("Range.End = %+v", edits[0].Range.End)
	}

	if edits := formattingEdits("M.java", []byte(want)); edits == nil || len(edits) != 0 {
		t.Errorf("canonical source: edits = %v, want empty", edits)
	}
	if edits := formattingEdits("M.java", []byte(invalidSource)); edits != nil {
		t.Errorf("invalid source: edits = %v, want nil", edits)
	}
}

func TestFindTriggerPosition(t *testing.T) {
	content := []byte("x = a.fo\ny = new Fo")
	tests := []struct {
		name      string
		line, col int
		want      int
	}{
		{"after partial name", 1, 8, 5},
		{"right after dot", 1, 6, 5},
		{"no dot", 1, 4, -1},
		{"line out of range", 5, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findTriggerPosition(content, tt.line, tt.col); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if !afterNew(content, 2, 10) {
		t.Error("afterNew after 'new Fo' = false")
	}
	if afterNew(content, 1, 8) {
		t.Error("afterNew after member access = true")
	}
}

func TestLSPServerLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "A.java", validSource)

	var sent []notification
	ctx := newTestContext(&sent)

	ls := NewLSPServer("test")
	result, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &dir})
	if err != nil {
		t.Fatalf("initialize() error: %v", err)
	}
	res := result.(protocol.InitializeResult)
	if res.ServerInfo.Name != "mjc" || res.Capabilities.DocumentFormattingProvider == nil {
		t.Errorf("initialize result = %+v", res)
	}
	if err := ls.initialized(ctx, &protocol.InitializedParams{}); err != nil {
		t.Fatalf("initialized() error: %v", err)
	}
	if ls.codebase.GetFile(filepath.Join(dir, "A.java")) == nil {
		t.Fatal("initialized did not scan the workspace")
	}

	path := filepath.Join(dir, "M.java")
	uri := "file://" + path

	ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: invalidSource},
	})
	if len(sent) != 1 || sent[0].method != "textDocument/publishDiagnostics" {
		t.Fatalf("notifications = %+v", sent)
	}
	if sent[0].params.URI != uri || len(sent[0].params.Diagnostics) != 1 {
		t.Errorf("didOpen published %+v", sent[0].params)
	}
	if !ls.IsOpen(path) {
		t.Error("document not tracked as open")
	}

	ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: validSource}},
	})
	if len(sent) != 2 || len(sent[1].params.Diagnostics) != 0 {
		t.Fatalf("didChange published %+v", sent)
	}

	symbols, err := ls.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("documentSymbol() error: %v", err)
	}
	if got := symbols.([]protocol.DocumentSymbol); len(got) != 2 {
		t.Errorf("got %d symbols, want 2", len(got))
	}

	items, err := ls.textDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 1, Character: 44},
		},
	})
	if err != nil {
		t.Fatalf("completion() error: %v", err)
	}
	labels := map[string]bool{}
	for _, item := range items.([]protocol.CompletionItem) {
		labels[item.Label] = true
	}
	if !labels["f"] || !labels["length"] {
		t.Errorf("completion labels = %v", labels)
	}

	ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if len(sent) != 3 || len(sent[2].params.Diagnostics) != 0 {
		t.Errorf("didClose published %+v", sent)
	}
	if ls.IsOpen(path) {
		t.Error("document still open after didClose")
	}
	if ls.codebase.GetFile(path) != nil {
		t.Error("unsaved document kept after didClose")
	}
}

package format

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/mjc/minijava/parser"
)

func parseSource(t *testing.T, src []byte) *parser.Program {
	t.Helper()
	p := parser.ParseProgram(bytes.NewReader(src))
	prog := p.Finish()
	if prog == nil {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	return prog
}

// TestRoundTrip_Testdata formats every program under testdata/ and checks
// that the result parses to the same tree and is stable under a second
// format.
func TestRoundTrip_Testdata(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.java"))
	if err != nil {
		t.Fatalf("glob testdata: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no .java files found in testdata")
	}

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read file: %v", err)
			}

			formatted, err := FormatFile(src, path)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}

			before := parser.Dump(parseSource(t, src))
			after := parser.Dump(parseSource(t, formatted))
			if before != after {
				t.Errorf("tree changed after formatting\nbefore: %s\nafter:  %s", before, after)
			}

			again, err := Format(formatted)
			if err != nil {
				t.Fatalf("second Format() error: %v", err)
			}
			if !bytes.Equal(again, formatted) {
				t.Errorf("formatting is not idempotent\nfirst:\n%s\nsecond:\n%s", formatted, again)
			}

			if strings.Count(string(src), "//") != strings.Count(string(formatted), "//") {
				t.Errorf("line comments were lost")
			}
		})
	}
}

func TestASTJSONEncoder(t *testing.T) {
	src := []byte("class M { public static void main(String[] a) { System.out.println(1 + x); } }")
	prog := parseSource(t, src)

	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(prog); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	var decoded astNode
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(&decoded, nodeToTree(prog)) {
		t.Errorf("decoded tree differs from encoded tree:\n%s", buf.String())
	}

	main := decoded.Children[0]
	if main.Kind != "MainClass" {
		t.Fatalf("first child = %s, want MainClass", main.Kind)
	}
	print := main.Children[2]
	binary := print.Children[0]
	if binary.Kind != "Binary" || binary.Op != "+" {
		t.Errorf("binary = %+v", binary)
	}
	if binary.Children[0].Value != "1" || binary.Children[1].Name != "x" {
		t.Errorf("operands = %+v, %+v", binary.Children[0], binary.Children[1])
	}
	if binary.Span == nil || binary.Span.Start.Column != 68 {
		t.Errorf("span = %+v, want start column 68", binary.Span)
	}
}

func TestASTYAMLEncoder(t *testing.T) {
	src := []byte(`class M { public static void main(String[] a) { } }
class A { mutable int x; public int f() { return x; } }`)
	prog := parseSource(t, src)

	var buf bytes.Buffer
	if err := NewASTYAMLEncoder(&buf).Encode(prog); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "kind: Program\n") {
		t.Errorf("output does not start with the program kind:\n%s", buf.String())
	}

	var decoded astNode
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(&decoded, nodeToTree(prog)) {
		t.Errorf("decoded tree differs from encoded tree:\n%s", buf.String())
	}

	class := decoded.Children[1]
	field := class.Children[1]
	if field.Kind != "FieldDecl" || field.Mutability != "Mutable" {
		t.Errorf("field = %+v", field)
	}
	method := class.Children[2]
	if method.Kind != "MethodDecl" || !method.Public {
		t.Errorf("method = %+v", method)
	}
}

func TestNewEncoder(t *testing.T) {
	prog := parseSource(t, []byte("class M { public static void main(String[] a) { } }"))

	for _, name := range []string{FormatJSON, FormatYAML, FormatTree} {
		var buf bytes.Buffer
		enc, err := NewEncoder(name, &buf)
		if err != nil {
			t.Fatalf("NewEncoder(%q) error: %v", name, err)
		}
		if err := enc.Encode(prog); err != nil {
			t.Fatalf("%s: Encode() error: %v", name, err)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: empty output", name)
		}
	}

	var buf bytes.Buffer
	enc, _ := NewEncoder(FormatTree, &buf)
	enc.Encode(prog)
	if got := buf.String(); got != "Program(MainClass(M, a, [], []), [])\n" {
		t.Errorf("tree output = %q", got)
	}

	if _, err := NewEncoder("xml", &buf); err == nil {
		t.Error("NewEncoder(xml) error = nil, want error")
	}
}

func TestTokenEncoder(t *testing.T) {
	tokens, _ := parser.Tokenize([]byte("int x;"))
	var buf bytes.Buffer
	if err := NewTokenEncoder(&buf).Encode(tokens); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := "1:1\tint\tint\n1:5\tIdentifier\tx\n1:6\t;\t;\n1:7\tEOF\t\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDiagnosticEncoder(t *testing.T) {
	src := []byte("class M { public static void main(String[] a) {\n    System.out.println(1)\n} }")
	p := parser.ParseProgram(bytes.NewReader(src), parser.WithFile("M.java"))
	if p.Finish() != nil {
		t.Fatal("expected a parse error")
	}

	var buf bytes.Buffer
	if err := NewDiagnosticEncoder(&buf).WithSource(src).Encode(p.Diagnostics()); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := "M.java:3:1: error: expected ';', got '}'\n" +
		"    } }\n" +
		"    ^\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiagnosticEncoderHintsAndColor(t *testing.T) {
	d := parser.Diagnostic{
		Severity: parser.SeverityError,
		Phase:    parser.PhaseSyntactic,
		Message:  "unexpected token",
		Span:     parser.Span{Start: parser.Position{Line: 1, Column: 3}},
		Expected: []parser.TokenKind{parser.TokenSemicolon, parser.TokenRBrace},
	}

	var buf bytes.Buffer
	if err := NewDiagnosticEncoder(&buf).WithSource([]byte("\tx y")).Encode(parser.Diagnostics{d}); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := "1:3: error: unexpected token\n" +
		"    expected one of ';' or '}'\n" +
		"    \tx y\n" +
		"    \t ^\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()
	NewDiagnosticEncoder(&buf).WithColor(true).Encode(parser.Diagnostics{d})
	if !strings.Contains(buf.String(), "unexpected token") {
		t.Errorf("colored output lost the message: %q", buf.String())
	}
}

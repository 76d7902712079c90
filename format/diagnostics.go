package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/mjc/minijava/parser"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#94A3B8")
	colorCaret   = lipgloss.Color("#10B981")

	locationStyle = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	caretStyle    = lipgloss.NewStyle().Foreground(colorCaret).Bold(true)
)

// DiagnosticEncoder writes diagnostics as "file:line:col: severity: message".
// With a source attached, the offending line is quoted with a caret under
// the reported column.
type DiagnosticEncoder struct {
	w      io.Writer
	color  bool
	source []byte
}

func NewDiagnosticEncoder(w io.Writer) *DiagnosticEncoder {
	return &DiagnosticEncoder{w: w}
}

// WithColor enables lipgloss styling.
func (e *DiagnosticEncoder) WithColor(enabled bool) *DiagnosticEncoder {
	e.color = enabled
	return e
}

// WithSource sets the text the diagnostics refer to.
func (e *DiagnosticEncoder) WithSource(src []byte) *DiagnosticEncoder {
	e.source = src
	return e
}

func (e *DiagnosticEncoder) Encode(diags parser.Diagnostics) error {
	text, err := e.MarshalText(diags)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DiagnosticEncoder) MarshalText(diags parser.Diagnostics) ([]byte, error) {
	var buf bytes.Buffer
	for _, d := range diags {
		e.writeDiagnostic(&buf, d)
	}
	return buf.Bytes(), nil
}

func (e *DiagnosticEncoder) writeDiagnostic(buf *bytes.Buffer, d parser.Diagnostic) {
	severity := d.Severity.String()
	sevStyle := errorStyle
	if d.Severity == parser.SeverityWarning {
		sevStyle = warningStyle
	}

	fmt.Fprintf(buf, "%s: %s: %s\n",
		e.style(locationStyle, d.Span.Start.String()),
		e.style(sevStyle, severity),
		d.Message,
	)

	if expected := d.ExpectedString(); expected != "" && !strings.Contains(d.Message, expected) {
		fmt.Fprintf(buf, "    %s\n", e.style(hintStyle, "expected one of "+expected))
	}

	line, ok := sourceLine(e.source, d.Line())
	if !ok {
		return
	}
	fmt.Fprintf(buf, "    %s\n", line)

	col := d.Column()
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	// Keep tabs so the caret lines up with the quoted text.
	var pad strings.Builder
	for _, ch := range []byte(line[:col-1]) {
		if ch == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	fmt.Fprintf(buf, "    %s%s\n", pad.String(), e.style(caretStyle, "^"))
}

func (e *DiagnosticEncoder) style(s lipgloss.Style, text string) string {
	if !e.color {
		return text
	}
	return s.Render(text)
}

// sourceLine returns the 1-based line of src without its line ending.
func sourceLine(src []byte, line int) (string, bool) {
	if src == nil || line < 1 {
		return "", false
	}
	for i := 1; i < line; i++ {
		idx := bytes.IndexByte(src, '\n')
		if idx < 0 {
			return "", false
		}
		src = src[idx+1:]
	}
	if idx := bytes.IndexByte(src, '\n'); idx >= 0 {
		src = src[:idx]
	}
	return strings.TrimRight(string(src), "\r"), true
}

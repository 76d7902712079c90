package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/mjc/minijava/parser"
)

// Encoder writes a parsed program in one output format.
type Encoder interface {
	Encode(prog *parser.Program) error
}

// Names accepted by NewEncoder.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTree = "tree"
)

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case FormatJSON:
		return NewASTJSONEncoder(w), nil
	case FormatYAML:
		return NewASTYAMLEncoder(w), nil
	case FormatTree, "":
		return NewTreeEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want json, yaml or tree)", name)
}

// TreeEncoder writes the constructor notation produced by parser.Dump.
type TreeEncoder struct {
	w io.Writer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(prog *parser.Program) error {
	_, err := io.WriteString(e.w, parser.Dump(prog)+"\n")
	return err
}

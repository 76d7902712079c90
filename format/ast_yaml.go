package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/mjc/minijava/parser"
)

type ASTYAMLEncoder struct {
	w io.Writer
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(prog *parser.Program) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(nodeToTree(prog)); err != nil {
		return err
	}
	return enc.Close()
}

func (e *ASTYAMLEncoder) MarshalText(n parser.Node) ([]byte, error) {
	return yaml.Marshal(nodeToTree(n))
}

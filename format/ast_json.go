package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/mjc/minijava/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(prog *parser.Program) error {
	text, err := e.MarshalText(prog)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(n parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToTree(n), "", "  ")
}

// astNode is the serialized form shared by the JSON and YAML encoders.
type astNode struct {
	Kind       string     `json:"kind" yaml:"kind"`
	Span       *astSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Value      string     `json:"value,omitempty" yaml:"value,omitempty"`
	Op         string     `json:"op,omitempty" yaml:"op,omitempty"`
	Mutability string     `json:"mutability,omitempty" yaml:"mutability,omitempty"`
	Public     bool       `json:"public,omitempty" yaml:"public,omitempty"`
	Children   []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type astSpan struct {
	Start astPosition `json:"start" yaml:"start"`
	End   astPosition `json:"end" yaml:"end"`
}

type astPosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func nodeToTree(n parser.Node) *astNode {
	an := &astNode{
		Kind: n.Kind().String(),
	}

	span := n.Span()
	if span.Start.Line != 0 || span.End.Line != 0 {
		an.Span = &astSpan{
			Start: astPosition{Line: span.Start.Line, Column: span.Start.Column},
			End:   astPosition{Line: span.End.Line, Column: span.End.Column},
		}
	}

	switch n := n.(type) {
	case *parser.Ident:
		an.Name = n.Name
	case *parser.IntLit:
		an.Value = n.Literal
	case *parser.BoolLit:
		an.Value = "false"
		if n.Value {
			an.Value = "true"
		}
	case *parser.BinaryExpr:
		an.Op = n.Op.Symbol()
	case *parser.FieldDecl:
		an.Mutability = n.Mutability.String()
	case *parser.VarDecl:
		an.Mutability = n.Mutability.String()
	case *parser.MethodDecl:
		an.Public = n.Public
	}

	for _, child := range parser.Children(n) {
		an.Children = append(an.Children, nodeToTree(child))
	}

	return an
}

package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/mjc/minijava/parser"
)

// TokenEncoder writes one token per line as "line:col<TAB>Kind<TAB>literal".
type TokenEncoder struct {
	w io.Writer
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func (e *TokenEncoder) Encode(tokens []parser.Token) error {
	text, err := e.MarshalText(tokens)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText(tokens []parser.Token) ([]byte, error) {
	var sb strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&sb, "%d:%d\t%s\t%s\n",
			tok.Span.Start.Line,
			tok.Span.Start.Column,
			tok.Kind,
			tok.Literal,
		)
	}
	return []byte(sb.String()), nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mjc/format"
	"github.com/dhamidi/mjc/minijava/parser"
)

func newTokensCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a MiniJava file",
		Long: `Print one token per line as "line:col<TAB>kind<TAB>literal".

Lexical errors are reported on stderr; tokenizing continues past them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			source, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			tokens, diags := parser.Tokenize(source, parser.WithFile(filename))
			if err := format.NewTokenEncoder(os.Stdout).Encode(tokens); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			return opts.reportDiagnostics(source, diags)
		},
	}
}

// reportDiagnostics writes diags to stderr and returns errFailed when any
// of them is an error.
func (o *globalOptions) reportDiagnostics(source []byte, diags parser.Diagnostics) error {
	if len(diags) == 0 {
		return nil
	}
	enc := format.NewDiagnosticEncoder(os.Stderr).
		WithColor(o.useColor(os.Stderr)).
		WithSource(source)
	if err := enc.Encode(diags); err != nil {
		return err
	}
	if diags.HasErrors() {
		return errFailed
	}
	return nil
}

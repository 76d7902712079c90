package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mjc/format"
	"github.com/dhamidi/mjc/minijava/parser"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a MiniJava file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			if outputFormat == "" {
				outputFormat = opts.config.Output.Format
			}
			encoder, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			p := parser.ParseProgram(bytes.NewReader(data), parser.WithFile(filename))
			prog := p.Finish()
			if prog == nil {
				if err := opts.reportDiagnostics(data, p.Diagnostics()); err != nil {
					return err
				}
				return fmt.Errorf("parse %s: incomplete or invalid syntax", filename)
			}

			if err := encoder.Encode(prog); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return opts.reportDiagnostics(data, p.Diagnostics())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (json, yaml, tree)")

	return cmd
}

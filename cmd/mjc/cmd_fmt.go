package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mjc/format"
)

func newFmtCmd(opts *globalOptions) *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a MiniJava file, preserving comments",
		Long: `Pretty-print a MiniJava file to stdout.

If a file is provided, it must have one of the configured source
extensions. If no file is provided, reads source from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				if !opts.config.HasSourceExt(filename) {
					return fmt.Errorf("expected one of %v, got %s", opts.config.Source.Extensions, filepath.Ext(filename))
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			output, err := format.FormatFile(source, filename)
			if err != nil {
				var syntaxErr *format.SyntaxError
				if errors.As(err, &syntaxErr) {
					return opts.reportDiagnostics(source, syntaxErr.Diagnostics)
				}
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(filename, output, 0644)
			}
			_, err = os.Stdout.Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/mjc/project"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

// errFailed is returned by commands that already reported their problems.
var errFailed = errors.New("failed")

type globalOptions struct {
	configPath string
	verbosity  int
	color      string

	config *project.Config
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "mjc",
		Short:         "A MiniJava front end: tokenizer, parser and formatter",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: mjc.toml or $"+project.ConfigEnv+")")
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "", "colorize output (auto, always, never)")

	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newFmtCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration and applies the logging and color
// settings. Flags win over the config file.
func (o *globalOptions) setup() error {
	path := o.configPath
	if path == "" {
		path = project.FindConfig(".")
	}

	cfg := project.DefaultConfig()
	if path != "" {
		loaded, err := project.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.color != "" {
		cfg.Output.Color = o.color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.config = cfg

	verbosity := max(o.verbosity, cfg.Log.Verbosity)
	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(verbosity, logFile)

	if cfg.Output.Color == "always" {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	return nil
}

// useColor reports whether output to f should be styled.
func (o *globalOptions) useColor(f *os.File) bool {
	switch o.config.Output.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

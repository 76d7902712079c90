package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/mjc/format"
	"github.com/dhamidi/mjc/minijava/codebase"
	"github.com/dhamidi/mjc/project"
)

var checkLog = commonlog.GetLogger("mjc.check")

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var watch bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report syntax errors in MiniJava files",
		Long: `Parse every given file, or every source file below the given
directories, and report all diagnostics. With no arguments the configured
source directories are checked.

Exits with status 1 if any file has errors. With --watch, keeps running and
re-checks files as they change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			if jobs <= 0 {
				jobs = cfg.Check.Jobs
			}

			paths, err := collectPaths(cfg, args)
			if err != nil {
				return err
			}

			root := "."
			if len(args) == 1 {
				if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
					root = args[0]
				}
			}
			cb := codebase.New(root, cfg.Source.Extensions...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			results, err := cb.CheckFiles(ctx, paths, jobs)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", r.Path, r.Err)
					failed++
					continue
				}
				if err := opts.printFileDiagnostics(r.File); err != nil {
					failed++
				}
			}
			checkLog.Infof("checked %d files, %d with errors", len(results), failed)

			if watch {
				return watchCodebase(ctx, opts, cb)
			}
			if failed > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-check files on change")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of files parsed in parallel (default: config or number of CPUs)")

	return cmd
}

// collectPaths expands args into source files. Directories are walked for
// files with the configured extensions.
func collectPaths(cfg *project.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		proj := &project.Project{RootDir: ".", Config: cfg}
		return project.CollectFiles(proj.SourceDirs(), cfg.Source.Extensions)
	}

	var files, dirs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			dirs = append(dirs, arg)
		} else {
			files = append(files, filepath.Clean(arg))
		}
	}
	if len(dirs) > 0 {
		found, err := project.CollectFiles(dirs, cfg.Source.Extensions)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// printFileDiagnostics writes the diagnostics of f to stdout and returns
// errFailed when f has errors.
func (o *globalOptions) printFileDiagnostics(f *codebase.FileInfo) error {
	if len(f.Diagnostics) == 0 {
		return nil
	}
	enc := format.NewDiagnosticEncoder(os.Stdout).
		WithColor(o.useColor(os.Stdout)).
		WithSource(f.Content)
	if err := enc.Encode(f.Diagnostics); err != nil {
		return err
	}
	if f.HasErrors() {
		return errFailed
	}
	return nil
}

func watchCodebase(ctx context.Context, opts *globalOptions, cb *codebase.Codebase) error {
	w, err := codebase.NewFileWatcher(cb)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cb.RootDir(), err)
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	fmt.Fprintf(os.Stderr, "watching %s for changes\n", cb.RootDir())
	for ev := range w.Events() {
		if ev.Removed {
			checkLog.Infof("removed %s", ev.Path)
			continue
		}
		if len(ev.File.Diagnostics) == 0 {
			fmt.Fprintf(os.Stderr, "%s: ok\n", ev.Path)
			continue
		}
		opts.printFileDiagnostics(ev.File)
	}
	return <-done
}

package project

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

const mainSource = `class BinarySearch {
    public static void main(String[] a) {
        System.out.println(1);
    }
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !reflect.DeepEqual(cfg.Source.Dirs, []string{"."}) {
		t.Errorf("Dirs = %v", cfg.Source.Dirs)
	}
	if !reflect.DeepEqual(cfg.Source.Extensions, []string{".java", ".mj"}) {
		t.Errorf("Extensions = %v", cfg.Source.Extensions)
	}
	if cfg.Output.Format != "tree" || cfg.Output.Color != "auto" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Check.Jobs != runtime.NumCPU() {
		t.Errorf("Jobs = %d, want %d", cfg.Check.Jobs, runtime.NumCPU())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
[source]
dirs = ["src"]
extensions = ["mj"]

[output]
format = "json"
color = "never"

[log]
verbosity = 2

[check]
jobs = 3
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Source.Dirs, []string{"src"}) {
		t.Errorf("Dirs = %v", cfg.Source.Dirs)
	}
	if !reflect.DeepEqual(cfg.Source.Extensions, []string{".mj"}) {
		t.Errorf("Extensions = %v", cfg.Source.Extensions)
	}
	if cfg.Output.Format != "json" || cfg.Output.Color != "never" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Log.Verbosity != 2 {
		t.Errorf("Verbosity = %d", cfg.Log.Verbosity)
	}
	if cfg.Check.Jobs != 3 {
		t.Errorf("Jobs = %d", cfg.Check.Jobs)
	}
	if !cfg.HasSourceExt("a/B.mj") || cfg.HasSourceExt("a/B.java") {
		t.Error("HasSourceExt does not follow the configured extensions")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[source\n", "failed to parse"},
		{"unknown key", "[output]\nstyle = \"x\"\n", "unknown keys"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"bad color", "[output]\ncolor = \"blue\"\n", "output.color"},
		{"negative verbosity", "[log]\nverbosity = -1\n", "log.verbosity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file: error = nil")
	}
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigEnv, "")

	if got := FindConfig(dir); got != "" {
		t.Errorf("FindConfig() = %q, want empty", got)
	}

	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, "")
	if got := FindConfig(dir); got != path {
		t.Errorf("FindConfig() = %q, want %q", got, path)
	}

	t.Setenv(ConfigEnv, "/elsewhere/mjc.toml")
	if got := FindConfig(dir); got != "/elsewhere/mjc.toml" {
		t.Errorf("FindConfig() = %q, want env override", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigEnv, "")
	writeFile(t, filepath.Join(dir, "b", "Second.mj"), mainSource)
	writeFile(t, filepath.Join(dir, "a", "First.java"), mainSource)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not source")
	writeFile(t, filepath.Join(dir, ".git", "Hidden.java"), mainSource)

	proj, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a", "First.java"),
		filepath.Join(dir, "b", "Second.mj"),
	}
	if !reflect.DeepEqual(proj.Files, want) {
		t.Errorf("Files = %v, want %v", proj.Files, want)
	}
	if proj.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", proj.ConfigFile)
	}
}

func TestLoadWithSourceDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigEnv, "")
	writeFile(t, filepath.Join(dir, ConfigFileName), "[source]\ndirs = [\"src\"]\n")
	writeFile(t, filepath.Join(dir, "src", "Main.java"), mainSource)
	writeFile(t, filepath.Join(dir, "other", "Skipped.java"), mainSource)

	proj, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []string{filepath.Join(dir, "src", "Main.java")}
	if !reflect.DeepEqual(proj.Files, want) {
		t.Errorf("Files = %v, want %v", proj.Files, want)
	}
}

func TestEntrypoints(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigEnv, "")
	writeFile(t, filepath.Join(dir, "BinarySearch.java"), mainSource)
	writeFile(t, filepath.Join(dir, "Broken.java"), "class Broken {")

	proj, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	eps, err := proj.Entrypoints()
	if err != nil {
		t.Fatalf("Entrypoints() error: %v", err)
	}
	if len(eps) != 1 {
		t.Fatalf("got %d entrypoints, want 1: %+v", len(eps), eps)
	}
	if eps[0].ClassName != "BinarySearch" || eps[0].Slug != "binary-search" {
		t.Errorf("entrypoint = %+v", eps[0])
	}
}

func TestClassNameToSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Main", "main"},
		{"BinarySearch", "binary-search"},
		{"TreeVisitor", "tree-visitor"},
		{"LinkedList", "linked-list"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := classNameToSlug(tt.in); got != tt.want {
				t.Errorf("classNameToSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

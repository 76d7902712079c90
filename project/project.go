package project

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/mjc/minijava/parser"
)

var log = commonlog.GetLogger("mjc.project")

// Project is a directory of MiniJava sources plus its configuration.
type Project struct {
	RootDir    string
	ConfigFile string // empty when running on defaults
	Config     *Config
	Files      []string
}

// Load reads the configuration for dir and collects its source files.
func Load(dir string) (*Project, error) {
	return LoadWithConfig(dir, FindConfig(dir))
}

// LoadWithConfig is Load with an explicit config file. An empty path
// means defaults.
func LoadWithConfig(dir, configPath string) (*Project, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		log.Debugf("loaded config %s", configPath)
	}

	proj := &Project{
		RootDir:    dir,
		ConfigFile: configPath,
		Config:     cfg,
	}

	files, err := CollectFiles(proj.SourceDirs(), cfg.Source.Extensions)
	if err != nil {
		return nil, err
	}
	proj.Files = files
	log.Infof("found %d source files in %s", len(files), dir)
	return proj, nil
}

// SourceDirs returns the configured source directories resolved against
// the project root.
func (p *Project) SourceDirs() []string {
	dirs := make([]string, len(p.Config.Source.Dirs))
	for i, d := range p.Config.Source.Dirs {
		if filepath.IsAbs(d) {
			dirs[i] = d
		} else {
			dirs[i] = filepath.Join(p.RootDir, d)
		}
	}
	return dirs
}

// CollectFiles walks dirs and returns every file with one of exts, sorted
// and without duplicates. Hidden directories are skipped.
func CollectFiles(dirs []string, exts []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !hasExt(path, exts) || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan source files in %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, want := range exts {
		if ext == want {
			return true
		}
	}
	return false
}

// Entrypoint is the main class of one source file.
type Entrypoint struct {
	File      string
	ClassName string // e.g. "BinarySearch"
	Slug      string // e.g. "binary-search"
}

// Entrypoints returns the main class of every source file that parses.
// Files with errors are skipped.
func (p *Project) Entrypoints() ([]Entrypoint, error) {
	var entrypoints []Entrypoint
	for _, file := range p.Files {
		ep, ok, err := findEntrypointInFile(file)
		if err != nil {
			return nil, err
		}
		if ok {
			entrypoints = append(entrypoints, ep)
		}
	}
	return entrypoints, nil
}

func findEntrypointInFile(path string) (Entrypoint, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Entrypoint{}, false, fmt.Errorf("read %s: %w", path, err)
	}

	p := parser.ParseProgram(bytes.NewReader(content), parser.WithFile(path))
	prog := p.Finish()
	if prog == nil || prog.Main == nil || prog.Main.Name == nil {
		log.Debugf("skipping %s: %d diagnostics", path, len(p.Diagnostics()))
		return Entrypoint{}, false, nil
	}

	className := prog.Main.Name.Name
	return Entrypoint{
		File:      path,
		ClassName: className,
		Slug:      classNameToSlug(className),
	}, true, nil
}

// classNameToSlug converts a PascalCase class name to kebab-case.
// e.g., "BinarySearch" -> "binary-search", "Main" -> "main"
func classNameToSlug(name string) string {
	var result strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('-')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

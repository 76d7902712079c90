package codebase

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/mjc/minijava/parser"
)

var log = commonlog.GetLogger("mjc.codebase")

// DefaultExtensions are the file extensions scanned when none are given.
var DefaultExtensions = []string{".java", ".mj"}

// Codebase holds the parse results of every MiniJava file under a root
// directory. It is safe for concurrent use.
type Codebase struct {
	mu         sync.RWMutex
	rootDir    string
	extensions []string
	files      map[string]*FileInfo
}

// FileInfo is the latest parse of one file. Program is nil when the file
// has errors.
type FileInfo struct {
	Path        string
	Content     []byte
	Program     *parser.Program
	Diagnostics parser.Diagnostics
}

func (f *FileInfo) HasErrors() bool {
	return f.Diagnostics.HasErrors()
}

func New(rootDir string, extensions ...string) *Codebase {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Codebase{
		rootDir:    rootDir,
		extensions: extensions,
		files:      make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsSource reports whether path has one of the scanned extensions.
func (c *Codebase) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// ScanAll parses every source file below the root directory. Unreadable
// entries are skipped.
func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if c.IsSource(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content as the new version of path and returns the
// stored result.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := parseFile(path, content)

	c.mu.Lock()
	c.files[path] = info
	c.mu.Unlock()

	log.Debugf("parsed %s: %d diagnostics", path, len(info.Diagnostics))
	return info
}

func parseFile(path string, content []byte) *FileInfo {
	p := parser.ParseProgram(bytes.NewReader(content), parser.WithFile(path))
	prog := p.Finish()
	return &FileInfo{
		Path:        path,
		Content:     content,
		Program:     prog,
		Diagnostics: p.Diagnostics(),
	}
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the stored files sorted by path.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	files := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// CheckResult is the outcome of checking one file. Err is set when the
// file could not be read.
type CheckResult struct {
	Path string
	File *FileInfo
	Err  error
}

// CheckFiles parses paths concurrently with at most jobs workers and
// stores every result. Results come back in the order of paths. A
// cancelled context stops files that have not started yet.
func (c *Codebase) CheckFiles(ctx context.Context, paths []string, jobs int) ([]CheckResult, error) {
	results := make([]CheckResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].Path = path
			content, err := os.ReadFile(path)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].File = c.UpdateFile(path, content)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ClassNames returns the names of every class declared in files that
// parsed, main classes included.
func (c *Codebase) ClassNames() []string {
	var names []string
	for _, f := range c.Files() {
		if f.Program == nil {
			continue
		}
		if f.Program.Main != nil && f.Program.Main.Name != nil {
			names = append(names, f.Program.Main.Name.Name)
		}
		for _, class := range f.Program.Classes {
			if class.ClassName() != nil {
				names = append(names, class.ClassName().Name)
			}
		}
	}
	return names
}

// Methods returns every method declared in files that parsed, keyed by
// the name of the declaring class.
func (c *Codebase) Methods() map[string][]*parser.MethodDecl {
	methods := make(map[string][]*parser.MethodDecl)
	for _, f := range c.Files() {
		if f.Program == nil {
			continue
		}
		for _, class := range f.Program.Classes {
			if class.ClassName() == nil {
				continue
			}
			name := class.ClassName().Name
			methods[name] = append(methods[name], class.MethodDecls()...)
		}
	}
	return methods
}

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindField
	CompletionKindClass
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// MemberCompletions lists what may follow a '.': every known method plus
// the array length.
func (c *Codebase) MemberCompletions() []CompletionItem {
	methods := c.Methods()

	classes := make([]string, 0, len(methods))
	for name := range methods {
		classes = append(classes, name)
	}
	sort.Strings(classes)

	var items []CompletionItem
	for _, class := range classes {
		for _, m := range methods[class] {
			if m.Name == nil {
				continue
			}
			items = append(items, CompletionItem{
				Label:      m.Name.Name,
				Kind:       CompletionKindMethod,
				Detail:     class + "." + formatMethodSignature(m),
				InsertText: formatMethodInsert(m),
			})
		}
	}
	items = append(items, CompletionItem{
		Label:      "length",
		Kind:       CompletionKindField,
		Detail:     "int",
		InsertText: "length",
	})
	return items
}

// ClassCompletions lists class names, as offered after 'new'.
func (c *Codebase) ClassCompletions() []CompletionItem {
	var items []CompletionItem
	for _, name := range c.ClassNames() {
		items = append(items, CompletionItem{
			Label:      name,
			Kind:       CompletionKindClass,
			Detail:     "class " + name,
			InsertText: name + "()",
		})
	}
	return items
}

func formatMethodSignature(m *parser.MethodDecl) string {
	var params []string
	for _, p := range m.Params {
		params = append(params, typeName(p.Type)+" "+p.Name.Name)
	}
	return typeName(m.ReturnType) + " " + m.Name.Name + "(" + strings.Join(params, ", ") + ")"
}

func formatMethodInsert(m *parser.MethodDecl) string {
	if len(m.Params) == 0 {
		return m.Name.Name + "()"
	}
	var placeholders []string
	for i, p := range m.Params {
		placeholders = append(placeholders, "${"+strconv.Itoa(i+1)+":"+p.Name.Name+"}")
	}
	return m.Name.Name + "(" + strings.Join(placeholders, ", ") + ")"
}

func typeName(t parser.Type) string {
	switch t := t.(type) {
	case *parser.IntType:
		return "int"
	case *parser.BooleanType:
		return "boolean"
	case *parser.IntArrayType:
		return "int[]"
	case *parser.ClassType:
		return t.Name.Name
	}
	return "?"
}


package codebase

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileEvent reports a change the watcher applied to the codebase.
type FileEvent struct {
	Path    string
	File    *FileInfo // nil when Removed
	Removed bool
}

// FileWatcher keeps a Codebase in sync with the file system and reports
// every re-parse on Events.
type FileWatcher struct {
	codebase *Codebase
	fs       *fsnotify.Watcher
	events   chan FileEvent
}

// NewFileWatcher watches the codebase root and every non-hidden directory
// below it.
func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &FileWatcher{
		codebase: c,
		fs:       fw,
		events:   make(chan FileEvent, 16),
	}
	if err := w.addTree(c.RootDir()); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		log.Debugf("watching %s", path)
		return w.fs.Add(path)
	})
}

func (w *FileWatcher) Events() <-chan FileEvent {
	return w.events
}

// Run processes file system events until ctx is done, then closes the
// watcher and the Events channel.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *FileWatcher) handle(ctx context.Context, ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if w.codebase.GetFile(ev.Name) == nil {
			return
		}
		w.codebase.RemoveFile(ev.Name)
		w.emit(ctx, FileEvent{Path: ev.Name, Removed: true})

	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log.Warningf("watch %s: %s", ev.Name, err)
			}
			return
		}
		if !w.codebase.IsSource(ev.Name) {
			return
		}
		content, err := os.ReadFile(ev.Name)
		if err != nil {
			log.Warningf("read %s: %s", ev.Name, err)
			return
		}
		file := w.codebase.UpdateFile(ev.Name, content)
		w.emit(ctx, FileEvent{Path: ev.Name, File: file})
	}
}

func (w *FileWatcher) emit(ctx context.Context, ev FileEvent) {
	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}

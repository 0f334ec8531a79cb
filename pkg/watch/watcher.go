// Package watch runs a handler for every notice file written to a
// directory, so a drop folder of Federal Register XML can be parsed as it
// fills.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
)

// Handler processes one file that was created or modified.
type Handler func(path string) error

// Watcher watches one directory for files with matching extensions.
type Watcher struct {
	dir        string
	extensions []string
	handler    Handler
	log        *slog.Logger

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithExtensions limits the watcher to files with the given extensions,
// e.g. ".xml". Matching ignores case.
func WithExtensions(extensions ...string) Option {
	return func(w *Watcher) {
		w.extensions = extensions
	}
}

// WithLogger sets the logger for handler failures and watcher errors.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = logger
	}
}

// New creates a watcher for dir. It does nothing until Start.
func New(dir string, handler Handler, options ...Option) *Watcher {
	w := &Watcher{
		dir:        dir,
		extensions: []string{".xml"},
		handler:    handler,
		log:        slog.Default(),
	}
	for _, option := range options {
		option(w)
	}
	return w
}

// Start begins watching. Events are handled on a single goroutine, one
// file at a time.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}

	w.watcher = watcher
	w.stopChan = make(chan struct{})
	w.done.Add(1)
	go w.watchLoop()
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		if w.stopChan != nil {
			close(w.stopChan)
		}
		if w.watcher != nil {
			w.watcher.Close()
		}
	})
	w.done.Wait()
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func (w *Watcher) watchLoop() {
	defer w.done.Done()
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if err := w.handler(event.Name); err != nil {
				w.log.Warn("failed to process file", "path", event.Name, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "dir", w.dir, "error", err)
		}
	}
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	extension := filepath.Ext(path)
	for _, candidate := range w.extensions {
		if strings.EqualFold(extension, candidate) {
			return true
		}
	}
	return false
}

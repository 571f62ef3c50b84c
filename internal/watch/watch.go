// Package watch re-runs the combine whenever a source file changes.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/csvcombine/internal/resolver"
)

const debounce = 500 * time.Millisecond

// Watcher watches the directories the source patterns point into and fires a
// callback when a file covered by a pattern is written or created. Matching
// happens per event, so files that appear after the watch started still
// trigger a re-run. Events for the target file are ignored so our own writes
// do not retrigger the combine.
type Watcher struct {
	patterns []string
	target   string
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan bool
}

// NewWatcher creates a watcher over the directories of the source patterns.
func NewWatcher(patterns []string, target string, callback func() error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, dir := range watchDirs(patterns) {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	return &Watcher{
		patterns: patterns,
		target:   filepath.Clean(target),
		callback: callback,
		watcher:  watcher,
		done:     make(chan bool),
	}, nil
}

// watchDirs maps the patterns to concrete directories. A pattern whose
// directory part is itself a glob is expanded against the current tree.
func watchDirs(patterns []string) []string {
	var dirs []string
	for _, dir := range resolver.Dirs(patterns) {
		matches, err := filepath.Glob(dir)
		if err != nil || len(matches) == 0 {
			dirs = append(dirs, dir)
			continue
		}
		dirs = append(dirs, matches...)
	}
	return dirs
}

// Start begins watching. It blocks until Stop is called.
func (w *Watcher) Start() {
	debounceTimer := time.NewTimer(debounce)
	debounceTimer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			eventPath := filepath.Clean(event.Name)
			if eventPath == w.target {
				continue
			}
			if resolver.Matches(w.patterns, eventPath) {
				// Debounce: reset timer on each event
				debounceTimer.Reset(debounce)
				debounceCh = debounceTimer.C
			}

		case <-debounceCh:
			if err := w.callback(); err != nil {
				fmt.Fprintf(os.Stderr, "Watch callback error: %v\n", err)
			}
			debounceCh = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

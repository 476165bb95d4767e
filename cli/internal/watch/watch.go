// Package watch re-runs a callback whenever a watched file changes.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file and debounces change events.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// New creates a watcher for file. The containing directory is watched so that
// editors that replace the file on save are still picked up.
func New(file string, callback func() error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		watcher:  fw,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the callback once, then again after each debounced change.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return err
	}

	go func() {
		debounce := time.NewTimer(0)
		if !debounce.Stop() {
			<-debounce.C
		}
		var pending <-chan time.Time

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if p, err := filepath.Abs(event.Name); err == nil && p == w.file {
						debounce.Reset(500 * time.Millisecond)
						pending = debounce.C
					}
				}

			case <-pending:
				if err := w.callback(); err != nil {
					fmt.Fprintf(os.Stderr, "watch callback error: %v\n", err)
				}
				pending = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop terminates the watch loop.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

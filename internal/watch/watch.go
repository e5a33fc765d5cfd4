// Package watch reports debounced filesystem changes under a set of directories.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tacogips/pipelinedoc/internal/logging"
)

// DefaultDebounce is used when Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// relevantOps are the operations that can change a document.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

// ChangeFunc handles a batch of changed paths. A returned error is logged
// and does not stop watching.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches directories (non-recursively) and batches changes.
type Watcher struct {
	// Dirs are the directories to watch.
	Dirs []string
	// Debounce is how long the watcher waits after the last change before
	// handling the batch.
	Debounce time.Duration
	// Match filters event paths. Nil accepts every path.
	Match func(path string) bool
	// SkipDir reports whether a newly created directory is left unwatched.
	// Nil watches every new directory.
	SkipDir func(path string) bool
}

// New creates a watcher.
func New(dirs []string, debounce time.Duration, match func(path string) bool) *Watcher {
	return &Watcher{Dirs: dirs, Debounce: debounce, Match: match}
}

// Run watches until ctx is canceled, calling onChange with each debounced
// batch of changed paths sorted by name. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	log := logging.Component("watch")

	if len(w.Dirs) == 0 {
		return errors.New("no directories to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.Dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Debug().Str("dir", dir).Msg("watching")
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := map[string]struct{}{}
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&relevantOps == 0 {
				continue
			}

			if event.Has(fsnotify.Create) {
				if found, isDir := w.addTree(fw, event.Name); isDir {
					for _, p := range found {
						pending[p] = struct{}{}
					}
					if len(found) > 0 {
						timer.Reset(debounce)
					}
					continue
				}
			}

			if !w.matches(event.Name) {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
			pending[event.Name] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]struct{}{}

			if err := onChange(ctx, changed); err != nil {
				log.Error().Err(err).Msg("change handler failed")
			}
		}
	}
}

func (w *Watcher) matches(path string) bool {
	return w.Match == nil || w.Match(path)
}

// addTree watches root and the directories below it when root is a
// directory, returning the matching files already inside. Files can land
// in a directory before its watch is registered, as when a populated
// directory is moved in, so they are reported here instead of by events.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) (found []string, isDir bool) {
	log := logging.Component("watch")

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("failed to read new path")
			return nil
		}
		if path == root {
			isDir = d.IsDir()
		}
		if !d.IsDir() {
			if w.matches(path) {
				found = append(found, path)
			}
			return nil
		}
		if w.SkipDir != nil && w.SkipDir(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			log.Warn().Err(err).Str("dir", path).Msg("failed to watch new directory")
			return nil
		}
		log.Debug().Str("dir", path).Msg("watching")
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", root).Msg("failed to read new path")
	}
	return found, isDir
}

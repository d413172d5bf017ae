// Package watch re-runs generation when the membership of a source tree
// changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/slngen/internal/classify"
	"github.com/starford/slngen/internal/models"
)

// ChangeFunc is called once per debounced burst of relevant events.
type ChangeFunc func(ctx context.Context) error

// Options configures Watch.
type Options struct {
	Root      string
	Recursive bool
	Debounce  time.Duration
	// Ignore lists absolute directories whose events are dropped, such as
	// an output directory nested inside the source tree.
	Ignore []string
}

// Watch starts an fsnotify watcher on opts.Root and calls onChange after
// files with a recognized extension are created, removed or renamed, or
// after a directory appears. Content edits do not change the descriptors
// and are ignored. Errors from onChange are logged, not returned. Watch
// blocks until ctx is cancelled.
func Watch(ctx context.Context, opts Options, logger *slog.Logger, onChange ChangeFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirs(w, opts.Root, opts.Recursive, opts.Ignore); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", opts.Root), slog.Bool("recursive", opts.Recursive))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			fire = timer.C
		} else {
			timer.Reset(opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			timer, fire = nil, nil
			logger.Info("watcher: source tree changed, regenerating")
			if err := onChange(ctx); err != nil {
				logger.Error("watcher: regeneration failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(ev.Name, opts.Ignore) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if !opts.Recursive {
						continue
					}
					if addErr := addDirs(w, ev.Name, true, opts.Ignore); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					schedule()
					continue
				}
			}

			if !Relevant(ev) {
				continue
			}
			logger.Debug("watcher: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Relevant reports whether ev can change the set of project files. A
// removed path can no longer be stat'ed, so removals and renames of
// extensionless paths count as possible directory removals.
func Relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if classify.Classify(filepath.ToSlash(ev.Name)) != models.Unrecognized {
		return true
	}
	return ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(ev.Name) == ""
}

func ignored(p string, dirs []string) bool {
	for _, d := range dirs {
		if p == d || (len(p) > len(d) && p[:len(d)] == d && p[len(d)] == filepath.Separator) {
			return true
		}
	}
	return false
}

// addDirs adds root and, when recursive, all its subdirectories.
func addDirs(w *fsnotify.Watcher, root string, recursive bool, ignore []string) error {
	if !recursive {
		return w.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignored(path, ignore) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce collapses the burst of events an editor save or an
// atomic rename produces into one notification.
const DefaultWatchDebounce = 200 * time.Millisecond

// WatchPaths returns the config files a running session depends on: the
// global, repo and local layers.
func WatchPaths() []string {
	paths := []string{GlobalConfigPath()}
	repo := repoConfigPath()
	if repo != "" {
		paths = append(paths, repo)
	}
	paths = append(paths, localConfigPaths(repo)...)
	if cwd, err := filepath.Abs(LocalConfigPath()); err == nil {
		paths = append(paths, cwd)
	}
	return paths
}

// Watcher reports changes to a set of config files.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	onChange func()
	onError  func(error)
}

// NewWatcher watches the directories holding paths, since atomic writes
// replace the file rather than modifying it. Directories that do not exist
// are skipped. onChange runs on the watcher goroutine.
func NewWatcher(paths []string, onChange func(), onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool),
		debounce: DefaultWatchDebounce,
		onChange: onChange,
		onError:  onError,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		w.files[p] = true
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run delivers debounced change notifications until ctx is done, then
// closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

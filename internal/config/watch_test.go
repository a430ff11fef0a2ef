package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0600))

	changed := make(chan struct{}, 4)
	w, err := NewWatcher([]string{path}, func() { changed <- struct{}{} }, nil)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, WriteFile(path, map[string]any{"context": "past"}))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatcherSkipsMissingDirectories(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "config.json")
	w, err := NewWatcher([]string{missing}, nil, nil)
	require.NoError(t, err)
	assert.True(t, w.files[filepath.Clean(missing)])
	require.NoError(t, w.fs.Close())
}

func TestWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	w, err := NewWatcher([]string{path}, nil, nil)
	require.NoError(t, err)
	defer w.fs.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"rename over", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"removed", fsnotify.Event{Name: path, Op: fsnotify.Remove}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"sibling", fsnotify.Event{Name: filepath.Join(dir, "config.json.tmp"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestWatchPathsIncludesGlobal(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	paths := WatchPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, GlobalConfigPath(), paths[0])
}

// Package history records recently resolved expressions.
//
// Entries live in <cacheDir>/history.json. Writes take an exclusive file
// lock so concurrent invocations do not drop each other's entries.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const (
	// FileName is the history file inside the cache dir.
	FileName = "history.json"

	// DefaultMax is used when NewStore is given a non-positive size.
	DefaultMax = 50

	// LockTimeout bounds how long a write waits for the file lock. Past it
	// the write proceeds unlocked rather than hanging the CLI.
	LockTimeout = 100 * time.Millisecond
)

// Entry is one resolved expression.
type Entry struct {
	Input   string    `json:"input"`
	Handler string    `json:"handler,omitempty"`
	Begin   time.Time `json:"begin"`
	End     time.Time `json:"end"`
	Guess   time.Time `json:"guess"`
	At      time.Time `json:"at"`
}

// key identifies an entry for deduplication.
func (e Entry) key() string {
	return strings.ToLower(strings.Join(strings.Fields(e.Input), " "))
}

// Store manages the history file.
type Store struct {
	mu        sync.RWMutex
	entries   []Entry
	size      int
	dir       string
	lastError error
	now       func() time.Time
}

// NewStore opens the history kept under cacheDir. A missing or corrupt file
// yields an empty history.
func NewStore(cacheDir string, size int) *Store {
	if size <= 0 {
		size = DefaultMax
	}
	s := &Store{size: size, dir: cacheDir, now: time.Now}
	if entries, err := s.read(); err == nil {
		s.entries = trim(entries, size)
	} else {
		s.lastError = err
	}
	return s
}

// Path returns the history file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, "history.lock")
}

// Add records e at the front, replacing any earlier entry for the same
// input. The on-disk list is merged under the lock so entries written by
// other processes survive.
func (s *Store) Add(e Entry) error {
	if strings.TrimSpace(e.Input) == "" {
		return nil
	}
	if e.At.IsZero() {
		e.At = s.now()
	}

	err := s.withLock(func() error {
		onDisk, err := s.read()
		if err != nil {
			onDisk = nil
		}

		s.mu.Lock()
		merged := prepend(e, mergeEntries(s.entries, onDisk), s.size)
		s.entries = merged
		snapshot := copyEntries(merged)
		s.mu.Unlock()

		return s.write(snapshot)
	})
	s.setError(err)
	return err
}

// List returns up to limit entries, newest first. A non-positive limit
// returns all of them.
func (s *Store) List(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every entry and the file.
func (s *Store) Clear() error {
	err := s.withLock(func() error {
		s.mu.Lock()
		s.entries = nil
		s.mu.Unlock()

		if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing history")
		}
		return nil
	})
	s.setError(err)
	return err
}

// LastError returns the error from the most recent load or write, if any.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Store) setError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()
}

// withLock runs fn holding the history lock. If the lock is still held
// elsewhere after LockTimeout, fn runs unlocked.
func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", s.dir)
	}

	fl := flock.New(s.lockPath())
	ctx, cancel := context.WithTimeout(context.Background(), LockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil && ctx.Err() != context.DeadlineExceeded {
		return errors.Wrap(err, "locking history")
	}
	if locked {
		defer func() { _ = fl.Unlock() }()
	}
	return fn()
}

func (s *Store) read() ([]Entry, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading history")
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", s.Path())
	}
	return entries, nil
}

// write replaces the file atomically via a uniquely named temp file.
func (s *Store) write(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding history")
	}

	tmp := fmt.Sprintf("%s.%d.%d.tmp", s.Path(), os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing history")
	}
	if runtime.GOOS == "windows" {
		_ = os.Remove(s.Path())
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "replacing history")
	}
	return nil
}

// mergeEntries combines the in-memory and on-disk lists, newest first,
// keeping the most recent entry per input.
func mergeEntries(a, b []Entry) []Entry {
	out := make([]Entry, 0, len(a)+len(b))
	seen := make(map[string]int, len(a)+len(b))
	for _, list := range [][]Entry{a, b} {
		for _, e := range list {
			if i, ok := seen[e.key()]; ok {
				if e.At.After(out[i].At) {
					out[i] = e
				}
				continue
			}
			seen[e.key()] = len(out)
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out
}

func prepend(e Entry, entries []Entry, size int) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, e)
	for _, existing := range entries {
		if existing.key() != e.key() {
			out = append(out, existing)
		}
	}
	return trim(out, size)
}

func trim(entries []Entry, size int) []Entry {
	if len(entries) > size {
		return entries[:size]
	}
	return entries
}

func sortNewestFirst(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.At.Compare(a.At)
	})
}

func copyEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Package markstore keeps the mapping from single-character marks to file
// paths for one working directory and mirrors it to a JSON file after every
// mutation.
//
// Persistence is best-effort: load and write failures are logged and never
// returned from the mutating operations. The in-memory set stays
// authoritative for the life of the process.
package markstore

import (
	"errors"
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/go-ports/bufmark/internal/scope"
)

// ErrInvalidChar is returned when a mark identifier is not exactly one
// printable character.
var ErrInvalidChar = errors.New("mark must be a single printable character")

// Mark pairs a mark character with the path it refers to.
type Mark struct {
	Char string `json:"char"`
	Path string `json:"path"`
}

// Options configures a Store.
type Options struct {
	// Persist enables loading from and writing to the scope file.
	Persist bool
	Logger  zerolog.Logger
}

// Store is the mark set of a single scope.
type Store struct {
	path    string
	cwd     string
	persist bool
	log     zerolog.Logger

	// wmu serializes each mutation with its write and each reload with its
	// read, so a reload never replaces the set with a file older than the
	// last accepted mutation.
	wmu sync.Mutex

	mu        sync.RWMutex
	marks     map[string]string
	listeners []func()
}

// Open initializes the store for cwd, keeping its file under dataDir.
// It never fails: an unreadable or malformed file yields an empty set.
func Open(dataDir, cwd string, opts Options) *Store {
	return New(scope.FilePath(dataDir, cwd), cwd, opts)
}

// New initializes a store backed by an explicit file path.
func New(path, cwd string, opts Options) *Store {
	s := &Store{
		path:    path,
		cwd:     cwd,
		persist: opts.Persist,
		log:     opts.Logger.With().Str("component", "markstore").Logger(),
		marks:   make(map[string]string),
	}
	if s.persist {
		s.Reload()
	}
	return s
}

// ValidateChar reports whether char is usable as a mark identifier.
func ValidateChar(char string) error {
	if utf8.RuneCountInString(char) != 1 {
		return ErrInvalidChar
	}
	r, _ := utf8.DecodeRuneInString(char)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return ErrInvalidChar
	}
	return nil
}

// Path returns the storage file of the store.
func (s *Store) Path() string { return s.path }

// Cwd returns the working directory the store is scoped to.
func (s *Store) Cwd() string { return s.cwd }

// Persistent reports whether mutations are written to disk.
func (s *Store) Persistent() bool { return s.persist }

// OnChange registers fn to run after every mutation.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set points char at path, replacing any previous target.
func (s *Store) Set(char, path string) error {
	if err := ValidateChar(char); err != nil {
		return err
	}
	s.mutate(func() { s.marks[char] = path })
	s.log.Debug().Str("char", char).Str("path", path).Msg("mark set")
	return nil
}

// Delete removes char and reports whether it was set. The file is rewritten
// and listeners are notified either way.
func (s *Store) Delete(char string) bool {
	var existed bool
	s.mutate(func() {
		_, existed = s.marks[char]
		delete(s.marks, char)
	})
	s.log.Debug().Str("char", char).Bool("existed", existed).Msg("mark deleted")
	return existed
}

// DeleteAll clears the mark set.
func (s *Store) DeleteAll() {
	s.mutate(func() { s.marks = make(map[string]string) })
	s.log.Debug().Msg("all marks deleted")
}

// Get returns the path for char.
func (s *Store) Get(char string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.marks[char]
	return p, ok
}

// List returns a snapshot of the marks ordered by character.
func (s *Store) List() []Mark {
	s.mu.RLock()
	out := make([]Mark, 0, len(s.marks))
	for c, p := range s.marks {
		out = append(out, Mark{Char: c, Path: p})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// Len returns the number of marks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.marks)
}

// mutate applies fn to the set, persists the result (if enabled) and fires
// the listeners. Listeners run after the write lock is released.
func (s *Store) mutate(fn func()) {
	s.wmu.Lock()
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	if s.persist {
		if err := s.write(); err != nil {
			s.log.Warn().Err(err).Str("file", s.path).Msg("persist marks")
		}
	}
	s.wmu.Unlock()

	s.notify()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// snapshot copies the mark map under the read lock.
func (s *Store) snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]string, len(s.marks))
	for c, p := range s.marks {
		m[c] = p
	}
	return m
}

package markstore

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last file event before the
// store is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a Store when its file is changed by another process.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration

	// mu guards timer and is held for the whole of a debounced reload, so
	// Stop can wait for one that is already running.
	mu       sync.Mutex
	timer    *time.Timer
	stopOnce sync.Once
	stopErr  error
	stopCh   chan struct{}
	done     chan struct{}
}

// Watch starts watching the store's directory. The directory is created if
// needed because fsnotify cannot watch a path that does not exist yet.
func (s *Store) Watch(logger zerolog.Logger, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:    s,
		watcher:  fw,
		logger:   logger.With().Str("component", "watcher").Logger(),
		debounce: debounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Stop ends the watch. Pending reloads are cancelled and no listener runs
// once Stop has returned. Calling Stop again is a no-op.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.stopErr = w.watcher.Close()
		<-w.done

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return w.stopErr
}

func (w *Watcher) run() {
	defer close(w.done)
	target := filepath.Clean(w.store.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.logger.Debug().Str("op", event.Op.String()).Msg("marks file event")
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped() {
		return
	}
	w.store.reloadAndNotify()
}

func (w *Watcher) stopped() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

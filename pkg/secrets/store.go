package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ErrNotLoaded means the secrets file does not exist or failed to parse.
var ErrNotLoaded = errors.New("secret store not loaded")

// ErrKeyNotFound means the store is loaded but the key is absent.
var ErrKeyNotFound = errors.New("secret key not found")

// Store reads sensitive key/value pairs from a TOML file and reloads them
// when the file changes on disk. Reads are safe for concurrent use.
type Store struct {
	path   string
	logger zerolog.Logger

	mu     sync.RWMutex
	v      *viper.Viper
	loaded bool

	watcher        *fsnotify.Watcher
	debounceTimer  *time.Timer
	debounceMu     sync.Mutex
	debounceWindow time.Duration
	done           chan struct{}
	stopOnce       sync.Once
}

// Open creates a store for the given file. A missing file is not an
// error: the store stays unloaded until the file appears and Watch
// picks it up.
func Open(path string, logger zerolog.Logger) *Store {
	s := &Store{
		path:           path,
		logger:         logger.With().Str("component", "secrets").Logger(),
		debounceWindow: 100 * time.Millisecond,
		done:           make(chan struct{}),
	}
	s.reload()
	return s
}

// Get returns the value for key, ErrNotLoaded if there is no secrets
// file, or ErrKeyNotFound if the key is absent.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return "", ErrNotLoaded
	}
	if !s.v.IsSet(key) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return s.v.GetString(key), nil
}

// Lookup is Get without the error detail.
func (s *Store) Lookup(key string) (string, bool) {
	value, err := s.Get(key)
	if err != nil {
		return "", false
	}
	return value, true
}

// Loaded reports whether a secrets file is currently loaded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Path returns the secrets file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) reload() {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read secrets file")
		}
		s.mu.Lock()
		s.v = nil
		s.loaded = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.v = v
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info().Str("path", s.path).Msg("Secrets loaded")
}

// Watch starts monitoring the secrets file for changes. The parent
// directory is watched so that create and rename events are seen even
// when the file does not exist yet.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to create secrets directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch secrets directory: %w", err)
	}

	s.watcher = watcher
	go s.watchLoop()

	s.logger.Debug().Str("path", s.path).Msg("Watching secrets file")
	return nil
}

func (s *Store) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				s.scheduleReload()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("Secrets watcher error")
		case <-s.done:
			return
		}
	}
}

// scheduleReload debounces bursts of events from editors that write the
// file in several steps.
func (s *Store) scheduleReload() {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounceWindow, s.reload)
}

// Close stops watching and releases the watcher.
func (s *Store) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}

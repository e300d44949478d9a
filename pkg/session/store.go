package session

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Store keys live sessions by an opaque browser token. Sessions are
// in-memory only; nothing survives a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   zerolog.Logger

	// OnCreate and OnRemove, when set, feed the session gauges.
	OnCreate func()
	OnRemove func()
}

// NewStore creates an empty session store.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logger.With().Str("component", "session-store").Logger(),
	}
}

// NewToken mints a browser cookie token.
func (st *Store) NewToken() (string, error) {
	return gonanoid.New(21)
}

// Get returns the session for token, if present.
func (st *Store) Get(token string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[token]
	return s, ok
}

// GetOrCreate returns the session for token, creating one if absent.
// The second result reports whether a new session was created.
func (st *Store) GetOrCreate(token string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[token]; ok {
		return s, false
	}

	s := New()
	st.sessions[token] = s
	if st.OnCreate != nil {
		st.OnCreate()
	}
	st.logger.Debug().Str("session_id", s.ID()).Msg("Session created")
	return s, true
}

// Remove drops the session for token.
func (st *Store) Remove(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[token]; !ok {
		return
	}
	delete(st.sessions, token)
	if st.OnRemove != nil {
		st.OnRemove()
	}
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// ReapIdle removes sessions idle for longer than ttl and returns how
// many were removed.
func (st *Store) ReapIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	reaped := 0
	for token, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			delete(st.sessions, token)
			if st.OnRemove != nil {
				st.OnRemove()
			}
			reaped++
		}
	}

	if reaped > 0 {
		st.logger.Info().Int("count", reaped).Msg("Reaped idle sessions")
	}
	return reaped
}

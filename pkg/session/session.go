package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixpod/pixpod/pkg/agent"
)

// Role tags one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Messages are immutable once created.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientState is the AWS client state machine for one session.
type ClientState string

const (
	// StateUninitialized means credential resolution has not run yet.
	StateUninitialized ClientState = "uninitialized"
	// StateReady means a client is cached and chat may proceed.
	StateReady ClientState = "ready"
	// StateFailed means resolution exhausted all sources; an explicit
	// retry is required before chat unblocks.
	StateFailed ClientState = "failed"
)

// Session is one browsing session's conversation record: an identifier,
// an append-only message history, and the cached agent client with its
// state. History is never edited in place; reset and clear replace the
// slice wholesale.
type Session struct {
	mu         sync.Mutex
	id         string
	messages   []Message
	state      ClientState
	caller     agent.Caller
	createdAt  time.Time
	lastActive time.Time
}

// New creates a session with a fresh identifier and empty history.
func New() *Session {
	now := time.Now()
	return &Session{
		id:         uuid.NewString(),
		messages:   []Message{},
		state:      StateUninitialized,
		createdAt:  now,
		lastActive: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Messages returns a copy of the history in conversation order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Append adds one message to the history.
func (s *Session) Append(role Role, content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := Message{Role: role, Content: content, Timestamp: time.Now()}
	s.messages = append(s.messages, msg)
	s.lastActive = time.Now()
	return msg
}

// Reset starts a new conversation: fresh identifier, fresh history. The
// cached client and its state survive; only the conversation restarts.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.messages = []Message{}
	s.lastActive = time.Now()
}

// Clear empties the history while keeping the session identifier.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []Message{}
	s.lastActive = time.Now()
}

// State returns the client state.
func (s *Session) State() ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Caller returns the cached agent client, if any.
func (s *Session) Caller() agent.Caller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caller
}

// SetCaller caches a resolved client and moves the session to ready.
func (s *Session) SetCaller(caller agent.Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = caller
	s.state = StateReady
	s.lastActive = time.Now()
}

// MarkFailed records a failed credential resolution. The session stays
// failed until an explicit retry succeeds.
func (s *Session) MarkFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = nil
	s.state = StateFailed
	s.lastActive = time.Now()
}

// Touch updates the idle timer without changing anything else.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

// LastActive returns the time of the most recent interaction.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Stats holds the message counters shown on the page.
type Stats struct {
	Messages     int `json:"messages"`
	UserMessages int `json:"user_messages"`
}

// Stats returns the current message counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Stats{Messages: len(s.messages)}
	for _, msg := range s.messages {
		if msg.Role == RoleUser {
			stats.UserMessages++
		}
	}
	return stats
}

// ExportDocument is the JSON chat export offered for download.
type ExportDocument struct {
	SessionID string    `json:"session_id"`
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// Export snapshots the conversation with an ISO-8601 timestamp.
func (s *Session) Export() ExportDocument {
	return ExportDocument{
		SessionID: s.ID(),
		Timestamp: time.Now().Format(time.RFC3339),
		Messages:  s.Messages(),
	}
}

// ExportFilename names the download after the first 8 characters of the
// session identifier.
func (s *Session) ExportFilename() string {
	id := s.ID()
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("chat_%s.json", id)
}

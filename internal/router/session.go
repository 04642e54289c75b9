package router

import (
	"sync"
	"sync/atomic"
	"time"

	"sophie-backend/internal/llm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Session is one user's conversation state. Callers must hold the session
// lock (Lock/Unlock) while reading or mutating it; Router.Reply takes it.
type Session struct {
	mu sync.Mutex

	ID       string
	Messages []Message
	// LastTopic is the FAQ key open for follow-ups, "" when idle.
	LastTopic     string
	FollowupCount int
	Chat          llm.ChatSession

	// unix nanos of the last turn, readable without the lock
	lastActive atomic.Int64
}

func NewSession(id string, chat llm.ChatSession) *Session {
	s := &Session{
		ID:       id,
		Messages: make([]Message, 0, 16),
		Chat:     chat,
	}
	s.Touch(time.Now())
	return s
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// History returns a copy of the transcript.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// Touch marks the session active at t.
func (s *Session) Touch(t time.Time) {
	s.lastActive.Store(t.UnixNano())
}

// IdleSince reports when the session was last touched. It does not wait for
// a turn in progress.
func (s *Session) IdleSince() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) append(role Role, content string, now time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content, CreatedAt: now})
}

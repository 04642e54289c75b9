package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sophie-backend/internal/llm"
	"sophie-backend/internal/logger"
	"sophie-backend/internal/router"
)

// MemoryStore keeps live sessions in memory, keyed by session id. Each
// session gets exactly one remote chat, opened on creation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*router.Session
	provider llm.Provider
	system   string
	ttl      time.Duration
}

func NewMemoryStore(provider llm.Provider, systemPrompt string, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*router.Session),
		provider: provider,
		system:   systemPrompt,
		ttl:      ttl,
	}
}

// Get returns the live session for id, if any.
func (m *MemoryStore) Get(id string) (*router.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, opening a new remote chat when the
// session does not exist yet.
func (m *MemoryStore) GetOrCreate(ctx context.Context, id string) (*router.Session, error) {
	if s, ok := m.Get(id); ok {
		return s, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	chat, err := m.provider.NewSession(ctx, m.system)
	if err != nil {
		return nil, fmt.Errorf("open chat for session %s: %w", id, err)
	}
	s := router.NewSession(id, chat)
	m.sessions[id] = s
	logger.Debug("session created", "session", id, "provider", m.provider.Name())
	return s, nil
}

// Delete drops a session and its remote chat.
func (m *MemoryStore) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (m *MemoryStore) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.IdleSince()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is done.
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n := m.Sweep(now); n > 0 {
					logger.Info("expired idle sessions", "removed", n, "live", m.Len())
				}
			}
		}
	}()
}

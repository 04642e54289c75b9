package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider answers without any external API, for offline development.
type MockProvider struct{}

func (MockProvider) Name() string  { return "mock" }
func (MockProvider) Model() string { return "mock-sophie" }

func (MockProvider) NewSession(_ context.Context, systemInstruction string) (ChatSession, error) {
	return &mockSession{system: systemInstruction}, nil
}

type mockSession struct {
	mu     sync.Mutex
	system string
	turns  int
}

func (m *mockSession) Send(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", remoteErr("mock", "send", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns++
	return fmt.Sprintf("(mock #%d) You said: %q", m.turns, text), nil
}

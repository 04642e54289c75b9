// Package llm adapts hosted chat models to the two operations Sophie needs:
// open a conversation with a system instruction, then send text and read text.
package llm

import (
	"context"
	"fmt"
)

// Provider opens remote chat sessions.
type Provider interface {
	Name() string
	Model() string
	// NewSession starts a conversation whose system instruction stays fixed
	// for its lifetime.
	NewSession(ctx context.Context, systemInstruction string) (ChatSession, error)
}

// ChatSession is an opaque remote conversation. Implementations keep the
// conversational context between calls.
type ChatSession interface {
	Send(ctx context.Context, text string) (string, error)
}

// RemoteError wraps any failure of a remote chat call.
type RemoteError struct {
	Provider string
	Op       string
	Err      error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func remoteErr(provider, op string, err error) error {
	return &RemoteError{Provider: provider, Op: op, Err: err}
}

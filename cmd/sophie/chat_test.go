package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sophie-backend/internal/llm"
	"sophie-backend/internal/router"
	"sophie-backend/internal/script"
)

// scriptedInput replays lines, then ends with err.
type scriptedInput struct {
	lines []string
	err   error
}

func (s *scriptedInput) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", s.err
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func newTestLoop(t *testing.T, in prompter, out io.Writer) (*chatLoop, *int) {
	t.Helper()
	sc, err := script.Default()
	require.NoError(t, err)
	opened := 0
	return &chatLoop{
		in:     in,
		out:    out,
		router: router.New(sc, 0),
		script: sc,
		render: func(s string) string { return s },
		openChat: func(ctx context.Context) (*router.Session, error) {
			opened++
			chat, err := llm.MockProvider{}.NewSession(ctx, sc.System)
			if err != nil {
				return nil, err
			}
			return router.NewSession("term", chat), nil
		},
	}, &opened
}

func TestChatLoopFollowUps(t *testing.T) {
	var out bytes.Buffer
	in := &scriptedInput{lines: []string{"What is BillCut?", "", "yes"}, err: io.EOF}
	loop, opened := newTestLoop(t, in, &out)

	require.NoError(t, loop.run(context.Background()))

	assert.Equal(t, 1, *opened)
	s := out.String()
	assert.Contains(t, s, "👋 Hi, how can I help you?")
	assert.Contains(t, s, "BillCut is a fintech company that does debt refinancing.")
	assert.Contains(t, s, "BillCut helps refinance your debt")
}

func TestChatLoopResetAndQuit(t *testing.T) {
	var out bytes.Buffer
	in := &scriptedInput{lines: []string{"what is billcut", "/reset", "yes", "/quit", "never read"}}
	loop, opened := newTestLoop(t, in, &out)

	require.NoError(t, loop.run(context.Background()))

	assert.Equal(t, 2, *opened)
	// after the reset there is no topic, so "yes" goes to the remote chat
	assert.Contains(t, out.String(), `(mock #1) You said: "yes`)
	assert.NotContains(t, out.String(), "never read")
}

func TestChatLoopCtrlC(t *testing.T) {
	loop, _ := newTestLoop(t, &scriptedInput{err: liner.ErrPromptAborted}, io.Discard)
	assert.NoError(t, loop.run(context.Background()))
}

func TestChatLoopInputError(t *testing.T) {
	boom := errors.New("tty gone")
	loop, _ := newTestLoop(t, &scriptedInput{err: boom}, io.Discard)
	assert.ErrorIs(t, loop.run(context.Background()), boom)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"sophie-backend/internal/logger"
	"sophie-backend/internal/router"
	"sophie-backend/internal/script"
)

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("you")
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("sophie")
	titleStyle     = lipgloss.NewStyle().Bold(true)
	captionStyle   = lipgloss.NewStyle().Faint(true)
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with Sophie in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.chat(cmd.Context())
		},
	}
}

// prompter reads one line of user input.
type prompter interface {
	Prompt(p string) (string, error)
}

type chatLoop struct {
	in         prompter
	out        io.Writer
	router     *router.Router
	script     *script.Script
	render     func(string) string
	openChat   func(ctx context.Context) (*router.Session, error)
	onAccepted func(line string)
}

func (a *app) chat(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("terminal renderer: %w", err)
	}

	loop := &chatLoop{
		in:     line,
		out:    os.Stdout,
		router: router.New(a.script, a.cfg.RemoteTimeout),
		script: a.script,
		render: func(s string) string {
			out, err := md.Render(s)
			if err != nil {
				return s
			}
			return strings.TrimRight(out, "\n")
		},
		openChat: func(ctx context.Context) (*router.Session, error) {
			chat, err := a.provider.NewSession(ctx, a.script.System)
			if err != nil {
				return nil, err
			}
			return router.NewSession(uuid.NewString(), chat), nil
		},
		onAccepted: line.AppendHistory,
	}
	return loop.run(ctx)
}

// run reads utterances until EOF, Ctrl-C or /quit. /reset starts a new session.
func (c *chatLoop) run(ctx context.Context) error {
	fmt.Fprintln(c.out, titleStyle.Render(c.script.UI.Title))
	fmt.Fprintln(c.out, captionStyle.Render(c.script.UI.Caption))
	fmt.Fprintln(c.out)

	sess, err := c.openChat(ctx)
	if err != nil {
		return fmt.Errorf("open chat session: %w", err)
	}
	for {
		input, err := c.in.Prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}
		if c.onAccepted != nil {
			c.onAccepted(input)
		}
		switch text {
		case "/quit", "/exit":
			return nil
		case "/reset":
			if sess, err = c.openChat(ctx); err != nil {
				return fmt.Errorf("open chat session: %w", err)
			}
			logger.Debug("terminal session reset", "session", sess.ID)
			fmt.Fprintln(c.out, captionStyle.Render("(new conversation)"))
			continue
		}
		fmt.Fprintf(c.out, "%s: %s\n", userLabel, input)
		reply := c.router.Reply(ctx, sess, input)
		fmt.Fprintf(c.out, "%s:\n%s\n\n", assistantLabel, c.render(reply.Text))
	}
}

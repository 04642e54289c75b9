// Package router decides, turn by turn, whether a user message is answered
// from the scripted tables or forwarded to the remote chat session.
//
// Per-session state machine:
//
//	Idle            --faq match-->               Topic(t, 0)
//	Topic(t, 0)     --affirmation, detailed[t]--> Topic(t, 1)
//	Topic(t, 1)     --affirmation, repeat[t]-->   Topic(t, 2)
//	any             --remote routing-->           Idle
//
// An affirmation with no scripted follow-up left goes to the remote session.
package router

import (
	"context"
	"errors"
	"strings"
	"time"

	"sophie-backend/internal/logger"
	"sophie-backend/internal/script"
)

// Source names where a reply came from.
type Source string

const (
	SourceFAQ      Source = "faq"
	SourceDetailed Source = "detailed"
	SourceRepeat   Source = "repeat"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Reply is the outcome of one turn, with the session state it left behind.
type Reply struct {
	Text          string
	Source        Source
	Topic         string
	FollowupCount int
}

var errNoChat = errors.New("session has no remote chat")

type Router struct {
	faq          []script.Entry
	detailed     map[string]string
	repeat       map[string]string
	affirmations map[string]struct{}
	fallback     string
	nudge        string
	// zero leaves remote calls bounded only by the caller's context
	timeout time.Duration
	now     func() time.Time
}

func New(sc *script.Script, remoteTimeout time.Duration) *Router {
	aff := make(map[string]struct{}, len(sc.Affirmations))
	for _, a := range sc.Affirmations {
		aff[a] = struct{}{}
	}
	return &Router{
		faq:          sc.FAQ,
		detailed:     sc.Detailed,
		repeat:       sc.Repeat,
		affirmations: aff,
		fallback:     sc.Fallback,
		nudge:        sc.LanguageNudge,
		timeout:      remoteTimeout,
		now:          time.Now,
	}
}

// Reply handles one user utterance and records both turns in the session.
// It holds the session lock for the whole turn, remote call included.
func (r *Router) Reply(ctx context.Context, s *Session, utterance string) Reply {
	s.Touch(r.now())
	s.Lock()
	defer s.Unlock()

	now := r.now()
	s.append(RoleUser, utterance, now)

	input := normalize(utterance)
	var out Reply
	if r.isAffirmation(input) {
		out = r.followUp(ctx, s, utterance)
	} else if key, answer, ok := r.match(input); ok {
		s.LastTopic = key
		s.FollowupCount = 0
		out = Reply{Text: answer, Source: SourceFAQ}
	} else {
		out = r.forward(ctx, s, utterance)
		s.LastTopic = ""
		s.FollowupCount = 0
	}

	out.Topic = s.LastTopic
	out.FollowupCount = s.FollowupCount
	done := r.now()
	s.append(RoleAssistant, out.Text, done)
	s.Touch(done)
	return out
}

func (r *Router) followUp(ctx context.Context, s *Session, utterance string) Reply {
	if s.LastTopic == "" {
		return r.forward(ctx, s, utterance)
	}
	switch s.FollowupCount {
	case 0:
		if text, ok := r.detailed[s.LastTopic]; ok {
			s.FollowupCount = 1
			return Reply{Text: text, Source: SourceDetailed}
		}
	case 1:
		if text, ok := r.repeat[s.LastTopic]; ok {
			s.FollowupCount = 2
			return Reply{Text: text, Source: SourceRepeat}
		}
	}
	// scripted follow-ups exhausted
	out := r.forward(ctx, s, utterance)
	s.LastTopic = ""
	s.FollowupCount = 0
	return out
}

// match returns the first FAQ entry, in table order, whose key occurs in input.
func (r *Router) match(input string) (string, string, bool) {
	for _, e := range r.faq {
		if strings.Contains(input, e.Key) {
			return e.Key, e.Answer, true
		}
	}
	return "", "", false
}

func (r *Router) isAffirmation(input string) bool {
	_, ok := r.affirmations[input]
	return ok
}

// forward sends text to the remote chat. On the first turn of a session the
// language nudge is appended. Failures are logged and replaced by the fallback.
func (r *Router) forward(ctx context.Context, s *Session, text string) Reply {
	if len(s.Messages) <= 1 {
		text += r.nudge
	}
	if s.Chat == nil {
		logger.Error("remote chat failed", "session", s.ID, "error", errNoChat)
		return Reply{Text: r.fallback, Source: SourceFallback}
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := r.now()
	reply, err := s.Chat.Send(ctx, text)
	if err != nil {
		logger.Error("remote chat failed", "session", s.ID, "error", err)
		return Reply{Text: r.fallback, Source: SourceFallback}
	}
	logger.Debug("remote chat replied", "session", s.ID, "took", r.now().Sub(start), "chars", len(reply))
	return Reply{Text: reply, Source: SourceRemote}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

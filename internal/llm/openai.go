package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider opens chats against the OpenAI chat completions API. The
// conversation history lives client side in each session.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (p *OpenAIProvider) Name() string  { return "openai" }
func (p *OpenAIProvider) Model() string { return p.model }

func (p *OpenAIProvider) NewSession(_ context.Context, systemInstruction string) (ChatSession, error) {
	return &openAISession{
		client: p.client,
		model:  p.model,
		history: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
		},
	}, nil
}

type openAISession struct {
	client  *openai.Client
	model   string
	history []openai.ChatCompletionMessage
}

// Send records the exchange in history only when the call succeeds.
func (s *openAISession) Send(ctx context.Context, text string) (string, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text}
	msgs := append(append([]openai.ChatCompletionMessage(nil), s.history...), user)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: msgs,
	})
	if err != nil {
		return "", remoteErr("openai", "send", err)
	}
	if len(resp.Choices) == 0 {
		return "", remoteErr("openai", "send", errors.New("no choices"))
	}
	reply := resp.Choices[0].Message.Content
	if strings.TrimSpace(reply) == "" {
		return "", remoteErr("openai", "send", errors.New("empty reply"))
	}
	s.history = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	return reply, nil
}

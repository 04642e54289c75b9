package llm

import (
	"context"
	"fmt"

	"sophie-backend/internal/config"
)

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.Config, apiKey string) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, apiKey, cfg.GeminiModel, GeminiOptions{})
	case config.ProviderOpenAI:
		return NewOpenAIProvider(apiKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case config.ProviderMock:
		return MockProvider{}, nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

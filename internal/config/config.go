package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Remote chat provider: gemini, openai or mock
	Provider    string
	GeminiModel string
	OpenAIModel string
	// Optional OpenAI-compatible base URL (proxies, local gateways)
	OpenAIBaseURL string
	// TOML secrets store consulted before the environment
	SecretsFile string
	// Script YAML; empty means the embedded default
	ScriptFile string
	SessionTTL time.Duration
	// Zero means remote calls are not bounded beyond the request context
	RemoteTimeout time.Duration
	LogLevel      string
	LogFormat     string
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:          getEnvDefault("PORT", "8080"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		Provider:      strings.ToLower(getEnvDefault("SOPHIE_PROVIDER", ProviderGemini)),
		GeminiModel:   getEnvDefault("GEMINI_MODEL", "gemini-1.5-flash-8b"),
		OpenAIModel:   getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		SecretsFile:   getEnvDefault("SOPHIE_SECRETS_FILE", ".streamlit/secrets.toml"),
		ScriptFile:    os.Getenv("SOPHIE_SCRIPT_FILE"),
		SessionTTL:    getEnvDurationDefault("SESSION_TTL", 60*time.Minute),
		RemoteTimeout: getEnvDurationDefault("REMOTE_TIMEOUT", 0),
		LogLevel:      getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvDefault("LOG_FORMAT", "text"),
	}
}

// Validate checks that the loaded values can start the service.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT cannot be empty")
	}
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("unknown SOPHIE_PROVIDER %q (want gemini, openai or mock)", c.Provider)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be > 0")
	}
	if c.RemoteTimeout < 0 {
		return errors.New("REMOTE_TIMEOUT cannot be negative")
	}
	return nil
}

// Model returns the model name used by the configured provider.
func (c Config) Model() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIModel
	case ProviderMock:
		return "mock-sophie"
	default:
		return c.GeminiModel
	}
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrMissingAPIKey is returned when the provider key is in neither the
// secrets file nor the environment.
var ErrMissingAPIKey = errors.New("api key not configured")

// APIKeyName returns the secret name the provider authenticates with, or ""
// when the provider needs no key.
func APIKeyName(provider string) string {
	switch provider {
	case ProviderGemini:
		return "GOOGLE_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	}
	return ""
}

// ResolveAPIKey looks up the provider key in the secrets file first and falls
// back to the environment.
func (c Config) ResolveAPIKey() (string, error) {
	name := APIKeyName(c.Provider)
	if name == "" {
		return "", nil
	}
	secrets, err := readSecrets(c.SecretsFile)
	if err != nil {
		return "", err
	}
	if v, ok := secrets[name].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("please set %s in %s or the environment: %w", name, c.SecretsFile, ErrMissingAPIKey)
}

// readSecrets decodes a flat TOML secrets file. A missing file is not an error.
func readSecrets(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]any{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read secrets %s: %w", path, err)
	}
	out := map[string]any{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse secrets %s: %w", path, err)
	}
	return out, nil
}

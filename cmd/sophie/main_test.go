package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sophie-backend/internal/config"
)

func TestInitHaltsWithoutAPIKey(t *testing.T) {
	t.Setenv("SOPHIE_PROVIDER", "gemini")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("SOPHIE_SECRETS_FILE", filepath.Join(t.TempDir(), "secrets.toml"))

	a := &app{}
	err := a.init(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Nil(t, a.provider)
	assert.Nil(t, a.script)
}

func TestInitMockProvider(t *testing.T) {
	t.Setenv("SOPHIE_PROVIDER", "mock")
	t.Setenv("SOPHIE_SCRIPT_FILE", "")

	a := &app{}
	require.NoError(t, a.init(context.Background()))

	assert.Equal(t, "mock", a.provider.Name())
	assert.Len(t, a.script.FAQ, 13)
}

func TestInitRejectsUnknownProvider(t *testing.T) {
	t.Setenv("SOPHIE_PROVIDER", "llama")

	a := &app{}
	assert.Error(t, a.init(context.Background()))
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "chat"}, names)
}

package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScript(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	require.Len(t, s.FAQ, 13)
	assert.Equal(t, "what is billcut", s.FAQ[0].Key)
	assert.Equal(t, "how does billcut pay credit card", s.FAQ[12].Key)
	assert.Contains(t, s.System, "You are Sophie")
	assert.Equal(t, []string{"yes", "yeah", "sure", "ok", "okay"}, s.Affirmations)
	assert.Equal(t, "Oops! Something went wrong. Try again?", s.Fallback)
	assert.Equal(t, "\n\n(Please reply in the same language I used above)", s.LanguageNudge)
	assert.Contains(t, s.Detailed, "what is billcut")
	assert.Contains(t, s.Repeat, "how does billcut pay credit card")
	assert.Equal(t, "Ask me anything about BillCut...", s.UI.Placeholder)
}

func TestDefaultScriptShadowedKeys(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"how does billcut pay credit card": "how does billcut pay",
	}, s.Shadowed())
}

func TestParseNormalizesKeys(t *testing.T) {
	s, err := Parse([]byte(`
system: persona
fallback: sorry
affirmations: ["  YES ", Sure]
faq:
  - key: "  Interest Rate "
    answer: twelve percent
detailed:
  INTEREST RATE: more detail
`))
	require.NoError(t, err)

	assert.Equal(t, "interest rate", s.FAQ[0].Key)
	assert.Equal(t, []string{"yes", "sure"}, s.Affirmations)
	assert.Equal(t, "more detail", s.Detailed["interest rate"])
	assert.Empty(t, s.Repeat)
}

func TestParseDefaultsAffirmations(t *testing.T) {
	s, err := Parse([]byte("system: persona\nfallback: sorry\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAffirmations, s.Affirmations)
}

func TestParseRejectsInvalidScripts(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "system: [unclosed"},
		{"missing system", "fallback: sorry\n"},
		{"missing fallback", "system: persona\n"},
		{"empty key", "system: p\nfallback: f\nfaq:\n  - key: ' '\n    answer: a\n"},
		{"empty answer", "system: p\nfallback: f\nfaq:\n  - key: k\n    answer: ''\n"},
		{"duplicate key", "system: p\nfallback: f\nfaq:\n  - key: k\n    answer: a\n  - key: K\n    answer: b\n"},
		{"orphan detailed", "system: p\nfallback: f\ndetailed:\n  nope: x\n"},
		{"orphan repeat", "system: p\nfallback: f\nrepeat:\n  nope: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses embedded script", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		assert.Len(t, s.FAQ, 13)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "script.yaml")
		require.NoError(t, os.WriteFile(path, []byte("system: p\nfallback: f\nfaq:\n  - key: hello\n    answer: hi\n"), 0o600))
		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []Entry{{Key: "hello", Answer: "hi"}}, s.FAQ)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

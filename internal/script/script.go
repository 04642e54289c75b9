// Package script holds Sophie's scripted content: the persona prompt, the
// ordered FAQ table and the follow-up tables.
package script

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultAffirmations apply when a script does not list its own.
var DefaultAffirmations = []string{"yes", "yeah", "sure", "ok", "okay"}

// Entry is one FAQ row. Keys are matched as lowercase substrings.
type Entry struct {
	Key    string `yaml:"key"`
	Answer string `yaml:"answer"`
}

type UI struct {
	Title       string `yaml:"title"`
	Caption     string `yaml:"caption"`
	Placeholder string `yaml:"placeholder"`
}

type Script struct {
	System        string            `yaml:"system"`
	Affirmations  []string          `yaml:"affirmations"`
	Fallback      string            `yaml:"fallback"`
	LanguageNudge string            `yaml:"language_nudge"`
	FAQ           []Entry           `yaml:"faq"`
	Detailed      map[string]string `yaml:"detailed"`
	Repeat        map[string]string `yaml:"repeat"`
	UI            UI                `yaml:"ui"`
}

// Default returns the embedded BillCut script.
func Default() (*Script, error) {
	return Parse(defaultYAML)
}

// Load reads a script from path, or the embedded default when path is empty.
func Load(path string) (*Script, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script. FAQ keys and affirmations are stored
// lowercased and trimmed so they compare against normalized input.
func Parse(b []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i := range s.FAQ {
		s.FAQ[i].Key = normalizeKey(s.FAQ[i].Key)
	}
	if len(s.Affirmations) == 0 {
		s.Affirmations = append([]string(nil), DefaultAffirmations...)
	}
	for i := range s.Affirmations {
		s.Affirmations[i] = normalizeKey(s.Affirmations[i])
	}
	s.Detailed = normalizeTable(s.Detailed)
	s.Repeat = normalizeTable(s.Repeat)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects scripts the router cannot run.
func (s *Script) Validate() error {
	if strings.TrimSpace(s.System) == "" {
		return errors.New("system prompt is required")
	}
	if strings.TrimSpace(s.Fallback) == "" {
		return errors.New("fallback reply is required")
	}
	seen := make(map[string]bool, len(s.FAQ))
	for i, e := range s.FAQ {
		if e.Key == "" {
			return fmt.Errorf("faq[%d]: key is required", i)
		}
		if strings.TrimSpace(e.Answer) == "" {
			return fmt.Errorf("faq[%d] %q: answer is required", i, e.Key)
		}
		if seen[e.Key] {
			return fmt.Errorf("faq[%d]: duplicate key %q", i, e.Key)
		}
		seen[e.Key] = true
	}
	for k := range s.Detailed {
		if !seen[k] {
			return fmt.Errorf("detailed follow-up %q has no faq entry", k)
		}
	}
	for k := range s.Repeat {
		if !seen[k] {
			return fmt.Errorf("repeat follow-up %q has no faq entry", k)
		}
	}
	return nil
}

// Shadowed reports FAQ keys that can never match because an earlier key is a
// substring of them. The result maps the unreachable key to its shadow.
func (s *Script) Shadowed() map[string]string {
	out := map[string]string{}
	for i, later := range s.FAQ {
		for _, earlier := range s.FAQ[:i] {
			if strings.Contains(later.Key, earlier.Key) {
				out[later.Key] = earlier.Key
				break
			}
		}
	}
	return out
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func normalizeTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[normalizeKey(k)] = v
	}
	return out
}

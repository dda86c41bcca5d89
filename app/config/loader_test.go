package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeKeywordsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "keywords.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write keywords file: %v", err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeKeywordsFile(t, `
terms:
  - github copilot
  - claude
threshold: 90
`)

	keywords, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(keywords.Terms) != 2 {
		t.Fatalf("Expected 2 terms, got %d", len(keywords.Terms))
	}
	if keywords.Terms[0] != "github copilot" {
		t.Errorf("Expected first term 'github copilot', got '%s'", keywords.Terms[0])
	}
	if keywords.Terms[1] != "claude" {
		t.Errorf("Expected second term 'claude', got '%s'", keywords.Terms[1])
	}
	if keywords.Threshold != 90 {
		t.Errorf("Expected threshold 90, got %d", keywords.Threshold)
	}
}

func TestLoader_Load_DefaultThreshold(t *testing.T) {
	path := writeKeywordsFile(t, `
terms:
  - tabnine
`)

	keywords, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if keywords.Threshold != 85 {
		t.Errorf("Expected default threshold 85, got %d", keywords.Threshold)
	}
}

func TestLoader_Load_PreservesTermOrder(t *testing.T) {
	path := writeKeywordsFile(t, `
terms:
  - cursor
  - github copilot
  - claude
  - tabnine
`)

	keywords, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	expected := []string{"cursor", "github copilot", "claude", "tabnine"}
	for i, term := range expected {
		if keywords.Terms[i] != term {
			t.Errorf("Term %d: expected '%s', got '%s'", i, term, keywords.Terms[i])
		}
	}
}

func TestLoader_Load_Validation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no terms", "threshold: 85\n"},
		{"blank term", "terms:\n  - claude\n  - '  '\n"},
		{"threshold too high", "terms:\n  - claude\nthreshold: 101\n"},
		{"threshold negative", "terms:\n  - claude\nthreshold: -5\n"},
		{"malformed yaml", "terms: [\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeKeywordsFile(t, c.content)
			if _, err := NewLoader(path).Load(); err == nil {
				t.Errorf("Expected error for %s, got nil", c.name)
			}
		})
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yml")
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

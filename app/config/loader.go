package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the keywords configuration
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the keywords file, applies defaults and validates the result.
func (l *Loader) Load() (*Keywords, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var keywords Keywords
	if err := yaml.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&keywords)

	if err := l.validate(&keywords); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	return &keywords, nil
}

func (l *Loader) setDefaults(keywords *Keywords) {
	if keywords.Threshold == 0 {
		keywords.Threshold = 85
	}
}

func (l *Loader) validate(keywords *Keywords) error {
	if len(keywords.Terms) == 0 {
		return fmt.Errorf("at least one term is required")
	}

	for i, term := range keywords.Terms {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("term at index %d is blank", i)
		}
	}

	if keywords.Threshold < 1 || keywords.Threshold > 100 {
		return fmt.Errorf("threshold must be between 1 and 100, got %d", keywords.Threshold)
	}

	return nil
}

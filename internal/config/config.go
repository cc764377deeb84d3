// Package config loads run profiles from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile mirrors the run flags. Unset fields leave the flag value alone.
type Profile struct {
	Host        string `yaml:"host" json:"host"`
	Token       string `yaml:"token" json:"token"`
	Clients     *int   `yaml:"clients" json:"clients"`
	MinDocs     *int   `yaml:"min_docs" json:"min_docs"`
	MaxDocs     *int   `yaml:"max_docs" json:"max_docs"`
	Seed        *int64 `yaml:"seed" json:"seed"`
	DryRun      *bool  `yaml:"dry_run" json:"dry_run"`
	Faker       *bool  `yaml:"faker" json:"faker"`
	Pushgateway string `yaml:"pushgateway" json:"pushgateway"`

	LLM LLMProfile `yaml:"llm" json:"llm"`
}

// LLMProfile configures the text-generation provider.
type LLMProfile struct {
	Enabled  *bool  `yaml:"enabled" json:"enabled"`
	Provider string `yaml:"provider" json:"provider"`
	BaseURL  string `yaml:"base_url" json:"base_url"`
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"api_key" json:"api_key"`
	Timeout  string `yaml:"timeout" json:"timeout"`
}

// LoadFile reads a profile, picking the decoder from the file extension.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile format: %s", ext)
	}

	return &p, nil
}

// EnvOr returns the environment variable key, or def when it is unset or empty.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

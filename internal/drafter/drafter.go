// Package drafter provides pluggable remote text-generation providers that
// draft document titles and bodies.
package drafter

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rcliao/wealth-populate/internal/model"
)

// Drafter drafts a document for a generation context. Any error means the
// draft is unusable and the caller should fall back to its own text.
type Drafter interface {
	DraftDocument(ctx context.Context, gc model.GenerationContext) (title, content string, err error)
}

var (
	ErrEmptyResponse   = errors.New("empty response")
	ErrIncompleteDraft = errors.New("draft missing title or content")
)

// Providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultModel     = "gemma2:2b"
	DefaultTimeout   = 60 * time.Second
	temperature      = 0.7
)

// Config selects and configures a provider.
type Config struct {
	Enabled  bool
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// ConfigFromEnv returns defaults overridden by OLLAMA_BASE_URL, OLLAMA_MODEL
// and OPENAI_API_KEY.
func ConfigFromEnv() Config {
	cfg := Config{
		Enabled:  true,
		Provider: ProviderOllama,
		BaseURL:  DefaultOllamaURL,
		Model:    DefaultModel,
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		Timeout:  DefaultTimeout,
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Model = v
	}
	return cfg
}

// New returns the configured provider, or nil when drafting is disabled.
func New(cfg Config) Drafter {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Provider {
	case ProviderOllama, "":
		if cfg.BaseURL == "" {
			return nil
		}
		return NewOllamaDrafter(cfg.BaseURL, cfg.Model, cfg.Timeout)
	case ProviderOpenAI:
		return NewOpenAIDrafter(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)
	default:
		return nil
	}
}

package drafter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rcliao/wealth-populate/internal/model"
)

// OllamaDrafter uses an Ollama instance's generate endpoint.
type OllamaDrafter struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Format  string        `json:"format"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Text     string `json:"text"`
}

// NewOllamaDrafter creates a drafter for baseURL. A zero timeout uses DefaultTimeout.
func NewOllamaDrafter(baseURL, model string, timeout time.Duration) *OllamaDrafter {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OllamaDrafter{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (d *OllamaDrafter) DraftDocument(ctx context.Context, gc model.GenerationContext) (string, string, error) {
	body, _ := json.Marshal(ollamaRequest{
		Model:   d.model,
		Prompt:  BuildPrompt(gc),
		Format:  "json",
		Stream:  false,
		Options: ollamaOptions{Temperature: temperature},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", "", fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(b))
	}

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("ollama invalid json response: %w", err)
	}
	text := result.Response
	if strings.TrimSpace(text) == "" {
		text = result.Text
	}
	return ParseDraft(text)
}

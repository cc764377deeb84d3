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

const defaultOpenAIURL = "https://api.openai.com/v1"

// OpenAIDrafter uses any OpenAI-compatible chat completions API.
type OpenAIDrafter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIDrafter creates a drafter using an OpenAI-compatible API.
func NewOpenAIDrafter(baseURL, apiKey, model string, timeout time.Duration) *OpenAIDrafter {
	if baseURL == "" || baseURL == DefaultOllamaURL {
		baseURL = defaultOpenAIURL
	}
	if model == "" || model == DefaultModel {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAIDrafter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (d *OpenAIDrafter) DraftDocument(ctx context.Context, gc model.GenerationContext) (string, string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:          d.model,
		Messages:       []chatMessage{{Role: "user", Content: BuildPrompt(gc)}},
		Temperature:    temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", "", fmt.Errorf("openai error %d: %s", resp.StatusCode, string(b))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("openai invalid json response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", "", ErrEmptyResponse
	}
	return ParseDraft(result.Choices[0].Message.Content)
}

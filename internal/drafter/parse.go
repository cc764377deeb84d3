package drafter

import (
	"encoding/json"
	"fmt"
	"strings"
)

type draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ParseDraft extracts the JSON object embedded in raw model output, which may
// be wrapped in prose, and returns its trimmed title and content.
func ParseDraft(raw string) (title, content string, err error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", "", ErrEmptyResponse
	}
	if start, end := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}'); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var d draft
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return "", "", fmt.Errorf("parse draft json: %w", err)
	}
	title = strings.TrimSpace(d.Title)
	content = strings.TrimSpace(d.Content)
	if title == "" || content == "" {
		return "", "", ErrIncompleteDraft
	}
	return title, content, nil
}

// Package api is a client for the remote client/document API being seeded.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/wealth-populate/internal/model"
)

// DefaultTimeout bounds each entity creation call.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 4096

// Client talks to the entity API over one reused http.Client.
type Client struct {
	host    string
	token   string
	http    *http.Client
	observe func(endpoint string, d time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver is called with the endpoint name and latency of every call.
func WithObserver(fn func(endpoint string, d time.Duration)) Option {
	return func(c *Client) { c.observe = fn }
}

// New creates a client for host authenticating with a bearer token.
func New(host, token string, opts ...Option) *Client {
	c := &Client{
		host:  strings.TrimRight(host, "/"),
		token: token,
		http:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type documentRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ClientID string `json:"clientId"`
}

// CreateClient posts rec and returns the identifier the API assigned.
func (c *Client) CreateClient(ctx context.Context, rec model.ClientRecord) (string, error) {
	status, body, err := c.post(ctx, "clients", "/clients", rec)
	if err != nil {
		return "", &EntityCreationError{Kind: KindClient, Err: err}
	}
	if !isSuccess(status) {
		return "", &EntityCreationError{Kind: KindClient, Status: status, Body: string(body)}
	}
	id, err := extractID(body)
	if err != nil {
		return "", &EntityCreationError{Kind: KindClient, Status: status, Body: string(body), Err: err}
	}
	return id, nil
}

// CreateDocument posts doc under clientID.
func (c *Client) CreateDocument(ctx context.Context, clientID string, doc model.DocumentRecord) error {
	payload := documentRequest{Title: doc.Title, Content: doc.Content, ClientID: clientID}
	status, body, err := c.post(ctx, "documents", "/clients/"+clientID+"/documents", payload)
	if err != nil {
		return &EntityCreationError{Kind: KindDocument, ClientID: clientID, Err: err}
	}
	if !isSuccess(status) {
		return &EntityCreationError{Kind: KindDocument, ClientID: clientID, Status: status, Body: string(body)}
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint, path string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s payload: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.observe != nil {
		c.observe(endpoint, time.Since(start))
	}
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, b, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// extractID reads "id" or "client_id" from a JSON object. Numeric ids are
// kept in their textual form.
func extractID(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	for _, key := range []string{"id", "client_id"} {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case json.Number:
			return v.String(), nil
		}
	}
	return "", ErrMissingID
}

// Package api is the HTTP client for the Marché storefront REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Client talks to the storefront API. The zero value is not usable; create
// one with NewClient. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do runs one request and returns the raw response body. Bodies are JSON
// both ways; a nil payload sends no body. Non-2xx responses come back as
// *Error with the server message extracted.
func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newError(resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *Client) put(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, payload)
}

func (c *Client) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// Error is a failed API response.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Msg, e.Status)
	}
	return fmt.Sprintf("api: request failed with status %d", e.Status)
}

// Unauthorized reports whether the server rejected the credential.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Message is the server-provided human-readable message, if any.
func (e *Error) Message() string {
	return e.Msg
}

// newError extracts the server message from an error body. The API reports
// errors as {"error": "..."} and validation failures as
// {"messages": {"field": ["..."]}}.
func newError(status int, body []byte) *Error {
	var payload struct {
		Error    string         `json:"error"`
		Message  string         `json:"message"`
		Messages map[string]any `json:"messages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &Error{Status: status, Msg: strings.TrimSpace(string(body))}
	}

	if len(payload.Messages) > 0 {
		fields := make([]string, 0, len(payload.Messages))
		for field := range payload.Messages {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+": "+joinMessages(payload.Messages[field]))
		}
		return &Error{Status: status, Msg: "Validation failed: " + strings.Join(parts, "; ")}
	}
	if payload.Error != "" {
		return &Error{Status: status, Msg: payload.Error}
	}
	return &Error{Status: status, Msg: payload.Message}
}

func joinMessages(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, e := range m {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// Client talks to the AAM backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("Backend request failed", "method", method, "path", path, "error", err)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	log.Debug("Backend request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start).Round(time.Millisecond))
	return resp.StatusCode, body, nil
}

// Ping calls GET /ping and returns the liveness message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/ping", "")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &HTTPError{StatusCode: status, Body: string(body)}
	}
	var out pingResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse ping response: %w", err)
	}
	return out.Message, nil
}

// IAMLogin exchanges the identity token for an IAM credential set with
// POST /iam/login. A non-200 response is returned as *HTTPError.
func (c *Client) IAMLogin(ctx context.Context, token string) (*IamCredentialSet, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/iam/login", token)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &HTTPError{StatusCode: status, Body: string(body)}
	}
	var creds IamCredentialSet
	if err := json.Unmarshal(body, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return &creds, nil
}

// CurrentUser returns the user the identity token belongs to via
// GET /users/@me. A non-200 response is returned as *HTTPError.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/users/@me", token)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &HTTPError{StatusCode: status, Body: string(body)}
	}
	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return &u, nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akopian/portfolio/internal/models"
)

// Client is a Go SDK for the portfolio API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new portfolio client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is an error envelope returned by the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// Project is a project card with its screenshot URL
type Project struct {
	models.ProjectEntry
	Image string `json:"image"`
}

// Content is the page content in one language
type Content struct {
	Language     models.LanguageCode `json:"language"`
	Toggle       models.LanguageCode `json:"toggle"`
	Content      models.ContentTree  `json:"content"`
	Projects     []Project           `json:"projects"`
	Profile      models.SiteProfile  `json:"profile"`
	Avatar       string              `json:"avatar"`
	AvatarGlitch string              `json:"avatar_glitch"`
}

// GetContent fetches the page content. An empty lang lets the server pick.
func (c *Client) GetContent(ctx context.Context, lang models.LanguageCode) (*Content, error) {
	path := "/api/v1/content"
	if lang != "" {
		path += "?lang=" + url.QueryEscape(string(lang))
	}

	var content Content
	if err := c.call(ctx, http.MethodGet, path, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// CreateShell registers a new shell with lang active
func (c *Client) CreateShell(ctx context.Context, lang models.LanguageCode) (*models.ShellState, error) {
	path := "/api/v1/shells"
	if lang != "" {
		path += "?lang=" + url.QueryEscape(string(lang))
	}
	return c.shellCall(ctx, http.MethodPost, path, nil)
}

// GetShell retrieves a shell's current state
func (c *Client) GetShell(ctx context.Context, id string) (*models.ShellState, error) {
	return c.shellCall(ctx, http.MethodGet, shellPath(id, ""), nil)
}

// DeleteShell removes a shell
func (c *Client) DeleteShell(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, shellPath(id, ""), nil, nil)
}

// SetLanguage switches a shell's active language
func (c *Client) SetLanguage(ctx context.Context, id string, lang models.LanguageCode) (*models.ShellState, error) {
	return c.shellCall(ctx, http.MethodPut, shellPath(id, "/language"),
		models.SetLanguageRequest{Language: lang})
}

// OpenGate opens the challenge gate with a fresh riddle
func (c *Client) OpenGate(ctx context.Context, id string) (*models.ShellState, error) {
	return c.shellCall(ctx, http.MethodPost, shellPath(id, "/gate/open"), nil)
}

// Input records typed text without checking it
func (c *Client) Input(ctx context.Context, id, text string) (*models.ShellState, error) {
	return c.shellCall(ctx, http.MethodPost, shellPath(id, "/gate/input"),
		models.GateInputRequest{Text: text})
}

// Submit checks an answer
func (c *Client) Submit(ctx context.Context, id, text string) (*models.ShellState, error) {
	return c.shellCall(ctx, http.MethodPost, shellPath(id, "/gate/submit"),
		models.GateInputRequest{Text: text})
}

// CloseGate dismisses the challenge gate
func (c *Client) CloseGate(ctx context.Context, id string) (*models.ShellState, error) {
	return c.shellCall(ctx, http.MethodPost, shellPath(id, "/gate/close"), nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

func shellPath(id, suffix string) string {
	return "/api/v1/shells/" + url.PathEscape(id) + suffix
}

func (c *Client) shellCall(ctx context.Context, method, path string, payload interface{}) (*models.ShellState, error) {
	var state models.ShellState
	if err := c.call(ctx, method, path, payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// call performs a request and decodes the response envelope into out
func (c *Client) call(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	status, resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response (HTTP %d): %w", status, err)
	}

	if !result.Success {
		if result.Error == nil {
			return &APIError{Status: status, Code: "unknown", Message: http.StatusText(status)}
		}
		result.Error.Status = status
		return result.Error
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

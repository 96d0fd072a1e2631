package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Header names sent by Juncture clients.
const (
	HeaderPublicKey = "X-Juncture-Public-Key"
	HeaderSecretKey = "X-Juncture-Secret-Key"
)

// Client is a JSON transport scoped to one base URL.
//
// Default headers are copied at construction and never modified afterwards,
// so a Client is safe for concurrent use and two Clients never share header
// state.
type Client struct {
	client  *http.Client
	baseURL string
	headers http.Header
	logger  *slog.Logger
}

// serviceName identifies the remote in errors and logs.
const serviceName = "juncture"

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	// Client is the underlying HTTP client. Defaults to http.DefaultClient.
	Client *http.Client

	// BaseURL is prepended to every request path.
	BaseURL string

	// Headers are attached to every request.
	Headers map[string]string

	// Logger receives one debug record per request. Nil disables logging.
	Logger *slog.Logger
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:  cfg.Client,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		headers: make(http.Header, len(cfg.Headers)+2),
		logger:  cfg.Logger,
	}

	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")
	for k, v := range cfg.Headers {
		c.headers.Set(k, v)
	}

	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Headers returns a copy of the default headers.
func (c *Client) Headers() http.Header {
	return c.headers.Clone()
}

// HTTPClient returns the underlying *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.client
}

// Request is a single call against the remote.
type Request struct {
	Method string
	Path   string

	// Query is encoded onto the URL. Nil or empty sends no query string.
	Query url.Values

	// Body is JSON-encoded when non-nil.
	Body any
}

// Do executes req and decodes a successful response into result.
// Responses with status >= 400 return an *APIError. A nil result discards
// the body.
func (c *Client) Do(ctx context.Context, req Request, result any) error {
	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, vs := range c.headers {
		httpReq.Header[k] = append([]string(nil), vs...)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed",
			"service", serviceName,
			"method", req.Method,
			"path", req.Path,
			"duration", time.Since(start),
			"error", err,
		)
		return fmt.Errorf("%s request failed: %w", serviceName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "request completed",
		"service", serviceName,
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return c.handleResponse(resp, req.Path, result)
}

// Get performs a GET request with query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, result)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, result)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, result)
}

// Delete performs a DELETE request with query parameters.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, result any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query}, result)
}

// handleResponse checks status and decodes the response body.
func (c *Client) handleResponse(resp *http.Response, path string, result any) error {
	if resp.StatusCode >= 400 {
		return c.parseError(resp, path)
	}

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", serviceName, err)
	}
	// An empty 2xx body decodes as an empty object so defaults apply.
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode %s response: %w", serviceName, err)
	}

	return nil
}

// parseError builds an APIError, keeping the decoded JSON payload when the
// body is a JSON object.
func (c *Client) parseError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		RequestID:  resp.Header.Get("X-Request-Id"),
		Body:       body,
	}

	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Payload = payload
	}

	return apiErr
}

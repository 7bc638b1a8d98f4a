// Package httpclient is the JSON client every backend call goes through. It
// wraps resty with bearer auth, request ids and typed errors for the status
// codes callers branch on.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var (
	// ErrUnauthorized matches any 401 response
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTimeout matches requests that ran past their deadline
	ErrTimeout = errors.New("request timed out")
)

// StatusError is returned for any response with a status of 400 or above
type StatusError struct {
	Method string
	URL    string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.Code)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match a 401
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client wraps resty.Client with auth and error mapping
type Client struct {
	resty      *resty.Client
	baseURL    string
	maxRetries int
	timeout    time.Duration
	tokens     oauth2.TokenSource
	debug      bool
	logger     *slog.Logger
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	BaseURL string
	// Timeout bounds requests whose context carries no deadline. A caller
	// deadline always wins, so it may be longer than Timeout.
	Timeout    time.Duration
	MaxRetries int // 0 disables transport-level retries
	UserAgent  string
	Debug      bool
	Logger     *slog.Logger
	// Tokens supplies the bearer token. A source that errors or yields an
	// empty token sends the request anonymously.
	Tokens oauth2.TokenSource
}

// DefaultClientConfig returns sensible defaults for the HTTP client
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   10 * time.Second,
		UserAgent: "mingle/1.0",
	}
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.UserAgent == "" {
		config.UserAgent = "mingle/1.0"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json")

	// Only network failures and 5xx are retried; a 4xx will not change
	restyClient.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, context.Canceled)
		}
		return r.StatusCode() >= 500 || r.StatusCode() == http.StatusTooManyRequests
	})

	client := &Client{
		resty:      restyClient,
		baseURL:    config.BaseURL,
		maxRetries: config.MaxRetries,
		timeout:    config.Timeout,
		tokens:     config.Tokens,
		debug:      config.Debug,
		logger:     config.Logger,
	}

	if config.Debug {
		restyClient.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			client.logRequest(r)
			return nil
		})
		restyClient.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
			client.logResponse(r)
			return nil
		})
	}

	return client
}

// Get fetches path with query params and decodes the JSON body into result
func (c *Client) Get(ctx context.Context, path string, params map[string]string, result any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, result)
}

// Post sends body as JSON and decodes the response into result
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

// Put sends body as JSON and decodes the response into result
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, result)
}

// Delete issues a DELETE; result may be nil
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, result)
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetTimeout returns the timeout applied to requests without a deadline
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// GetMaxRetries returns the configured transport retry count
func (c *Client) GetMaxRetries() int {
	return c.maxRetries
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, result any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := c.newRequest(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return c.execute(req, method, path, result)
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	req := c.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())

	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok.AccessToken != "" {
			req.SetAuthScheme(tok.Type()).SetAuthToken(tok.AccessToken)
		}
	}
	return req
}

func (c *Client) execute(req *resty.Request, method, path string, result any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("%s request failed for %s (is the API running at %s?): %w", method, path, c.baseURL, err)
	}

	if resp.StatusCode() >= 400 {
		return &StatusError{
			Method: method,
			URL:    path,
			Code:   resp.StatusCode(),
			Detail: errorDetail(resp.Body()),
		}
	}

	if result == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", path, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// errorDetail pulls a message out of the backend's error bodies, which use
// either {"detail": "..."} or {"error": "..."}
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		return string(payload.Detail)
	}
	return payload.Error
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func (c *Client) logRequest(r *resty.Request) {
	c.logger.Debug("HTTP Request",
		"method", r.Method,
		"url", r.URL,
		"request_id", r.Header.Get("X-Request-ID"),
	)
	if r.Body != nil {
		c.logger.Debug("Request Body", "body", fmt.Sprintf("%v", r.Body))
	}
}

func (c *Client) logResponse(r *resty.Response) {
	bodyStr := r.String()
	if len(bodyStr) > 1000 {
		bodyStr = bodyStr[:1000] + "... (truncated)"
	}
	c.logger.Debug("HTTP Response",
		"status", r.StatusCode(),
		"url", r.Request.URL,
		"time", r.Time(),
		"body", bodyStr,
	)
}

// Package adminapi is the REST client for the AutoPost backend. It fetches
// admin resources and translates the backend's snake_case JSON into the
// view models used by the CLI, TUI and registry sync.
package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent = "autopost-cli/1.0"
	// maxBodySize caps response bodies read into memory.
	maxBodySize = 8 << 20
)

var (
	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("admin api: unauthorized")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("admin api: not found")
)

// APIError is any other non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("admin api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("admin api: status %d: %s", e.StatusCode, e.Message)
}

// TokenSource supplies a bearer token per request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Recorder receives per-response metrics.
type Recorder interface {
	RecordAPIResponse(statusCode int, latency time.Duration)
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// Token takes precedence over TokenSource.
	Token       string
	TokenSource TokenSource
	// RateLimit in requests per second; 0 disables limiting.
	RateLimit float64
	Metrics   Recorder
}

// Client talks to the backend admin API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	token       string
	tokenSource TokenSource
	limiter     *rate.Limiter
	metrics     Recorder
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, opts ClientOptions) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		logger:      logger,
		token:       opts.Token,
		tokenSource: opts.TokenSource,
		limiter:     limiter,
		metrics:     opts.Metrics,
	}
}

// get performs a GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("admin api request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordAPIResponse(resp.StatusCode, time.Since(start))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("admin api returned error status",
			slog.String("path", path),
			slog.Int("http_status", resp.StatusCode),
		)
		return statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}

func (c *Client) bearerToken(ctx context.Context) (string, error) {
	if c.token != "" {
		return c.token, nil
	}
	if c.tokenSource == nil {
		return "", nil
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("get session token: %w", err)
	}
	return token, nil
}

func statusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}

	var detail struct {
		Detail  interface{} `json:"detail"`
		Message string      `json:"message"`
	}
	msg := ""
	if json.Unmarshal(body, &detail) == nil {
		switch d := detail.Detail.(type) {
		case string:
			msg = d
		case nil:
			msg = detail.Message
		default:
			if b, err := json.Marshal(d); err == nil {
				msg = string(b)
			}
		}
	}

	return &APIError{StatusCode: status, Message: msg}
}

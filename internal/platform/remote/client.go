// Package remote sends one HTTP request per tool call to the data.gv.at APIs
// and normalizes the response.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opendata-at/datagvat-mcp/internal/domain/endpoint"
	"github.com/opendata-at/datagvat-mcp/internal/domain/errors"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "data.gv.at-mcp/1.0.0"

	// HeaderRequestID carries the correlation id of an outbound call.
	HeaderRequestID = "X-Request-ID"

	// DefaultMaxBodyBytes caps a remote response body.
	DefaultMaxBodyBytes = 32 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// MaxBodyBytes rejects larger response bodies; 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

// Client is the HTTP adapter for one remote API.
type Client struct {
	baseURL      string
	userAgent    string
	maxBodyBytes int64
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a client for the given base URL.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base := endpoint.Request{Path: "/"}
	if _, err := base.URL(cfg.BaseURL); err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		httpClient:   httpClient,
		logger:       logger,
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req exactly once. Non-2xx responses become AppErrors carrying the
// remote status and body; transport failures become NETWORK_FAILURE.
func (c *Client) Do(ctx context.Context, req *endpoint.Request) (*Response, error) {
	u, err := req.URL(c.baseURL)
	if err != nil {
		return nil, errors.NewInternalError("failed to build request URL", err)
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, errors.NewInternalError("failed to create request", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", endpoint.DefaultAccept)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	requestID := uuid.NewString()
	httpReq.Header.Set(HeaderRequestID, requestID)
	req.Credentials.Apply(httpReq.Header)

	logger := c.logger.With(
		slog.String("tool", req.Tool),
		slog.String("method", req.Method),
		slog.String("path", u.Path),
		slog.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("Remote request failed", "error", err)
		return nil, errors.NewNetworkError("request failed", err).
			WithDetail("tool", req.Tool).
			WithDetail("request_id", requestID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		logger.Error("Failed to read remote response", "error", err, "status", resp.StatusCode)
		return nil, errors.NewNetworkError("failed to read response body", err).
			WithDetail("tool", req.Tool).
			WithDetail("request_id", requestID)
	}

	if int64(len(data)) > c.maxBodyBytes {
		logger.Error("Remote response too large", "status", resp.StatusCode, "limit", c.maxBodyBytes)
		return nil, errors.NewResponseTooLargeError(resp.StatusCode, c.maxBodyBytes).
			WithDetail("tool", req.Tool).
			WithDetail("request_id", requestID)
	}

	logger.Debug("Remote request completed",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"bytes", len(data),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Remote returned error status", "status", resp.StatusCode)
		return nil, errors.NewRemoteError(resp.StatusCode, string(data)).
			WithDetail("tool", req.Tool).
			WithDetail("request_id", requestID)
	}

	out := normalize(resp.StatusCode, resp.Header.Get("Content-Type"), data)
	out.RequestID = requestID
	out.URL = u.String()
	return out, nil
}

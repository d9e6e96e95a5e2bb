// Package httpclient issues authenticated JSON requests against the helpdesk REST API
// and normalises failures into APIError and TransportError.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/spec-kit/helpdesk-client/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

const maxResponseBytes = 8 << 20

// TokenSource yields the access token to attach to a request. It is consulted at
// send time, so a token replaced mid-flight affects only later requests.
type TokenSource interface {
	AccessToken() string
}

// Config holds the explicit transport settings of a Client.
type Config struct {
	// BaseURL is the API prefix, e.g. "http://localhost:8080/api".
	BaseURL string
	// Timeout bounds every request. Zero disables the timeout.
	Timeout time.Duration
	// IncludeCredentials keeps a cookie jar so server cookies are sent back.
	IncludeCredentials bool
	// RateLimit throttles outgoing requests per second. Zero disables throttling.
	RateLimit float64
	RateBurst int
	// HTTPClient is copied, never mutated. Nil means a fresh client.
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *zap.Logger
	Metrics    observability.RequestRecorder
}

// Client is the typed HTTP client shared by all resource clients.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *zap.Logger
	metrics    observability.RequestRecorder
}

// RequestOption adjusts an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a caller supplied header. Authorization is always decided by the TokenSource.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("httpclient: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("httpclient: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}
	if cfg.IncludeCredentials {
		if httpClient.Jar == nil {
			jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
			if err != nil {
				return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
			}
			httpClient.Jar = jar
		}
	} else {
		httpClient.Jar = nil
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		limiter:    limiter,
		logger:     observability.Named(cfg.Logger, "httpclient"),
		metrics:    cfg.Metrics,
	}, nil
}

// Do sends body as JSON to endpoint and decodes a 2xx response into out.
// A nil out discards the response body.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any, opts ...RequestOption) error {
	op := method + " " + endpoint

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encode %s body: %w", op, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("httpclient: build %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	req.Header.Del("Authorization")
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.recordTransportError(method, op, err)
			return &apperrors.TransportError{Op: op, Err: err}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordTransportError(method, op, err)
		return &apperrors.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	elapsed := time.Since(start)
	if err != nil {
		c.recordTransportError(method, op, err)
		return &apperrors.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if c.metrics != nil {
		c.metrics.RecordRequest(method, resp.StatusCode, elapsed)
	}
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &apperrors.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Get is a convenience wrapper for GET requests.
func (c *Client) Get(ctx context.Context, endpoint string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out, opts...)
}

// Request performs a call and returns the decoded response as T.
func Request[T any](ctx context.Context, c *Client, method, endpoint string, body any, opts ...RequestOption) (*T, error) {
	var out T
	if err := c.Do(ctx, method, endpoint, body, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// Endpoint joins escaped path segments and an optional query into a server-relative path.
func Endpoint(query url.Values, segments ...string) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String()
}

func (c *Client) recordTransportError(method, op string, err error) {
	if c.metrics != nil {
		c.metrics.RecordTransportError(method)
	}
	c.logger.Warn("api request failed before response", zap.String("op", op), zap.Error(err))
}

// decodeError prefers message, then error, then the generic text. A field of
// the wrong type is skipped rather than discarding the other one.
func decodeError(status int, payload []byte) error {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return apperrors.NewAPIError(status, apperrors.DefaultRequestFailedMessage)
	}
	if msg := rawString(body.Message); msg != "" {
		return apperrors.NewAPIError(status, msg)
	}
	return apperrors.NewAPIError(status, rawString(body.Error))
}

func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

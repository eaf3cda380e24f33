// Package apiclient talks to the media-monitoring backend API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/circuitbreaker"
	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/retry"
	"github.com/jonesrussell/north-cloud/media-scan/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBody = 32 << 20

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// Client issues JSON requests relative to the backend base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	retry   retry.Config
	breaker *circuitbreaker.Breaker
	log     logger.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithTelemetry(p *telemetry.Provider) Option {
	return func(c *Client) {
		if p == nil {
			return
		}
		c.tracer = p.Tracer
		c.metrics = p.Metrics
	}
}

// New builds a client from the backend configuration.
func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.retry = retry.Config{
		MaxAttempts:  cfg.RetryMaxAttempts,
		InitialDelay: cfg.RetryInitialDelay,
		IsRetryable:  isRetryable,
	}
	c.breaker = circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
		IsFailure:        func(err error) bool { return !IsClientError(err) },
		OnStateChange:    c.onBreakerChange,
	})
	return c, nil
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// BreakerState exposes the circuit position for health checks.
func (c *Client) BreakerState() circuitbreaker.State { return c.breaker.State() }

func (c *Client) onBreakerChange(from, to circuitbreaker.State) {
	c.log.Warn("Backend circuit breaker changed state",
		logger.String("from", from.String()),
		logger.String("to", to.String()),
	)
	if c.metrics != nil {
		c.metrics.BreakerState.Set(float64(to))
	}
}

func isRetryable(err error) bool {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return retry.IsTransient(err)
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

// Do performs one logical call and returns the unwrapped payload bytes.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target, err := c.resolve(path, query)
	if err != nil {
		return nil, err
	}

	var encoded []byte
	if body != nil {
		if encoded, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	endpoint := endpointLabel(path)
	ctx, span := telemetry.StartBackendSpan(ctx, c.tracer, method, endpoint)
	start := time.Now()

	var payload []byte
	call := func(ctx context.Context) error {
		return c.breaker.Execute(ctx, func(ctx context.Context) error {
			var callErr error
			payload, callErr = c.send(ctx, method, target, encoded)
			return callErr
		})
	}

	if idempotent(method) {
		err = retry.Do(ctx, c.retry, call)
	} else {
		err = call(ctx)
	}

	c.metrics.RecordBackendCall(method, endpoint, statusLabel(err), time.Since(start))
	telemetry.EndSpan(span, err)

	if err != nil {
		c.log.Debug("Backend call failed",
			logger.String("method", method),
			logger.String("endpoint", endpoint),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return payload, nil
}

func (c *Client) send(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(resp, respBody)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return unwrapEnvelope(resp.StatusCode, respBody)
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	u := c.baseURL.ResolveReference(rel)
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// endpointLabel collapses numeric ids so metric cardinality stays bounded.
func endpointLabel(path string) string {
	p := "/" + strings.TrimPrefix(path, "/")
	for numericSegment.MatchString(p) {
		p = numericSegment.ReplaceAllString(p, "/:id$1")
	}
	return strings.TrimPrefix(p, "/")
}

func statusLabel(err error) string {
	if err == nil {
		return "2xx"
	}
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return "circuit_open"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%dxx", apiErr.StatusCode/100)
	}
	return "error"
}

// Get decodes the payload of a GET into T.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) Result[T] {
	return call[T](ctx, c, http.MethodGet, path, query, nil)
}

func Post[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return call[T](ctx, c, http.MethodPost, path, nil, body)
}

func Put[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return call[T](ctx, c, http.MethodPut, path, nil, body)
}

func Patch[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return call[T](ctx, c, http.MethodPatch, path, nil, body)
}

// Delete discards any response payload.
func Delete(ctx context.Context, c *Client, path string) Result[struct{}] {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return failed[struct{}](err)
	}
	return Result[struct{}]{}
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) Result[T] {
	payload, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return failed[T](err)
	}
	out, err := decode[T](payload)
	if err != nil {
		return failed[T](fmt.Errorf("%s %s: %w", method, path, err))
	}
	return Result[T]{Data: out}
}

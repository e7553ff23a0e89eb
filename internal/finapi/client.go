// Package finapi wraps the analytics API endpoints that feed the dashboard.
// Every fetch falls back to bundled mock data when the API is not configured
// or cannot be reached.
package finapi

import (
	"bytes"
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
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Upstream outcomes reported to the Recorder.
const (
	OutcomeOK          = "ok"
	OutcomeOffline     = "offline"
	OutcomeUnreachable = "unreachable"
	OutcomeAPIError    = "api_error"
	OutcomeCanceled    = "canceled"
)

// Fallback sources reported to the Recorder.
const (
	FallbackMock     = "mock"
	FallbackLastGood = "last_good"
)

// Recorder receives upstream outcome signals. observability.Metrics satisfies it.
type Recorder interface {
	ObserveUpstream(resource, outcome string)
	ObserveFallback(resource, source string)
}

// Store persists the last successful payload per request so connectivity
// failures can serve it instead of the static mock.
type Store interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, dest any) (bool, error)
}

// Options configures a Client.
type Options struct {
	BaseURL         string
	DefaultTenant   string
	DefaultTenantID string
	Timeout         time.Duration
	Transport       http.RoundTripper
	Logger          *slog.Logger
	Recorder        Recorder
	Store           Store
}

// Client issues requests against the analytics API.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	recorder Recorder
	store    Store
	tenant   string
	tenantID string
}

// New builds a Client. An empty base URL puts it in offline mode.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tenantID := strings.TrimSpace(opts.DefaultTenantID)
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &headerTransport{base: base, defaultTenantID: tenantID},
		},
		logger:   logger,
		recorder: opts.Recorder,
		store:    opts.Store,
		tenant:   strings.TrimSpace(opts.DefaultTenant),
		tenantID: tenantID,
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("finapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &ConnectionError{Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp.StatusCode, body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("finapi: %s: empty response body", path)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("finapi: %s: decode: %w", path, err)
	}
	return nil
}

// resource describes one endpoint and its fallback behaviour.
type resource[T any] struct {
	name    string
	path    string
	failure string
	mock    func() T
}

// fetchResource applies the shared fallback policy: offline mode and
// connectivity failures serve fallback data, API errors surface and
// cancellation is returned untouched.
func fetchResource[R, T any](ctx context.Context, c *Client, res resource[T], params url.Values, normalize func(R) T) (T, error) {
	var zero T
	if !c.Configured() {
		c.observe(res.name, OutcomeOffline)
		return res.mock(), nil
	}

	var raw R
	err := c.getJSON(ctx, res.path, params, &raw)
	if err == nil {
		out := normalize(raw)
		c.observe(res.name, OutcomeOK)
		c.remember(ctx, res.name, params, out)
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.observe(res.name, OutcomeCanceled)
		return zero, ctxErr
	}

	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		c.observe(res.name, OutcomeUnreachable)
		c.logger.Warn("finapi: API unreachable, falling back",
			slog.String("resource", res.name), slog.Any("error", err))
		var cached T
		if c.recall(ctx, res.name, params, &cached) {
			c.observeFallback(res.name, FallbackLastGood)
			return cached, nil
		}
		c.observeFallback(res.name, FallbackMock)
		return res.mock(), nil
	}

	c.observe(res.name, OutcomeAPIError)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return zero, apiErr
	}
	return zero, &APIError{Message: res.failure, Err: err}
}

func (c *Client) observe(name, outcome string) {
	if c != nil && c.recorder != nil {
		c.recorder.ObserveUpstream(name, outcome)
	}
}

func (c *Client) observeFallback(name, source string) {
	if c != nil && c.recorder != nil {
		c.recorder.ObserveFallback(name, source)
	}
}

// Package intakeclient provides a client for the registration intake HTTP API.
package intakeclient

import (
	"bytes"
	"context"
	"fmt"
	"intake/pkg/domain"
	"intake/pkg/serrors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseBytes bounds how much of a response body the client reads.
const maxResponseBytes = 1 << 20

// Client talks to a running intake backend. It is safe for concurrent use.
type Client struct {
	httpClient  *http.Client // httpClient performs the HTTP requests
	baseURL     string       // baseURL is the backend root, without trailing slash
	processPath string       // processPath is the registration route
}

// Option customizes a Client.
type Option func(*Client)

// WithProcessPath sets the registration route; the default is /api/process.
func WithProcessPath(p string) Option {
	return func(c *Client) {
		c.processPath = "/" + strings.TrimPrefix(p, "/")
	}
}

// New creates a Client for the backend at baseURL.
func New(httpClient *http.Client, baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		processPath: "/api/process",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Submit sends a registration and returns the backend's response. A 400
// answer is returned as serrors.ErrBadRequest carrying the server's error
// message; any other unexpected answer as serrors.ErrUnavailable.
func (c *Client) Submit(ctx context.Context, req domain.RegistrationRequest) (*domain.RegistrationResponse, error) {
	var res domain.RegistrationResponse
	if err := c.do(ctx, http.MethodPost, c.processPath, domain.Marshal(req), &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var res domain.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out domain.Decoder) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not read response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := domain.Unmarshal(data, out); err != nil {
			return fmt.Errorf("could not decode response: %w", err)
		}

		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var e domain.ErrorResponse
		if err := domain.Unmarshal(data, &e); err != nil || e.Error == "" {
			return serrors.With(serrors.ErrBadRequest, "unexpected status %d", resp.StatusCode)
		}

		return serrors.With(serrors.ErrBadRequest, "%s", e.Error)
	default:
		return serrors.With(serrors.ErrUnavailable, "unexpected status %d", resp.StatusCode)
	}
}

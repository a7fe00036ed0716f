// Package upstream talks to the sales backend that owns products, sales,
// quotations and reports. Every call carries the cashier's bearer token.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/infrastructure/metrics"
	"github.com/climasgama/pos-terminal/pkg/apperror"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client is the HTTP client for the backend REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
}

// NewClient creates a backend client. m may be nil.
func NewClient(cfg *config.UpstreamConfig, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		metrics:    m,
	}
}

// do sends one request. route is the templated path used as metric label;
// path is the concrete one. A nil out discards the body.
func (c *Client) do(ctx context.Context, session entity.Session, method, route, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer := session.Bearer(); bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(method, route, 0, time.Since(start))
		return fmt.Errorf("error calling backend: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(method, route, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(&StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: truncate(string(data), 512)})
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding response of %s %s: %w", method, path, err)
	}
	return nil
}

// classify keeps the StatusError as cause and gives it an application meaning.
func classify(se *StatusError) error {
	switch se.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", apperror.ErrUnauthorized, se)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", apperror.ErrForbidden, se)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", apperror.ErrNotFound, se)
	}
	return se
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

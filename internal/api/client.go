// Package api provides the HTTP client for the career co-pilot API.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/careerpilot/internal/errors"
	"github.com/diogo/careerpilot/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// CopilotClient talks to the co-pilot API over HTTP
type CopilotClient struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	logf       func(format string, args ...any)
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*CopilotClient)

// WithBaseURL sets the API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *CopilotClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds every request. Zero or negative keeps the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *CopilotClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying transport, mostly for tests
func WithHTTPClient(hc tls_client.HttpClient) ClientOption {
	return func(c *CopilotClient) {
		c.httpClient = hc
	}
}

// WithVerbose writes request diagnostics to stderr
func WithVerbose(enabled bool) ClientOption {
	return func(c *CopilotClient) {
		if enabled {
			c.logf = func(format string, args ...any) {
				fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
			}
		}
	}
}

// NewClient creates a new CopilotClient
func NewClient(opts ...ClientOption) (*CopilotClient, error) {
	client := &CopilotClient{
		baseURL: models.DefaultBaseURL,
		timeout: 300 * time.Second,
		logf:    func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the API base URL
func (c *CopilotClient) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout
func (c *CopilotClient) Timeout() time.Duration {
	return c.timeout
}

// GetHTTPClient returns the underlying HTTP client
func (c *CopilotClient) GetHTTPClient() tls_client.HttpClient {
	return c.httpClient
}

// Close releases idle connections. Requests after Close fail.
func (c *CopilotClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *CopilotClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Health checks that the API answers on its health endpoint
func (c *CopilotClient) Health() error {
	_, err := c.do(http.MethodGet, models.PathHealth, nil)
	return err
}

// postJSON sends payload as JSON to path and returns the raw success body
func (c *CopilotClient) postJSON(path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(http.MethodPost, path, data)
}

// do performs one request. Transport failures become NetworkError or
// TimeoutError, non-2xx statuses become APIError carrying the body.
func (c *CopilotClient) do(method, path string, payload []byte) ([]byte, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("%s %s failed after %s: %v", method, path, time.Since(start).Round(time.Millisecond), err)
		if isTimeout(err) {
			return nil, apierrors.NewTimeoutError(fmt.Sprintf("%s after %s", path, c.timeout))
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint(path, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	c.logf("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewAPIErrorWithBody(
			resp.StatusCode,
			path,
			fmt.Sprintf("HTTP %d", resp.StatusCode),
			string(errorBody),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(path, fmt.Errorf("failed to read response: %w", err))
	}
	return data, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded") ||
		strings.Contains(err.Error(), "context deadline exceeded")
}

package api

import (
	"io"
	"net/url"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data []byte
	pos  int
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	return nil
}

// mockResponse represents a single scripted HTTP response
type mockResponse struct {
	statusCode int
	body       []byte
	err        error
}

// MockHttpClient replays scripted responses in order and records every
// request it receives, including the body.
type MockHttpClient struct {
	responses []mockResponse
	Requests  []*fhttp.Request
	Bodies    [][]byte
	idleClose int
}

func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }

func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}

func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar { return nil }

func (m *MockHttpClient) SetProxy(proxyUrl string) error { return nil }

func (m *MockHttpClient) GetProxy() string { return "" }

func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}

func (m *MockHttpClient) GetFollowRedirect() bool { return false }

func (m *MockHttpClient) CloseIdleConnections() { m.idleClose++ }

func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *MockHttpClient) Get(u string) (*fhttp.Response, error) {
	req, _ := fhttp.NewRequest(fhttp.MethodGet, u, nil)
	return m.Do(req)
}

func (m *MockHttpClient) Head(u string) (*fhttp.Response, error) {
	req, _ := fhttp.NewRequest(fhttp.MethodHead, u, nil)
	return m.Do(req)
}

func (m *MockHttpClient) Post(u, contentType string, body io.Reader) (*fhttp.Response, error) {
	req, _ := fhttp.NewRequest(fhttp.MethodPost, u, body)
	req.Header.Set("Content-Type", contentType)
	return m.Do(req)
}

// Do records the request and returns the next scripted response
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	idx := len(m.Requests)
	m.Requests = append(m.Requests, req)
	m.Bodies = append(m.Bodies, body)

	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}

	resp := m.responses[idx]
	if resp.err != nil {
		return nil, resp.err
	}

	return &fhttp.Response{
		StatusCode: resp.statusCode,
		Body:       NewMockResponseBody(resp.body),
		Header:     make(fhttp.Header),
	}, nil
}

// NewMockHttpClient creates a MockHttpClient that always answers with body and status
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{responses: []mockResponse{{statusCode: statusCode, body: body}}}
}

// NewMockHttpClientWithError creates a MockHttpClient whose requests fail at the transport
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{responses: []mockResponse{{err: err}}}
}

// NewSequentialMockHttpClient answers successive requests with successive responses
func NewSequentialMockHttpClient(responses ...mockResponse) *MockHttpClient {
	return &MockHttpClient{responses: responses}
}

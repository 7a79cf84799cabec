// Package backend is the HTTP client for the campus scooter API. Every call
// takes a context; authenticated calls carry the session's bearer token.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/semanticallynull/campusride/internal/session"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	logger     *slog.Logger
}

type config struct {
	timeout    time.Duration
	transport  http.RoundTripper
	logger     *slog.Logger
	registerer prometheus.Registerer
}

type Option func(*config)

// WithTimeout bounds each request. Zero disables the client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithTransport replaces the underlying round tripper (http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) { c.transport = rt }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics registers request metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) { c.registerer = reg }
}

// New returns a client for the API at baseURL. sess supplies the credential
// for authenticated calls and may be updated (login, logout) while the
// client is in use.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	cfg := config{
		timeout:   defaultTimeout,
		transport: http.DefaultTransport,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if sess == nil {
		sess = session.New("", nil)
	}

	var rt http.RoundTripper = &authRoundTripper{session: sess, next: cfg.transport}
	rt = newInstrumentedTransport(rt, cfg.registerer)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.timeout,
			Transport: rt,
		},
		session: sess,
		logger:  cfg.logger,
	}
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil. Non-2xx answers become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw)
		c.logger.DebugContext(req.Context(), "backend rejected request",
			"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrDecode, req.Method, req.URL.Path, err)
	}
	return nil
}

// data is the {"data": ...} envelope used by the auth endpoints.
type data[T any] struct {
	Data T `json:"data"`
}

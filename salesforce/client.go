package salesforce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cghall/salesforce-reporting/report"
)

// ============================================================================
// ANALYTICS CLIENT: report and dashboard retrieval
// ============================================================================
// One Client per org. The session is obtained lazily on first use and
// shared by every request; requests are throttled by a token bucket.
// ============================================================================

const (
	DefaultAnalyticsVersion = "v31.0"
	defaultTimeout          = 30 * time.Second
)

// Fetcher retrieves decoded reports. *Client implements it; the CLI and
// HTTP server accept any implementation.
type Fetcher interface {
	FetchReport(ctx context.Context, id string, filters []report.Filter) (*report.Document, error)
}

// Client talks to the Analytics REST API.
type Client struct {
	auth             Authenticator
	hc               *http.Client
	timeout          time.Duration
	limiter          *rate.Limiter
	logger           *zap.Logger
	analyticsVersion string

	mu      sync.Mutex
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout sets the per-request timeout. It is applied to a copy of the
// HTTP client once all options have run, so it combines with WithHTTPClient
// in either order and never changes the caller's client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit caps requests per second. rps <= 0 removes the cap.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithAnalyticsVersion sets the REST version used for analytics calls.
func WithAnalyticsVersion(v string) Option {
	return func(c *Client) { c.analyticsVersion = v }
}

// WithSession seeds the client with an existing session and skips login.
func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

// NewClient creates a client. No request is made until the first call.
func NewClient(auth Authenticator, opts ...Option) *Client {
	c := &Client{
		auth:             auth,
		hc:               &http.Client{Timeout: defaultTimeout},
		limiter:          rate.NewLimiter(rate.Limit(5), 1),
		logger:           zap.NewNop(),
		analyticsVersion: DefaultAnalyticsVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.hc
		hc.Timeout = c.timeout
		c.hc = &hc
	}
	return c
}

// Login authenticates now instead of on first use.
func (c *Client) Login(ctx context.Context) error {
	_, err := c.currentSession(ctx)
	return err
}

// Session returns the active session, logging in if needed.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	return c.currentSession(ctx)
}

func (c *Client) currentSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}
	if c.auth == nil {
		return nil, fmt.Errorf("%w: no authenticator configured", ErrNoSession)
	}

	s, err := c.auth.Authenticate(ctx, c.hc)
	if err != nil {
		return nil, err
	}
	c.logger.Info("salesforce login succeeded", zap.String("instance", s.Instance()))
	c.session = s
	return s, nil
}

func (c *Client) baseURL(s *Session) string {
	return fmt.Sprintf("%s/services/data/%s/analytics", s.InstanceURL, c.analyticsVersion)
}

// ReportURL returns the run endpoint for a report.
func (c *Client) ReportURL(s *Session, id string, details bool) string {
	return fmt.Sprintf("%s/reports/%s?includeDetails=%s",
		c.baseURL(s), url.PathEscape(id), strconv.FormatBool(details))
}

// GetReport runs a report and returns the raw JSON response. With filters
// the report's describe metadata is fetched first and the filters appended
// to reportMetadata.reportFilters before the run.
func (c *Client) GetReport(ctx context.Context, id string, filters []report.Filter, details bool) ([]byte, error) {
	s, err := c.currentSession(ctx)
	if err != nil {
		return nil, err
	}
	runURL := c.ReportURL(s, id, details)

	if len(filters) == 0 {
		return c.do(ctx, s, http.MethodPost, runURL, nil)
	}

	describeURL := fmt.Sprintf("%s/reports/%s/describe", c.baseURL(s), url.PathEscape(id))
	metadata, err := c.do(ctx, s, http.MethodGet, describeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to describe report %s: %w", id, err)
	}

	payload, err := appendFilters(metadata, filters)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	return c.do(ctx, s, http.MethodPost, runURL, payload)
}

// FetchReport runs a report with details and decodes it.
func (c *Client) FetchReport(ctx context.Context, id string, filters []report.Filter) (*report.Document, error) {
	raw, err := c.GetReport(ctx, id, filters, true)
	if err != nil {
		return nil, err
	}
	doc, err := report.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	return doc, nil
}

// GetDashboard returns the raw dashboard JSON.
func (c *Client) GetDashboard(ctx context.Context, id string) ([]byte, error) {
	s, err := c.currentSession(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, s, http.MethodGet, fmt.Sprintf("%s/dashboards/%s/", c.baseURL(s), url.PathEscape(id)), nil)
}

func (c *Client) do(ctx context.Context, s *Session, method, target string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+s.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("salesforce request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, data)
	}
	return data, nil
}

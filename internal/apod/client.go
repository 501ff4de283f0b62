package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the archive feed endpoint.
type Client struct {
	feedURL   *url.URL
	http      *http.Client
	timeout   time.Duration // only for the client NewClient builds itself
	userAgent string
}

const (
	// DefaultFeedURL serves the full archive as a single JSON array.
	DefaultFeedURL = "https://cdn.jsdelivr.net/gh/GCA-Classroom/apod/data.json"

	defaultUserAgent = "apodview/0.1"
	defaultTimeout   = 30 * time.Second
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithTimeout sets the overall HTTP timeout. Zero disables it. It does not
// touch a client supplied through WithHTTPClient.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The caller's client is
// used as is.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the given feed URL. An empty URL uses DefaultFeedURL.
func NewClient(feedURL string, opts ...ClientOption) (*Client, error) {
	u, err := parseFeedURL(feedURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		feedURL:   u,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// FeedURL returns the endpoint the client reads from.
func (c *Client) FeedURL() string {
	if c == nil || c.feedURL == nil {
		return ""
	}
	return c.feedURL.String()
}

// FetchArchive downloads and decodes the whole feed. Filtering happens client side.
func (c *Client) FetchArchive(ctx context.Context) ([]Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Record
	if err := c.get(ctx, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("feed %s returned status %d", c.feedURL.Host, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseFeedURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultFeedURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse feed url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse feed url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse feed url %q: missing host", raw)
	}
	u.Fragment = ""
	return u, nil
}

package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrEmbedUnavailable means the platform refused to embed the video.
var ErrEmbedUnavailable = errors.New("embed unavailable")

// DefaultOEmbedURL is the platform's oEmbed endpoint.
const DefaultOEmbedURL = "https://www.youtube.com/oembed"

const probeTimeout = 5 * time.Second

// Checker reports whether an identifier can be embedded.
type Checker interface {
	Check(ctx context.Context, id ID) error
}

// Prober checks embeddability through oEmbed. A nil error means playable.
type Prober struct {
	endpoint string
	http     *http.Client
}

var _ Checker = (*Prober)(nil)

// NewProber builds a Prober. An empty endpoint uses DefaultOEmbedURL.
func NewProber(endpoint string, hc *http.Client) *Prober {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultOEmbedURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: probeTimeout}
	}
	return &Prober{endpoint: strings.TrimSpace(endpoint), http: hc}
}

// Check asks the oEmbed endpoint about id. Removed, private or embed-disabled
// videos come back as ErrEmbedUnavailable; transport failures are returned wrapped.
func (p *Prober) Check(ctx context.Context, id ID) error {
	if p == nil {
		return fmt.Errorf("prober is nil")
	}
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return fmt.Errorf("parse oembed url: %w", err)
	}
	q := u.Query()
	q.Set("url", id.WatchURL())
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s (status %d)", ErrEmbedUnavailable, id, resp.StatusCode)
	default:
		return fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, id ID) error

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context, id ID) error {
	return f(ctx, id)
}

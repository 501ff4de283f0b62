package apod

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseFeedURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseFeedURL("")
	if err != nil {
		t.Fatalf("parseFeedURL returned error: %v", err)
	}
	if u.String() != DefaultFeedURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultFeedURL)
	}

	u, err = parseFeedURL("example.com/data.json#frag")
	if err != nil {
		t.Fatalf("parseFeedURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "example.com" || u.Path != "/data.json" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseFeedURL_RejectsUnsupportedScheme(t *testing.T) {
	if _, err := parseFeedURL("ftp://example.com/data.json"); err == nil {
		t.Fatalf("parseFeedURL returned nil error, want scheme error")
	}
}

func TestClient_FetchArchive(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotAccept, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.RawQuery
		if r.Method != http.MethodGet {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Record{
			{Date: "2024-01-01", Title: "Pillars", MediaType: MediaImage, URL: "https://x/a.jpg", HDURL: "https://x/a_hd.jpg"},
			{Date: "2024-01-02", Title: "Launch", MediaType: MediaVideo, URL: "https://www.youtube.com/embed/abc"},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/data.json")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	records, err := c.FetchArchive(ctx)
	if err != nil {
		t.Fatalf("FetchArchive returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("FetchArchive returned %d records, want 2", len(records))
	}
	if records[0].HDURL != "https://x/a_hd.jpg" || records[1].MediaType != MediaVideo {
		t.Fatalf("records decoded incorrectly: %#v", records)
	}
	if !strings.HasPrefix(gotUserAgent, "apodview/") {
		t.Fatalf("User-Agent = %q, want apodview/*", gotUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
	if gotQuery != "" {
		t.Fatalf("query = %q, want none", gotQuery)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("<html>not json"))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	broken, err := NewClient(server.URL + "/broken.json")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = broken.FetchArchive(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchArchive error = %v, want decode response error", err)
	}

	failing, err := NewClient(server.URL + "/data.json")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = failing.FetchArchive(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchArchive error = %v, want status 500 error", err)
	}
}

func TestClient_HonorsContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, WithTimeout(0))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.FetchArchive(ctx); err == nil {
		t.Fatalf("FetchArchive returned nil error, want context error")
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchArchive(context.Background()); err == nil {
		t.Fatalf("FetchArchive on nil client returned nil error")
	}
	if c.FeedURL() != "" {
		t.Fatalf("FeedURL on nil client = %q, want empty", c.FeedURL())
	}
}

func TestNewClient_TimeoutOptions(t *testing.T) {
	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.http.Timeout != defaultTimeout {
		t.Fatalf("default timeout = %v, want %v", c.http.Timeout, defaultTimeout)
	}

	c, err = NewClient("", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.http.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", c.http.Timeout)
	}

	// A caller's client is never modified, whatever the option order.
	for name, opts := range map[string]func(*http.Client) []ClientOption{
		"timeout last":  func(hc *http.Client) []ClientOption { return []ClientOption{WithHTTPClient(hc), WithTimeout(time.Second)} },
		"timeout first": func(hc *http.Client) []ClientOption { return []ClientOption{WithTimeout(time.Second), WithHTTPClient(hc)} },
	} {
		hc := &http.Client{Timeout: time.Minute}
		c, err := NewClient("", opts(hc)...)
		if err != nil {
			t.Fatalf("%s: NewClient returned error: %v", name, err)
		}
		if c.http != hc {
			t.Fatalf("%s: custom client not used", name)
		}
		if hc.Timeout != time.Minute {
			t.Fatalf("%s: caller's client timeout changed to %v", name, hc.Timeout)
		}
	}
}

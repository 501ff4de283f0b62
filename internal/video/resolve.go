package video

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrUnrecognized means no rule could extract an embed identifier from the URL.
var ErrUnrecognized = errors.New("unrecognized video url")

// ID is a platform embed identifier.
type ID string

// Rule extracts an identifier from one supported URL shape.
type Rule struct {
	Name    string
	Match   func(u *url.URL) bool
	Extract func(u *url.URL) string
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Rules lists the supported URL shapes in match order.
var Rules = []Rule{
	{
		// https://www.youtube.com/watch?v=<id>[&...]
		Name:    "watch",
		Match:   func(u *url.URL) bool { return isYouTubeHost(u.Hostname()) && u.Path == "/watch" },
		Extract: func(u *url.URL) string { return u.Query().Get("v") },
	},
	{
		// https://youtu.be/<id>[?...]
		Name:    "short",
		Match:   func(u *url.URL) bool { return strings.EqualFold(u.Hostname(), "youtu.be") },
		Extract: func(u *url.URL) string { return firstSegment(u.Path) },
	},
	{
		// https://www.youtube.com/embed/<id>[?...]
		Name: "embed",
		Match: func(u *url.URL) bool {
			host := u.Hostname()
			return (isYouTubeHost(host) || hasDomain(host, "youtube-nocookie.com")) && strings.HasPrefix(u.Path, "/embed/")
		},
		Extract: func(u *url.URL) string { return firstSegment(strings.TrimPrefix(u.Path, "/embed")) },
	},
}

// Resolve returns the embed identifier for raw, or ErrUnrecognized.
func Resolve(raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrUnrecognized
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, trimmed)
	}
	for _, rule := range Rules {
		if !rule.Match(u) {
			continue
		}
		id := rule.Extract(u)
		if idPattern.MatchString(id) {
			return ID(id), nil
		}
		return "", fmt.Errorf("%w: %s url without a usable id", ErrUnrecognized, rule.Name)
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognized, trimmed)
}

func isYouTubeHost(host string) bool {
	return hasDomain(host, "youtube.com")
}

// hasDomain reports whether host is domain or one of its subdomains.
func hasDomain(host, domain string) bool {
	h := strings.ToLower(host)
	return h == domain || strings.HasSuffix(h, "."+domain)
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.Index(path, "/"); i >= 0 {
		path = path[:i]
	}
	return path
}

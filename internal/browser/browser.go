// Package browser hands URLs to the desktop's default browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsupportedURL is returned for anything that is not an absolute http(s) URL.
var ErrUnsupportedURL = errors.New("only http and https links can be opened")

// Opener launches a URL somewhere outside the terminal.
type Opener interface {
	Open(rawURL string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(rawURL string) error

// Open calls f.
func (f OpenerFunc) Open(rawURL string) error { return f(rawURL) }

// System opens URLs with the platform launcher (open, xdg-open, rundll32).
type System struct {
	goos  string
	start func(*exec.Cmd) error
}

// NewSystem returns an opener for the running platform.
func NewSystem() *System {
	return &System{goos: runtime.GOOS, start: startDetached}
}

// Open validates rawURL and starts the launcher without waiting for it.
func (s *System) Open(rawURL string) error {
	target, err := checkURL(rawURL)
	if err != nil {
		return err
	}
	cmd, err := command(s.goos, target)
	if err != nil {
		return err
	}
	if err := s.start(cmd); err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	return nil
}

func command(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func checkURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

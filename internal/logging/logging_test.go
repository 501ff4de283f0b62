package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		" WARN ":   zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONToWriterWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := New(Options{Level: "info", Writer: &buf, Component: "root"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	gl := Named(l, "gallery")
	gl.Info().Str("k", "v").Msg("hello")
	l.Debug().Msg("filtered out")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if entry["message"] != "hello" || entry["component"] != "gallery" || entry["k"] != "v" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("entry missing time: %v", entry)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	l.Warn().Msg("careful")
	if !strings.Contains(buf.String(), "careful") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("console output = %q", buf.String())
	}
}

func TestNew_FileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "apodview.log")
	l, closer, err := New(Options{Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	l.Info().Msg("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("log file = %q", data)
	}
}

func TestNew_NoSinkDiscards(t *testing.T) {
	l, closer, err := New(Options{})
	if err != nil || closer == nil {
		t.Fatalf("New = %v, %v", closer, err)
	}
	l.Info().Msg("nowhere")
}

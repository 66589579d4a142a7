// ABOUTME: Tests for logger configuration
// ABOUTME: Verifies level parsing, format selection, and file output

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.Info("Login succeeded", "email", "a@b.com")

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"email":"a@b.com"`) {
		t.Errorf("expected email attr, got %q", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message should be written")
	}
}

func TestInitWritesToConfigDir(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "nested")
	closeFn, err := Init(dir, "info", "text")
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	slog.Info("Session bootstrapped", "state", "authenticated")
	closeFn()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "Session bootstrapped") {
		t.Errorf("expected message in log file, got %q", string(data))
	}
}

func TestInitEmptyDirDiscards(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closeFn, err := Init("", "debug", "text")
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer closeFn()
	slog.Info("goes nowhere")
}

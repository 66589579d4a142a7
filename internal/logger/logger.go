// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Writes to a log file in the config dir so the terminal UI stays clean.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is the file created inside the config directory
const LogFileName = "progress.log"

// Init configures the default slog logger.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
// If dir is empty, log output is discarded.
// The returned function closes the log file.
func Init(dir, level, format string) (func(), error) {
	w, closeFn, err := openLogFile(dir)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, err
	}

	slog.SetDefault(New(w, level, format))
	return closeFn, nil
}

// New builds a logger writing to w with the given level and format.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func openLogFile(dir string) (io.Writer, func(), error) {
	if dir == "" {
		return io.Discard, func() {}, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

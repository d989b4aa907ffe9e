// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: CLI commands log to stderr; the TUI logs to a debug file so the terminal stays clean.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Init configures the default slog logger writing to w.
// BOOKX_LOG_LEVEL: debug, info, warn, error (default: fallback)
// BOOKX_LOG_FORMAT: text, json (default: text)
func Init(w io.Writer, fallback slog.Level) {
	level := parseLevel(os.Getenv("BOOKX_LOG_LEVEL"), fallback)
	format := strings.ToLower(os.Getenv("BOOKX_LOG_FORMAT"))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// OpenDebugFile opens <configDir>/debug.log for appending.
// If configDir is empty, logging is discarded.
func OpenDebugFile(configDir string) (io.WriteCloser, error) {
	if configDir == "" {
		return nopCloser{io.Discard}, nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

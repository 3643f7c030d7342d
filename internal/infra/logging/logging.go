// Package logging configures the application's structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger at the given level. With an empty path it logs
// to stderr; otherwise it appends to the file, creating parent directories
// as needed. The returned close function is a no-op for stderr logging.
func New(path string, level slog.Level) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

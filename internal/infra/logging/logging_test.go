package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNew_FileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closeFn, err := New(path, slog.LevelInfo)
	require.NoError(t, err)
	logger.Info("hello", "answer", 42)
	require.NoError(t, closeFn())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")
	assert.Contains(t, string(content), "answer=42")
}

func TestNew_StderrLogger(t *testing.T) {
	logger, closeFn, err := New("", slog.LevelDebug)
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.NoError(t, closeFn())
}

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogger_UserAndGlobal(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("u1", "timer", "task completed")

	content, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[user-u1]")
	assert.Contains(t, string(content), "[timer]")
	assert.Contains(t, string(content), "task completed")

	userContent, err := os.ReadFile(domain.UserLogPath(dataDir, "u1"))
	require.NoError(t, err)
	assert.Contains(t, string(userContent), "task completed")
}

func TestLogger_GlobalOnly(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("", "store", "using file backend")

	content, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[global]")

	entries, err := os.ReadDir(filepath.Join(dataDir, domain.LogDirName))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no per-user file for process events")
}

func TestLogger_LevelFiltering(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug("u1", "x", "debug message")
	logger.Info("u1", "x", "info message")
	logger.Warn("u1", "x", "warn message")
	logger.Error("u1", "x", "error message")

	content, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug message")
	assert.NotContains(t, string(content), "info message")
	assert.Contains(t, string(content), "warn message")
	assert.Contains(t, string(content), "error message")
}

func TestLogger_DisabledWhenEmptyDir(t *testing.T) {
	logger := New("", slog.LevelDebug)
	defer func() { _ = logger.Close() }()

	logger.Info("u1", "x", "message")
	logger.Error("u1", "x", "message")
}

func TestLogger_ConsoleMirrorsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := New("", slog.LevelInfo)
	logger.SetConsole(&buf)

	logger.Info("", "store", "quiet")
	logger.Warn("", "store", "remote store unavailable")

	assert.Equal(t, "store: remote store unavailable\n", buf.String())
}

func TestLogger_LogFormat(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("u42", "usecase", `task created: "essay"`)

	content, err := os.ReadFile(domain.GlobalLogPath(dataDir))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[INFO] [user-u42] [usecase] task created: \"essay\"")
}

func TestLogger_Close(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	logger.Info("u1", "x", "message")

	assert.NoError(t, logger.Close())
	assert.FileExists(t, domain.GlobalLogPath(dataDir))
	assert.FileExists(t, domain.UserLogPath(dataDir, "u1"))
}

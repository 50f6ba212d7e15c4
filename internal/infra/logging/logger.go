// Package logging provides file-based logging for focusday.
// Every line goes to the global log (<data>/logs/focusday.log); lines that
// carry a user ID are also written to that user's log (<data>/logs/user-<id>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/runoshun/focusday/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger wraps slog levels with file-based output.
// Fields are ordered to minimize memory padding.
type Logger struct {
	console    io.Writer
	globalFile *os.File
	userFiles  map[string]*os.File
	dataDir    string
	mu         sync.Mutex
	level      slog.Level
}

// New creates a Logger writing under dataDir.
// If dataDir is empty, file output is disabled.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		dataDir:   dataDir,
		level:     level,
		userFiles: make(map[string]*os.File),
	}
}

// SetConsole mirrors warnings and errors to w (typically stderr).
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

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

func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Join(l.dataDir, domain.LogDirName), 0o750)
}

// openFile opens path for appending. Callers hold l.mu.
func (l *Logger) openFile(path string) (*os.File, error) {
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func (l *Logger) globalWriter() (*os.File, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}
	f, err := l.openFile(domain.GlobalLogPath(l.dataDir))
	if err != nil {
		return nil, err
	}
	l.globalFile = f
	return f, nil
}

func (l *Logger) userWriter(userID string) (*os.File, error) {
	if f, ok := l.userFiles[userID]; ok {
		return f, nil
	}
	f, err := l.openFile(domain.UserLogPath(l.dataDir, userID))
	if err != nil {
		return nil, err
	}
	l.userFiles[userID] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.userFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.userFiles, id)
	}
	return lastErr
}

// formatLog formats one entry.
// Format: [2026-03-10 09:32:51] [INFO] [user-abc] [category] message
func formatLog(t time.Time, level slog.Level, userID, category, msg string) string {
	scope := "global"
	if userID != "" {
		scope = "user-" + userID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, userID, category, msg string) {
	if level < l.level {
		return
	}
	entry := formatLog(time.Now(), level, userID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.console != nil && level >= slog.LevelWarn {
		_, _ = fmt.Fprintf(l.console, "%s: %s\n", category, msg)
	}
	if l.dataDir == "" {
		return
	}
	if gf, err := l.globalWriter(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}
	if userID != "" {
		if uf, err := l.userWriter(userID); err == nil {
			_, _ = io.WriteString(uf, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(userID, category, msg string) {
	l.log(slog.LevelInfo, userID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(userID, category, msg string) {
	l.log(slog.LevelDebug, userID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(userID, category, msg string) {
	l.log(slog.LevelWarn, userID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(userID, category, msg string) {
	l.log(slog.LevelError, userID, category, msg)
}

// Nop is a Logger that discards everything.
type Nop struct{}

func (Nop) Info(_, _, _ string)  {}
func (Nop) Debug(_, _, _ string) {}
func (Nop) Warn(_, _, _ string)  {}
func (Nop) Error(_, _, _ string) {}

// Package logging provides the file-backed debug log used across knowbite.
// The terminal belongs to the TUI, so nothing here ever writes to stdout.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DebugLogger writes timestamped lines to a log file.
// A nil logger, or one without a file, discards everything.
type DebugLogger struct {
	mu    sync.Mutex
	file  *os.File
	slog  *slog.Logger
	debug bool
}

// New creates a logger writing to path. An empty path returns a no-op logger.
// Parent directories are created as needed.
func New(path string, debug bool) (*DebugLogger, error) {
	if path == "" {
		return &DebugLogger{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &DebugLogger{
		file:  f,
		slog:  slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})),
		debug: debug,
	}
	l.Log("=== knowbite log started at %s ===", time.Now().Format(time.RFC3339))
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *DebugLogger {
	return &DebugLogger{}
}

// Log writes a timestamped message.
func (l *DebugLogger) Log(format string, args ...interface{}) {
	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.file, "[%s] %s\n", time.Now().Format("15:04:05.000"), msg)
}

// Debug writes a message only when debug logging is enabled.
func (l *DebugLogger) Debug(format string, args ...interface{}) {
	if l == nil || !l.debug {
		return
	}
	l.Log(format, args...)
}

// Event writes a structured record, e.g. Event("run finished", "id", id).
func (l *DebugLogger) Event(msg string, attrs ...any) {
	if l == nil || l.slog == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.slog.Info(msg, attrs...)
}

// Path returns the log file path, or "" for a no-op logger.
func (l *DebugLogger) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the log file. Safe on nil and no-op loggers.
func (l *DebugLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

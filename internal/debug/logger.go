// Package debug provides the verbose-mode logger using log/slog.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled bool
	mu      sync.RWMutex
)

// Init wires the logger up. With verbose true, debug lines go to stderr;
// otherwise everything is discarded.
func Init(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = verbose
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Enabled reports whether verbose logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

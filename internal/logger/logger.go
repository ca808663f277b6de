// Package logger wraps log/slog with the process-wide logger used by the
// fleetctl CLI and the cron runner. Output goes to stderr so that command
// output on stdout stays clean.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// Initialize sets up the global logger with the specified level and format
func Initialize(level, format string) {
	InitializeWithWriter(os.Stderr, level, format)
}

// InitializeWithWriter is Initialize writing to w.
func InitializeWithWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler).With("app", "fleetdesk")
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	slog.SetDefault(l)
}

// ParseLevel maps a config string to a slog level; unknown values are info.
func ParseLevel(level string) slog.Level {
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

// Get returns the default logger
func Get() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		Initialize("info", "text")
		mu.RLock()
		l = defaultLogger
		mu.RUnlock()
	}
	return l
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// InfoContext logs an info message with context
func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context
func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// WithService returns a logger with service name attached
func WithService(serviceName string) *slog.Logger {
	return Get().With("service", serviceName)
}

// EnterMethod logs method entry (process tracking)
func EnterMethod(methodName string, args ...any) {
	allArgs := append([]any{"method", methodName, "event", "enter"}, args...)
	Get().Debug("→ Method entered", allArgs...)
}

// ExitMethod logs method exit (process tracking)
func ExitMethod(methodName string, args ...any) {
	allArgs := append([]any{"method", methodName, "event", "exit"}, args...)
	Get().Debug("← Method exited", allArgs...)
}

// ExitMethodWithError logs method exit with error (process tracking)
func ExitMethodWithError(methodName string, err error, args ...any) {
	allArgs := append([]any{"method", methodName, "event", "exit", "error", err}, args...)
	Get().Error("← Method exited with error", allArgs...)
}

// Operation records the outcome of one registry operation. Rejections are
// expected user errors and log at info; internal failures log at error.
func Operation(operation, outcome string, err error, args ...any) {
	allArgs := append([]any{"operation", operation, "outcome", outcome}, args...)
	switch {
	case err == nil:
		Get().Info("Operation applied", allArgs...)
	case outcome == "internal":
		Get().Error("Operation failed", append(allArgs, "error", err)...)
	default:
		Get().Info("Operation rejected", append(allArgs, "reason", err)...)
	}
}

// DatabaseCall logs database operation (debug log for external resources)
func DatabaseCall(operation, query string, args ...any) {
	allArgs := append([]any{"operation", operation, "query", query}, args...)
	Get().Debug("→ Database call", allArgs...)
}

// DatabaseResult logs database operation result (debug log for external resources)
func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	allArgs := append([]any{"operation", operation, "rows_affected", rowsAffected}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Error("← Database call failed", allArgs...)
	} else {
		Get().Debug("← Database call succeeded", allArgs...)
	}
}

// StoreCall logs a persistence operation (debug log for external resources)
func StoreCall(backend, operation string, args ...any) {
	allArgs := append([]any{"backend", backend, "operation", operation}, args...)
	Get().Debug("→ Store call", allArgs...)
}

// StoreResult logs a persistence result (debug log for external resources)
func StoreResult(backend, operation string, err error, args ...any) {
	allArgs := append([]any{"backend", backend, "operation", operation}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Error("← Store call failed", allArgs...)
	} else {
		Get().Debug("← Store call succeeded", allArgs...)
	}
}

// ExternalServiceCall logs external service call (debug log for external resources)
func ExternalServiceCall(service, operation string, args ...any) {
	allArgs := append([]any{"service", service, "operation", operation}, args...)
	Get().Debug("→ External service call", allArgs...)
}

// ExternalServiceResult logs external service result (debug log for external resources)
func ExternalServiceResult(service, operation string, err error, args ...any) {
	allArgs := append([]any{"service", service, "operation", operation}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Error("← External service call failed", allArgs...)
	} else {
		Get().Debug("← External service call succeeded", allArgs...)
	}
}

package knnimpute

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/knnimpute/knn"
)

// Logger wraps slog.Logger with imputation-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// NewVerbosityLogger maps a verbosity level to a text logger:
// 0 discards, 1 logs at info, 2 and above log at debug.
func NewVerbosityLogger(verbose int) *Logger {
	switch {
	case verbose <= 0:
		return NoopLogger()
	case verbose == 1:
		return NewTextLogger(slog.LevelInfo)
	default:
		return NewTextLogger(slog.LevelDebug)
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithShape adds row and column count fields to the logger.
func (l *Logger) WithShape(rows, cols int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows, "cols", cols),
	}
}

// LogProduce logs the end of a Produce call that returned a table or an error.
func (l *Logger) LogProduce(ctx context.Context, rows, cols int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "produce failed",
			"rows", rows,
			"cols", cols,
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "produce completed",
			"rows", rows,
			"cols", cols,
			"duration", duration,
		)
	}
}

// LogTimeout logs a Produce call that hit its deadline.
func (l *Logger) LogTimeout(ctx context.Context, timeout, elapsed time.Duration) {
	l.WarnContext(ctx, "produce timed out",
		"timeout", timeout,
		"elapsed", elapsed,
	)
}

// LogImpute logs the estimator report.
func (l *Logger) LogImpute(ctx context.Context, report *knn.Report) {
	if report == nil {
		return
	}
	if report.Fallbacks > 0 {
		l.WarnContext(ctx, "imputation used fallback for cells without neighbors",
			"missing", report.Missing,
			"imputed", report.Imputed,
			"fallbacks", report.Fallbacks,
		)
		return
	}
	l.DebugContext(ctx, "imputation completed",
		"missing", report.Missing,
		"imputed", report.Imputed,
		"rows", report.Rows,
	)
}

package multigrid

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/multigrid/cycle"
)

// Logger wraps slog.Logger with solver-specific context. This provides
// structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithLevel adds a hierarchy level field to the logger.
func (l *Logger) WithLevel(level int) *Logger {
	return &Logger{Logger: l.Logger.With("level", level)}
}

// WithSize adds an unknown-count field to the logger.
func (l *Logger) WithSize(size int) *Logger {
	return &Logger{Logger: l.Logger.With("size", size)}
}

// LogBuild logs the outcome of a hierarchy build.
func (l *Logger) LogBuild(ctx context.Context, levels, fineSize int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "hierarchy build failed",
			"fine_size", fineSize,
			"duration", duration,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "hierarchy built",
		"levels", levels,
		"fine_size", fineSize,
		"duration", duration,
	)
}

// LogSolve logs the outcome of one solve.
func (l *Logger) LogSolve(ctx context.Context, rec *cycle.Record, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "solve failed",
			"status", rec.Status.String(),
			"iterations", rec.Iterations,
			"residual", rec.FinalResidual(),
			"duration", duration,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "solve completed",
		"status", rec.Status.String(),
		"iterations", rec.Iterations,
		"residual", rec.FinalResidual(),
		"duration", duration,
	)
}

package compactgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with compactgo-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSlots adds the index slot count to the logger.
func (l *Logger) WithSlots(slots int) *Logger {
	return &Logger{
		Logger: l.Logger.With("slots", slots),
	}
}

// WithStrategy adds the version strategy name to the logger.
func (l *Logger) WithStrategy(strategy string) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", strategy),
	}
}

// LogPassStart logs the beginning of an index-building pass.
func (l *Logger) LogPassStart(ctx context.Context, slots int, strategy string) {
	l.InfoContext(ctx, "index build started",
		"slots", slots,
		"strategy", strategy,
	)
}

// LogPassEnd logs the completion of an index-building pass.
func (l *Logger) LogPassEnd(ctx context.Context, stats *PassStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"records_read", stats.RecordsRead,
			"bytes_read", stats.BytesRead,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "index build completed",
		"records_read", stats.RecordsRead,
		"bytes_read", stats.BytesRead,
		"records_indexed", stats.RecordsIndexed,
		"stale_skipped", stats.StaleSkipped,
		"keyless", stats.KeylessRecords,
		"utilization", stats.MapUtilization,
		"collision_rate", stats.CollisionRate,
		"map_full", stats.MapFull,
		"elapsed", stats.Elapsed,
	)
}

// LogMapFull logs that the index filled up before the scan finished.
func (l *Logger) LogMapFull(ctx context.Context, recordsRead int64, latestOffset int64) {
	l.WarnContext(ctx, "offset map full, stopping index build early",
		"records_read", recordsRead,
		"latest_offset", latestOffset,
	)
}

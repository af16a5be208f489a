package lighdb

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lighdb-specific context.
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
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPaths adds the index and data file paths to the logger.
func (l *Logger) WithPaths(index, data string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index_path", index, "data_path", data),
	}
}

// WithID adds an ID field to the logger.
func (l *Logger) WithID(id uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// WithIndex adds a record index field to the logger.
func (l *Logger) WithIndex(index uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", index),
	}
}

// LogCreate logs the creation of a database.
func (l *Logger) LogCreate(itemSize uint32, userHeaderSize int, err error) {
	if err != nil {
		l.Error("create failed",
			"item_size", itemSize,
			"error", err,
		)
	} else {
		l.Info("database created",
			"item_size", itemSize,
			"user_header_size", userHeaderSize,
		)
	}
}

// LogOpen logs the opening of a database.
func (l *Logger) LogOpen(info Info, readOnly bool, err error) {
	if err != nil {
		l.Error("open failed",
			"read_only", readOnly,
			"error", err,
		)
	} else {
		l.Info("database opened",
			"item_size", info.ItemSize,
			"user_header_size", info.UserHeaderSize,
			"count", info.Count,
			"read_only", readOnly,
		)
	}
}

// LogClose logs the closing of a database.
func (l *Logger) LogClose(err error) {
	if err != nil {
		l.Error("close failed",
			"error", err,
		)
	} else {
		l.Info("database closed")
	}
}

// LogAdd logs an append operation.
func (l *Logger) LogAdd(index, id uint32, err error) {
	if err != nil {
		l.Error("add failed",
			"id", id,
			"error", err,
		)
	} else {
		l.Debug("add completed",
			"index", index,
			"id", id,
		)
	}
}

// LogUpdate logs an in-place update.
func (l *Logger) LogUpdate(index uint32, err error) {
	if err != nil {
		l.Error("update failed",
			"index", index,
			"error", err,
		)
	} else {
		l.Debug("update completed",
			"index", index,
		)
	}
}

// LogFind logs an ID lookup.
func (l *Logger) LogFind(id uint32, matched, windowLoads int, err error) {
	if err != nil {
		l.Error("find failed",
			"id", id,
			"window_loads", windowLoads,
			"error", err,
		)
	} else {
		l.Debug("find completed",
			"id", id,
			"matched", matched,
			"window_loads", windowLoads,
		)
	}
}

// LogBackup logs a backup.
func (l *Logger) LogBackup(compression string, count uint32, err error) {
	if err != nil {
		l.Error("backup failed",
			"compression", compression,
			"error", err,
		)
	} else {
		l.Info("backup written",
			"compression", compression,
			"count", count,
		)
	}
}

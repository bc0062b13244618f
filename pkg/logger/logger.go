package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents log level
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelDebug Level = "DEBUG"
)

// Logger provides structured logging
type Logger struct {
	slog *slog.Logger
}

// New creates a new logger writing INFO and above to stdout
func New() *Logger {
	return NewWithWriter(os.Stdout, LevelInfo)
}

// NewWithWriter creates a logger writing to w at the given minimum level
func NewWithWriter(w io.Writer, level Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	return &Logger{slog: slog.New(handler)}
}

// Discard returns a logger that drops every entry
func Discard() *Logger {
	return NewWithWriter(io.Discard, LevelError)
}

// ParseLevel maps a config string onto a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// With returns a child logger that always carries fields
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{slog: l.slog.With(attrs(fields)...)}
}

// Log writes a structured log entry
func (l *Logger) Log(level Level, message string, fields ...Field) {
	l.slog.Log(context.Background(), level.slogLevel(), message, attrs(fields)...)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...Field) {
	l.Log(LevelInfo, message, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...Field) {
	l.Log(LevelWarn, message, fields...)
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...Field) {
	l.Log(LevelError, message, fields...)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...Field) {
	l.Log(LevelDebug, message, fields...)
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value string
}

// F creates a Field
func F(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Err creates an "error" Field; a nil error yields an empty value
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error"}
	}
	return Field{Key: "error", Value: err.Error()}
}

func (lvl Level) slogLevel() slog.Level {
	switch lvl {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, slog.String(field.Key, field.Value))
	}
	return out
}

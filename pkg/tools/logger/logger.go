package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logger configuration
type Config struct {
	Level  LogLevel  `json:"level"`
	Format string    `json:"format"` // "json" or "text"
	Output io.Writer `json:"-"`      // defaults to os.Stderr; stdout carries the report
}

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// Global logger instance
var defaultLogger *Logger

// Init initializes the global logger
func Init(config Config) {
	var level slog.Level
	switch strings.ToLower(string(config.Level)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: level,
		})
	}

	defaultLogger = &Logger{
		Logger: slog.New(handler),
	}
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		Init(Config{
			Level:  LevelWarn,
			Format: "text",
		})
	}
	return defaultLogger
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

// WithFields returns a logger with additional fields
func WithFields(fields map[string]any) *Logger {
	var args []any
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{
		Logger: GetLogger().Logger.With(args...),
	}
}

// WithComponent returns a logger with component field
func WithComponent(component string) *Logger {
	return &Logger{
		Logger: GetLogger().Logger.With("component", component),
	}
}

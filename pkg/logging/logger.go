package logging

import (
	"io"
	"log/slog"
	"os"
)

// serviceName tags every log line so co-mingled streams stay attributable.
const serviceName = "booking-platform"

// Logger is the application logger. Embedding keeps the full slog API.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger on stdout at the given level.
func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with an explicit sink, mostly for tests.
func NewWithWriter(w io.Writer, level string) *Logger {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(w, opts)
	logger := slog.New(handler).With(slog.String("service", serviceName))

	return &Logger{Logger: logger}
}

// Default returns an info-level logger.
func Default() *Logger {
	return New("info")
}

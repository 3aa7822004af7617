package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"campus-preorder/internal/config"
)

// New builds the process logger from the LOG_* settings. Every record carries
// the service name and environment.
func New(cfg config.Log, service, environment string) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, service, environment)
}

func newWithWriter(w io.Writer, cfg config.Log, service, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", service),
		slog.String("environment", environment),
	)
}

func parseLevel(level string) slog.Level {
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

// Discard is used by tests and by components constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

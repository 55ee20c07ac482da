package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup creates the process logger, installs it as slog's default, and
// returns it. Records go to stderr as one JSON line each, which is what
// log collectors expect from an API service.
func Setup(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel accepts debug/info/warn/error case-insensitively and falls
// back to info for anything else.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

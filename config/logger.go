package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the application logger for the given environment.
// Production gets JSON output for log aggregation; everything else gets the
// text handler. LOG_LEVEL may be debug, info, warn or error (default info).
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "eventrsvp")
}

package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the application logger: JSON in production and text elsewhere.
// level accepts debug, info, warn or error (any case); anything else means info.
func NewLogger(cfg *Config) *slog.Logger {
	return newLogger(os.Stdout, cfg.IsProduction(), cfg.LogLevel)
}

func newLogger(w io.Writer, production bool, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

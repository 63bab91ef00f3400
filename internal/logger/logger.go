// Package logger builds the application's structured logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// New creates a logger writing to w. Text output is colorized by tint.
func New(cfg *Config, w io.Writer) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.slogLevel()})), nil
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      cfg.slogLevel(),
		TimeFormat: "15:04:05",
	})), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component returns a child logger tagged with the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With("component", name)
}

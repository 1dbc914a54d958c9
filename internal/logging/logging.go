// Package logging builds the process logger. Output goes to a rotated
// file rather than stderr, which the session uses for rendering.
package logging

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jrasky/bis/internal/config"
)

// Init builds a logger from the log config. Logging is disabled when
// no level is configured; the returned close function is always safe to
// call.
func Init(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.Level == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{Level: level})
	return slog.New(handler), sink.Close, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}

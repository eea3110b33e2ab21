// Package slogger provides a shared slog initialization helper for the
// ShieldDesk binaries.
//
// Call InitWith() at the start of a command to configure the global slog
// logger. Legacy log.Print* calls are routed through the same handler via
// slog.SetDefault.
//
// Valid levels: "debug", "info", "warn", "error". Default: "info".
// Valid formats: "text", "json". Default: "text".
package slogger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// level holds the level of the default logger set by InitWith.
var level *slog.LevelVar

// InitWith configures the default logger with an explicit level and format,
// writing to stdout.
func InitWith(lvl, format string) *slog.Logger {
	lv := newLevelVar(lvl)
	logger := slog.New(newHandler(os.Stdout, lv, format))

	level = lv
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w without touching the default logger.
func New(w io.Writer, lvl, format string) *slog.Logger {
	return slog.New(newHandler(w, newLevelVar(lvl), format))
}

func newLevelVar(lvl string) *slog.LevelVar {
	lv := &slog.LevelVar{}
	lv.Set(parseLevel(lvl))
	return lv
}

func newHandler(w io.Writer, lv *slog.LevelVar, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: lv}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// IsDebug reports whether the default logger set by InitWith logs debug records.
func IsDebug() bool {
	return level != nil && level.Level() <= slog.LevelDebug
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

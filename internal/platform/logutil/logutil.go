// Package logutil provides nil-safe logger helpers and secret redaction.
package logutil

import (
	"io"
	"log/slog"
	"strings"
)

// noop is a package-level discard logger, created once.
var noop = slog.New(slog.NewTextHandler(io.Discard, nil))

// Noop returns a logger that discards all output.
func Noop() *slog.Logger { return noop }

// NoopIfNil returns l when non-nil, otherwise a discard logger.
// Intended as the first line in constructors that accept *slog.Logger.
func NoopIfNil(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return noop
}

// ParseLevel maps a configured level name to a slog.Level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return slog.LevelDebug - 4 // slog has no trace, use debug-4
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

// Redact masks a secret for logging. It keeps at most the last four
// characters of values long enough that doing so reveals little.
// When allowSensitive is true the value is returned unchanged.
func Redact(secret string, allowSensitive bool) string {
	if allowSensitive {
		return secret
	}
	if secret == "" {
		return ""
	}
	if len(secret) < 12 {
		return "[REDACTED]"
	}
	return "[REDACTED]..." + secret[len(secret)-4:]
}

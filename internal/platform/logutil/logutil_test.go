package logutil

import (
	"log/slog"
	"testing"
)

func TestNoopIfNil(t *testing.T) {
	if NoopIfNil(nil) != Noop() {
		t.Error("expected nil logger to map to the noop logger")
	}

	l := slog.Default()
	if NoopIfNil(l) != l {
		t.Error("expected non-nil logger to be returned unchanged")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"trace", slog.LevelDebug - 4},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		allowSensitive bool
		want           string
	}{
		{"empty", "", false, ""},
		{"short secret fully masked", "abc123", false, "[REDACTED]"},
		{"long secret keeps tail", "demo-access-token", false, "[REDACTED]...oken"},
		{"sensitive allowed", "demo-access-token", true, "demo-access-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Redact(tt.secret, tt.allowSensitive); got != tt.want {
				t.Errorf("Redact(%q, %v) = %q, want %q", tt.secret, tt.allowSensitive, got, tt.want)
			}
		})
	}
}

package appctx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestLogger(t *testing.T) {
	attached := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name string
		ctx  context.Context
		want *slog.Logger
	}{
		{"attached", WithLogger(context.Background(), attached), attached},
		{"missing", context.Background(), fallback},
		{"nil stored", context.WithValue(context.Background(), loggerKey{}, (*slog.Logger)(nil)), fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Logger(tt.ctx, fallback); got != tt.want {
				t.Errorf("Logger() returned the wrong logger")
			}
		})
	}
}

func TestLogger_ActuallyLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil)).With("request_id", "abc")

	ctx := WithLogger(context.Background(), logger)
	Logger(ctx, nil).Info("test message", "key", "value")

	for _, want := range []string{"test message", "key=value", "request_id=abc"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("expected log to contain %q, got: %s", want, buf.String())
		}
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID() on empty context = %q", got)
	}

	ctx := WithRequestID(context.Background(), "3f0c")
	if got := RequestID(ctx); got != "3f0c" {
		t.Errorf("RequestID() = %q, want 3f0c", got)
	}
}

func TestRoutePath(t *testing.T) {
	if got := RoutePath(context.Background()); got != "" {
		t.Errorf("RoutePath() on empty context = %q", got)
	}

	ctx := WithRoutePath(context.Background(), "/fields/7")
	if got := RoutePath(ctx); got != "/fields/7" {
		t.Errorf("RoutePath() = %q, want /fields/7", got)
	}
}

package client_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	httpclient "github.com/MahdiBaghbani/fieldscout-go/internal/platform/http/client"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore/memory"
)

const longToken = "eyJhbGciOiJIUzI1NiJ9.payload.sig-WXYZ"

func TestBearerToken_LogsRedactedToken(t *testing.T) {
	tests := []struct {
		name           string
		allowSensitive bool
		want           string
		notWant        string
	}{
		{"redacted", false, "token=[REDACTED]...WXYZ", longToken},
		{"sensitive allowed", true, "token=" + longToken, "[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			store := memory.New()
			if err := store.Set(context.Background(), tokenstore.AccessTokenKey, longToken); err != nil {
				t.Fatal(err)
			}

			p, err := httpclient.NewProvider(httpclient.Options{
				Strategy:  httpclient.StrategyDemo,
				DemoDelay: time.Millisecond,
				Logger:    logger,
			}, store, tt.allowSensitive)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := p.Authenticated.Get(context.Background(), "/dashboard"); err != nil {
				t.Fatal(err)
			}

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("log missing %q:\n%s", tt.want, out)
			}
			if strings.Contains(out, tt.notWant) {
				t.Errorf("log unexpectedly contains %q:\n%s", tt.notWant, out)
			}
			if !strings.Contains(out, "request_id=") {
				t.Errorf("log lines carry no request_id:\n%s", out)
			}
		})
	}
}

func TestBearerToken_NilStore(t *testing.T) {
	c, err := httpclient.New(httpclient.Options{Strategy: httpclient.StrategyDemo, DemoDelay: time.Millisecond},
		httpclient.BearerToken(nil, nil, false))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Get(context.Background(), "/dashboard")
	if !httpclient.IsInterceptorError(err) {
		t.Fatalf("expected interceptor error, got %v", err)
	}
	if !errors.Is(err, httpclient.ErrNoTokenStore) {
		t.Errorf("expected ErrNoTokenStore, got %v", err)
	}
}

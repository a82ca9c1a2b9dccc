package client

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/MahdiBaghbani/fieldscout-go/internal/appctx"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/logutil"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
)

// RequestInterceptor inspects or modifies a request before it is sent.
// A non-nil error aborts the request.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// BearerToken returns an interceptor that reads the access token from
// tokens on every request and sets Authorization: Bearer <token>. A missing
// or empty token leaves the request unchanged. A store failure aborts it.
func BearerToken(tokens tokenstore.Reader, logger *slog.Logger, allowSensitive bool) RequestInterceptor {
	logger = logutil.NoopIfNil(logger)
	return func(ctx context.Context, req *http.Request) error {
		log := appctx.Logger(ctx, logger)
		if tokens == nil {
			return ErrNoTokenStore
		}
		token, ok, err := tokens.Get(ctx, tokenstore.AccessTokenKey)
		if err != nil {
			log.Warn("failed to read access token", "error", err)
			return err
		}
		if !ok || token == "" {
			log.Debug("no access token stored, sending request unauthenticated",
				"method", req.Method, "url", req.URL.String())
			return nil
		}
		req.Header.Set("Authorization", "Bearer "+token)
		log.Debug("attached access token",
			"method", req.Method,
			"url", req.URL.String(),
			"token", logutil.Redact(token, allowSensitive))
		return nil
	}
}

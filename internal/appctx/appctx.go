// Package appctx carries request-scoped values through a context.
package appctx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

type requestIDKey struct{}

type routePathKey struct{}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the logger attached to ctx, or fallback when there is none.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// WithRequestID attaches the correlation id of an outgoing request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id attached to ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithRoutePath attaches the request path as the caller wrote it, before it
// was joined onto a base URL.
func WithRoutePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, routePathKey{}, path)
}

// RoutePath returns the path attached by WithRoutePath, or "".
func RoutePath(ctx context.Context) string {
	p, _ := ctx.Value(routePathKey{}).(string)
	return p
}

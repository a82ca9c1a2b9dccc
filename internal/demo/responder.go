// Package demo answers backend requests locally with canned data so the
// client can run offline. Responder is an http.RoundTripper; plugging it into
// an http.Client is the only thing that distinguishes demo mode from a
// real session.
package demo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MahdiBaghbani/fieldscout-go/internal/appctx"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/logutil"
)

// DefaultDelay is the artificial latency before each canned response. It
// keeps loading states visible in demo builds.
const DefaultDelay = 300 * time.Millisecond

// Options configures a Responder.
type Options struct {
	// Delay before each response. Zero or negative uses DefaultDelay.
	Delay time.Duration

	// Routes in match order. Nil uses DefaultRoutes.
	Routes []Route

	Logger *slog.Logger
}

// Responder synthesizes responses without touching the network.
// It holds no per-request state and is safe for concurrent use.
type Responder struct {
	delay  time.Duration
	routes []Route
	log    *slog.Logger
}

// NewResponder creates a Responder.
func NewResponder(opts Options) *Responder {
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	routes := opts.Routes
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &Responder{
		delay:  delay,
		routes: routes,
		log:    logutil.NoopIfNil(opts.Logger),
	}
}

// Delay returns the configured latency.
func (r *Responder) Delay() time.Duration {
	return r.delay
}

// Match returns the reply for method and path: the first route whose method
// and matcher agree, or an empty 200 when none does. An empty method means GET.
func (r *Responder) Match(method, path string) (Reply, string) {
	method = normalizeMethod(method)
	for _, rt := range r.routes {
		if strings.ToUpper(rt.Method) != method {
			continue
		}
		if rt.Match(path) {
			return rt.Build(), rt.Name
		}
	}
	return fallback, ""
}

// RoundTrip implements http.RoundTripper. It waits the configured delay,
// then answers from the route table. The returned response echoes req.
// The only errors are context cancellation during the delay and a reply
// body that cannot be encoded.
func (r *Responder) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		// RoundTrippers must close the request body.
		defer req.Body.Close()
	}

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case <-timer.C:
	}

	path := appctx.RoutePath(req.Context())
	if path == "" {
		path = req.URL.Path
	}
	reply, route := r.Match(req.Method, path)

	body, err := json.Marshal(reply.Body)
	if err != nil {
		return nil, fmt.Errorf("demo: failed to encode %s reply: %w", route, err)
	}

	r.log.Debug("demo response",
		"method", normalizeMethod(req.Method),
		"path", path,
		"route", route,
		"status", reply.Status)

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", reply.Status, http.StatusText(reply.Status)),
		StatusCode:    reply.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func normalizeMethod(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(method)
}

var _ http.RoundTripper = (*Responder)(nil)

// Package client issues requests against the backend. A Client pairs a base
// URL and a common header set with a transport; the transport is either the
// real network or the demo responder, chosen once at construction.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MahdiBaghbani/fieldscout-go/internal/appctx"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/config"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/logutil"
)

var (
	ErrRequestInterceptor = errors.New("request interceptor failed")
	ErrResponseTooLarge   = errors.New("response body too large")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrNoTokenStore       = errors.New("no token store configured")
)

// demoBaseURL stands in for an unset base URL in demo mode. Requests never
// leave the process, so the host only has to parse.
const demoBaseURL = "http://demo.invalid"

// Strategy selects the transport behind a Client.
type Strategy int

const (
	// StrategyNetwork sends requests over the network.
	StrategyNetwork Strategy = iota
	// StrategyDemo answers requests locally with canned data.
	StrategyDemo
)

func (s Strategy) String() string {
	switch s {
	case StrategyNetwork:
		return "network"
	case StrategyDemo:
		return "demo"
	default:
		return "unknown"
	}
}

// Options configures a Client.
type Options struct {
	// BaseURL is joined with every relative request URL.
	BaseURL string

	// Header is added to every request on top of Content-Type: application/json.
	Header http.Header

	// Strategy picks the transport when Transport is nil.
	Strategy Strategy

	// HTTP configures the network transport and response limits.
	// Nil uses the device preset.
	HTTP *config.OutboundHTTPConfig

	// DemoDelay is the latency of StrategyDemo. Zero uses demo.DefaultDelay.
	DemoDelay time.Duration

	// Transport overrides Strategy. NewProvider sets it so both clients
	// share one transport.
	Transport http.RoundTripper

	Logger *slog.Logger
}

// Client issues requests relative to a base URL. It is safe for concurrent use.
type Client struct {
	baseURL      string
	header       http.Header
	strategy     Strategy
	maxBytes     int64
	httpClient   *http.Client
	interceptors []RequestInterceptor
	log          *slog.Logger
}

// New creates a Client. Interceptors run in order on every request before
// it is handed to the transport.
func New(opts Options, interceptors ...RequestInterceptor) (*Client, error) {
	logger := logutil.NoopIfNil(opts.Logger)

	httpCfg := opts.HTTP
	if httpCfg == nil {
		preset := config.DevicePreset().OutboundHTTP
		httpCfg = &preset
	}

	baseURL := opts.BaseURL
	if baseURL == "" && opts.Strategy == StrategyDemo {
		baseURL = demoBaseURL
	}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || !u.IsAbs() {
			return nil, fmt.Errorf("%w: base URL %q must be absolute", ErrInvalidURL, baseURL)
		}
	}

	transport := opts.Transport
	if transport == nil {
		var err error
		transport, err = NewTransport(opts.Strategy, httpCfg, opts.DemoDelay, logger)
		if err != nil {
			return nil, err
		}
	}

	header := http.Header{}
	for k, v := range opts.Header {
		header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	header.Set("Content-Type", "application/json")
	if httpCfg.UserAgent != "" && header.Get("User-Agent") == "" {
		header.Set("User-Agent", httpCfg.UserAgent)
	}

	return &Client{
		baseURL:  baseURL,
		header:   header,
		strategy: opts.Strategy,
		maxBytes: httpCfg.MaxResponseBytes,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(httpCfg.TimeoutMS) * time.Millisecond,
		},
		interceptors: append([]RequestInterceptor(nil), interceptors...),
		log:          logger,
	}, nil
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Strategy returns the transport strategy the client was built with.
func (c *Client) Strategy() Strategy {
	return c.strategy
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &RequestConfig{Method: http.MethodGet, URL: path})
}

// Post issues a POST request with a body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &RequestConfig{Method: http.MethodPost, URL: path, Body: body})
}

// Put issues a PUT request with a body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &RequestConfig{Method: http.MethodPut, URL: path, Body: body})
}

// Patch issues a PATCH request with a body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &RequestConfig{Method: http.MethodPatch, URL: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &RequestConfig{Method: http.MethodDelete, URL: path})
}

// Do issues the request described by rc.
//
// Any HTTP status is a successful round trip: 4xx and 5xx come back as a
// Response with a nil error. Errors are interceptor failures (wrapping
// ErrRequestInterceptor, request not sent), transport failures (returned as
// net/http produced them), and oversize bodies (ErrResponseTooLarge).
func (c *Client) Do(ctx context.Context, rc *RequestConfig) (*Response, error) {
	if rc == nil {
		rc = &RequestConfig{}
	}
	method := strings.ToUpper(rc.Method)
	if method == "" {
		method = http.MethodGet
	}

	target, err := c.resolve(rc.URL, rc.Query)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(rc.Body)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	reqLog := c.log.With("request_id", requestID)
	ctx = appctx.WithRequestID(appctx.WithLogger(ctx, reqLog), requestID)
	if p := routePath(rc.URL); p != "" {
		ctx = appctx.WithRoutePath(ctx, p)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header = c.header.Clone()
	for k, v := range rc.Header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	for _, intercept := range c.interceptors {
		if err := intercept(ctx, req); err != nil {
			if req.Body != nil {
				req.Body.Close()
			}
			return nil, fmt.Errorf("%w: %w", ErrRequestInterceptor, err)
		}
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqLog.Debug("request failed",
			"method", method,
			"url", target,
			"strategy", c.strategy.String(),
			"error", err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	reqLog.Debug("request completed",
		"method", method,
		"url", target,
		"strategy", c.strategy.String(),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	sent := resp.Request
	if sent == nil {
		sent = req
	}

	return &Response{
		Data:       data,
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    resp.Header,
		Config:     configFromRequest(sent, rc.Body),
	}, nil
}

// absoluteURL matches a scheme-qualified or protocol-relative URL.
var absoluteURL = regexp.MustCompile(`^([a-zA-Z][a-zA-Z\d+\-.]*:)?//`)

// resolve joins path onto the base URL and merges query into it. Absolute
// paths are used as they are.
func (c *Client) resolve(path string, query url.Values) (string, error) {
	target := path
	switch {
	case absoluteURL.MatchString(path) || c.baseURL == "":
	case path == "":
		target = c.baseURL
	default:
		target = strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("%w: %q has no base URL to resolve against", ErrInvalidURL, path)
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// routePath returns the path of a relative request URL with a leading slash
// and without query or fragment. Absolute URLs yield "".
func routePath(raw string) string {
	if absoluteURL.MatchString(raw) {
		return ""
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return "/" + strings.TrimLeft(raw, "/")
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	if c.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, c.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, c.maxBytes)
	}
	return data, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case io.Reader:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

// statusText returns the reason phrase of resp without the status code.
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

// IsInterceptorError reports whether err came from a request interceptor.
func IsInterceptorError(err error) bool {
	return errors.Is(err, ErrRequestInterceptor)
}

var _ Requester = (*Client)(nil)

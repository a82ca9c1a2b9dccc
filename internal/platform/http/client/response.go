package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// RequestConfig describes one request.
type RequestConfig struct {
	Method string

	// URL is relative to the client's base URL, or absolute.
	URL string

	Header http.Header
	Query  url.Values

	// Body is sent as is for []byte, json.RawMessage, string and io.Reader.
	// Any other value is JSON-encoded.
	Body any
}

// Response is a completed round trip, whatever its status.
type Response struct {
	// Data is the raw response body.
	Data json.RawMessage

	Status     int
	StatusText string
	Headers    http.Header

	// Config describes the request as it was sent, after interceptors ran.
	Config *RequestConfig
}

// Decode unmarshals the body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Err returns an *HTTPError for non-2xx responses and nil otherwise. The
// client itself never turns a status into an error; callers opt in here.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &HTTPError{Status: r.Status, StatusText: r.StatusText, Body: r.Data}
}

// HTTPError is a non-2xx response surfaced as an error by Response.Err.
// The body shape is owned by the backend and is kept raw.
type HTTPError struct {
	Status     int
	StatusText string
	Body       json.RawMessage
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned %d %s", e.Status, e.StatusText)
}

// StatusOf returns the status carried by an *HTTPError in err's chain, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// configFromRequest rebuilds the request description from what was sent.
// body is the caller's original body value; the wire body is already consumed.
func configFromRequest(req *http.Request, body any) *RequestConfig {
	u := *req.URL
	query := u.Query()
	u.RawQuery = ""
	rc := &RequestConfig{
		Method: req.Method,
		URL:    u.String(),
		Header: req.Header.Clone(),
		Body:   body,
	}
	if len(query) > 0 {
		rc.Query = query
	}
	return rc
}

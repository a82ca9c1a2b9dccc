package client

import "context"

// Requester is the request surface shared by the plain and authenticated
// clients. Callers that do not care which one they hold depend on this.
type Requester interface {
	Do(ctx context.Context, rc *RequestConfig) (*Response, error)
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)
	Put(ctx context.Context, path string, body any) (*Response, error)
	Patch(ctx context.Context, path string, body any) (*Response, error)
	Delete(ctx context.Context, path string) (*Response, error)
}

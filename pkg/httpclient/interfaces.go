package httpclient

import (
	"context"
	"io"
	"net/http"
)

// Request is a transport-ready GET request descriptor.
type Request struct {
	URL    string
	Header http.Header
	// Body is attached verbatim; nil means no body.
	Body []byte
}

// Response is a live transport response whose body has not been read yet.
type Response interface {
	StatusCode() int
	// URL is the effective URL after redirects.
	URL() string
	Header() http.Header
	// Body returns the unread payload; the caller owns closing it.
	Body() io.ReadCloser
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, req *Request) (Response, error)
}

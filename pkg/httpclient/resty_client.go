package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options tunes the resty-backed transport. The zero value means no timeout and
// redirects are returned to the caller unfollowed.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
}

// DefaultMaxRedirects matches the redirect budget most HTTP clients ship with.
const DefaultMaxRedirects = 10

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified options.
func NewRestyClient(opts Options) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(opts)}
}

// newRestyBaseClient creates a resty.Client that sends exactly what the caller built:
// no cookie jar, no retries, GET payloads allowed, and no headers of its own.
func newRestyBaseClient(opts Options) *resty.Client {
	c := resty.New()
	c.SetTimeout(opts.Timeout)
	c.SetCookieJar(nil)
	c.SetRetryCount(0)
	c.SetAllowGetMethodPayload(true)
	c.SetRedirectPolicy(redirectPolicy(opts.MaxRedirects))
	c.SetPreRequestHook(restoreCallerHeaders)
	return c
}

func redirectPolicy(maxRedirects int) resty.RedirectPolicy {
	if maxRedirects <= 0 {
		return resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		})
	}
	return resty.FlexibleRedirectPolicy(maxRedirects)
}

type callerHeaderKey struct{}

// restoreCallerHeaders replaces whatever resty added (User-Agent, Content-Type, Accept)
// with the caller's header set. An empty User-Agent keeps net/http from sending its own.
func restoreCallerHeaders(_ *resty.Client, req *http.Request) error {
	hdr, ok := req.Context().Value(callerHeaderKey{}).(http.Header)
	if !ok {
		return nil
	}
	req.Header = hdr.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if _, set := req.Header["User-Agent"]; !set {
		req.Header["User-Agent"] = []string{""}
	}
	return nil
}

// Get performs a single HTTP GET and returns the response with its body unread.
func (r *RestyClient) Get(ctx context.Context, req *Request) (Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	ctx = context.WithValue(ctx, callerHeaderKey{}, req.Header)

	rr := r.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	if len(req.Header) > 0 {
		rr.SetHeaderMultiValues(req.Header)
	}
	if req.Body != nil {
		rr.SetBody(req.Body)
	}

	resp, err := rr.Get(req.URL)
	if err != nil {
		if resp != nil && resp.RawResponse != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		return nil, err
	}
	if resp == nil || resp.RawResponse == nil {
		return nil, fmt.Errorf("transport returned no response for %s", req.URL)
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
func (r *restyResponseAdapter) Body() io.ReadCloser { return r.resp.RawBody() }

func (r *restyResponseAdapter) URL() string {
	if raw := r.resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		return raw.Request.URL.String()
	}
	return r.resp.Request.URL
}

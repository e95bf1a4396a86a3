package bridge

import (
	"context"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/Adda-Baaj/reqbridge/pkg/host"
	"github.com/Adda-Baaj/reqbridge/pkg/httpclient"
	"github.com/Adda-Baaj/reqbridge/pkg/scheduler"
)

// bodyState is either unconsumed (holding the live transport response) or consumed.
type bodyState interface{ isBodyState() }

type unconsumed struct{ raw httpclient.Response }

type consumed struct{}

func (unconsumed) isBodyState() {}
func (consumed) isBodyState()   {}

// Response is a one-shot handle on a transport response. Metadata can be read any
// number of times until the body is consumed; after that every accessor fails with
// ErrResponseConsumed. It is not safe for concurrent use.
type Response struct {
	state bodyState
	host  host.Host
	exec  scheduler.Executor
}

func newResponse(raw httpclient.Response, h host.Host, exec scheduler.Executor) *Response {
	return &Response{state: unconsumed{raw: raw}, host: h, exec: exec}
}

func (r *Response) live() (httpclient.Response, error) {
	if r == nil {
		return nil, errConsumed()
	}
	switch s := r.state.(type) {
	case unconsumed:
		return s.raw, nil
	default:
		return nil, errConsumed()
	}
}

// take moves the handle to consumed and hands back the live response.
func (r *Response) take() (httpclient.Response, error) {
	raw, err := r.live()
	if err != nil {
		return nil, err
	}
	r.state = consumed{}
	return raw, nil
}

// Status returns the HTTP status code.
func (r *Response) Status() (int, error) {
	raw, err := r.live()
	if err != nil {
		return 0, err
	}
	return raw.StatusCode(), nil
}

// URL returns the effective URL after redirects.
func (r *Response) URL() (string, error) {
	raw, err := r.live()
	if err != nil {
		return "", err
	}
	return raw.URL(), nil
}

// Headers returns a snapshot keyed by canonical header name. A name the server sent
// more than once keeps its last value.
func (r *Response) Headers() (map[string]string, error) {
	raw, err := r.live()
	if err != nil {
		return nil, err
	}
	hdr := raw.Header()
	out := make(map[string]string, len(hdr))
	for name, values := range hdr {
		if len(values) == 0 {
			continue
		}
		v := values[len(values)-1]
		if !utf8.ValidString(v) {
			return nil, decodeFailure(nil, "header %q is not valid text", name)
		}
		out[name] = v
	}
	return out, nil
}

// Text reads and decodes the entire body, consuming the handle. The host lock is
// released while the body is read.
func (r *Response) Text() (string, error) {
	raw, err := r.take()
	if err != nil {
		return "", err
	}
	var text string
	r.hostOrFree().AllowThreads(func() {
		text, err = readText(raw)
	})
	return text, err
}

// TextAsync is Text on the response's executor. The handle is consumed immediately,
// so a second Text or TextAsync fails even before the first read completes.
func (r *Response) TextAsync(ctx context.Context) *scheduler.Future[string] {
	raw, err := r.take()
	if err != nil {
		return scheduler.Rejected[string](err)
	}
	exec := r.exec
	if exec == nil {
		exec = scheduler.Shared()
	}
	return scheduler.Spawn(ctx, exec, func(ctx context.Context) (string, error) {
		// Abandoning the future cancels ctx; closing the body unblocks the read
		// and hands the connection back to the transport.
		if body := raw.Body(); body != nil {
			stop := context.AfterFunc(ctx, func() { _ = body.Close() })
			defer stop()
		}
		return readText(raw)
	})
}

// Close discards the body without reading it. It counts as consumption.
func (r *Response) Close() error {
	raw, err := r.take()
	if err != nil {
		return err
	}
	if body := raw.Body(); body != nil {
		return body.Close()
	}
	return nil
}

func (r *Response) hostOrFree() host.Host {
	if r.host == nil {
		return host.Free{}
	}
	return r.host
}

func readText(raw httpclient.Response) (string, error) {
	body := raw.Body()
	if body == nil {
		return "", nil
	}
	defer body.Close()

	payload, err := io.ReadAll(body)
	if err != nil {
		return "", requestFailed(err)
	}
	return decodeBody(payload, raw.Header().Get("Content-Type"))
}

// decodeBody decodes payload as UTF-8 unless contentType names another charset.
func decodeBody(payload []byte, contentType string) (string, error) {
	label := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			label = strings.TrimSpace(params["charset"])
		}
	}

	switch strings.ToLower(label) {
	case "", "utf-8", "utf8":
		if !utf8.Valid(payload) {
			return "", decodeFailure(nil, "body is not valid utf-8")
		}
		return string(payload), nil
	}

	enc, _ := charset.Lookup(label)
	if enc == nil {
		return "", decodeFailure(nil, "unsupported charset %q", label)
	}
	decoded, err := enc.NewDecoder().Bytes(payload)
	if err != nil {
		return "", decodeFailure(err, "decode body as %s", label)
	}
	return string(decoded), nil
}

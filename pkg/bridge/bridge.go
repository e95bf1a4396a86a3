package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/Adda-Baaj/reqbridge/pkg/host"
	"github.com/Adda-Baaj/reqbridge/pkg/httpclient"
	"github.com/Adda-Baaj/reqbridge/pkg/scheduler"
)

// Options wires a Bridge. Zero fields fall back to package defaults.
type Options struct {
	// Transport performs the HTTP exchange. Defaults to a resty client.
	Transport httpclient.Client
	// Shared runs non-blocking and bridged calls. Defaults to scheduler.Shared().
	Shared scheduler.Executor
	// Host is the embedding runtime. Defaults to host.Free.
	Host   host.Host
	Logger Logger
}

// Bridge decides where a GET runs and how the caller waits for it.
type Bridge struct {
	transport httpclient.Client
	shared    scheduler.Executor
	host      host.Host
	log       Logger
	newLoop   func() *scheduler.Loop
}

// New builds a Bridge from opts.
func New(opts Options) *Bridge {
	b := &Bridge{
		transport: opts.Transport,
		shared:    opts.Shared,
		host:      opts.Host,
		log:       ensureLogger(opts.Logger),
		newLoop:   scheduler.NewLoop,
	}
	if b.transport == nil {
		b.transport = httpclient.NewRestyClient(httpclient.Options{MaxRedirects: httpclient.DefaultMaxRedirects})
	}
	if b.shared == nil {
		b.shared = scheduler.Shared()
	}
	if b.host == nil {
		b.host = host.Free{}
	}
	return b
}

// Get performs a blocking GET. The send runs on a loop created for this call alone,
// the host lock is released while waiting, and the loop is torn down on return.
func (b *Bridge) Get(ctx context.Context, url string, headers map[string]string, body []byte) (*Response, error) {
	req, err := BuildRequest(url, headers, body)
	if err != nil {
		return nil, err
	}

	loop := b.newLoop()
	defer func() {
		_ = loop.Close()
		b.log.DebugObj("scoped loop torn down", "url", url)
	}()

	start := time.Now()
	fut := scheduler.SpawnReleasable(ctx, loop, func(ctx context.Context) (*Response, error) {
		return b.send(ctx, req)
	}, releaseResponse)

	var resp *Response
	b.host.AllowThreads(func() {
		resp, err = fut.Await(ctx)
	})
	b.log.DebugObj("blocking call settled", "call", map[string]any{
		"task_id":    fut.ID(),
		"url":        url,
		"ok":         err == nil,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		fut.Abandon()
		return nil, asBridgeError(err)
	}
	return resp, nil
}

// GetAsync schedules a GET on the shared executor and returns immediately. The
// future rejects with InvalidHeader, without scheduling anything, if a header is bad.
func (b *Bridge) GetAsync(ctx context.Context, url string, headers map[string]string, body []byte) *scheduler.Future[*Response] {
	req, err := BuildRequest(url, headers, body)
	if err != nil {
		return scheduler.Rejected[*Response](err)
	}

	fut := scheduler.SpawnReleasable(ctx, b.shared, func(ctx context.Context) (*Response, error) {
		return b.send(ctx, req)
	}, releaseResponse)
	b.log.DebugObj("task scheduled", "task", map[string]any{
		"task_id": fut.ID(),
		"url":     url,
	})
	return fut
}

// GetBridged serves a synchronous caller from the shared executor by handing the
// pending future to the host's BlockOn primitive.
func (b *Bridge) GetBridged(ctx context.Context, url string, headers map[string]string, body []byte) (*Response, error) {
	fut := b.GetAsync(ctx, url, headers, body)
	if err := b.host.BlockOn(ctx, fut); err != nil {
		fut.Abandon()
		return nil, asBridgeError(err)
	}
	resp, err := fut.Result()
	if err != nil {
		return nil, asBridgeError(err)
	}
	return resp, nil
}

// send is the single send+await step every mode shares. No retries.
func (b *Bridge) send(ctx context.Context, req *httpclient.Request) (*Response, error) {
	raw, err := b.transport.Get(ctx, req)
	if err != nil {
		return nil, requestFailed(err)
	}
	return newResponse(raw, b.host, b.shared), nil
}

func releaseResponse(r *Response) {
	if r != nil {
		_ = r.Close()
	}
}

// asBridgeError keeps bridge errors as they are and reports anything else (a
// cancelled wait, a panicking task) as RequestFailed.
func asBridgeError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return requestFailed(err)
}

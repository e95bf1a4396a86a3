package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/reqbridge/internal/config"
	"github.com/Adda-Baaj/reqbridge/internal/logger"
	"github.com/Adda-Baaj/reqbridge/pkg/bridge"
	"github.com/Adda-Baaj/reqbridge/pkg/host"
	"github.com/Adda-Baaj/reqbridge/pkg/httpclient"
	"github.com/Adda-Baaj/reqbridge/pkg/scheduler"
)

// Mode selects how a fetch is scheduled.
type Mode string

const (
	ModeBlocking Mode = "blocking"
	ModeAsync    Mode = "async"
	ModeBridged  Mode = "bridged"
)

// ParseMode accepts blocking, async or bridged (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeBlocking, ModeAsync, ModeBridged:
		return m, nil
	case "":
		return ModeBlocking, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want blocking, async or bridged)", s)
	}
}

// Target is one GET to perform.
type Target struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Result is everything read from a consumed response.
type Result struct {
	Status  int               `json:"status"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Fetcher is a host-side driver around a configured bridge.
type Fetcher struct {
	bridge *bridge.Bridge
	log    logger.Logger
}

// NewBridge builds a bridge from config. The shared pool bound only applies if the
// process-wide pool has not been created yet.
func NewBridge(cfg *config.Config, log logger.Logger, h host.Host) (*bridge.Bridge, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	if !scheduler.ConfigureShared(cfg.SharedMaxInFlight) {
		log.WarnObj("shared scheduler already running; in-flight bound ignored", "shared_max_inflight", cfg.SharedMaxInFlight)
	}

	transport := httpclient.NewRestyClient(httpclient.Options{
		Timeout:      cfg.TransportTimeout,
		MaxRedirects: cfg.MaxRedirects,
	})
	log.InfoObj("bridge configured", "bridge_config", map[string]any{
		"transport_timeout":   cfg.TransportTimeout.String(),
		"max_redirects":       cfg.MaxRedirects,
		"shared_max_inflight": cfg.SharedMaxInFlight,
	})

	return bridge.New(bridge.Options{
		Transport: transport,
		Shared:    scheduler.Shared(),
		Host:      h,
		Logger:    log,
	}), nil
}

// NewFetcher wires a fetcher around b.
func NewFetcher(b *bridge.Bridge, log logger.Logger) *Fetcher {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Fetcher{bridge: b, log: log}
}

// Fetch performs t in the given mode and consumes the response.
func (f *Fetcher) Fetch(ctx context.Context, mode Mode, t Target) (*Result, error) {
	if f == nil || f.bridge == nil {
		return nil, fmt.Errorf("fetcher is not initialized")
	}

	start := time.Now()
	resp, err := f.send(ctx, mode, t)
	if err != nil {
		return nil, err
	}

	res, err := collect(ctx, mode, resp)
	if err != nil {
		return nil, err
	}
	f.log.InfoObj("fetch completed", "fetch_meta", map[string]any{
		"mode":       string(mode),
		"status":     res.Status,
		"url":        res.URL,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return res, nil
}

func (f *Fetcher) send(ctx context.Context, mode Mode, t Target) (*bridge.Response, error) {
	switch mode {
	case ModeBlocking:
		return f.bridge.Get(ctx, t.URL, t.Headers, t.Body)
	case ModeAsync:
		fut := f.bridge.GetAsync(ctx, t.URL, t.Headers, t.Body)
		resp, err := fut.Await(ctx)
		if err != nil {
			fut.Abandon()
		}
		return resp, err
	case ModeBridged:
		return f.bridge.GetBridged(ctx, t.URL, t.Headers, t.Body)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func collect(ctx context.Context, mode Mode, resp *bridge.Response) (*Result, error) {
	status, err := resp.Status()
	if err != nil {
		return nil, err
	}
	url, err := resp.URL()
	if err != nil {
		return nil, err
	}
	headers, err := resp.Headers()
	if err != nil {
		_ = resp.Close()
		return nil, err
	}

	var body string
	if mode == ModeAsync {
		fut := resp.TextAsync(ctx)
		body, err = fut.Await(ctx)
		if err != nil {
			fut.Abandon()
		}
	} else {
		body, err = resp.Text()
	}
	if err != nil {
		return nil, err
	}
	return &Result{Status: status, URL: url, Headers: headers, Body: body}, nil
}

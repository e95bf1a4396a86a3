package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adda-Baaj/reqbridge/internal/config"
	"github.com/Adda-Baaj/reqbridge/pkg/bridge"
	"github.com/Adda-Baaj/reqbridge/pkg/host"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":         ModeBlocking,
		"blocking": ModeBlocking,
		" ASYNC ":  ModeAsync,
		"bridged":  ModeBridged,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("parallel"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestNewBridgeRequiresConfig(t *testing.T) {
	if _, err := NewBridge(nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestFetcherAllModes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo", r.Header.Get("X-In"))
		_, _ = io.WriteString(w, "hello")
	}))
	defer srv.Close()

	b, err := NewBridge(&config.Config{MaxRedirects: 10}, nil, host.Free{})
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	f := NewFetcher(b, nil)

	for _, mode := range []Mode{ModeBlocking, ModeAsync, ModeBridged} {
		res, err := f.Fetch(context.Background(), mode, Target{
			URL:     srv.URL,
			Headers: map[string]string{"X-In": string(mode)},
		})
		if err != nil {
			t.Fatalf("%s: Fetch: %v", mode, err)
		}
		if res.Status != http.StatusOK || res.Body != "hello" || res.URL != srv.URL {
			t.Fatalf("%s: unexpected result %+v", mode, res)
		}
		if res.Headers["X-Echo"] != string(mode) {
			t.Fatalf("%s: expected echoed header, got %v", mode, res.Headers)
		}
	}
}

func TestFetcherSurfacesBridgeErrors(t *testing.T) {
	b, err := NewBridge(&config.Config{}, nil, nil)
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	f := NewFetcher(b, nil)

	_, err = f.Fetch(context.Background(), ModeAsync, Target{
		URL:     "http://127.0.0.1:1",
		Headers: map[string]string{"bad header": "x"},
	})
	if !errors.Is(err, bridge.ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}

	var nilFetcher *Fetcher
	if _, err := nilFetcher.Fetch(context.Background(), ModeBlocking, Target{}); err == nil {
		t.Fatalf("expected error from uninitialized fetcher")
	}
}

package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRestyClientSendsOnlyCallerHeaders(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewRestyClient(Options{MaxRedirects: DefaultMaxRedirects})
	resp, err := c.Get(context.Background(), &Request{
		URL:    srv.URL,
		Header: http.Header{"X-Test": {"1"}},
		Body:   []byte{0x01, 0x02, 0x03},
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body().Close()

	if got.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", got.Method)
	}
	if got.Header.Get("X-Test") != "1" {
		t.Fatalf("missing caller header, got %v", got.Header)
	}
	if ua, ok := got.Header["User-Agent"]; ok {
		t.Fatalf("expected no User-Agent, got %q", ua)
	}
	if ct := got.Header.Get("Content-Type"); ct != "" {
		t.Fatalf("expected no inferred Content-Type, got %q", ct)
	}
	if string(gotBody) != "\x01\x02\x03" {
		t.Fatalf("body not sent verbatim: %v", gotBody)
	}
}

func TestRestyClientKeepsCallerUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewRestyClient(Options{})
	resp, err := c.Get(context.Background(), &Request{
		URL:    srv.URL,
		Header: http.Header{"User-Agent": {"bridge-test/1"}},
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body().Close()

	if ua != "bridge-test/1" {
		t.Fatalf("expected caller User-Agent, got %q", ua)
	}
}

func TestRestyClientLeavesBodyUnread(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Test", "1")
		_, _ = io.WriteString(w, "payload")
	}))
	defer srv.Close()

	c := NewRestyClient(Options{})
	resp, err := c.Get(context.Background(), &Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
	if resp.Header().Get("X-Test") != "1" {
		t.Fatalf("missing response header")
	}
	body := resp.Body()
	defer body.Close()
	b, err := io.ReadAll(body)
	if err != nil || string(b) != "payload" {
		t.Fatalf("unexpected body %q %v", b, err)
	}
}

func TestRestyClientRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	followed, err := NewRestyClient(Options{MaxRedirects: 3}).Get(context.Background(), &Request{URL: srv.URL + "/start"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	followed.Body().Close()
	if followed.StatusCode() != http.StatusOK || followed.URL() != srv.URL+"/end" {
		t.Fatalf("expected followed redirect, got %d %s", followed.StatusCode(), followed.URL())
	}

	unfollowed, err := NewRestyClient(Options{}).Get(context.Background(), &Request{URL: srv.URL + "/start"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	unfollowed.Body().Close()
	if unfollowed.StatusCode() != http.StatusFound || unfollowed.URL() != srv.URL+"/start" {
		t.Fatalf("expected redirect response returned as-is, got %d %s", unfollowed.StatusCode(), unfollowed.URL())
	}
}

func TestRestyClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewRestyClient(Options{}).Get(context.Background(), &Request{URL: url}); err == nil {
		t.Fatalf("expected error for closed server")
	}
	if _, err := NewRestyClient(Options{}).Get(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil request")
	}
}

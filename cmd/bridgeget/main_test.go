package main

import "testing"

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders([]string{"X-A=1", "X-B=a=b", "X-Empty="})
	if err != nil {
		t.Fatalf("parseHeaders: %v", err)
	}
	if got["X-A"] != "1" || got["X-B"] != "a=b" || got["X-Empty"] != "" {
		t.Fatalf("unexpected headers %v", got)
	}

	if h, err := parseHeaders(nil); err != nil || h != nil {
		t.Fatalf("expected nil headers, got %v %v", h, err)
	}
	if _, err := parseHeaders([]string{"no-separator"}); err == nil {
		t.Fatalf("expected error for malformed header flag")
	}
}

func TestRunRequiresURL(t *testing.T) {
	if err := run(nil); err == nil {
		t.Fatalf("expected usage error without url")
	}
	if err := run([]string{"--mode", "sideways", "http://example.test"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "reqbridge" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.TransportTimeout != 0 {
		t.Fatalf("expected no transport timeout by default, got %s", cfg.TransportTimeout)
	}
	if cfg.MaxRedirects != 10 || cfg.SharedMaxInFlight != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BRIDGE_LOG_LEVEL", "debug")
	t.Setenv("BRIDGE_TRANSPORT_TIMEOUT_SECONDS", "5")
	t.Setenv("BRIDGE_MAX_REDIRECTS", "0")
	t.Setenv("BRIDGE_SHARED_MAX_INFLIGHT", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug, got %q", cfg.LogLevel)
	}
	if cfg.TransportTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.TransportTimeout)
	}
	if cfg.MaxRedirects != 0 || cfg.SharedMaxInFlight != 8 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	for _, key := range []string{
		"BRIDGE_TRANSPORT_TIMEOUT_SECONDS",
		"BRIDGE_MAX_REDIRECTS",
		"BRIDGE_SHARED_MAX_INFLIGHT",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "-1")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for negative %s", key)
			}
		})
	}
}

package main

import (
	"testing"
	"time"
)

func TestReadConfig_Defaults(t *testing.T) {
	cfg, err := readConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.listenAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.listenAddr)
	}
	if cfg.searchRounds != 10 || cfg.concurrencyMax != 4 || !cfg.rateEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.statsTTL != 24*time.Hour {
		t.Fatalf("expected 24h stats ttl, got %s", cfg.statsTTL)
	}
}

func TestReadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("SEARCH_WORKERS", "3")
	t.Setenv("SEARCH_MAX_BITS", "512")
	t.Setenv("CONCURRENCY_TIMEOUT", "250ms")
	t.Setenv("RATE_ENABLED", "false")
	t.Setenv("RATE_RPS", "0")

	cfg, err := readConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.searchWorkers != 3 || cfg.searchMaxBits != 512 {
		t.Fatalf("unexpected search config: %+v", cfg)
	}
	if cfg.concurrencyTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.concurrencyTimeout)
	}
	if cfg.rateEnabled {
		t.Fatalf("expected rate disabled")
	}
}

func TestReadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SEARCH_WORKERS":   "-1",
		"SEARCH_MAX_BITS":  "100",
		"SEARCH_MAX_COUNT": "0",
		"RATE_RPS":         "-2",
		"RATE_BURST":       "0",
		"CONCURRENCY_MAX":  "-1",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := readConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Addr)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected default session ttl: %s", cfg.SessionTTL)
	}
	if cfg.ResultCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected default cache ttl: %s", cfg.ResultCacheTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("SEGMENTER_ADDR", "seg:50051")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("RESULT_CACHE_TTL", "45")

	cfg := Load()
	if cfg.Addr != ":9999" {
		t.Fatalf("addr override ignored: %s", cfg.Addr)
	}
	if cfg.SegmenterAddr != "seg:50051" {
		t.Fatalf("segmenter override ignored: %s", cfg.SegmenterAddr)
	}
	if cfg.SessionTTL != 90*time.Second {
		t.Fatalf("duration parse wrong: %s", cfg.SessionTTL)
	}
	if cfg.ResultCacheTTL != 45*time.Second {
		t.Fatalf("bare seconds parse wrong: %s", cfg.ResultCacheTTL)
	}
}

func TestGetEnvAsDurationIgnoresGarbage(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	cfg := Load()
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("garbage value must fall back to the default, got %s", cfg.SessionTTL)
	}
}

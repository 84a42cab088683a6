package config

import (
	"testing"
	"time"
)

func TestDefault_ReadsEnv(t *testing.T) {
	t.Setenv("YTV_ADDR", ":9999")
	t.Setenv("YTV_YOUTUBE_API_KEY", "k")
	t.Setenv("YTV_VIEW_TTL", "5m")
	t.Setenv("YTV_UPSTREAM_RPS", "0")

	cfg := Default()
	if cfg.Addr != ":9999" || cfg.APIKey != "k" {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.ViewTTL != 5*time.Minute {
		t.Fatalf("ViewTTL: got %v", cfg.ViewTTL)
	}
	if cfg.UpstreamRPS != 0 {
		t.Fatalf("UpstreamRPS: got %v", cfg.UpstreamRPS)
	}
}

func TestDefault_BadValuesFallBack(t *testing.T) {
	t.Setenv("YTV_VIEW_TTL", "soon")
	t.Setenv("YTV_UPSTREAM_CONCURRENCY", "many")

	cfg := Default()
	if cfg.ViewTTL != 30*time.Minute || cfg.UpstreamConcurrency != 4 {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.DBPath != "ytv.db" {
		t.Fatalf("DBPath: got %q", cfg.DBPath)
	}
}

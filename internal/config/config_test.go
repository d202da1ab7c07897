package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{envLookupSource, envLogFile, envLogLevel, envHTTPTimeout, envSubtitle, envBandByCategory, envChartBucket} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.LookupSource != DefaultLookupSource {
		t.Fatalf("lookup source = %q, want %q", cfg.LookupSource, DefaultLookupSource)
	}
	if cfg.Log.File != DefaultLogFile || cfg.Log.Level != DefaultLogLevel {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Scrape.Timeout != DefaultHTTPTimeout {
		t.Fatalf("timeout = %s, want %s", cfg.Scrape.Timeout, DefaultHTTPTimeout)
	}
	if cfg.Scrape.ScoutComp != "12192" {
		t.Fatalf("scout comp = %q", cfg.Scrape.ScoutComp)
	}
	if cfg.Chart.BandByCategory {
		t.Fatal("expected positional banding by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envLookupSource, "dynamodb://player_profiles")
	t.Setenv(envHTTPTimeout, "5s")
	t.Setenv(envBandByCategory, "yes")
	t.Setenv(envChartBucket, "charts-bucket")

	cfg := Load()
	if cfg.LookupSource != "dynamodb://player_profiles" {
		t.Fatalf("lookup source = %q", cfg.LookupSource)
	}
	if cfg.Scrape.Timeout != 5*time.Second {
		t.Fatalf("timeout = %s", cfg.Scrape.Timeout)
	}
	if !cfg.Chart.BandByCategory {
		t.Fatal("expected band by category override")
	}
	if cfg.Chart.Bucket != "charts-bucket" {
		t.Fatalf("bucket = %q", cfg.Chart.Bucket)
	}
}

func TestEnvDurationRejectsInvalid(t *testing.T) {
	t.Setenv("X_DURATION", "soon")
	if got := envDuration("X_DURATION", time.Second); got != time.Second {
		t.Fatalf("expected default, got %s", got)
	}
	t.Setenv("X_DURATION", "-3s")
	if got := envDuration("X_DURATION", time.Second); got != time.Second {
		t.Fatalf("expected default for negative, got %s", got)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.PhoneRegion != "IN" {
		t.Errorf("PhoneRegion = %q", cfg.PhoneRegion)
	}
	if cfg.CardCacheTTL != 60*time.Second {
		t.Errorf("CardCacheTTL = %v", cfg.CardCacheTTL)
	}
	if cfg.AI.Model != "google/gemini-2.5-flash" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Errorf("IdempotencyTTL = %v", cfg.IdempotencyTTL)
	}
}

func TestLoad_OverridesAndNormalization(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("PHONE_REGION", "us")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test ,")
	t.Setenv("RATE_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("invalid GIN_MODE should normalize to release, got %q", cfg.GinMode)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.PhoneRegion != "US" {
		t.Errorf("PhoneRegion = %q", cfg.PhoneRegion)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateRPS != 2.5 {
		t.Errorf("RateRPS = %v", cfg.RateRPS)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string][2]string{
		"bad log level":      {"LOG_LEVEL", "verbose"},
		"bad phone region":   {"PHONE_REGION", "IND"},
		"zero cache ttl":     {"CARD_CACHE_TTL", "0s"},
		"zero idem ttl":      {"IDEMPOTENCY_TTL", "0s"},
		"negative rate":      {"RATE_RPS", "-1"},
		"bad sampler":        {"OTEL_TRACES_SAMPLER_ARG", "1.5"},
		"bucket without url": {"S3_BUCKET", "assets"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s: expected validation error", kv[0], kv[1])
			}
		})
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "DEFAULT_COUNTRY_CODE", "N8N_WEBHOOK_URL",
		"META_PIXEL_ID", "META_ACCESS_TOKEN", "KAFKA_BROKERS", "VALIDATION_CODE_ENABLED",
		"LEAD_SOURCE", "RATE_LIMIT_RPS",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.DefaultCountryCode != "+55" {
		t.Fatalf("expected default country code +55, got %s", cfg.DefaultCountryCode)
	}
	if cfg.LeadSource != "landing_page" {
		t.Fatalf("expected default lead source, got %s", cfg.LeadSource)
	}
	if cfg.ValidationCodeEnabled {
		t.Fatalf("expected validation codes disabled by default")
	}
	if cfg.N8NWebhookURL != "" {
		t.Fatalf("expected no webhook by default, got %s", cfg.N8NWebhookURL)
	}
	if cfg.MetaEnabled() {
		t.Fatalf("expected meta disabled without credentials")
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no kafka brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.RateLimitRPS != 1 || cfg.RateLimitBurst != 10 {
		t.Fatalf("unexpected rate limit defaults %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "4323")
	t.Setenv("SITE_NAME", " business ")
	t.Setenv("DEFAULT_COUNTRY_CODE", "+351")
	t.Setenv("VALIDATION_CODE_ENABLED", "true")
	t.Setenv("N8N_WEBHOOK_URL", "https://n8n.example.com/webhook/lead")
	t.Setenv("META_PIXEL_ID", "123")
	t.Setenv("META_ACCESS_TOKEN", "token")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg := Load()
	if cfg.Port != "4323" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.SiteName != "business" {
		t.Fatalf("expected trimmed site name, got %q", cfg.SiteName)
	}
	if cfg.DefaultCountryCode != "+351" {
		t.Fatalf("expected country code override, got %s", cfg.DefaultCountryCode)
	}
	if !cfg.ValidationCodeEnabled {
		t.Fatalf("expected validation codes enabled")
	}
	if cfg.N8NWebhookURL != "https://n8n.example.com/webhook/lead" {
		t.Fatalf("unexpected webhook url %s", cfg.N8NWebhookURL)
	}
	if !cfg.MetaEnabled() {
		t.Fatalf("expected meta enabled")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected kafka brokers %v", cfg.KafkaBrokers)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("expected rps override, got %v", cfg.RateLimitRPS)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected shutdown override, got %s", cfg.ShutdownTimeout)
	}
}

func TestMetaEnabledRequiresBothCredentials(t *testing.T) {
	cfg := &Config{MetaPixelID: "123"}
	if cfg.MetaEnabled() {
		t.Fatal("expected meta disabled without access token")
	}
	cfg = &Config{MetaAccessToken: "token"}
	if cfg.MetaEnabled() {
		t.Fatal("expected meta disabled without pixel id")
	}
	cfg = &Config{MetaPixelID: " ", MetaAccessToken: "token"}
	if cfg.MetaEnabled() {
		t.Fatal("expected meta disabled with blank pixel id")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.LLMProvider != "gemini" {
		t.Errorf("expected default LLM provider gemini, got %s", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("expected default LLM timeout 30s, got %s", cfg.LLMTimeout)
	}
	if cfg.MaxOutputTokens != 512 {
		t.Errorf("expected default max output tokens 512, got %d", cfg.MaxOutputTokens)
	}
	if cfg.PracticePhone == "" {
		t.Error("expected a default practice phone")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "Bedrock")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_MAX_OUTPUT_TOKENS", "256")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://praxis.example, https://www.praxis.example")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.LLMProvider != "bedrock" {
		t.Errorf("expected provider lowercased to bedrock, got %s", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.LLMTimeout)
	}
	if cfg.MaxOutputTokens != 256 {
		t.Errorf("expected 256 tokens, got %d", cfg.MaxOutputTokens)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://praxis.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvAsIntInvalid(t *testing.T) {
	t.Setenv("LLM_MAX_OUTPUT_TOKENS", "not-a-number")
	cfg := Load()
	if cfg.MaxOutputTokens != 512 {
		t.Errorf("expected fallback to default 512, got %d", cfg.MaxOutputTokens)
	}
}

package config

import (
	"strings"
	"testing"
)

func TestLoad_RequiresAppCredentials(t *testing.T) {
	t.Setenv("SHOPIFY_CLIENT_ID", "")
	t.Setenv("SHOPIFY_CLIENT_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SHOPIFY_CLIENT_ID") {
		t.Fatalf("expected missing client id error, got %v", err)
	}

	t.Setenv("SHOPIFY_CLIENT_ID", "id")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SHOPIFY_CLIENT_SECRET") {
		t.Fatalf("expected missing client secret error, got %v", err)
	}
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("SHOPIFY_CLIENT_ID", "id")
	t.Setenv("SHOPIFY_CLIENT_SECRET", "secret")
	t.Setenv("APP_BASE_URL", "https://app.example.com/")
	t.Setenv("SESSION_TTL_MINUTES", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Environment != "development" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Shopify.APIVersion != "2025-04" {
		t.Errorf("unexpected API version %q", cfg.Shopify.APIVersion)
	}
	if cfg.Shopify.Scopes != Scopes {
		t.Errorf("scope set must be the fixed constant, got %q", cfg.Shopify.Scopes)
	}
	if cfg.AppBaseURL != "https://app.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.AppBaseURL)
	}
	if cfg.Session.TTLMinutes != 60 || cfg.Session.CookieName != "app_session" {
		t.Errorf("unexpected session config %+v", cfg.Session)
	}
}

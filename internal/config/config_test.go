package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HELPDESK_API_BASE_URL", "")
	t.Setenv("HELPDESK_STORAGE", "")
	t.Setenv("HELPDESK_CREDENTIALS", "")
	t.Setenv("HELPDESK_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Storage.Backend != StorageSQLite {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, StorageSQLite)
	}
	if !cfg.API.IncludeCredentials() {
		t.Error("credentials should be included by default")
	}
	if got := cfg.API.RequestTimeout(); got != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HELPDESK_API_BASE_URL", "https://desk.example.com/api/")
	t.Setenv("HELPDESK_STORAGE", "Memory")
	t.Setenv("HELPDESK_CREDENTIALS", "omit")
	t.Setenv("HELPDESK_HTTP_TIMEOUT_SECONDS", "0")
	t.Setenv("HELPDESK_RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "https://desk.example.com/api" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", cfg.API.BaseURL)
	}
	if cfg.Storage.Backend != StorageMemory {
		t.Errorf("Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.API.IncludeCredentials() {
		t.Error("credentials should be omitted")
	}
	if cfg.API.RequestTimeout() != 0 {
		t.Errorf("RequestTimeout = %v, want 0", cfg.API.RequestTimeout())
	}
	if cfg.API.RateLimitPerSecond != 2.5 {
		t.Errorf("RateLimitPerSecond = %v, want 2.5", cfg.API.RateLimitPerSecond)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"redis db", "REDIS_DB", "abc"},
		{"storage backend", "HELPDESK_STORAGE", "floppy"},
		{"credentials", "HELPDESK_CREDENTIALS", "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

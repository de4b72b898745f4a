package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	cfg := Default()
	err := applyEnv(cfg, mapLookup(map[string]string{
		"PORT":                "3000",
		"STORE_DRIVER":        "Postgres",
		"STORE_URL":           "postgres://app@db.example.com:5432/postgres",
		"STORE_CREDENTIAL":    "s3cret",
		"STORE_MIGRATE":       "true",
		"CHAT_WEBHOOK_URL":    "https://hooks.example.com/chat",
		"ENHANCE_WEBHOOK_URL": "https://hooks.example.com/enhance",
		"WEBHOOK_SECRET":      "shared",
		"WEBHOOK_TIMEOUT":     "3s",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}

	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Addr)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Errorf("Driver = %q, want %q", cfg.Store.Driver, DriverPostgres)
	}
	if !cfg.Store.Migrate {
		t.Error("Migrate = false, want true")
	}
	if cfg.Chat.Secret != "shared" || cfg.Enhance.Secret != "shared" {
		t.Errorf("secrets = %q/%q, want shared fallback", cfg.Chat.Secret, cfg.Enhance.Secret)
	}
	if cfg.WebhookTimeout != 3*time.Second {
		t.Errorf("WebhookTimeout = %s, want 3s", cfg.WebhookTimeout)
	}
}

func TestApplyEnvSpecificSecretWins(t *testing.T) {
	cfg := Default()
	err := applyEnv(cfg, mapLookup(map[string]string{
		"WEBHOOK_SECRET":         "shared",
		"ENHANCE_WEBHOOK_SECRET": "enhance-only",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Enhance.Secret != "enhance-only" {
		t.Errorf("Enhance.Secret = %q, want enhance-only", cfg.Enhance.Secret)
	}
	if cfg.Chat.Secret != "shared" {
		t.Errorf("Chat.Secret = %q, want shared", cfg.Chat.Secret)
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	for _, env := range []map[string]string{
		{"STORE_MIGRATE": "maybe"},
		{"WEBHOOK_TIMEOUT": "soon"},
	} {
		if err := applyEnv(Default(), mapLookup(env)); err == nil {
			t.Errorf("applyEnv(%v) succeeded, want error", env)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted unknown driver")
	}

	cfg = Default()
	cfg.WebhookTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted zero timeout")
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Validate(Default()) = %v", err)
	}
}

func TestWebhookConfigured(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{PlaceholderWebhookURL, false},
		{"https://hooks.example.com/enhance", true},
	}
	for _, tt := range tests {
		if got := (WebhookConfig{URL: tt.url}).Configured(); got != tt.want {
			t.Errorf("Configured(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestLoadReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "todochat.toml")
	content := `
addr = ":9090"
webhook_timeout = "2s"

[store]
driver = "memory"

[chat]
url = "https://hooks.example.com/chat"
secret = "from-file"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"PORT", "ADDR", "STORE_DRIVER", "CHAT_WEBHOOK_SECRET", "WEBHOOK_SECRET", "WEBHOOK_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Chat.Secret != "from-file" {
		t.Errorf("Chat.Secret = %q, want from-file", cfg.Chat.Secret)
	}
	if cfg.WebhookTimeout != 2*time.Second {
		t.Errorf("WebhookTimeout = %s, want 2s", cfg.WebhookTimeout)
	}
}

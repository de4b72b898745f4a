// Package config builds the process configuration from defaults, an optional
// TOML file, a .env file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"

	DefaultAddr           = ":8080"
	DefaultWebhookTimeout = 10 * time.Second
	DefaultLogLevel       = "info"

	// PlaceholderWebhookURL is the sample value shipped in example env files.
	// A webhook configured with it is treated as unset.
	PlaceholderWebhookURL = "https://your-n8n-instance.com/webhook/your-webhook-id"
)

type Config struct {
	Addr           string        `toml:"addr"`
	LogLevel       string        `toml:"log_level"`
	WebhookTimeout time.Duration `toml:"webhook_timeout"`
	Store          StoreConfig   `toml:"store"`
	Chat           WebhookConfig `toml:"chat"`
	Enhance        WebhookConfig `toml:"enhance"`
}

// StoreConfig identifies the task store. URL is the endpoint (a GCP project
// ID for firestore, a postgres:// URL for postgres) and Credential the
// service credential (a service-account file path, or the database password).
type StoreConfig struct {
	Driver     string `toml:"driver"`
	URL        string `toml:"url"`
	Credential string `toml:"credential"`
	Migrate    bool   `toml:"migrate"`
}

type WebhookConfig struct {
	URL    string `toml:"url"`
	Secret string `toml:"secret"`
}

// Configured reports whether the webhook has a usable URL.
func (w WebhookConfig) Configured() bool {
	url := strings.TrimSpace(w.URL)
	return url != "" && url != PlaceholderWebhookURL
}

func Default() *Config {
	return &Config{
		Addr:           DefaultAddr,
		LogLevel:       DefaultLogLevel,
		WebhookTimeout: DefaultWebhookTimeout,
		Store:          StoreConfig{Driver: DriverFirestore},
	}
}

// Load returns the configuration. path may be empty, in which case no TOML
// file is read. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed later. Missing store
// credentials are not rejected here; the store client reports them per call.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFirestore, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("webhook timeout must be positive, got %s", c.WebhookTimeout)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := lookup(key); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		cfg.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	setString(&cfg.Addr, "ADDR")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Store.Driver, "STORE_DRIVER")
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	setString(&cfg.Store.URL, "STORE_URL")
	setString(&cfg.Store.Credential, "STORE_CREDENTIAL")
	if v, ok := lookup("STORE_MIGRATE"); ok && v != "" {
		migrate, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STORE_MIGRATE: %w", err)
		}
		cfg.Store.Migrate = migrate
	}

	setString(&cfg.Chat.URL, "CHAT_WEBHOOK_URL")
	setString(&cfg.Chat.Secret, "CHAT_WEBHOOK_SECRET", "WEBHOOK_SECRET")
	setString(&cfg.Enhance.URL, "ENHANCE_WEBHOOK_URL")
	setString(&cfg.Enhance.Secret, "ENHANCE_WEBHOOK_SECRET", "WEBHOOK_SECRET")

	if v, ok := lookup("WEBHOOK_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WEBHOOK_TIMEOUT: %w", err)
		}
		cfg.WebhookTimeout = d
	}
	return nil
}

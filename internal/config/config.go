package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

const DefaultPath = "config/config.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Payments PaymentsConfig `yaml:"payments"`
	Storage  StorageConfig  `yaml:"storage"`
	Mail     MailConfig     `yaml:"mail"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Address        string   `yaml:"address" env:"SERVER_ADDRESS"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver" env:"DB_DRIVER"`
	URL          string `yaml:"url" env:"DB_URL"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	DraftTTL time.Duration `yaml:"draft_ttl" env:"BOOKING_DRAFT_TTL"`
}

type AuthConfig struct {
	SigningKey    string        `yaml:"signing_key" env:"JWT_SIGNING_KEY"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL"`
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"`
	SecureCookie  bool          `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE"`
}

type PaymentsConfig struct {
	Provider            string        `yaml:"provider" env:"PAYMENT_PROVIDER"`
	Currency            string        `yaml:"currency" env:"PAYMENT_CURRENCY"`
	WebhookSecret       string        `yaml:"webhook_secret" env:"PAYMENT_WEBHOOK_SECRET"`
	MockDelay           time.Duration `yaml:"mock_delay" env:"PAYMENT_MOCK_DELAY"`
	RedirectBaseURL     string        `yaml:"redirect_base_url" env:"PAYMENT_REDIRECT_BASE_URL"`
	UPIPayeeID          string        `yaml:"upi_payee_id" env:"UPI_PAYEE_ID"`
	UPIPayeeName        string        `yaml:"upi_payee_name" env:"UPI_PAYEE_NAME"`
	StripeSecretKey     string        `yaml:"stripe_secret_key" env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string        `yaml:"stripe_webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
}

type StorageConfig struct {
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region        string `yaml:"region" env:"S3_REGION"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET"`
	AccessKey     string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

type MailConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// Default returns the configuration used when neither the file nor the
// environment sets a value.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:        ":4000",
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:       "mysql",
			MaxIdleConns: 35,
			MaxOpenConns: 50,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			DraftTTL: 30 * time.Minute,
		},
		Auth: AuthConfig{
			AccessTTL:  24 * time.Hour,
			RefreshTTL: 30 * 24 * time.Hour,
		},
		Payments: PaymentsConfig{
			Provider:        "mock",
			Currency:        "INR",
			MockDelay:       time.Second,
			RedirectBaseURL: "/api/payments/mock-bank-redirect",
			UPIPayeeID:      "merchant@jmlastro",
			UPIPayeeName:    "JML Astro",
		},
		Mail: MailConfig{Port: 587},
		Log:  LogConfig{Level: "info"},
	}
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// then applies environment overrides on top.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Payments.Provider = strings.ToLower(strings.TrimSpace(cfg.Payments.Provider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Database.URL == "":
		return errors.New("config: database url is required")
	case c.Auth.SigningKey == "":
		return errors.New("config: auth signing key is required")
	case c.Auth.SessionSecret == "":
		return errors.New("config: session secret is required")
	case c.Redis.DraftTTL <= 0:
		return errors.New("config: redis draft ttl must be positive")
	}
	if _, err := c.Server.ProxyPrefixes(); err != nil {
		return err
	}

	switch c.Payments.Provider {
	case "mock":
	case "stripe":
		if c.Payments.StripeSecretKey == "" {
			return errors.New("config: stripe provider requires stripe_secret_key")
		}
		if c.Payments.StripeWebhookSecret == "" {
			return errors.New("config: stripe provider requires stripe_webhook_secret")
		}
	default:
		return fmt.Errorf("config: unknown payment provider %q", c.Payments.Provider)
	}
	return nil
}

// ProxyPrefixes parses TrustedProxies. A bare IP becomes a single-host prefix.
func (c ServerConfig) ProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("config: trusted proxy %q: %w", raw, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("config: trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// Enabled reports whether SMTP delivery is configured.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Enabled reports whether an object store is configured.
func (c StorageConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

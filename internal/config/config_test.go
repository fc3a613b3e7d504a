package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  address: ":8080"
database:
  url: "user:pass@tcp(localhost:3306)/jml?parseTime=true"
redis:
  draft_ttl: 10m
auth:
  signing_key: "file-key"
  session_secret: "file-session"
payments:
  provider: "Mock"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Minute, cfg.Redis.DraftTTL)
	assert.Equal(t, "mock", cfg.Payments.Provider)
	assert.Equal(t, "INR", cfg.Payments.Currency)
	assert.Equal(t, 35, cfg.Database.MaxIdleConns)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("JWT_SIGNING_KEY", "env-key")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "env-key", cfg.Auth.SigningKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("DB_URL", "dsn")
	t.Setenv("JWT_SIGNING_KEY", "k")
	t.Setenv("SESSION_SECRET", "s")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dsn", cfg.Database.URL)
	assert.Equal(t, ":4000", cfg.Server.Address)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Database.URL = "dsn"
	valid.Auth.SigningKey = "k"
	valid.Auth.SessionSecret = "s"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing dsn", func(c *Config) { c.Database.URL = "" }},
		{"missing signing key", func(c *Config) { c.Auth.SigningKey = "" }},
		{"missing session secret", func(c *Config) { c.Auth.SessionSecret = "" }},
		{"zero draft ttl", func(c *Config) { c.Redis.DraftTTL = 0 }},
		{"unknown provider", func(c *Config) { c.Payments.Provider = "paypal" }},
		{"stripe without key", func(c *Config) { c.Payments.Provider = "stripe" }},
		{"bad trusted proxy", func(c *Config) { c.Server.TrustedProxies = []string{"10.0.0.0/33"} }},
		{"stripe without webhook secret", func(c *Config) {
			c.Payments.Provider = "stripe"
			c.Payments.StripeSecretKey = "sk_test_x"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	stripeCfg := valid
	stripeCfg.Payments.Provider = "stripe"
	stripeCfg.Payments.StripeSecretKey = "sk_test_x"
	stripeCfg.Payments.StripeWebhookSecret = "whsec_x"
	assert.NoError(t, stripeCfg.Validate())
}

func TestProxyPrefixes(t *testing.T) {
	got, err := ServerConfig{TrustedProxies: []string{"10.0.0.0/8", " 192.168.1.4 ", "", "::1"}}.ProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "10.0.0.0/8", got[0].String())
	assert.Equal(t, "192.168.1.4/32", got[1].String())
	assert.Equal(t, "::1/128", got[2].String())

	_, err = ServerConfig{TrustedProxies: []string{"proxy.local"}}.ProxyPrefixes()
	assert.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("STRIPE_SECRET_KEY", "sk_env")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_env")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,,https://b.example ")
	t.Setenv("PAYLOAD_BACKEND", "s3")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":3001", cfg.HTTPAddr)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "sk_env", cfg.StripeSecretKey)
	assert.Equal(t, "whsec_env", cfg.StripeWebhookSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, BackendS3, cfg.PayloadBackend)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestParseEnv_HTTPAddrBeatsPort(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("HTTP_ADDR", "0.0.0.0:4000")

	cfg := &Config{}
	parseEnv(cfg)
	assert.Equal(t, "0.0.0.0:4000", cfg.HTTPAddr)
}

func TestParseEnv_BadDurationIgnored(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "later")

	cfg := &Config{ShutdownTimeout: time.Second}
	parseEnv(cfg)
	assert.Equal(t, time.Second, cfg.ShutdownTimeout)
}

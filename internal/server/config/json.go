package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/contestentries/internal/flagx"
	"github.com/dmitrijs2005/contestentries/internal/timex"
)

// jsonConfig is the on-disk shape of the config file. Only non-empty values
// override what is already in Config.
type jsonConfig struct {
	HTTPAddr            string         `json:"http_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	StripeSecretKey     string         `json:"stripe_secret_key"`
	StripeWebhookSecret string         `json:"stripe_webhook_secret"`
	AllowedOrigins      []string       `json:"allowed_origins"`
	Currency            string         `json:"currency"`
	StoreBackend        string         `json:"store_backend"`
	PayloadBackend      string         `json:"payload_backend"`
	LogLevel            string         `json:"log_level"`
	ShutdownTimeout     timex.Duration `json:"shutdown_timeout"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
}

func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var c jsonConfig
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StripeSecretKey, c.StripeSecretKey)
	setString(&config.StripeWebhookSecret, c.StripeWebhookSecret)
	setString(&config.Currency, c.Currency)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.PayloadBackend, c.PayloadBackend)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

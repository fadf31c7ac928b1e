// Package config handles configuration for the submission server: defaults,
// an optional JSON file, environment variables (with .env support) and
// command-line flags, applied in that order.
package config

import (
	"os"
	"time"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendS3       = "s3"
)

// MaxUploadSize is the largest accepted pitch-deck file. It is fixed and not
// configurable.
const MaxUploadSize int64 = 25 << 20

// Config holds runtime settings for the server.
//
// Fields:
//   - HTTPAddr: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty leaves entry endpoints answering 503.
//   - StripeSecretKey / StripeWebhookSecret: payment provider credentials.
//     Empty values degrade the payment endpoints instead of stopping the process.
//   - AllowedOrigins: CORS allow-list.
//   - Currency: ISO currency code used for payment intents.
//   - StoreBackend: "postgres" or "memory".
//   - PayloadBackend: where pitch-deck files live: "postgres", "s3" or "memory".
//     Left unset, it follows StoreBackend.
//   - S3*: object storage settings for the "s3" payload backend.
type Config struct {
	HTTPAddr            string
	DatabaseDSN         string
	StripeSecretKey     string
	StripeWebhookSecret string
	AllowedOrigins      []string
	Currency            string
	StoreBackend        string
	PayloadBackend      string
	LogLevel            string
	ShutdownTimeout     time.Duration
	MaxUploadSize       int64
	S3AccessKey         string
	S3SecretKey         string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
}

// LoadDefaults populates Config with development defaults. Secrets and the
// database DSN intentionally stay empty.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	c.Currency = "usd"
	c.StoreBackend = BackendPostgres
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
	c.MaxUploadSize = MaxUploadSize
	c.S3Bucket = "contest-entries"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config (or $CONFIG_FILE), then the environment, then flags.
func LoadConfig() (*Config, error) {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.PayloadBackend == "" {
		cfg.PayloadBackend = cfg.StoreBackend
	}
	cfg.MaxUploadSize = MaxUploadSize
	return cfg, nil
}

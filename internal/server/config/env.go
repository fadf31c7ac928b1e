package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays environment variables. A .env file in the working
// directory is loaded first; variables already set in the process win.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if port := os.Getenv("PORT"); port != "" {
		config.HTTPAddr = ":" + port
	}
	setString(&config.HTTPAddr, os.Getenv("HTTP_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_URL"))
	setString(&config.StripeSecretKey, os.Getenv("STRIPE_SECRET_KEY"))
	setString(&config.StripeWebhookSecret, os.Getenv("STRIPE_WEBHOOK_SECRET"))
	setString(&config.Currency, os.Getenv("CURRENCY"))
	setString(&config.StoreBackend, os.Getenv("STORE_BACKEND"))
	setString(&config.PayloadBackend, os.Getenv("PAYLOAD_BACKEND"))
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&config.S3AccessKey, os.Getenv("S3_ACCESS_KEY"))
	setString(&config.S3SecretKey, os.Getenv("S3_SECRET_KEY"))
	setString(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))

	if origins := splitList(os.Getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		config.AllowedOrigins = origins
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ShutdownTimeout = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

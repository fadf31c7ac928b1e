package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/contestentries/internal/flagx"
)

// parseFlags overlays command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-k string   Stripe secret key
//	-w string   Stripe webhook signing secret
//	-o string   comma-separated CORS origins
//	-s string   entry store backend (postgres|memory)
//	-f string   payload backend (postgres|s3|memory)
//	-l string   log level
//	-t int      shutdown timeout, seconds
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// Args are filtered with flagx.FilterArgs first so -c/-config never collides.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-k", "-w", "-o", "-s", "-f", "-l", "-t", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StripeSecretKey, "k", config.StripeSecretKey, "stripe secret key")
	fs.StringVar(&config.StripeWebhookSecret, "w", config.StripeWebhookSecret, "stripe webhook secret")
	origins := fs.String("o", "", "comma-separated allowed origins")
	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "entry store backend")
	fs.StringVar(&config.PayloadBackend, "f", config.PayloadBackend, "payload backend")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	shutdown := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if list := splitList(*origins); len(list) > 0 {
		config.AllowedOrigins = list
	}
	config.ShutdownTimeout = time.Duration(*shutdown) * time.Second
	return nil
}

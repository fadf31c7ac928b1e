// Package server wires configuration, storage, the payment gateway and the
// HTTP surface into a runnable application with signal-driven shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/blobs"
	"github.com/dmitrijs2005/contestentries/internal/server/config"
	"github.com/dmitrijs2005/contestentries/internal/server/metrics"
	"github.com/dmitrijs2005/contestentries/internal/server/payments"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contestentries/internal/server/rest"
	"github.com/dmitrijs2005/contestentries/internal/server/services"
	"github.com/dmitrijs2005/contestentries/internal/server/shared/db"
	"github.com/dmitrijs2005/contestentries/internal/server/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *db.Manager
	http   *rest.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	metrics.Register()

	dbm := db.NewManager(c.DatabaseDSN, repomanager.NewPostgresRepositoryManager(), logger)

	entries, events, storeCheck, err := buildEntryStore(c, dbm)
	if err != nil {
		return nil, err
	}

	payloads, err := buildBlobStore(ctx, c, dbm)
	if err != nil {
		return nil, err
	}
	if _, ok := payloads.(*blobs.DBStore); ok && !dbm.Configured() {
		logger.Warn(ctx, "payload backend is postgres but DATABASE_URL is not set, pitch-deck submissions will answer 503")
	}

	gateway := payments.NewGateway(c.StripeSecretKey)
	if c.StripeSecretKey == "" {
		logger.Warn(ctx, "STRIPE_SECRET_KEY is not set, payment endpoints will answer 503")
	}
	if c.StripeWebhookSecret == "" {
		logger.Warn(ctx, "STRIPE_WEBHOOK_SECRET is not set, webhook endpoint will answer 503")
	}
	if c.StoreBackend == config.BackendPostgres && c.DatabaseDSN == "" {
		logger.Warn(ctx, "DATABASE_URL is not set, entry endpoints will answer 503")
	}

	httpServer := rest.NewHTTPServer(c.HTTPAddr, logger, rest.Deps{
		Intents:            services.NewIntentService(gateway, c.Currency, logger),
		Submissions:        services.NewSubmissionService(gateway, entries, payloads, logger),
		Entries:            services.NewEntryService(entries, payloads, logger),
		Reconciler:         services.NewReconciler(entries, events, logger),
		StoreCheck:         storeCheck,
		PaymentsConfigured: c.StripeSecretKey != "",
		WebhookSecret:      c.StripeWebhookSecret,
		AllowedOrigins:     c.AllowedOrigins,
		MaxUploadSize:      c.MaxUploadSize,
	})

	return &App{config: c, logger: logger, db: dbm, http: httpServer}, nil
}

func buildEntryStore(c *config.Config, dbm *db.Manager) (store.EntryStore, store.EventLog, func(context.Context) error, error) {
	switch c.StoreBackend {
	case config.BackendPostgres:
		return store.NewPostgresEntryStore(dbm), store.NewPostgresEventLog(dbm), dbm.Ping, nil
	case config.BackendMemory:
		return store.NewMemoryEntryStore(), store.NewMemoryEventLog(), nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

func buildBlobStore(ctx context.Context, c *config.Config, dbm *db.Manager) (blobs.Store, error) {
	backend := c.PayloadBackend
	if backend == "" {
		backend = c.StoreBackend
	}
	switch backend {
	case config.BackendPostgres:
		return blobs.NewDBStore(dbm), nil
	case config.BackendS3:
		return blobs.NewS3Store(ctx, blobs.S3Settings{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	case config.BackendMemory:
		return blobs.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown payload backend %q", backend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.http.Run(ctx, app.config.ShutdownTimeout)

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "closing database", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}

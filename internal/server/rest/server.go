// Package rest exposes the contest entry services over HTTP.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const smallBodyLimit = 64 << 10

type IntentIssuer interface {
	CreateIntent(ctx context.Context, category models.Category, entryType models.EntryType) (*models.IntentQuote, error)
}

type Submitter interface {
	Submit(ctx context.Context, c *models.Candidate) (string, error)
}

type EntryReader interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error)
	Get(ctx context.Context, id string, includePayload bool) (*models.Entry, error)
	Download(ctx context.Context, id string) (*models.FileRef, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type PaymentReconciler interface {
	OnPaymentFailed(ctx context.Context, eventID, paymentIntentID string) error
}

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Intents     IntentIssuer
	Submissions Submitter
	Entries     EntryReader
	Reconciler  PaymentReconciler

	// StoreCheck pings the entry store for /health. Nil means the store
	// lives in memory.
	StoreCheck         func(ctx context.Context) error
	PaymentsConfigured bool
	WebhookSecret      string

	AllowedOrigins []string
	MaxUploadSize  int64
}

type HTTPServer struct {
	address string
	deps    Deps
	logger  logging.Logger
	srv     *http.Server
}

func NewHTTPServer(address string, l logging.Logger, deps Deps) *HTTPServer {
	if deps.MaxUploadSize <= 0 {
		deps.MaxUploadSize = validation.MaxFileSize
	}
	s := &HTTPServer{
		address: address,
		deps:    deps,
		logger:  l.With("module", "http_server"),
	}
	s.srv = &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the routed handler with CORS, metrics and request logging.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /payment-intents", s.createIntent)
	mux.HandleFunc("POST /entries", s.submitEntry)
	mux.HandleFunc("GET /entries/{ownerId}", s.listEntries)
	mux.HandleFunc("GET /entries/id/{id}", s.getEntry)
	mux.HandleFunc("GET /entries/id/{id}/download", s.downloadEntry)
	mux.HandleFunc("DELETE /entries/id/{id}", s.deleteEntry)
	mux.HandleFunc("POST /payment-webhook", s.paymentWebhook)
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return s.withRequestID(s.withLogging(c.Handler(mux)))
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most shutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

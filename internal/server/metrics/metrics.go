package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PaymentIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "contest_payment_intents_total", Help: "Payment intents created, by category"},
		[]string{"category"},
	)
	EntriesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "contest_entries_submitted_total", Help: "Entries persisted, by category and entry type"},
		[]string{"category", "entry_type"},
	)
	SubmissionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "contest_submissions_rejected_total", Help: "Submissions refused before persistence, by reason"},
		[]string{"reason"},
	)
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "contest_webhook_events_total", Help: "Verified webhook events, by type and outcome"},
		[]string{"type", "outcome"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "contest_http_requests_total", Help: "HTTP requests, by route and status code"},
		[]string{"method", "route", "code"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contest_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var once sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(PaymentIntents, EntriesSubmitted, SubmissionsRejected, WebhookEvents, HTTPRequests, HTTPDuration)
	})
}

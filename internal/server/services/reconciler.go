package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/metrics"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/payments"
	"github.com/dmitrijs2005/contestentries/internal/server/store"
)

// Reconciler applies verified payment webhook events to stored entries.
type Reconciler struct {
	entries store.EntryStore
	events  store.EventLog
	logger  logging.Logger
}

func NewReconciler(entries store.EntryStore, events store.EventLog, logger logging.Logger) *Reconciler {
	return &Reconciler{
		entries: entries,
		events:  events,
		logger:  logger.With("module", "reconciler"),
	}
}

// OnPaymentFailed marks the entry paid by paymentIntentID as failed. Intents
// with no entry are no-ops. The event id is logged only once the status write
// has gone through, so a redelivery after a failed attempt is applied again;
// the store never leaves failed, which keeps replays harmless.
func (r *Reconciler) OnPaymentFailed(ctx context.Context, eventID, paymentIntentID string) error {
	if _, err := r.entries.FindByPaymentIntent(ctx, paymentIntentID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			r.logger.Info(ctx, "payment failed for intent without entry", "payment_intent_id", paymentIntentID)
			metrics.WebhookEvents.WithLabelValues(payments.EventPaymentFailed, "no_entry").Inc()
			return nil
		}
		metrics.WebhookEvents.WithLabelValues(payments.EventPaymentFailed, "error").Inc()
		return err
	}

	changed, err := r.entries.UpdatePaymentStatus(ctx, paymentIntentID, models.PaymentFailed)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(payments.EventPaymentFailed, "error").Inc()
		return err
	}
	if changed {
		r.logger.Warn(ctx, "entry payment marked failed", "payment_intent_id", paymentIntentID, "event_id", eventID)
	}

	first, err := r.events.Record(ctx, eventID, payments.EventPaymentFailed, paymentIntentID)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(payments.EventPaymentFailed, "error").Inc()
		return err
	}
	if !first {
		r.logger.Debug(ctx, "duplicate webhook event", "event_id", eventID)
		metrics.WebhookEvents.WithLabelValues(payments.EventPaymentFailed, "duplicate").Inc()
		return nil
	}
	metrics.WebhookEvents.WithLabelValues(payments.EventPaymentFailed, "applied").Inc()
	return nil
}

package payments

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/stripe/stripe-go/v76/webhook"
)

// EventPaymentFailed is the provider event that triggers reconciliation.
const EventPaymentFailed = "payment_intent.payment_failed"

// SignatureTolerance bounds how old a signed delivery may be.
const SignatureTolerance = 5 * time.Minute

// Event is the part of a provider event the server acts on.
type Event struct {
	ID              string
	Type            string
	PaymentIntentID string
}

// VerifyEvent checks the signature header against secret and decodes the
// event. Any failure, including an empty secret, is reported as
// common.ErrWebhookSignature.
func VerifyEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	if secret == "" || sigHeader == "" {
		return nil, common.ErrWebhookSignature
	}

	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		Tolerance:                SignatureTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrWebhookSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data != nil {
		if id, ok := ev.Data.Object["id"].(string); ok {
			out.PaymentIntentID = id
		}
	}
	return out, nil
}

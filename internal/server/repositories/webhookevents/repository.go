package webhookevents

import "context"

type Repository interface {
	// Record stores the event id and reports whether it was seen for the first time.
	Record(ctx context.Context, eventID, eventType, paymentIntentID string) (bool, error)
}

// Package payments wraps the payment provider: creating and reading payment
// intents, and verifying webhook deliveries.
package payments

import (
	"context"

	"github.com/dmitrijs2005/contestentries/internal/common"
)

// Intent metadata keys. The values written at creation time are the only
// trusted source of fee amounts.
const (
	MetaCategory      = "category"
	MetaEntryType     = "entryType"
	MetaEntryFee      = "entryFee"
	MetaProcessingFee = "processingFee"
)

// StatusSucceeded is the only intent status that allows an entry to be stored.
const StatusSucceeded = "succeeded"

// IntentRequest describes an intent to create. Amount is in minor units.
type IntentRequest struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

// Gateway is the narrow view of the payment provider used by the services.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// Unconfigured is used when no provider key is set; every call fails with
// common.ErrPaymentsNotConfigured.
type Unconfigured struct{}

func (Unconfigured) CreateIntent(context.Context, IntentRequest) (*Intent, error) {
	return nil, common.ErrPaymentsNotConfigured
}

func (Unconfigured) GetIntent(context.Context, string) (*Intent, error) {
	return nil, common.ErrPaymentsNotConfigured
}

// NewGateway returns a Stripe-backed gateway, or Unconfigured when
// secretKey is empty.
func NewGateway(secretKey string) Gateway {
	if secretKey == "" {
		return Unconfigured{}
	}
	return NewStripeGateway(secretKey)
}

package services

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/fees"
	"github.com/dmitrijs2005/contestentries/internal/server/metrics"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/payments"
)

// IntentService issues payment intents priced by the fee schedule.
type IntentService struct {
	gateway  payments.Gateway
	currency string
	logger   logging.Logger
}

func NewIntentService(gateway payments.Gateway, currency string, logger logging.Logger) *IntentService {
	return &IntentService{
		gateway:  gateway,
		currency: currency,
		logger:   logger.With("module", "intents"),
	}
}

// CreateIntent prices the entry and creates a payment intent for the total.
// The fee breakdown is written to the intent metadata, which is the only
// source Submit trusts later on.
func (s *IntentService) CreateIntent(ctx context.Context, category models.Category, entryType models.EntryType) (*models.IntentQuote, error) {
	if category == "" || entryType == "" {
		return nil, common.ErrMissingField
	}

	quote, err := fees.Compute(category)
	if err != nil {
		return nil, err
	}
	if !entryType.Valid() {
		return nil, common.ErrInvalidEntryType
	}

	intent, err := s.gateway.CreateIntent(ctx, payments.IntentRequest{
		Amount:   fees.ToMinorUnits(quote.TotalAmount),
		Currency: s.currency,
		Metadata: map[string]string{
			payments.MetaCategory:      string(category),
			payments.MetaEntryType:     string(entryType),
			payments.MetaEntryFee:      strconv.FormatInt(quote.EntryFee, 10),
			payments.MetaProcessingFee: strconv.FormatInt(quote.ProcessingFee, 10),
		},
	})
	if err != nil {
		s.logger.Error(ctx, "create payment intent failed", "category", category, "error", err)
		return nil, err
	}

	metrics.PaymentIntents.WithLabelValues(string(category)).Inc()
	s.logger.Info(ctx, "payment intent created", "payment_intent_id", intent.ID, "category", category, "total", quote.TotalAmount)

	return &models.IntentQuote{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Fees:            quote,
	}, nil
}

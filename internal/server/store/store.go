// Package store implements the entry store contract consumed by the services,
// backed either by PostgreSQL or by process memory.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
)

// EntryStore persists contest entries. Implementations report missing entries
// as common.ErrorNotFound, a reused payment intent as common.ErrAlreadySubmitted
// and other failures wrapped in common.ErrPersistence.
type EntryStore interface {
	Create(ctx context.Context, e *models.Entry) (string, error)
	FindByID(ctx context.Context, id string) (*models.Entry, error)
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Entry, error)
	// ListByOwner returns entries newest first, without file bytes.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error)
	// UpdatePaymentStatus never moves an entry out of failed.
	UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status models.PaymentStatus) (bool, error)
	// DeleteOwned removes the entry if ownerID owns it and returns what was removed.
	DeleteOwned(ctx context.Context, id, ownerID string) (*models.Entry, error)
}

// EventLog remembers processed webhook events.
type EventLog interface {
	Record(ctx context.Context, eventID, eventType, paymentIntentID string) (bool, error)
}

// passthrough errors keep their identity, everything else is a persistence failure.
var passthrough = []error{
	common.ErrorNotFound,
	common.ErrAlreadySubmitted,
	common.ErrorUnauthorized,
	common.ErrStoreNotConfigured,
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", common.ErrPersistence, err)
}

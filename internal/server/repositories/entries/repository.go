package entries

import (
	"context"

	"github.com/dmitrijs2005/contestentries/internal/server/models"
)

// Repository is the SQL-level contract for the entries table.
type Repository interface {
	// Create inserts e and fills in the store-assigned ID and CreatedAt.
	// A second entry for the same payment intent yields common.ErrAlreadySubmitted.
	Create(ctx context.Context, e *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Entry, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Entry, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error)
	UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status models.PaymentStatus) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Package webhookevents keeps the log of processed payment webhook events.
package webhookevents

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, eventID, eventType, paymentIntentID string) (bool, error) {
	query := `
		INSERT INTO webhook_events (event_id, event_type, payment_intent_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, eventID, eventType, paymentIntentID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

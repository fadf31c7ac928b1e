package store

import (
	"context"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/dbx"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/shared/db"
	"github.com/google/uuid"
)

type PostgresEntryStore struct {
	db *db.Manager
}

func NewPostgresEntryStore(m *db.Manager) *PostgresEntryStore {
	return &PostgresEntryStore{db: m}
}

func (s *PostgresEntryStore) Create(ctx context.Context, e *models.Entry) (string, error) {
	conn, err := s.db.DB(ctx)
	if err != nil {
		return "", wrapErr(err)
	}
	if err := s.db.Repos().Entries(conn).Create(ctx, e); err != nil {
		return "", wrapErr(err)
	}
	return e.ID, nil
}

// FindByID treats ids that are not UUIDs as unknown.
func (s *PostgresEntryStore) FindByID(ctx context.Context, id string) (*models.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	conn, err := s.db.DB(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	e, err := s.db.Repos().Entries(conn).GetByID(ctx, id)
	return e, wrapErr(err)
}

func (s *PostgresEntryStore) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Entry, error) {
	conn, err := s.db.DB(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	e, err := s.db.Repos().Entries(conn).GetByPaymentIntent(ctx, paymentIntentID)
	return e, wrapErr(err)
}

func (s *PostgresEntryStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	conn, err := s.db.DB(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	list, err := s.db.Repos().Entries(conn).ListByOwner(ctx, ownerID)
	return list, wrapErr(err)
}

func (s *PostgresEntryStore) UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status models.PaymentStatus) (bool, error) {
	conn, err := s.db.DB(ctx)
	if err != nil {
		return false, wrapErr(err)
	}
	ok, err := s.db.Repos().Entries(conn).UpdatePaymentStatus(ctx, paymentIntentID, status)
	return ok, wrapErr(err)
}

// DeleteOwned locks the row, checks ownership and deletes it in one transaction.
func (s *PostgresEntryStore) DeleteOwned(ctx context.Context, id, ownerID string) (*models.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	conn, err := s.db.DB(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}

	var deleted *models.Entry
	err = dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.db.Repos().Entries(tx)

		e, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e.OwnerID != ownerID {
			return common.ErrorUnauthorized
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = e
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return deleted, nil
}

// PostgresEventLog records webhook events in the webhook_events table.
type PostgresEventLog struct {
	db *db.Manager
}

func NewPostgresEventLog(m *db.Manager) *PostgresEventLog {
	return &PostgresEventLog{db: m}
}

func (l *PostgresEventLog) Record(ctx context.Context, eventID, eventType, paymentIntentID string) (bool, error) {
	conn, err := l.db.DB(ctx)
	if err != nil {
		return false, wrapErr(err)
	}
	ok, err := l.db.Repos().WebhookEvents(conn).Record(ctx, eventID, eventType, paymentIntentID)
	return ok, wrapErr(err)
}

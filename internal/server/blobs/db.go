package blobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/payloads"
	"github.com/dmitrijs2005/contestentries/internal/server/shared/db"
)

// DBStore keeps payloads as bytea rows next to the entries.
type DBStore struct {
	db *db.Manager
}

func NewDBStore(m *db.Manager) *DBStore {
	return &DBStore{db: m}
}

func (s *DBStore) Put(ctx context.Context, data []byte, meta Meta) (string, error) {
	conn, err := s.db.DB(ctx)
	if err != nil {
		return "", wrap(err)
	}
	id, err := s.db.Repos().Payloads(conn).Insert(ctx, &payloads.Payload{Name: meta.Name, MimeType: meta.MimeType, Data: data})
	if err != nil {
		return "", wrap(err)
	}
	return id, nil
}

func (s *DBStore) Get(ctx context.Context, ref string) ([]byte, error) {
	conn, err := s.db.DB(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	p, err := s.db.Repos().Payloads(conn).Get(ctx, ref)
	if err != nil {
		return nil, wrap(err)
	}
	return p.Data, nil
}

func (s *DBStore) Delete(ctx context.Context, ref string) error {
	conn, err := s.db.DB(ctx)
	if err != nil {
		return wrap(err)
	}
	err = s.db.Repos().Payloads(conn).Delete(ctx, ref)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return wrap(err)
}

func wrap(err error) error {
	if err == nil || errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrStoreNotConfigured) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrPersistence, err)
}

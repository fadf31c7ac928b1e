package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/blobs"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/store"
)

// EntryService serves reads and owner-scoped deletes of stored entries.
type EntryService struct {
	entries store.EntryStore
	blobs   blobs.Store
	logger  logging.Logger
}

func NewEntryService(entries store.EntryStore, blobStore blobs.Store, logger logging.Logger) *EntryService {
	return &EntryService{
		entries: entries,
		blobs:   blobStore,
		logger:  logger.With("module", "entries"),
	}
}

// ListByOwner returns the owner's entries newest first, without file bytes.
func (s *EntryService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	if ownerID == "" {
		return nil, common.ErrMissingField
	}
	list, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i, e := range list {
		list[i] = e.WithoutPayload()
	}
	return list, nil
}

// Get returns one entry. File bytes are loaded only when includePayload is set.
func (s *EntryService) Get(ctx context.Context, id string, includePayload bool) (*models.Entry, error) {
	e, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.File == nil {
		return e, nil
	}
	if !includePayload {
		return e.WithoutPayload(), nil
	}

	data, err := s.blobs.Get(ctx, e.File.Ref)
	if err != nil {
		return nil, err
	}
	e.File.Data = data
	return e, nil
}

// Download returns the stored file of a pitch-deck entry. Entries without a
// file report common.ErrorNotFound.
func (s *EntryService) Download(ctx context.Context, id string) (*models.FileRef, error) {
	e, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if e.File == nil {
		return nil, common.ErrorNotFound
	}
	return e.File, nil
}

// Delete removes the entry when ownerID owns it, then discards its file.
func (s *EntryService) Delete(ctx context.Context, id, ownerID string) error {
	if ownerID == "" {
		return common.ErrMissingField
	}

	e, err := s.entries.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "delete refused, owner mismatch", "entry_id", id, "owner_id", ownerID)
		}
		return err
	}

	if e.File != nil {
		if err := s.blobs.Delete(ctx, e.File.Ref); err != nil {
			s.logger.Warn(ctx, "orphaned payload left in blob store", "entry_id", id, "ref", e.File.Ref, "error", err)
		}
	}
	s.logger.Info(ctx, "entry deleted", "entry_id", id, "owner_id", ownerID)
	return nil
}

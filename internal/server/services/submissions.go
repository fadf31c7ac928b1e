package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/blobs"
	"github.com/dmitrijs2005/contestentries/internal/server/fees"
	"github.com/dmitrijs2005/contestentries/internal/server/metrics"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/payments"
	"github.com/dmitrijs2005/contestentries/internal/server/store"
	"github.com/dmitrijs2005/contestentries/internal/server/validation"
)

// SubmissionService turns a validated, paid candidate into a stored entry.
//
// A payment_intent.payment_failed webhook that lands between the status check
// and the insert is not seen by Submit; the entry is then stored as succeeded
// and stays so until the provider delivers another failure event.
type SubmissionService struct {
	gateway payments.Gateway
	entries store.EntryStore
	blobs   blobs.Store
	logger  logging.Logger
}

func NewSubmissionService(gateway payments.Gateway, entries store.EntryStore, blobStore blobs.Store, logger logging.Logger) *SubmissionService {
	return &SubmissionService{
		gateway: gateway,
		entries: entries,
		blobs:   blobStore,
		logger:  logger.With("module", "submissions"),
	}
}

// Submit validates c, verifies its payment intent and persists the entry.
// Fee amounts always come from the intent metadata.
func (s *SubmissionService) Submit(ctx context.Context, c *models.Candidate) (string, error) {
	if err := validation.Validate(c); err != nil {
		metrics.SubmissionsRejected.WithLabelValues("validation").Inc()
		return "", err
	}

	intent, err := s.gateway.GetIntent(ctx, c.PaymentIntentID)
	if err != nil {
		if errors.Is(err, common.ErrPaymentsNotConfigured) {
			return "", err
		}
		s.logger.Warn(ctx, "payment intent lookup failed", "payment_intent_id", c.PaymentIntentID, "error", err)
		metrics.SubmissionsRejected.WithLabelValues("payment_not_found").Inc()
		if errors.Is(err, common.ErrPaymentNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", common.ErrPaymentNotFound, err)
	}

	if intent.Status != payments.StatusSucceeded {
		metrics.SubmissionsRejected.WithLabelValues("payment_incomplete").Inc()
		return "", &common.PaymentIncompleteError{Status: intent.Status}
	}

	paid, err := feesFromIntent(intent)
	if err != nil {
		s.logger.Error(ctx, "payment intent metadata is unusable", "payment_intent_id", intent.ID, "error", err)
		return "", err
	}
	if intent.Metadata[payments.MetaCategory] != string(c.Category) ||
		intent.Metadata[payments.MetaEntryType] != string(c.EntryType) {
		metrics.SubmissionsRejected.WithLabelValues("payment_mismatch").Inc()
		return "", fmt.Errorf("%w: intent was issued for %s/%s", common.ErrPaymentMismatch,
			intent.Metadata[payments.MetaCategory], intent.Metadata[payments.MetaEntryType])
	}

	if _, err := s.entries.FindByPaymentIntent(ctx, intent.ID); err == nil {
		metrics.SubmissionsRejected.WithLabelValues("already_submitted").Inc()
		return "", common.ErrAlreadySubmitted
	} else if !errors.Is(err, common.ErrorNotFound) {
		return "", err
	}

	entry := &models.Entry{
		OwnerID:         strings.TrimSpace(c.OwnerID),
		Category:        c.Category,
		EntryType:       c.EntryType,
		Title:           strings.TrimSpace(c.Title),
		Description:     strings.TrimSpace(c.Description),
		Fees:            paid,
		PaymentIntentID: intent.ID,
		PaymentStatus:   models.PaymentSucceeded,
		ReviewStatus:    models.ReviewSubmitted,
	}

	switch c.EntryType {
	case models.EntryTypeText:
		entry.TextContent = c.TextContent
	case models.EntryTypeVideo:
		entry.VideoURL = strings.TrimSpace(c.VideoURL)
	case models.EntryTypePitchDeck:
		ref, err := s.storeFile(ctx, c.File)
		if err != nil {
			return "", err
		}
		entry.File = ref
	}

	id, err := s.entries.Create(ctx, entry)
	if err != nil {
		if entry.File != nil {
			s.discardBlob(ctx, entry.File.Ref)
		}
		s.logger.Error(ctx, "entry persistence failed", "payment_intent_id", intent.ID, "error", err)
		return "", err
	}

	metrics.EntriesSubmitted.WithLabelValues(string(entry.Category), string(entry.EntryType)).Inc()
	s.logger.Info(ctx, "entry submitted", "entry_id", id, "owner_id", entry.OwnerID, "payment_intent_id", intent.ID)
	return id, nil
}

// storeFile re-checks the upload and writes it to the blob store.
func (s *SubmissionService) storeFile(ctx context.Context, f *models.FileUpload) (*models.FileRef, error) {
	mime := validation.MimeTypeFor(f.Name, f.MimeType)
	if reasons := validation.CheckFile(f.Name, mime, int64(len(f.Data))); len(reasons) > 0 {
		return nil, &validation.ValidationError{Reasons: reasons}
	}

	ref, err := s.blobs.Put(ctx, f.Data, blobs.Meta{Name: f.Name, MimeType: mime})
	if err != nil {
		return nil, err
	}
	return &models.FileRef{Ref: ref, Name: f.Name, MimeType: mime, Size: int64(len(f.Data))}, nil
}

func (s *SubmissionService) discardBlob(ctx context.Context, ref string) {
	if err := s.blobs.Delete(ctx, ref); err != nil {
		s.logger.Warn(ctx, "orphaned payload left in blob store", "ref", ref, "error", err)
	}
}

// feesFromIntent rebuilds the fee breakdown from metadata written by
// IntentService and checks it against the charged amount.
func feesFromIntent(intent *payments.Intent) (models.Fees, error) {
	entryFee, err := metaAmount(intent.Metadata, payments.MetaEntryFee)
	if err != nil {
		return models.Fees{}, err
	}
	processingFee, err := metaAmount(intent.Metadata, payments.MetaProcessingFee)
	if err != nil {
		return models.Fees{}, err
	}
	if entryFee <= 0 {
		return models.Fees{}, fmt.Errorf("%w: non-positive entry fee", common.ErrCorruptPaymentMetadata)
	}

	total := entryFee + processingFee
	if intent.Amount != fees.ToMinorUnits(total) {
		return models.Fees{}, fmt.Errorf("%w: charged %d, metadata total %d", common.ErrCorruptPaymentMetadata, intent.Amount, total)
	}
	return models.Fees{EntryFee: entryFee, ProcessingFee: processingFee, TotalAmount: total}, nil
}

func metaAmount(meta map[string]string, key string) (int64, error) {
	raw, ok := meta[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s missing", common.ErrCorruptPaymentMetadata, key)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s=%q", common.ErrCorruptPaymentMetadata, key, raw)
	}
	return v, nil
}

// Package entries provides the PostgreSQL repository for contest entries.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/dbx"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const entryColumns = `id, owner_id, category, entry_type, title, description, text_content, video_url,
	file_ref, file_name, file_mime_type, file_size, entry_fee, processing_fee, total_amount,
	payment_intent_id, payment_status, review_status, created_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Entry) error {
	query := `
		INSERT INTO entries (owner_id, category, entry_type, title, description, text_content, video_url,
			file_ref, file_name, file_mime_type, file_size, entry_fee, processing_fee, total_amount,
			payment_intent_id, payment_status, review_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`

	var fileRef, fileName, fileMime, fileSize any
	if e.File != nil {
		fileRef, fileName, fileMime, fileSize = e.File.Ref, e.File.Name, e.File.MimeType, e.File.Size
	}

	err := r.db.QueryRowContext(ctx, query,
		e.OwnerID, string(e.Category), string(e.EntryType), e.Title, e.Description,
		nullIfEmpty(e.TextContent), nullIfEmpty(e.VideoURL),
		fileRef, fileName, fileMime, fileSize,
		e.EntryFee, e.ProcessingFee, e.TotalAmount,
		e.PaymentIntentID, string(e.PaymentStatus), string(e.ReviewStatus),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrAlreadySubmitted
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	return scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 FOR UPDATE`
	return scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE payment_intent_id = $1`
	return scanEntry(r.db.QueryRowContext(ctx, query, paymentIntentID))
}

// ListByOwner returns the owner's entries, newest first. File bytes never
// live in this table, so only file metadata is returned.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE owner_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []*models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdatePaymentStatus moves the entry funded by paymentIntentID to status.
// A failed entry never changes again, and setting the current status is not
// an update. The result reports whether a row changed.
func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, paymentIntentID string, status models.PaymentStatus) (bool, error) {
	query := `
		UPDATE entries SET payment_status = $2
		WHERE payment_intent_id = $1 AND payment_status <> 'failed' AND payment_status <> $2
	`
	res, err := r.db.ExecContext(ctx, query, paymentIntentID, string(status))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.Entry, error) {
	var (
		e                                    models.Entry
		category, entryType, payment, review string
		text, video, ref, name, mime         sql.NullString
		size                                 sql.NullInt64
	)
	err := row.Scan(
		&e.ID, &e.OwnerID, &category, &entryType, &e.Title, &e.Description, &text, &video,
		&ref, &name, &mime, &size, &e.EntryFee, &e.ProcessingFee, &e.TotalAmount,
		&e.PaymentIntentID, &payment, &review, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	e.Category = models.Category(category)
	e.EntryType = models.EntryType(entryType)
	e.PaymentStatus = models.PaymentStatus(payment)
	e.ReviewStatus = models.ReviewStatus(review)
	e.TextContent = text.String
	e.VideoURL = video.String
	if ref.Valid {
		e.File = &models.FileRef{Ref: ref.String, Name: name.String, MimeType: mime.String, Size: size.Int64}
	}
	return &e, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

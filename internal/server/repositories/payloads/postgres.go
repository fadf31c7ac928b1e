// Package payloads stores entry file bodies as bytea rows.
package payloads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/dbx"
)

// PostgresRepository implements payload storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores p and returns the generated row id.
func (r *PostgresRepository) Insert(ctx context.Context, p *Payload) (string, error) {
	query := `
		INSERT INTO payloads (name, mime_type, size, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id string
	if err := r.db.QueryRowContext(ctx, query, p.Name, p.MimeType, int64(len(p.Data)), p.Data).Scan(&id); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	p.ID = id
	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Payload, error) {
	query := `SELECT id, name, mime_type, data FROM payloads WHERE id = $1`

	p := &Payload{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.MimeType, &p.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select payload: %w", err)
	}
	return p, nil
}

// Delete removes the payload; a missing row is reported as common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payloads WHERE id = $1`, id)
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

// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/dbx"
	"github.com/dmitrijs2005/contestentries/internal/server/migrations"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/entries"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/payloads"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/webhookevents"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Entries returns an entries.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

// Payloads returns a payloads.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Payloads(db dbx.DBTX) payloads.Repository {
	return payloads.NewPostgresRepository(db)
}

// WebhookEvents returns a webhookevents.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) WebhookEvents(db dbx.DBTX) webhookevents.Repository {
	return webhookevents.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

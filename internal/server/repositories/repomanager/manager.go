package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/contestentries/internal/dbx"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/entries"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/payloads"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/webhookevents"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Payloads(db dbx.DBTX) payloads.Repository
	WebhookEvents(db dbx.DBTX) webhookevents.Repository
}

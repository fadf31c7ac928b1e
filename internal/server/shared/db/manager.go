// Package db owns the lifecycle of the PostgreSQL connection pool used by the
// entry store: lazy open, migrations on first use and retry after failure.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/repomanager"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// Manager hands out a migrated *sql.DB. The pool is cached only once it has
// been pinged and migrated; a failed attempt is retried on the next call.
type Manager struct {
	dsn    string
	repos  repomanager.RepositoryManager
	logger logging.Logger

	mu sync.Mutex
	db *sql.DB
}

func NewManager(dsn string, repos repomanager.RepositoryManager, logger logging.Logger) *Manager {
	return &Manager{dsn: dsn, repos: repos, logger: logger.With("module", "db")}
}

// NewManagerForDB wraps a pool that is already open and migrated.
func NewManagerForDB(conn *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *Manager {
	m := NewManager("preopened", repos, logger)
	m.db = conn
	return m
}

// Configured reports whether a DSN was supplied.
func (m *Manager) Configured() bool {
	return m.dsn != ""
}

// Repos returns the repository manager bound to this database.
func (m *Manager) Repos() repomanager.RepositoryManager {
	return m.repos
}

// DB returns the shared pool, opening and migrating it on first use.
func (m *Manager) DB(ctx context.Context) (*sql.DB, error) {
	if !m.Configured() {
		return nil, common.ErrStoreNotConfigured
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	db, err := openDB(m.dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		m.logger.Warn(ctx, "database unreachable, will retry", "error", err)
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.repos.RunMigrations(ctx, db); err != nil {
		db.Close()
		m.logger.Error(ctx, "migrations failed", "error", err)
		return nil, fmt.Errorf("migration error: %w", err)
	}

	m.logger.Info(ctx, "database ready")
	m.db = db
	return db, nil
}

// Ping checks connectivity, opening the pool if needed.
func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

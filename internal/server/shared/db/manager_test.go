package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/logging"
	"github.com/dmitrijs2005/contestentries/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepos struct {
	repomanager.RepositoryManager
	calls int
	err   error
}

func (f *fakeRepos) RunMigrations(context.Context, *sql.DB) error {
	f.calls++
	return f.err
}

func stubOpen(t *testing.T, fn func(string) (*sql.DB, error)) {
	t.Helper()
	orig := openDB
	openDB = fn
	t.Cleanup(func() { openDB = orig })
}

func TestDB_NotConfigured(t *testing.T) {
	m := NewManager("", &fakeRepos{}, logging.Nop{})

	_, err := m.DB(context.Background())
	assert.ErrorIs(t, err, common.ErrStoreNotConfigured)
	assert.ErrorIs(t, m.Ping(context.Background()), common.ErrStoreNotConfigured)
	assert.False(t, m.Configured())
}

func TestDB_OpensOnceAndCaches(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectPing()

	opens := 0
	stubOpen(t, func(dsn string) (*sql.DB, error) {
		opens++
		assert.Equal(t, "postgres://x", dsn)
		return sqlDB, nil
	})

	repos := &fakeRepos{}
	m := NewManager("postgres://x", repos, logging.Nop{})

	first, err := m.DB(context.Background())
	require.NoError(t, err)
	second, err := m.DB(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, repos.calls)

	require.NoError(t, m.Ping(context.Background()))

	mock.ExpectClose()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_RetriesAfterFailure(t *testing.T) {
	bad, badMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	badMock.ExpectPing().WillReturnError(errors.New("connection refused"))
	badMock.ExpectClose()

	good, goodMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	goodMock.ExpectPing()
	defer good.Close()

	conns := []*sql.DB{bad, good}
	stubOpen(t, func(string) (*sql.DB, error) {
		db := conns[0]
		conns = conns[1:]
		return db, nil
	})

	m := NewManager("postgres://x", &fakeRepos{}, logging.Nop{})

	_, err = m.DB(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db ping error")

	db, err := m.DB(context.Background())
	require.NoError(t, err)
	assert.Same(t, good, db)
	require.NoError(t, badMock.ExpectationsWereMet())
}

func TestDB_MigrationFailureNotCached(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectClose()

	stubOpen(t, func(string) (*sql.DB, error) { return sqlDB, nil })

	repos := &fakeRepos{err: errors.New("bad migration")}
	m := NewManager("postgres://x", repos, logging.Nop{})

	_, err = m.DB(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
	assert.Nil(t, m.db)
}

func TestDB_OpenError(t *testing.T) {
	stubOpen(t, func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") })

	m := NewManager("nonsense", &fakeRepos{}, logging.Nop{})
	_, err := m.DB(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db open error")
}

func TestNewManagerForDB(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repos := &fakeRepos{}
	m := NewManagerForDB(sqlDB, repos, logging.Nop{})

	got, err := m.DB(context.Background())
	require.NoError(t, err)
	assert.Same(t, sqlDB, got)
	assert.Zero(t, repos.calls)
	assert.Same(t, repos, m.Repos())
}

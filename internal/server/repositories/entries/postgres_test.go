package entries

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "owner_id", "category", "entry_type", "title", "description", "text_content", "video_url",
	"file_ref", "file_name", "file_mime_type", "file_size", "entry_fee", "processing_fee", "total_amount",
	"payment_intent_id", "payment_status", "review_status", "created_at",
}

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func deckRow(id, owner string, at time.Time) []driver.Value {
	return []driver.Value{id, owner, "technology", "pitch-deck", "Series A deck", "", nil, nil,
		"ref-1", "deck.pdf", "application/pdf", int64(1024), int64(99), int64(4), int64(103),
		"pi_" + id, "succeeded", "submitted", at}
}

func textRow(id, owner string, at time.Time) []driver.Value {
	return []driver.Value{id, owner, "creative", "text", "A story", "desc", "once upon a time", nil,
		nil, nil, nil, nil, int64(59), int64(3), int64(62),
		"pi_" + id, "succeeded", "submitted", at}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO entries .* RETURNING id, created_at`).
		WithArgs("u1", "technology", "pitch-deck", "Series A deck", "", nil, nil,
			"ref-1", "deck.pdf", "application/pdf", int64(1024),
			int64(99), int64(4), int64(103), "pi_1", "succeeded", "submitted").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("e1", created))

	e := &models.Entry{
		OwnerID:         "u1",
		Category:        models.CategoryTechnology,
		EntryType:       models.EntryTypePitchDeck,
		Title:           "Series A deck",
		File:            &models.FileRef{Ref: "ref-1", Name: "deck.pdf", MimeType: "application/pdf", Size: 1024},
		Fees:            models.Fees{EntryFee: 99, ProcessingFee: 4, TotalAmount: 103},
		PaymentIntentID: "pi_1",
		PaymentStatus:   models.PaymentSucceeded,
		ReviewStatus:    models.ReviewSubmitted,
	}
	require.NoError(t, repo.Create(context.Background(), e))

	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, created, e.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicatePaymentIntent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO entries`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "entries_payment_intent_id_key"})

	err := repo.Create(context.Background(), &models.Entry{TextContent: "x"})
	assert.ErrorIs(t, err, common.ErrAlreadySubmitted)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO entries`).WillReturnError(errors.New("db is down"))

	err := repo.Create(context.Background(), &models.Entry{VideoURL: "https://youtu.be/x"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db is down`, err.Error())
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE id = \$1$`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(deckRow("e1", "u1", created)...))

	e, err := repo.GetByID(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, models.EntryTypePitchDeck, e.EntryType)
	assert.Equal(t, models.CategoryTechnology, e.Category)
	require.NotNil(t, e.File)
	assert.Equal(t, "ref-1", e.File.Ref)
	assert.Equal(t, int64(1024), e.File.Size)
	assert.Nil(t, e.File.Data)
	assert.Empty(t, e.TextContent)
	assert.Equal(t, models.Fees{EntryFee: 99, ProcessingFee: 4, TotalAmount: 103}, e.Fees)
	assert.Equal(t, models.PaymentSucceeded, e.PaymentStatus)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByIDForUpdate_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE id = \$1 FOR UPDATE`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(textRow("e1", "u1", created)...))

	e, err := repo.GetByIDForUpdate(context.Background(), "e1")
	require.NoError(t, err)
	assert.Nil(t, e.File)
	assert.Equal(t, "once upon a time", e.TextContent)
}

func TestGetByPaymentIntent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE payment_intent_id = \$1`).
		WithArgs("pi_e1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(textRow("e1", "u1", created)...))

	e, err := repo.GetByPaymentIntent(context.Background(), "pi_e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", e.ID)
}

func TestListByOwner_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE owner_id = \$1 ORDER BY created_at DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(textRow("e2", "u1", created.Add(time.Hour))...).
			AddRow(deckRow("e1", "u1", created)...))

	list, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e2", list[0].ID)
	assert.Equal(t, "e1", list[1].ID)
}

func TestListByOwner_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE owner_id`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(columns))

	list, err := repo.ListByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListByOwner_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries WHERE owner_id`).WillReturnError(errors.New("boom"))

	_, err := repo.ListByOwner(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select entries")
}

func TestUpdatePaymentStatus(t *testing.T) {
	q := regexp.QuoteMeta(`UPDATE entries SET payment_status = $2`) + `.*payment_status <> 'failed'`

	t.Run("updated", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs("pi_1", "failed").WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdatePaymentStatus(context.Background(), "pi_1", models.PaymentFailed)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("nothing to update", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WithArgs("pi_1", "failed").WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdatePaymentStatus(context.Background(), "pi_1", models.PaymentFailed)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rows affected error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))

		_, err := repo.UpdatePaymentStatus(context.Background(), "pi_1", models.PaymentFailed)
		require.Error(t, err)
		assert.Regexp(t, `rows affected error: .*rows-err`, err.Error())
	})
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM entries WHERE id = \$1`).WithArgs("e1").WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Delete(context.Background(), "e1"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM entries`).WithArgs("e1").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), "e1"), common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM entries`).WillReturnError(errors.New("db down"))
		assert.Error(t, repo.Delete(context.Background(), "e1"))
	})
}

package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/domain/models"
)

// fakeDB records the last statement and answers QueryRow with row
type fakeDB struct {
	sql  string
	args []interface{}
	row  pgx.Row
}

func (f *fakeDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not used")
}

func (f *fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.sql = sql
	f.args = args
	return f.row
}

type errRow struct{ err error }

func (r errRow) Scan(...interface{}) error { return r.err }

// recordRow scans a stored record back in documentColumns order
type recordRow struct{ rec models.Record }

func (r recordRow) Scan(dest ...interface{}) error {
	*dest[0].(*string) = r.rec.ID
	*dest[1].(*string) = r.rec.Type
	*dest[2].(*models.ClientRecord) = r.rec.Client
	*dest[3].(*models.ContentRecord) = r.rec.Content
	*dest[4].(*float64) = r.rec.Total
	*dest[5].(*string) = r.rec.Status
	*dest[6].(*string) = r.rec.IssueDate
	*dest[7].(*string) = r.rec.ExpiryDate
	*dest[8].(*time.Time) = r.rec.CreatedAt
	*dest[9].(*time.Time) = r.rec.UpdatedAt
	return nil
}

func newTestRepository(db *fakeDB) *DocumentRepository {
	return NewDocumentRepositoryWithExecutor(db, NewTableNames("dev_"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSaveKeepsCreationTime(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := models.Record{ID: "DOC-AAA-000001", Type: "proposta", Status: "rascunho", Total: 3000, CreatedAt: created}
	db := &fakeDB{row: recordRow{rec: rec}}

	saved, err := newTestRepository(db).Save(context.Background(), &rec)
	require.NoError(t, err)

	assert.Contains(t, db.sql, "INSERT INTO dev_documentos")
	assert.Contains(t, db.sql, "COALESCE($9::timestamptz, now())")
	require.Len(t, db.args, 9)
	require.IsType(t, &time.Time{}, db.args[8])
	assert.Equal(t, created, *db.args[8].(*time.Time))
	assert.Equal(t, created, saved.CreatedAt)
}

func TestSaveNewRecordLetsDatabaseStampCreation(t *testing.T) {
	rec := models.Record{ID: "DOC-AAA-000001", Type: "proposta", Status: "rascunho"}
	db := &fakeDB{row: errRow{err: &pgconn.PgError{Code: "08006"}}}

	_, err := newTestRepository(db).Save(context.Background(), &rec)
	require.Error(t, err)
	assert.Equal(t, "network", ClassifyError(err))

	require.Len(t, db.args, 9)
	assert.Nil(t, db.args[8], "a zero creation time is sent as NULL")
}

func TestGetByIDNotFound(t *testing.T) {
	db := &fakeDB{row: errRow{err: pgx.ErrNoRows}}

	_, err := newTestRepository(db).GetByID(context.Background(), "DOC-AAA-000001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []interface{}{"DOC-AAA-000001"}, db.args)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/crowdops/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStorage(db), mock, db
}

const (
	selectQ = `(?s)^\s*SELECT\s+value\s+FROM\s+session_slots\s+WHERE\s+key\s*=\s*\$1\s*$`
	upsertQ = `(?s)^\s*INSERT\s+INTO\s+session_slots\b.*VALUES\s*\(\$1,\s*\$2,\s*now\(\)\).*ON\s+CONFLICT\s*\(key\)\s+DO\s+UPDATE.*$`
	deleteQ = `(?s)^\s*DELETE\s+FROM\s+session_slots\s+WHERE\s+key\s*=\s*\$1\s*$`
	clearQ  = `^DELETE FROM session_slots WHERE starts_with\(key, \$1\)$`
	clearAQ = `^DELETE FROM session_slots$`
)

func TestGet_Found(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectQuery(selectQ).
		WithArgs("tab:token").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"data":"d","iv":"i"}`))

	v, err := s.Get(context.Background(), "tab:token")
	require.NoError(t, err)
	assert.Equal(t, `{"data":"d","iv":"i"}`, v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectQuery(selectQ).
		WithArgs("absent").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "absent")
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_DBError(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectQuery(selectQ).
		WithArgs("k").
		WillReturnError(errors.New("db down"))

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get slot[k]: db down")
}

func TestSet_Success(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(upsertQ).
		WithArgs("tab:user", "payload").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "tab:user", "payload"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_DBError(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(upsertQ).
		WithArgs("k", "v").
		WillReturnError(errors.New("disk full"))

	err := s.Set(context.Background(), "k", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set slot[k]: disk full")
}

func TestDelete_Success(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(deleteQ).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), "k"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_DBError(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(deleteQ).
		WithArgs("k").
		WillReturnError(errors.New("boom"))

	err := s.Delete(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete slot[k]")
}

func TestClear_ByPrefix(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(clearQ).
		WithArgs("tab-1:").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.Clear(context.Background(), "tab-1:"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClear_All(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(clearAQ).
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, s.Clear(context.Background(), ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClear_DBError(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(clearQ).
		WithArgs("p").
		WillReturnError(errors.New("boom"))

	err := s.Clear(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear slots[p]")
}

func TestClose_WithoutOwnership(t *testing.T) {
	s, _, _ := newStorageWithMock(t)
	require.NoError(t, s.Close())
}

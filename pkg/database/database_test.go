package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/mrpcapacity/pkg/logger"
)

func setupMockDB(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, logger.NewWithWriter(io.Discard, "error")), mock
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	d, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := d.WithTx(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE products SET name = $1", "x")
		return err
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	d, mock := setupMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := d.WithTx(context.Background(), func(*sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	d, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = d.WithTx(context.Background(), func(*sql.Tx) error { panic("kaboom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_CompleteReturnsTrackedChanges(t *testing.T) {
	d, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	uow, err := d.Begin(context.Background())
	require.NoError(t, err)
	uow.Track(1)
	uow.Track(1)

	n, err := uow.Complete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = uow.Complete(context.Background())
	assert.ErrorIs(t, err, ErrUnitOfWorkDone)

	// Rollback after Complete must not touch the driver.
	assert.NoError(t, uow.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_Rollback(t *testing.T) {
	d, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	uow, err := d.Begin(context.Background())
	require.NoError(t, err)
	uow.Track(1)

	assert.NoError(t, uow.Rollback(context.Background()))
	_, err = uow.Complete(context.Background())
	assert.ErrorIs(t, err, ErrUnitOfWorkDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_products_name"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"any constraint", dup, "", true},
		{"matching constraint", dup, "uq_products_name", true},
		{"other constraint", dup, "uq_products_number", false},
		{"wrapped", fmt.Errorf("insert: %w", dup), "", true},
		{"other sqlstate", &pgconn.PgError{Code: "23503"}, "", false},
		{"plain error", errors.New("boom"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}

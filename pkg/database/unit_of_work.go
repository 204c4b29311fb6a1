package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrUnitOfWorkDone is returned by Complete when the unit was already
// committed or rolled back.
var ErrUnitOfWorkDone = errors.New("unit of work already completed")

// UnitOfWork is a transaction shared by several repositories. Repositories run
// their statements on Tx and report persisted rows through Track; Complete
// commits once and returns the number of tracked changes.
type UnitOfWork struct {
	db      *Database
	tx      *sql.Tx
	changes int
	done    bool
}

// Begin opens a READ COMMITTED transaction for a new unit of work.
// Row locks taken inside it (SELECT ... FOR UPDATE) are held until Complete
// or Rollback.
func (d *Database) Begin(ctx context.Context) (*UnitOfWork, error) {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	return &UnitOfWork{db: d, tx: tx}, nil
}

// Tx returns the transaction repositories must run their statements on.
func (u *UnitOfWork) Tx() *sql.Tx {
	return u.tx
}

// Track records n persisted row changes.
func (u *UnitOfWork) Track(n int) {
	u.changes += n
}

// Complete commits the transaction and returns the number of tracked changes.
func (u *UnitOfWork) Complete(ctx context.Context) (int, error) {
	if u.done {
		return 0, ErrUnitOfWorkDone
	}
	u.done = true
	if err := u.tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit unit of work: %w", err)
	}
	u.db.log.DebugContext(ctx, "unit of work committed", "changes", u.changes)
	return u.changes, nil
}

// Rollback discards every staged change. It is a no-op after Complete, so
// callers may defer it unconditionally.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback unit of work: %w", err)
	}
	u.db.log.DebugContext(ctx, "unit of work rolled back", "discarded", u.changes)
	return nil
}

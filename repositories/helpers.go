package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx so repository methods
// can run inside or outside a transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Transactor runs a function inside one database transaction, committing on
// nil and rolling back on error or panic. Engine commands rely on this for
// their all-or-nothing write semantics.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type sqlTransactor struct {
	db *sql.DB
}

func NewTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

var (
	ErrInvalidReference = errors.New("referenced row does not exist")
	ErrDuplicateRow     = errors.New("row violates a uniqueness constraint")
)

// translatePQError maps driver-level constraint failures onto repository
// sentinels; anything else passes through wrapped.
func translatePQError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrInvalidReference, pqErr.Constraint)
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrDuplicateRow, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

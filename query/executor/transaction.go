package executor

import (
	"context"
	"database/sql"
	"errors"

	"github.com/satishbabariya/queryforge/logging"
)

// TxFunc runs user statements inside one transaction. The passed Executor is
// bound to the transaction's connection; everything issued through it routes
// there. The transaction owns that connection for its lifetime, and the
// callback is responsible for sequencing its own statements on it.
type TxFunc func(ctx context.Context, tx *Executor) error

// WithTransaction begins a transaction, runs fn with a transaction-bound
// Executor, and commits. Any error from fn triggers a best-effort rollback:
// a rollback failure is logged but never masks the original error, which
// propagates unchanged.
func WithTransaction(ctx context.Context, db *sql.DB, sink logging.Sink, development bool, fn TxFunc) error {
	if sink == nil {
		sink = logging.Default()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		sink.LogError("BEGIN", err, nil)
		return err
	}

	if err := fn(ctx, New(tx, sink, development)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			sink.LogError("ROLLBACK", rbErr, nil)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		sink.LogError("COMMIT", err, nil)
		return err
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/redact"
)

// TxFn is a unit of work run inside a transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxBeginner is satisfied by *sql.DB and *sql.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// RunInTransaction runs fn in a new transaction and commits when fn returns nil.
// An error from fn is returned unchanged after rollback. A panic in fn rolls
// the transaction back and is then re-raised.
func RunInTransaction(ctx context.Context, db TxBeginner, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("could not begin transaction", slog.String("error", redact.Error(err)))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		rollback(log, tx, slog.Any("panic", p))
		// ALLOW-PANIC: re-raise after rollback
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := rollback(log, tx, slog.String("cause", redact.Error(err))); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (cause: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("could not commit transaction", slog.String("error", redact.Error(err)))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}
	log.Debug("transaction committed")
	return nil
}

func rollback(log *slog.Logger, tx *sql.Tx, reason slog.Attr) error {
	if err := tx.Rollback(); err != nil {
		log.Error("could not roll back transaction", reason, slog.String("error", redact.Error(err)))
		return err
	}
	log.Debug("transaction rolled back", reason)
	return nil
}

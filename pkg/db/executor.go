// pkg/db/executor.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Default retry policy: 3 attempts, 1s base backoff doubling per attempt,
// capped at 5s.
const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = 1 * time.Second
	DefaultMaxBackoff  = 5 * time.Second
)

// SleepFunc pauses for d or until ctx is done. It is injectable so retry
// timing can be tested without real waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

// TxRunner executes units of work inside a begin/commit/rollback scope on
// the shared connection pool. When the acquire-begin-run-commit cycle
// fails with a transient connectivity error the whole cycle is retried
// with exponential backoff; every other failure surfaces immediately.
type TxRunner struct {
	db          *sqlx.DB
	logger      *slog.Logger
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	sleep       SleepFunc
}

// NewTxRunner creates a TxRunner with the default retry policy.
func NewTxRunner(db *sqlx.DB, logger *slog.Logger) *TxRunner {
	return &TxRunner{
		db:          db,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
		baseBackoff: DefaultBaseBackoff,
		maxBackoff:  DefaultMaxBackoff,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RunInTx runs fn inside one database transaction. On success the
// transaction is committed. On failure it is rolled back and the error
// is returned unchanged, except for transient connectivity errors, which
// restart the whole cycle until the attempt budget is exhausted.
//
// fn must keep the transaction body short: a wallet row lock taken inside
// fn is held until commit and stalls concurrent writers for that student.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	backoff := r.baseBackoff
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if Classify(err) != KindTransient {
			return err
		}

		lastErr = err
		if attempt == r.maxAttempts {
			break
		}

		r.logger.Warn("transient database error, retrying transaction",
			"attempt", attempt, "backoff", backoff, "error", err)
		if sleepErr := r.sleep(ctx, backoff); sleepErr != nil {
			return sleepErr
		}
		backoff *= 2
		if backoff > r.maxBackoff {
			backoff = r.maxBackoff
		}
	}

	return fmt.Errorf("transaction failed after %d attempts: %w", r.maxAttempts, lastErr)
}

// runOnce performs a single acquire-begin-run-commit cycle. The deferred
// rollback guarantees the connection is released on every exit path;
// rollback errors are swallowed (logged) since the connection is being
// discarded anyway.
func (r *TxRunner) runOnce(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			r.logger.Error("failed to roll back transaction", "error", rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

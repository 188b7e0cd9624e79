package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the write path needs to tell apart.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateUniqueViolation      = "23505"
)

// Write attempts per mutation before the conflict is surfaced as terminal.
const MaxWriteAttempts = 3

// Returned when a write still hits serialization conflicts after all
// retry attempts; the last conflict error is wrapped alongside it.
var ErrTxRetriesExceeded = errors.New("write failed after retries")

// BackoffFunc maps a 1-based attempt number to the delay before the next try.
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff grows the delay linearly with the attempt count.
func LinearBackoff(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration { return time.Duration(attempt) * step }
}

// IsSerializationFailure reports whether err is a storage-detected
// write-write conflict between serializable transactions. This is the only
// condition the write path retries.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlstateSerializationFailure
}

// IsUniqueViolation reports whether err is a violated unique constraint.
// The routes.name constraint is a backstop behind the in-transaction check.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlstateUniqueViolation
}

// WithRetry runs op up to maxAttempts times, sleeping backoff(attempt)
// between tries. Only errors accepted by retryable are retried; anything
// else propagates immediately. Exhaustion wraps ErrTxRetriesExceeded around
// the last conflict error. op must own no lock or open transaction when it
// returns, so nothing is held across the backoff sleeps.
func WithRetry(ctx context.Context, maxAttempts int, backoff BackoffFunc, retryable func(error) bool, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
	return fmt.Errorf("%w: %w", ErrTxRetriesExceeded, lastErr)
}

// InSerializableTx runs fn inside one serializable transaction: commit when
// fn returns nil, rollback otherwise. Commit errors surface to the caller
// since Postgres can detect the conflict at commit time. The transaction's
// connection is released on every exit path.
func InSerializableTx(ctx context.Context, sdb *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := sdb.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin serializable tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Write is the conflict-retry writer: it runs fn inside a serializable
// transaction and transparently retries serialization conflicts with linear
// backoff, up to MaxWriteAttempts. Every other failure, including uniqueness
// preconditions raised by fn itself, rolls back and propagates immediately.
func Write(ctx context.Context, sdb *sql.DB, fn func(tx *sql.Tx) error) error {
	return WithRetry(ctx, MaxWriteAttempts, LinearBackoff(100*time.Millisecond), IsSerializationFailure, func() error {
		return InSerializableTx(ctx, sdb, fn)
	})
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

// UnitOfWork runs mutating ledger operations inside a single serializable
// transaction. Serialization conflicts are retried with capped exponential
// backoff; everything else fails fast.
type UnitOfWork struct {
	db         *DB
	log        *logger.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NewUnitOfWork creates a unit-of-work runner. maxRetries and baseDelay
// fall back to 3 retries and 10ms when non-positive.
func NewUnitOfWork(db *DB, log *logger.Logger, maxRetries int, baseDelay time.Duration) *UnitOfWork {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if baseDelay <= 0 {
		baseDelay = 10 * time.Millisecond
	}
	return &UnitOfWork{db: db, log: log, maxRetries: maxRetries, baseDelay: baseDelay}
}

// RunSerializable executes fn inside a serializable transaction stored in
// the context, so repository calls made by fn join the transaction. The
// whole unit commits or rolls back as one. On serialization failure the
// unit is re-run from the top, at most maxRetries times, after which the
// caller gets Conflict. Timeouts and cancellations are never retried.
func (u *UnitOfWork) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		if attempt > 0 {
			if err := u.sleep(ctx, attempt); err != nil {
				return Classify(err)
			}
			u.log.WithContext(ctx).Debug("retrying unit of work",
				"operation_id", opID,
				"attempt", attempt,
			)
		}

		err := u.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Classify(err)
		}
		if !IsRetryable(err) {
			return Classify(err)
		}
		lastErr = err
	}

	u.log.WithContext(ctx).Warn("unit of work exhausted retries",
		"operation_id", opID,
		"retries", u.maxRetries,
	)
	return apperr.Wrap(lastErr, apperr.KindConflict, "serialization conflict persisted across retries")
}

func (u *UnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// sleep waits out the backoff for the given attempt: base * 2^(attempt-1)
// with ±25% jitter, abandoned early when the context ends.
func (u *UnitOfWork) sleep(ctx context.Context, attempt int) error {
	delay := u.baseDelay << (attempt - 1)
	jitter := 0.75 + rand.Float64()*0.5
	delay = time.Duration(float64(delay) * jitter)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

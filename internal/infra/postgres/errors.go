package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fintrackhq/fintrack/internal/shared/apperr"
)

const (
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err is a serialization conflict worth
// retrying in a fresh unit-of-work.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
	}
	return false
}

// Classify maps a storage engine error onto the application error taxonomy.
// Foreign key and unique violations are resolved through constraint names,
// so the schema's constraints are part of the contract here.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(err, apperr.KindTimeout, "storage call exceeded deadline")
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(err, apperr.KindCancelled, "storage call cancelled")
	case errors.Is(err, pgx.ErrNoRows):
		return apperr.Wrap(err, apperr.KindNotFound, "row not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return classifyForeignKey(pgErr)
		case codeUniqueViolation:
			return classifyUnique(pgErr)
		case codeSerializationFailure, codeDeadlockDetected:
			return apperr.Wrap(err, apperr.KindConflict, "serialization conflict")
		}
	}

	return apperr.StorageFault(err)
}

func classifyForeignKey(pgErr *pgconn.PgError) error {
	switch {
	case strings.Contains(pgErr.ConstraintName, "owner"):
		return apperr.Wrap(pgErr, apperr.KindOwnerNotFound, "referenced owner does not exist")
	case strings.Contains(pgErr.ConstraintName, "category"):
		return apperr.Wrap(pgErr, apperr.KindCategoryNotFound, "referenced category does not exist")
	case strings.Contains(pgErr.ConstraintName, "group"):
		return apperr.Wrap(pgErr, apperr.KindGroupNotFound, "referenced group does not exist")
	}
	return apperr.Wrap(pgErr, apperr.KindNotFound, "referenced row does not exist")
}

func classifyUnique(pgErr *pgconn.PgError) error {
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return apperr.Wrap(pgErr, apperr.KindDuplicateEmail, "email already registered")
	case strings.Contains(pgErr.ConstraintName, "name"):
		return apperr.Wrap(pgErr, apperr.KindDuplicateName, "name already taken")
	}
	return apperr.Wrap(pgErr, apperr.KindConflict, "unique constraint violated")
}

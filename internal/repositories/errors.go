package repositories

import (
	"errors"
	"fmt"

	"erp/internal/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// postgres SQLSTATEs for serialization_failure and deadlock_detected.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateError maps driver and GORM errors onto the apperrors taxonomy.
// Errors that already carry an apperrors sentinel pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", apperrors.ErrConstraintViolation, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", apperrors.ErrConstraintViolation, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%w: %v", apperrors.ErrConstraintViolation, err)
		}
	}
	return err
}

// notFoundOr returns a NotFound error for missing records and a translated error otherwise.
func notFoundOr(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(kind, id)
	}
	return fmt.Errorf("failed to get %s %s: %w", kind, id, translateError(err))
}

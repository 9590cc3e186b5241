package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a single-row lookup or mutation matches no rows.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned on unique constraint violations.
	ErrDuplicateKey = errors.New("duplicate key")
)

// PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// MapError translates driver errors into the package sentinels. Unknown
// errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ConstraintError{Sentinel: ErrDuplicateKey, Constraint: pgErr.ConstraintName, Cause: err}
	}
	return err
}

// IgnoreNoRows drops sql.ErrNoRows so an empty lookup is not counted as a
// failed query.
func IgnoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

// ConstraintError keeps the violated constraint name next to the sentinel.
type ConstraintError struct {
	Sentinel   error
	Constraint string
	Cause      error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return e.Sentinel.Error() + " (" + e.Constraint + "): " + e.Cause.Error()
	}
	return e.Sentinel.Error() + ": " + e.Cause.Error()
}

func (e *ConstraintError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *ConstraintError) Unwrap() error        { return e.Cause }

package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// IsUniqueViolation reports a unique violation and the constraint that fired.
func IsUniqueViolation(err error) (string, bool) {
	code, constraint := pgCode(err)
	return constraint, code == pgUniqueViolation
}

// IsExclusionViolation reports an exclusion constraint violation.
func IsExclusionViolation(err error) bool {
	code, _ := pgCode(err)
	return code == pgExclusionViolation
}

// IsSerializationFailure reports errors that are safe to retry in a new transaction.
func IsSerializationFailure(err error) bool {
	code, _ := pgCode(err)
	return code == pgSerializationFailure || code == pgDeadlockDetected
}

package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// IsNotFound reports whether err is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a unique constraint breach.
func IsUniqueViolation(err error) bool {
	return hasSQLState(err, codeUniqueViolation)
}

// IsCheckViolation reports whether err breached a CHECK constraint.
func IsCheckViolation(err error) bool {
	return hasSQLState(err, codeCheckViolation)
}

// IsSerializationFailure reports whether err is a retryable isolation
// conflict (serialization failure or deadlock).
func IsSerializationFailure(err error) bool {
	return hasSQLState(err, codeSerializationFailure) || hasSQLState(err, codeDeadlockDetected)
}

func hasSQLState(err error, code string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	// sqlite in tests reports constraint breaches by message only.
	if code == codeUniqueViolation {
		msg := err.Error()
		return strings.Contains(msg, "UNIQUE constraint failed") ||
			strings.Contains(msg, "duplicated key")
	}
	if code == codeCheckViolation {
		return strings.Contains(err.Error(), "CHECK constraint failed")
	}
	return false
}

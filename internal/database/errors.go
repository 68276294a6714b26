package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/zhanma666/evil-cook-project/internal/types"
)

const pgUniqueViolation = "23505"

// IsDuplicateKey reports whether err is a unique constraint violation from
// any of the supported drivers.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsNotFound reports whether err means the queried row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// DuplicateField guesses which column a unique violation was raised for,
// returning "" when the driver message does not say.
func DuplicateField(err error, candidates ...string) string {
	if err == nil {
		return ""
	}
	msg := err.Error()

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg = pgErr.ConstraintName + " " + pgErr.Detail
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		msg = pqErr.Constraint + " " + pqErr.Detail
	}

	for _, c := range candidates {
		if strings.Contains(msg, c) {
			return c
		}
	}
	return ""
}

// MapError converts driver failures into the application error taxonomy.
// Errors that already carry a kind, and nil, pass through unchanged.
func MapError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := types.AsAppError(err); ok {
		return err
	}
	switch {
	case IsNotFound(err):
		return types.NewNotFoundError(resource)
	case IsDuplicateKey(err):
		return types.NewConflictError(resource + " already exists")
	default:
		return types.NewInternalError("database error", err)
	}
}

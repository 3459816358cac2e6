package common

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation on the named constraint.
// An empty name matches any unique constraint.
func IsUniqueViolation(err error, name string) bool {
	return isConstraintError(err, pqUniqueViolation, name)
}

// IsForeignKeyViolation reports whether err is a foreign key violation on the named constraint.
func IsForeignKeyViolation(err error, name string) bool {
	return isConstraintError(err, pqForeignKeyViolation, name)
}

func isConstraintError(err error, code pq.ErrorCode, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == code && (name == "" || pqErr.Constraint == name) {
			return true
		}
	}

	return false
}

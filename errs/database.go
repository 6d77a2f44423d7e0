package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrDatabaseTimeout    = errors.New("database timeout")
	ErrMigrationFailed    = errors.New("migration failed")
)

// NewAlreadyExists reports a unique-constraint violation. The HTTP contract reports these as 400.
func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        &sentinelErr{msg: entity + " already exists", sentinel: &conflictErr{}},
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        &sentinelErr{msg: entity + " not found", sentinel: ErrNotFound},
	}
}

// conflictErr matches both ErrAlreadyExists and ErrConflict
type conflictErr struct{}

func (conflictErr) Error() string { return ErrAlreadyExists.Error() }

func (conflictErr) Is(target error) bool {
	return target == ErrAlreadyExists || target == ErrConflict
}

// IsDuplicateKey reports whether cause is a unique-index rejection from postgres or sqlite
func IsDuplicateKey(cause error) bool {
	if cause == nil {
		return false
	}
	if errors.Is(cause, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := cause.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		var apiErr *ApiErr
		if errors.As(cause, &apiErr) {
			return apiErr
		}

		errStr := cause.Error()
		switch {
		case errors.Is(cause, gorm.ErrRecordNotFound):
			return NewNotFound(entity)
		case IsDuplicateKey(cause):
			e := NewAlreadyExists(entity)
			e.Details = details
			e.Cause = cause
			return e
		case errors.Is(cause, context.DeadlineExceeded):
			return &ApiErr{
				StatusCode: http.StatusInternalServerError,
				err:        ErrDatabaseTimeout,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusInternalServerError,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewMigrationError(id string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrMigrationFailed,
		Details:    fmt.Sprintf("migration %s failed", id),
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsDatabaseTimeoutError(err error) bool {
	return errors.Is(err, ErrDatabaseTimeout)
}

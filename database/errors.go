package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/modeloptions/errors"
)

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"connection closed",
	"driver: bad connection",
	"sql: database is closed",
}

var retryablePatterns = []string{
	"deadlock",
	"lock timeout",
	"database is locked",
	"too many connections",
}

// IsConnectionError reports whether err looks like a lost or refused connection.
func IsConnectionError(err error) bool {
	return matchAny(err, connectionPatterns)
}

// IsRetryableError reports whether the failed statement may succeed on retry.
func IsRetryableError(err error) bool {
	return IsConnectionError(err) || matchAny(err, retryablePatterns)
}

func matchAny(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// FromDatabase converts a database error to an AppError. err must not be nil.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource, "").WithCause(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.AlreadyExists(resource).WithCause(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Timeout("database").WithCause(err)
	case IsConnectionError(err):
		return apperrors.ServiceUnavailable("database").WithCause(err)
	default:
		appErr := apperrors.DatabaseError(err)
		appErr.Retryable = IsRetryableError(err)
		return appErr
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
)

// AppError is the error type every store operation returns.
type AppError struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus returns the status code mapped to e.Code.
func (e *AppError) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithCause sets the cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges details into e and returns e.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// WithDetail sets one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	return e.WithDetails(map[string]any{key: value})
}

// New returns an AppError with the given code. Retryable follows the code.
func New(code ErrorCode, format string, args ...any) *AppError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &AppError{Code: code, Message: msg, Retryable: code.Retryable()}
}

// ServiceUnavailable reports a backing service that cannot be reached.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, "The %s is temporarily unavailable. Please try again.", service).
		WithDetail("service", service)
}

// Timeout reports an operation cut short by its deadline or cancellation.
func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The %s operation timed out.", operation)
}

// NotFound reports a missing resource. id is omitted from the details when
// empty.
func NotFound(resource, id string) *AppError {
	err := New(ErrCodeNotFound, "The requested %s was not found.", resource).WithDetail("resource", resource)
	if id != "" {
		err.Details["id"] = id
	}
	return err
}

// AlreadyExists reports a uniqueness conflict.
func AlreadyExists(resource string) *AppError {
	return New(ErrCodeAlreadyExists, "A %s with these details already exists.", resource).
		WithDetail("resource", resource)
}

// InvalidInput reports a rejected argument.
func InvalidInput(field, reason string) *AppError {
	err := New(ErrCodeInvalidInput, "Invalid input: %s", reason)
	if field != "" {
		err.WithDetail("field", field)
	}
	return err
}

// Validation is InvalidInput without a single offending field.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "A database error occurred. Please try again.").WithCause(cause)
}

// ExternalServiceError reports a failure returned by a dependency such as
// the cache.
func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService, "The %s service encountered an error. Please try again.", service).
		WithDetail("service", service).
		WithCause(cause)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// IsCode reports whether err's chain holds an AppError with code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool     { return IsCode(err, ErrCodeNotFound) }
func IsInvalidInput(err error) bool { return IsCode(err, ErrCodeInvalidInput) }

// Wrap returns the AppError in err's chain, or err as INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

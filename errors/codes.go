package errors

import "net/http"

// ErrorCode is the machine-readable kind of an AppError.
type ErrorCode string

const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	// ErrCodeExternalService covers failures of the cache backend.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

type codeInfo struct {
	status    int
	retryable bool
}

var codes = map[ErrorCode]codeInfo{
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeAlreadyExists:      {http.StatusConflict, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
	ErrCodeDatabaseError:      {http.StatusInternalServerError, true},
	ErrCodeExternalService:    {http.StatusBadGateway, true},
}

// HTTPStatus is the status code a transport should answer with. Unknown
// codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether an operation failing with c may succeed when
// repeated unchanged.
func (c ErrorCode) Retryable() bool { return codes[c].retryable }

// IsRetryableCode is shorthand for code.Retryable().
func IsRetryableCode(code ErrorCode) bool { return code.Retryable() }

// Package errors provides the structured error type shared by the option
// stores. Every error returned across a package boundary is an *AppError
// carrying a machine-readable code, a retryable hint, and the underlying
// cause.
//
// Callers usually only need the predicates:
//
//	if errors.IsNotFound(err) {
//	    // persisted DeleteOption on a key that was never set
//	}
package errors

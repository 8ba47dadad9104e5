package shared

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed taxonomy of failures the planner can surface.
// Every boundary error carries exactly one kind; the HTTP adapter owns
// the kind-to-status mapping.
type ErrorKind string

const (
	// KindNotFound - an entity lookup returned zero rows
	KindNotFound ErrorKind = "not_found"

	// KindValidation - the caller sent an out-of-range parameter or payload
	KindValidation ErrorKind = "validation"

	// KindConflict - an illegal state transition or capacity conflict
	KindConflict ErrorKind = "conflict"

	// KindUpstreamTimeout - the data store exceeded the request deadline
	KindUpstreamTimeout ErrorKind = "upstream_timeout"

	// KindUpstreamError - a data store select/insert/update/delete failed
	KindUpstreamError ErrorKind = "upstream_error"

	// KindInternal - any uncaught failure
	KindInternal ErrorKind = "internal"
)

// AppError is the base error type for all planner errors
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]interface{}
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// NewNotFoundError reports a missing entity by type and identifier
func NewNotFoundError(entity string, id interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", entity),
		Details: map[string]interface{}{"entity": entity, "id": id},
	}
}

// NewValidationError reports a bad caller-supplied value
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", field, message),
		Details: map[string]interface{}{"field": field},
	}
}

// NewConflictError reports an illegal transition or capacity conflict
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewUpstreamError wraps a data store failure for the given operation
func NewUpstreamError(operation string, cause error) *AppError {
	return &AppError{
		Kind:    KindUpstreamError,
		Message: fmt.Sprintf("store operation %s failed", operation),
		Details: map[string]interface{}{"operation": operation},
		cause:   cause,
	}
}

// NewUpstreamTimeout wraps a data store deadline overrun
func NewUpstreamTimeout(operation string, cause error) *AppError {
	return &AppError{
		Kind:    KindUpstreamTimeout,
		Message: fmt.Sprintf("store operation %s timed out", operation),
		Details: map[string]interface{}{"operation": operation},
		cause:   cause,
	}
}

// NewInternalError wraps an unexpected failure
func NewInternalError(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf extracts the error kind, defaulting to internal for foreign errors
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not_found AppError
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict AppError
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// Package apperror models the closed set of failure categories the service
// layer can surface, so handlers can map them to HTTP status codes without
// inspecting message text.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the categories callers react to.
type Kind int

const (
	// KindNotFound means a referenced vendor/invoice/payment/rule does not exist.
	KindNotFound Kind = iota
	// KindValidation means the request violates a business invariant
	// (malformed range, empty item list, out-of-order level, overdrawn payment).
	KindValidation
	// KindPermission means the acting user's role does not allow the operation.
	KindPermission
	// KindConflict means the operation collides with existing state.
	KindConflict
)

// Error carries a user-facing message plus its category. The message names
// the violated invariant, never internal state.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound creates a not-found error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Permission creates a permission error.
func Permission(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a category and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the category of err, or ok=false for uncategorized errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given category.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

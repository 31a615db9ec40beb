package domain

import (
	"errors" // Error inspection
	"fmt"    // Error formatting
)

// ErrorKind is the machine-checkable category of a failure
type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"      // Missing or malformed fields
	KindNotFound          ErrorKind = "not_found"          // Unknown email, order or item
	KindDuplicateEmail    ErrorKind = "duplicate_email"    // Email already registered
	KindInvalidCredential ErrorKind = "invalid_credential" // Password mismatch
	KindPermissionDenied  ErrorKind = "permission_denied"  // Actor lacks the admin flag
	KindUnauthorized      ErrorKind = "unauthorized"       // Missing or invalid session
	KindEmptyCart         ErrorKind = "empty_cart"         // Checkout with no cart rows
	KindGatewayFailure    ErrorKind = "gateway_failure"    // Payment provider call failed
	KindStorageFailure    ErrorKind = "storage_failure"    // Underlying data-store fault
)

// Error carries a kind and a human message, optionally wrapping a cause
type Error struct {
	Kind    ErrorKind // Failure category
	Message string    // Human readable message
	Err     error     // Underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindNotFound}) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewError builds an error of the given kind
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an error of the given kind around a cause
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// StorageError wraps a database fault
func StorageError(message string, err error) *Error {
	return WrapError(KindStorageFailure, message, err)
}

// KindOf returns the kind of err. Errors that are not *Error count as storage failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageFailure
}

// IsKind reports whether err is of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the human message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error for callers that dispatch on outcome rather
// than message text. Storage and network failures are always wrapped as
// KindUnavailable so transport details never leak to clients.
type ErrorKind string

const (
	KindNotAuthenticated        ErrorKind = "NOT_AUTHENTICATED"
	KindNotFound                ErrorKind = "NOT_FOUND"
	KindAlreadyExists           ErrorKind = "ALREADY_EXISTS"
	KindCapacityExceeded        ErrorKind = "CAPACITY_EXCEEDED"
	KindInsufficientPermissions ErrorKind = "INSUFFICIENT_PERMISSIONS"
	KindInsufficientBalance     ErrorKind = "INSUFFICIENT_BALANCE"
	KindValidationFailed        ErrorKind = "VALIDATION_FAILED"
	KindConflict                ErrorKind = "CONFLICT"
	KindUnavailable             ErrorKind = "UNAVAILABLE"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// E builds a kinded error. Permission and authentication errors should carry
// no message detail beyond the kind.
func E(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf returns the kind of err, or KindUnavailable for anything that is
// not a *domain.Error (unclassified failures are treated as collaborator
// failures).
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnavailable
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

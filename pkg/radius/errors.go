package radius

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode classifies the failures surfaced by the codec and its callers.
type ErrorCode int

const (
	// ErrUnknown is the default zero value; never deliberately returned.
	ErrUnknown ErrorCode = iota
	// ErrPacket covers any encode/decode/verification failure against the
	// wire format.
	ErrPacket
	// ErrTimeout signals that no reply arrived within the retry budget.
	ErrTimeout
	// ErrIO wraps a transport-level (socket, TLS) failure.
	ErrIO
	// ErrAuthorization signals dispatch found no matching host.
	ErrAuthorization
)

// Error is the typed error returned by every exported operation in this
// package and its sibling transport packages. It always carries an
// ErrorCode so callers can branch on failure class without string
// matching, and wraps the underlying cause (if any) via github.com/pkg/errors.
// The cause is reached through Unwrap (errors.Is/errors.As/errors.Unwrap);
// Error has no Cause method, so errors.Cause stops at the Error itself. The
// unwrapped cause carries the stack trace, printed by %+v.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// NewError builds an Error with no wrapped cause.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError builds an Error that wraps cause, stack-annotated via pkg/errors.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: errors.WithStack(cause)}
}

// PacketError is a convenience constructor for the most common case.
func PacketError(format string, args ...interface{}) *Error {
	return NewError(ErrPacket, fmt.Sprintf(format, args...))
}

// IsTimeout reports whether err is (or wraps) an ErrTimeout Error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrTimeout
}

// IsAuthorization reports whether err is (or wraps) an ErrAuthorization Error.
func IsAuthorization(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrAuthorization
}

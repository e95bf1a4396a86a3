package bridge

import (
	"errors"
	"fmt"
)

// ErrorCode classifies bridge errors.
type ErrorCode int

const (
	// ErrCodeInvalidHeader indicates a malformed header name or value; nothing was sent.
	ErrCodeInvalidHeader ErrorCode = iota + 1
	// ErrCodeRequestFailed indicates a transport, network or protocol failure.
	ErrCodeRequestFailed
	// ErrCodeResponseConsumed indicates the response body was already consumed.
	ErrCodeResponseConsumed
	// ErrCodeDecodeFailure indicates a header value or body that is not valid text.
	ErrCodeDecodeFailure
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidHeader:
		return "invalid_header"
	case ErrCodeRequestFailed:
		return "request_failed"
	case ErrCodeResponseConsumed:
		return "response_consumed"
	case ErrCodeDecodeFailure:
		return "decode_failure"
	default:
		return "unknown"
	}
}

// Error is a structured bridge error.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Message carries the diagnostic text, including the transport's for RequestFailed.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalidHeader    = &Error{Code: ErrCodeInvalidHeader}
	ErrRequestFailed    = &Error{Code: ErrCodeRequestFailed}
	ErrResponseConsumed = &Error{Code: ErrCodeResponseConsumed, Message: "response already consumed"}
	ErrDecodeFailure    = &Error{Code: ErrCodeDecodeFailure}
)

// IsCode reports whether err is a bridge error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func invalidHeader(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidHeader, Message: fmt.Sprintf(format, args...)}
}

func requestFailed(cause error) *Error {
	return &Error{Code: ErrCodeRequestFailed, Message: cause.Error(), Cause: cause}
}

func decodeFailure(cause error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{Code: ErrCodeDecodeFailure, Message: msg, Cause: cause}
}

// errConsumed returns a fresh error per call so callers never share a mutable sentinel.
func errConsumed() *Error {
	return &Error{Code: ErrCodeResponseConsumed, Message: "response already consumed"}
}

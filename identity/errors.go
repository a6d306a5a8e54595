package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a remote API failure.
type ErrorKind int

const (
	// KindInternal is an unclassified remote failure.
	KindInternal ErrorKind = iota
	// KindThrottled indicates the caller exceeded the API rate limit.
	KindThrottled
	// KindTimeout indicates the call exceeded its deadline.
	KindTimeout
	// KindConnection indicates a transient transport failure.
	KindConnection
	// KindNotFound indicates the requested resource does not exist.
	KindNotFound
	// KindAccessDenied indicates the caller lacks permission.
	KindAccessDenied
	// KindValidation indicates the request itself was malformed.
	KindValidation
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindThrottled:
		return "throttled"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Retryable reports whether failures of this kind are worth retrying.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindThrottled, KindTimeout, KindConnection:
		return true
	default:
		return false
	}
}

// APIError is a classified remote API failure.
type APIError struct {
	// Kind is the failure classification.
	Kind ErrorKind

	// Op is the failing operation, e.g. "identitystore.DescribeUser".
	Op string

	// Code is the provider-specific error code, if any.
	Code string

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements error.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, msg, e.Kind)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Kind)
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a classified API error.
func NewAPIError(kind ErrorKind, op, message string) *APIError {
	return &APIError{Kind: kind, Op: op, Message: message}
}

// kindOf extracts the classification from an error chain. Context deadline
// and cancellation errors classify as timeouts.
func kindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout, true
	}
	return KindInternal, false
}

// IsRetryable reports whether err is a transient failure (throttling,
// timeout, connection) worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	kind, ok := kindOf(err)
	return ok && kind.Retryable()
}

// IsNotFound reports whether err means the requested resource does not
// exist. For the orphan detector this is data, not a failure.
func IsNotFound(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindNotFound
}

// IsAccessDenied reports whether err is an authorization failure.
func IsAccessDenied(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindAccessDenied
}

// IsThrottled reports whether err is a rate-limit rejection.
func IsThrottled(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindThrottled
}

// KindOf returns the classification of err, or KindInternal when the error
// carries none.
func KindOf(err error) ErrorKind {
	kind, _ := kindOf(err)
	return kind
}

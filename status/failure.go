package status

import (
	"errors"
	"time"
)

// Sentinel errors for orchestration. These surface only for caller errors;
// collaborator failures never escape the executor.
var (
	// ErrInvalidConfig indicates a CheckConfig field is out of range.
	ErrInvalidConfig = errors.New("status: invalid check config")

	// ErrUnknownCheck indicates a check name outside the registered set.
	ErrUnknownCheck = errors.New("status: unknown check")

	// ErrCheckerNotRegistered indicates a comprehensive run was requested
	// before all five checkers were registered.
	ErrCheckerNotRegistered = errors.New("status: checker not registered")

	// ErrCheckTimeout indicates a single check attempt exceeded its deadline.
	ErrCheckTimeout = errors.New("status: check timed out")

	// ErrNoInspector indicates the inspect path was used without a
	// configured resource inspector.
	ErrNoInspector = errors.New("status: no resource inspector configured")
)

// FailureRecord captures one converted checker failure. Records are created
// by the Executor and never mutated afterwards.
type FailureRecord struct {
	// Check is the checker that failed.
	Check CheckName `json:"check_name"`

	// Kind is the failure classification: throttled, timeout, connection,
	// not_found, access_denied, validation, internal or panic.
	Kind string `json:"error_kind"`

	// Message is the underlying error text.
	Message string `json:"message"`

	// OccurredAt is when the failure was recorded.
	OccurredAt time.Time `json:"occurred_at"`
}

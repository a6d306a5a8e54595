package status

import (
	"fmt"
	"time"
)

// CheckConfig holds the immutable run parameters for one orchestration.
// All numeric fields must be positive; Validate rejects anything else
// because a bad configuration is a programming error, not a runtime
// condition.
type CheckConfig struct {
	// Timeout bounds each check attempt. The deadline restarts for every
	// retry attempt; see Executor.
	Timeout time.Duration

	// Parallel schedules checkers concurrently when true, otherwise they
	// run one-by-one in the fixed order.
	Parallel bool

	// MaxConcurrent bounds simultaneously running checkers in parallel
	// mode. Additional checkers queue.
	MaxConcurrent int

	// RetryAttempts is how many extra attempts a retryable failure earns.
	RetryAttempts int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// DefaultCheckConfig returns the standard run parameters.
func DefaultCheckConfig() CheckConfig {
	return CheckConfig{
		Timeout:       30 * time.Second,
		Parallel:      true,
		MaxConcurrent: 3,
		RetryAttempts: 2,
		RetryDelay:    time.Second,
	}
}

// Validate checks all numeric fields are positive.
func (c CheckConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("%w: max concurrent checks must be positive, got %d", ErrInvalidConfig, c.MaxConcurrent)
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("%w: retry attempts must be positive, got %d", ErrInvalidConfig, c.RetryAttempts)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("%w: retry delay must be positive, got %v", ErrInvalidConfig, c.RetryDelay)
	}
	return nil
}

package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/identityops/idctl/identity"
)

// Checker is one independent status check against remote collaborators.
type Checker interface {
	// Name returns the registered name of this checker.
	Name() CheckName

	// Check performs the check. Implementations return an error for
	// collaborator failures; the Executor converts it, so errors never
	// travel further than one attempt.
	Check(ctx context.Context) (Result, error)

	// Fallback builds the degraded result that fills this checker's report
	// slot when every attempt failed.
	Fallback(level Level, message string) Result
}

// CheckerFunc adapts ordinary functions to the Checker interface.
type CheckerFunc struct {
	name     CheckName
	fn       func(context.Context) (Result, error)
	fallback func(Level, string) Result
}

// NewCheckerFunc creates a CheckerFunc.
func NewCheckerFunc(name CheckName, fn func(context.Context) (Result, error), fallback func(Level, string) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn, fallback: fallback}
}

// Name returns the registered name of this checker.
func (f *CheckerFunc) Name() CheckName { return f.name }

// Check performs the check.
func (f *CheckerFunc) Check(ctx context.Context) (Result, error) { return f.fn(ctx) }

// Fallback builds the degraded result for this checker.
func (f *CheckerFunc) Fallback(level Level, message string) Result {
	return f.fallback(level, message)
}

// Executor runs one check under the configured timeout and retry policy.
//
// Timeout policy: the deadline applies per attempt, not across attempts.
// Each retry gets a fresh Timeout window, matching the behavior of the
// individual retry helpers elsewhere in the system.
//
// Run never returns an error. Exhausted retries and non-retryable failures
// become a FailureRecord plus the checker's degraded fallback result.
type Executor struct {
	cfg CheckConfig

	// OnRetry, when set, is called before each retry attempt.
	OnRetry func(check CheckName, attempt int, err error)
}

// NewExecutor creates an executor for the given configuration. The
// configuration must already be validated.
func NewExecutor(cfg CheckConfig) *Executor {
	return &Executor{cfg: cfg}
}

// Run executes the checker. On success the checker's result is returned
// with a nil FailureRecord. On failure the returned result is the checker's
// fallback and the record describes what went wrong.
func (e *Executor) Run(ctx context.Context, c Checker) (Result, *FailureRecord) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		res, err := e.runOnce(ctx, c)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= e.cfg.RetryAttempts {
			break
		}

		if e.OnRetry != nil {
			e.OnRetry(c.Name(), attempt+1, err)
		}

		// Non-blocking sleep: the delay suspends only this check.
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(e.cfg.RetryDelay):
			continue
		}
		break
	}

	record := &FailureRecord{
		Check:      c.Name(),
		Kind:       failureKind(lastErr),
		Message:    lastErr.Error(),
		OccurredAt: time.Now().UTC(),
	}

	level := LevelCritical
	if retryable(lastErr) {
		level = LevelConnectionFailed
	}

	message := fmt.Sprintf("%s check failed: %s", c.Name(), lastErr.Error())
	return c.Fallback(level, message), record
}

// runOnce runs a single attempt under a fresh deadline. A panicking checker
// is contained and reported as an error.
func (e *Executor) runOnce(ctx context.Context, c Checker) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &panicError{value: r}}
			}
		}()
		res, err := c.Check(ctx)
		done <- outcome{res: res, err: err}
	}()

	select {
	case out := <-done:
		return out.res, out.err
	case <-ctx.Done():
		// The attempt's own context cancels the in-flight call; siblings
		// are untouched.
		return nil, fmt.Errorf("%w after %v", ErrCheckTimeout, e.cfg.Timeout)
	}
}

type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("check panic: %v", p.value)
}

// retryable reports whether the error is worth another attempt: transient
// collaborator failures and attempt timeouts.
func retryable(err error) bool {
	return identity.IsRetryable(err) || errors.Is(err, ErrCheckTimeout)
}

// failureKind maps an error to the FailureRecord kind string.
func failureKind(err error) string {
	var pe *panicError
	if errors.As(err, &pe) {
		return "panic"
	}
	if errors.Is(err, ErrCheckTimeout) {
		return identity.KindTimeout.String()
	}
	return identity.KindOf(err).String()
}

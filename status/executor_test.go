package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/identityops/idctl/identity"
)

func testConfig() CheckConfig {
	return CheckConfig{
		Timeout:       200 * time.Millisecond,
		Parallel:      true,
		MaxConcurrent: 3,
		RetryAttempts: 2,
		RetryDelay:    5 * time.Millisecond,
	}
}

func healthChecker(fn func(context.Context) (Result, error)) Checker {
	return NewCheckerFunc(CheckHealth, fn, func(level Level, message string) Result {
		return HealthStatus{Header: Header{Level: level, Message: message}}
	})
}

func TestExecutor_Success(t *testing.T) {
	exec := NewExecutor(testConfig())

	res, rec := exec.Run(context.Background(), healthChecker(func(ctx context.Context) (Result, error) {
		return HealthStatus{Header: Header{Level: LevelHealthy, Message: "ok"}, ServiceAvailable: true}, nil
	}))

	if rec != nil {
		t.Fatalf("FailureRecord = %+v, want nil", rec)
	}
	if res.Severity() != LevelHealthy {
		t.Errorf("Severity = %v, want %v", res.Severity(), LevelHealthy)
	}
}

func TestExecutor_RetryThenSuccess(t *testing.T) {
	exec := NewExecutor(testConfig())

	var retries []int
	exec.OnRetry = func(_ CheckName, attempt int, _ error) {
		retries = append(retries, attempt)
	}

	calls := 0
	res, rec := exec.Run(context.Background(), healthChecker(func(ctx context.Context) (Result, error) {
		calls++
		if calls < 3 {
			return nil, identity.NewAPIError(identity.KindThrottled, "ListInstances", "slow down")
		}
		return HealthStatus{Header: Header{Level: LevelHealthy, Message: "ok"}}, nil
	}))

	if rec != nil {
		t.Fatalf("FailureRecord = %+v, want nil", rec)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(retries) != 2 {
		t.Errorf("OnRetry fired %d times, want 2", len(retries))
	}
	if res.Severity() != LevelHealthy {
		t.Errorf("Severity = %v, want %v", res.Severity(), LevelHealthy)
	}
}

func TestExecutor_NonRetryableFailsOnce(t *testing.T) {
	exec := NewExecutor(testConfig())

	calls := 0
	res, rec := exec.Run(context.Background(), healthChecker(func(ctx context.Context) (Result, error) {
		calls++
		return nil, identity.NewAPIError(identity.KindAccessDenied, "ListInstances", "no permission")
	}))

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (access denied is not retryable)", calls)
	}
	if rec == nil {
		t.Fatal("expected a FailureRecord")
	}
	if rec.Kind != identity.KindAccessDenied.String() {
		t.Errorf("Kind = %q, want %q", rec.Kind, identity.KindAccessDenied.String())
	}
	if res.Severity() != LevelCritical {
		t.Errorf("Severity = %v, want %v", res.Severity(), LevelCritical)
	}
}

func TestExecutor_RetryExhaustion(t *testing.T) {
	exec := NewExecutor(testConfig())

	calls := 0
	res, rec := exec.Run(context.Background(), healthChecker(func(ctx context.Context) (Result, error) {
		calls++
		return nil, identity.NewAPIError(identity.KindConnection, "ListInstances", "connection refused")
	}))

	// Initial attempt plus RetryAttempts extras.
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if rec == nil {
		t.Fatal("expected a FailureRecord")
	}
	if rec.Check != CheckHealth {
		t.Errorf("Check = %v, want %v", rec.Check, CheckHealth)
	}
	if res.Severity() != LevelConnectionFailed {
		t.Errorf("Severity = %v, want %v", res.Severity(), LevelConnectionFailed)
	}
}

func TestExecutor_TimeoutProducesConnectionFailed(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	cfg.RetryAttempts = 1
	exec := NewExecutor(cfg)

	start := time.Now()
	res, rec := exec.Run(context.Background(), healthChecker(func(ctx context.Context) (Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	elapsed := time.Since(start)

	if rec == nil {
		t.Fatal("expected a FailureRecord")
	}
	if rec.Kind != identity.KindTimeout.String() {
		t.Errorf("Kind = %q, want %q", rec.Kind, identity.KindTimeout.String())
	}
	if res.Severity() != LevelConnectionFailed {
		t.Errorf("Severity = %v, want %v", res.Severity(), LevelConnectionFailed)
	}
	// Two attempts plus one retry delay, with slack for slow machines.
	if elapsed > time.Second {
		t.Errorf("Run took %v, the per-attempt deadline did not fire", elapsed)
	}
}

func TestExecutor_PerAttemptDeadlineResets(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 60 * time.Millisecond
	cfg.RetryAttempts = 2
	exec := NewExecutor(cfg)

	calls := 0
	_, rec := exec.Run(context.Background(), healthChecker(func(ctx context.Context) (Result, error) {
		calls++
		if calls < 3 {
			// Blows the first two attempt windows, fits in the third.
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return HealthStatus{Header: Header{Level: LevelHealthy, Message: "ok"}}, nil
	}))

	if rec != nil {
		t.Fatalf("FailureRecord = %+v, want nil: each attempt must get a fresh deadline", rec)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestExecutor_PanicIsContained(t *testing.T) {
	exec := NewExecutor(testConfig())

	res, rec := exec.Run(context.Background(), healthChecker(func(ctx context.Context) (Result, error) {
		panic("boom")
	}))

	if rec == nil {
		t.Fatal("expected a FailureRecord")
	}
	if rec.Kind != "panic" {
		t.Errorf("Kind = %q, want %q", rec.Kind, "panic")
	}
	if res == nil {
		t.Fatal("expected the fallback result, got nil")
	}
	if res.Severity() != LevelCritical {
		t.Errorf("Severity = %v, want %v", res.Severity(), LevelCritical)
	}
}

func TestExecutor_ContextCancelStopsRetries(t *testing.T) {
	cfg := testConfig()
	cfg.RetryDelay = time.Hour
	exec := NewExecutor(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, rec := exec.Run(ctx, healthChecker(func(ctx context.Context) (Result, error) {
			return nil, identity.NewAPIError(identity.KindThrottled, "ListUsers", "slow down")
		}))
		if rec == nil {
			t.Error("expected a FailureRecord after cancellation")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"throttled", identity.NewAPIError(identity.KindThrottled, "op", "m"), true},
		{"timeout", identity.NewAPIError(identity.KindTimeout, "op", "m"), true},
		{"connection", identity.NewAPIError(identity.KindConnection, "op", "m"), true},
		{"check timeout", ErrCheckTimeout, true},
		{"access denied", identity.NewAPIError(identity.KindAccessDenied, "op", "m"), false},
		{"validation", identity.NewAPIError(identity.KindValidation, "op", "m"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

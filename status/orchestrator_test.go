package status

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/identityops/idctl/identity"
)

// passingChecker builds a trivially healthy checker for the named slot.
func passingChecker(name CheckName) Checker {
	result := func(name CheckName) Result {
		h := Header{Level: LevelHealthy, Message: "ok"}
		switch name {
		case CheckHealth:
			return HealthStatus{Header: h, ServiceAvailable: true}
		case CheckProvisioning:
			return ProvisioningStatus{Header: h}
		case CheckOrphaned:
			return OrphanedAssignmentStatus{Header: h, CleanupAvailable: true}
		case CheckSync:
			return SyncStatus{Header: h}
		default:
			return SummaryStatistics{Header: h}
		}
	}
	return NewCheckerFunc(name,
		func(ctx context.Context) (Result, error) { return result(name), nil },
		func(level Level, message string) Result {
			switch name {
			case CheckHealth:
				return HealthStatus{Header: Header{Level: level, Message: message}}
			case CheckProvisioning:
				return ProvisioningStatus{Header: Header{Level: level, Message: message}}
			case CheckOrphaned:
				return OrphanedAssignmentStatus{Header: Header{Level: level, Message: message}}
			case CheckSync:
				return SyncStatus{Header: Header{Level: level, Message: message}}
			default:
				return SummaryStatistics{Header: Header{Level: level, Message: message}}
			}
		})
}

func newTestOrchestrator(t *testing.T, cfg CheckConfig, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(cfg, opts...)
	if err != nil {
		t.Fatalf("NewOrchestrator() error = %v", err)
	}
	return o
}

func registerAll(o *Orchestrator) {
	for _, name := range []CheckName{CheckHealth, CheckProvisioning, CheckOrphaned, CheckSync, CheckSummary} {
		o.Register(passingChecker(name))
	}
}

func TestOrchestrator_Comprehensive(t *testing.T) {
	o := newTestOrchestrator(t, testConfig())
	registerAll(o)

	report, err := o.Comprehensive(context.Background())
	if err != nil {
		t.Fatalf("Comprehensive() error = %v", err)
	}

	if report.ID == "" {
		t.Error("report ID should not be empty")
	}
	if report.Overall() != LevelHealthy {
		t.Errorf("Overall = %v, want %v", report.Overall(), LevelHealthy)
	}
	if len(report.Failures) != 0 {
		t.Errorf("Failures = %v, want empty", report.Failures)
	}
	if !report.Health.ServiceAvailable {
		t.Error("health slot was not populated")
	}
	if report.CheckDurationSeconds < 0 {
		t.Errorf("CheckDurationSeconds = %v, want >= 0", report.CheckDurationSeconds)
	}
}

func TestOrchestrator_ComprehensiveRequiresAllCheckers(t *testing.T) {
	o := newTestOrchestrator(t, testConfig())
	o.Register(passingChecker(CheckHealth))

	_, err := o.Comprehensive(context.Background())
	if !errors.Is(err, ErrCheckerNotRegistered) {
		t.Errorf("Comprehensive() error = %v, want %v", err, ErrCheckerNotRegistered)
	}
}

func TestOrchestrator_ParallelAndSequentialAgree(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		cfg := testConfig()
		cfg.Parallel = parallel

		o := newTestOrchestrator(t, cfg)
		registerAll(o)
		o.Register(NewCheckerFunc(CheckSync,
			func(ctx context.Context) (Result, error) {
				return SyncStatus{Header: Header{Level: LevelWarning, Message: "one provider degraded"}}, nil
			},
			func(level Level, message string) Result {
				return SyncStatus{Header: Header{Level: level, Message: message}}
			}))

		report, err := o.Comprehensive(context.Background())
		if err != nil {
			t.Fatalf("parallel=%v: Comprehensive() error = %v", parallel, err)
		}
		if report.Sync.Level != LevelWarning {
			t.Errorf("parallel=%v: Sync.Level = %v, want %v", parallel, report.Sync.Level, LevelWarning)
		}
		if report.Overall() != LevelWarning {
			t.Errorf("parallel=%v: Overall = %v, want %v", parallel, report.Overall(), LevelWarning)
		}
	}
}

func TestOrchestrator_FailureIsolation(t *testing.T) {
	o := newTestOrchestrator(t, testConfig())
	registerAll(o)
	o.Register(NewCheckerFunc(CheckProvisioning,
		func(ctx context.Context) (Result, error) {
			return nil, identity.NewAPIError(identity.KindConnection, "ListProvisioningOperations", "connection refused")
		},
		func(level Level, message string) Result {
			return ProvisioningStatus{Header: Header{Level: level, Message: message}}
		}))

	report, err := o.Comprehensive(context.Background())
	if err != nil {
		t.Fatalf("Comprehensive() error = %v", err)
	}

	if report.Provisioning.Level != LevelConnectionFailed {
		t.Errorf("Provisioning.Level = %v, want %v", report.Provisioning.Level, LevelConnectionFailed)
	}
	// The other slots still carry real results.
	if !report.Health.ServiceAvailable {
		t.Error("health slot should be populated despite the provisioning failure")
	}
	if report.Sync.Level != LevelHealthy {
		t.Errorf("Sync.Level = %v, want %v", report.Sync.Level, LevelHealthy)
	}

	rec, ok := report.Failures[CheckProvisioning]
	if !ok {
		t.Fatal("expected a failure record for the provisioning check")
	}
	if rec.Kind != identity.KindConnection.String() {
		t.Errorf("Kind = %q, want %q", rec.Kind, identity.KindConnection.String())
	}
	if !o.HasComponentFailures() {
		t.Error("HasComponentFailures() = false, want true")
	}
}

func TestOrchestrator_MaxConcurrentBound(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrent = 2

	var running, peak int64
	var mu sync.Mutex

	o := newTestOrchestrator(t, cfg)
	for _, name := range []CheckName{CheckHealth, CheckProvisioning, CheckOrphaned, CheckSync, CheckSummary} {
		name := name
		base := passingChecker(name)
		o.Register(NewCheckerFunc(name,
			func(ctx context.Context) (Result, error) {
				n := atomic.AddInt64(&running, 1)
				mu.Lock()
				if n > peak {
					peak = n
				}
				mu.Unlock()
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt64(&running, -1)
				return base.Check(ctx)
			},
			base.Fallback))
	}

	if _, err := o.Comprehensive(context.Background()); err != nil {
		t.Fatalf("Comprehensive() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestOrchestrator_Specific(t *testing.T) {
	o := newTestOrchestrator(t, testConfig())
	o.Register(passingChecker(CheckSync))

	res, err := o.Specific(context.Background(), CheckSync)
	if err != nil {
		t.Fatalf("Specific() error = %v", err)
	}
	if res.Check() != CheckSync {
		t.Errorf("Check = %v, want %v", res.Check(), CheckSync)
	}

	if _, err := o.Specific(context.Background(), CheckHealth); !errors.Is(err, ErrUnknownCheck) {
		t.Errorf("Specific(unregistered) error = %v, want %v", err, ErrUnknownCheck)
	}
}

func TestOrchestrator_RegisterReplaces(t *testing.T) {
	o := newTestOrchestrator(t, testConfig())
	o.Register(passingChecker(CheckHealth))
	o.Register(NewCheckerFunc(CheckHealth,
		func(ctx context.Context) (Result, error) {
			return HealthStatus{Header: Header{Level: LevelWarning, Message: "degraded"}}, nil
		},
		func(level Level, message string) Result {
			return HealthStatus{Header: Header{Level: level, Message: message}}
		}))

	names := o.AvailableChecks()
	if len(names) != 1 {
		t.Fatalf("AvailableChecks() = %v, want one entry", names)
	}

	res, err := o.Specific(context.Background(), CheckHealth)
	if err != nil {
		t.Fatalf("Specific() error = %v", err)
	}
	if res.Severity() != LevelWarning {
		t.Errorf("Severity = %v, want %v (replacement should win)", res.Severity(), LevelWarning)
	}
}

func TestOrchestrator_InspectResourceWithoutInspector(t *testing.T) {
	o := newTestOrchestrator(t, testConfig())

	_, err := o.InspectResource(context.Background(), "user", "u-1")
	if !errors.Is(err, ErrNoInspector) {
		t.Errorf("InspectResource() error = %v, want %v", err, ErrNoInspector)
	}
}

func TestOrchestrator_InspectResource(t *testing.T) {
	inspector := inspectorFunc(func(ctx context.Context, resourceType, resourceID string) (ResourceInspectionStatus, error) {
		return ResourceInspectionStatus{
			Header: Header{Level: LevelHealthy, Message: resourceType + " " + resourceID + " exists"},
			Target: &ResourceStatus{ID: resourceID, Type: resourceType, Exists: true, Status: "ACTIVE"},
		}, nil
	})

	o := newTestOrchestrator(t, testConfig(), WithInspector(inspector))

	res, err := o.InspectResource(context.Background(), "user", "u-1")
	if err != nil {
		t.Fatalf("InspectResource() error = %v", err)
	}
	if res.Target == nil || !res.Target.Exists {
		t.Errorf("Target = %+v, want existing resource", res.Target)
	}
}

type inspectorFunc func(ctx context.Context, resourceType, resourceID string) (ResourceInspectionStatus, error)

func (f inspectorFunc) Inspect(ctx context.Context, resourceType, resourceID string) (ResourceInspectionStatus, error) {
	return f(ctx, resourceType, resourceID)
}

func TestOrchestrator_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 0

	if _, err := NewOrchestrator(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewOrchestrator() error = %v, want %v", err, ErrInvalidConfig)
	}
}

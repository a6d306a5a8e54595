// Package status implements the status monitoring orchestrator for the
// identity control plane.
//
// The orchestrator coordinates independent, potentially slow, potentially
// failing checkers into one coherent Report. Each checker runs through the
// Executor, which applies a per-attempt timeout and a classified retry
// policy and converts every failure into a FailureRecord plus a degraded
// result instead of propagating it. One failing checker never prevents the
// others from running.
//
// # Basic Usage
//
//	cfg := status.DefaultCheckConfig()
//	orch, err := status.NewOrchestrator(cfg)
//	if err != nil {
//	    // invalid configuration is a programming error
//	}
//	orch.Register(healthChecker)
//	orch.Register(provisioningChecker)
//	// ... remaining checkers ...
//
//	report, err := orch.Comprehensive(ctx)
//	if report.Overall() >= status.LevelCritical {
//	    // degraded control plane
//	}
//
// # Severity
//
// Level is ordered: Healthy < Warning < Critical < ConnectionFailed.
// Wherever component levels are combined the worst one wins, so a single
// unreachable collaborator forces the whole report to ConnectionFailed.
package status

package status

import (
	"time"

	"github.com/google/uuid"
)

// Report is the immutable aggregate of one comprehensive status run. Every
// slot is always populated: a failed checker leaves a degraded result, never
// a hole. The report is handed to formatters and notifiers by value and has
// no further writers.
type Report struct {
	ID                   string    `json:"id"`
	Timestamp            time.Time `json:"timestamp"`
	CheckDurationSeconds float64   `json:"check_duration_seconds"`

	Health       HealthStatus             `json:"health"`
	Provisioning ProvisioningStatus       `json:"provisioning"`
	Orphaned     OrphanedAssignmentStatus `json:"orphaned_assignments"`
	Sync         SyncStatus               `json:"sync"`
	Summary      SummaryStatistics        `json:"summary"`

	Inspections []ResourceInspectionStatus `json:"inspections,omitempty"`

	Failures map[CheckName]FailureRecord `json:"failures,omitempty"`
}

// newReport creates a report shell with a fresh run ID.
func newReport() *Report {
	return &Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Failures:  make(map[CheckName]FailureRecord),
	}
}

// setSlot places a result into its fixed slot. Assembly is deterministic
// regardless of completion order.
func (r *Report) setSlot(res Result) {
	switch v := res.(type) {
	case HealthStatus:
		r.Health = v
	case ProvisioningStatus:
		r.Provisioning = v
	case OrphanedAssignmentStatus:
		r.Orphaned = v
	case SyncStatus:
		r.Sync = v
	case SummaryStatistics:
		r.Summary = v
	case ResourceInspectionStatus:
		r.Inspections = append(r.Inspections, v)
	}
}

// slot returns the result currently occupying the named slot.
func (r *Report) slot(name CheckName) Result {
	switch name {
	case CheckHealth:
		return r.Health
	case CheckProvisioning:
		return r.Provisioning
	case CheckOrphaned:
		return r.Orphaned
	case CheckSync:
		return r.Sync
	case CheckSummary:
		return r.Summary
	default:
		return nil
	}
}

// Overall returns the worst level across the five component slots.
func (r *Report) Overall() Level {
	return MaxLevel(
		r.Health.Level,
		r.Provisioning.Level,
		r.Orphaned.Level,
		r.Sync.Level,
		r.Summary.Level,
	)
}

// Components returns the five component results in fixed order.
func (r *Report) Components() []Result {
	out := make([]Result, 0, len(checkOrder))
	for _, name := range checkOrder {
		out = append(out, r.slot(name))
	}
	return out
}

package checks

import (
	"context"
	"strings"
	"testing"

	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/status"
)

func TestOrphanDetector_NoOrphans(t *testing.T) {
	f, opts := newFixture()
	// Keep only the assignments whose principals exist.
	f.Assignments = f.Assignments[:1]

	d := NewOrphanDetector(opts)
	res, err := d.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	out := res.(status.OrphanedAssignmentStatus)
	if out.Level != status.LevelHealthy {
		t.Errorf("Level = %v, want %v", out.Level, status.LevelHealthy)
	}
	if len(out.OrphanedAssignments) != 0 {
		t.Errorf("OrphanedAssignments = %v, want none", out.OrphanedAssignments)
	}
	if !out.CleanupAvailable {
		t.Error("CleanupAvailable should start true")
	}
}

func TestOrphanDetector_FindsOrphans(t *testing.T) {
	_, opts := newFixture()

	d := NewOrphanDetector(opts)
	res, err := d.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	out := res.(status.OrphanedAssignmentStatus)
	if out.Level != status.LevelWarning {
		t.Errorf("Level = %v, want %v (cleanup is available)", out.Level, status.LevelWarning)
	}
	if len(out.OrphanedAssignments) != 1 {
		t.Fatalf("found %d orphans, want 1", len(out.OrphanedAssignments))
	}

	orphan := out.OrphanedAssignments[0]
	if orphan.PrincipalID != "u-ghost" {
		t.Errorf("PrincipalID = %q, want %q", orphan.PrincipalID, "u-ghost")
	}
	if orphan.AssignmentID != "111111111111/arn:aws:sso:::permissionSet/ps-read/u-ghost" {
		t.Errorf("AssignmentID = %q", orphan.AssignmentID)
	}
	if orphan.PermissionSetName != "ReadOnly" {
		t.Errorf("PermissionSetName = %q, want ReadOnly", orphan.PermissionSetName)
	}
	if orphan.AccountName != "production" {
		t.Errorf("AccountName = %q, want production", orphan.AccountName)
	}
	if orphan.ErrorMessage == "" {
		t.Error("ErrorMessage should carry the resolution failure")
	}
}

func TestOrphanDetector_SuspendedAccountsSkipped(t *testing.T) {
	f, opts := newFixture()
	// An unresolvable assignment under a suspended account must not count.
	f.Assignments = append(f.Assignments, identity.AccountAssignment{
		AccountID:        "333333333333",
		PermissionSetARN: "arn:aws:sso:::permissionSet/ps-admin",
		PrincipalID:      "u-gone",
		PrincipalType:    identity.PrincipalUser,
	})

	d := NewOrphanDetector(opts)
	res, err := d.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	out := res.(status.OrphanedAssignmentStatus)
	for _, o := range out.OrphanedAssignments {
		if o.AccountID == "333333333333" {
			t.Errorf("orphan reported for suspended account: %+v", o)
		}
	}
}

func TestOrphanDetector_ThrottledResolutionIsNotAnOrphan(t *testing.T) {
	f, opts := newFixture()
	f.Assignments = f.Assignments[:1]
	f.FailDescribe("u-alice", identity.NewAPIError(identity.KindThrottled, "identitystore.DescribeUser", "rate exceeded"))

	d := NewOrphanDetector(opts)
	res, err := d.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	out := res.(status.OrphanedAssignmentStatus)
	if len(out.OrphanedAssignments) != 0 {
		t.Errorf("throttled resolution produced orphans: %v", out.OrphanedAssignments)
	}
	if out.UnresolvedCount != 1 {
		t.Errorf("UnresolvedCount = %d, want 1", out.UnresolvedCount)
	}
	if out.Level != status.LevelWarning {
		t.Errorf("Level = %v, want %v", out.Level, status.LevelWarning)
	}
	if !strings.Contains(out.Message, "unresolved") {
		t.Errorf("Message = %q, want mention of unresolved assignments", out.Message)
	}
}

func TestOrphanDetector_EnumerationErrorPropagates(t *testing.T) {
	f, opts := newFixture()
	f.FailWith("ListAccounts", identity.NewAPIError(identity.KindConnection, "organizations.ListAccounts", "connection refused"))

	d := NewOrphanDetector(opts)
	if _, err := d.Check(context.Background()); err == nil {
		t.Fatal("Check() should propagate enumeration failures to the executor")
	}
}

func TestOrphanDetector_MemoizesResolutions(t *testing.T) {
	f, opts := newFixture()
	// Two assignments for the same missing principal in one sweep.
	f.Assignments = append(f.Assignments, identity.AccountAssignment{
		AccountID:        "222222222222",
		PermissionSetARN: "arn:aws:sso:::permissionSet/ps-admin",
		PrincipalID:      "u-ghost",
		PrincipalType:    identity.PrincipalUser,
	})

	d := NewOrphanDetector(opts)
	res, err := d.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	out := res.(status.OrphanedAssignmentStatus)
	if len(out.OrphanedAssignments) != 2 {
		t.Fatalf("found %d orphans, want 2", len(out.OrphanedAssignments))
	}
	// alice + ghost: one lookup each, despite ghost appearing twice.
	if calls := f.Calls("DescribeUser"); calls != 2 {
		t.Errorf("DescribeUser called %d times, want 2", calls)
	}
}

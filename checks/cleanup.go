package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/observe"
	"github.com/identityops/idctl/status"
)

// CleanupOptions controls the cleanup workflow. The zero value is a dry
// run; revocation happens only when Execute is set.
type CleanupOptions struct {
	Execute bool
}

// CleanupResult summarizes one cleanup invocation.
type CleanupResult struct {
	// CleanedCount is how many assignments were revoked. In dry-run mode it
	// is how many would have been.
	CleanedCount int `json:"cleaned_count"`

	// FailedCount is how many revocations failed.
	FailedCount int `json:"failed_count"`

	// DryRun reports whether any revoke call was actually issued.
	DryRun bool `json:"dry_run"`

	// Errors holds one entry per failed revocation, each carrying enough
	// context to identify the assignment.
	Errors []string `json:"errors,omitempty"`
}

// Cleanup removes the given orphaned assignments. Revocations are
// independent: one failure never stops processing of the rest of the
// batch. In dry-run mode no revoke call is issued at all.
func (d *OrphanDetector) Cleanup(ctx context.Context, orphans []status.OrphanedAssignment, opts CleanupOptions) (CleanupResult, error) {
	result := CleanupResult{DryRun: !opts.Execute}
	if len(orphans) == 0 {
		return result, nil
	}

	if result.DryRun {
		result.CleanedCount = len(orphans)
		return result, nil
	}

	inst, err := d.opts.instance(ctx)
	if err != nil {
		return result, err
	}

	logger := d.opts.logger()
	for _, orphan := range orphans {
		assignment := identity.AccountAssignment{
			AccountID:        orphan.AccountID,
			PermissionSetARN: orphan.PermissionSetARN,
			PrincipalID:      orphan.PrincipalID,
			PrincipalType:    identity.PrincipalType(orphan.PrincipalType),
		}

		err := d.opts.Clients.Admin.DeleteAccountAssignment(ctx, inst.InstanceARN, assignment)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf(
				"account %s, permission set %s, principal %s (%s): %s",
				orphan.AccountID, orphan.PermissionSetName, orphan.PrincipalID, orphan.PrincipalType, err))

			if identity.IsAccessDenied(err) {
				d.mu.Lock()
				d.cleanupAvailable = false
				d.mu.Unlock()
			}

			logger.Warn(ctx, "assignment revocation failed",
				observe.Field{Key: "assignment_id", Value: orphan.AssignmentID},
				observe.Field{Key: "error", Value: err.Error()},
			)
			continue
		}

		result.CleanedCount++
		logger.Info(ctx, "assignment revoked",
			observe.Field{Key: "assignment_id", Value: orphan.AssignmentID},
		)
	}

	now := time.Now().UTC()
	d.mu.Lock()
	d.lastCleanup = &now
	d.mu.Unlock()

	return result, nil
}

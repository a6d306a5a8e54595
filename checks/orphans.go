package checks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/observe"
	"github.com/identityops/idctl/status"
)

// OrphanDetector finds account assignments whose principal no longer exists
// in the identity store. It also owns the cleanup workflow for the orphans
// it reports; see cleanup.go.
type OrphanDetector struct {
	opts Options

	mu               sync.Mutex
	cleanupAvailable bool
	lastCleanup      *time.Time
}

// NewOrphanDetector creates the detector. Cleanup is assumed available
// until a revoke call is denied.
func NewOrphanDetector(opts Options) *OrphanDetector {
	return &OrphanDetector{opts: opts, cleanupAvailable: true}
}

// Name implements status.Checker.
func (d *OrphanDetector) Name() status.CheckName { return status.CheckOrphaned }

// Fallback implements status.Checker.
func (d *OrphanDetector) Fallback(level status.Level, message string) status.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return status.OrphanedAssignmentStatus{
		Header:           status.Header{Level: level, Message: message},
		CleanupAvailable: d.cleanupAvailable,
		LastCleanup:      d.lastCleanup,
	}
}

// resolution memoizes one principal lookup within a sweep.
type resolution struct {
	name string
	err  error
}

// Check implements status.Checker. Enumeration failures propagate to the
// executor; principal-resolution failures are classified per assignment so
// a transient throttle never produces a false orphan.
func (d *OrphanDetector) Check(ctx context.Context) (status.Result, error) {
	inst, err := d.opts.instance(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := d.listAccounts(ctx)
	if err != nil {
		return nil, err
	}
	permSets, err := d.listPermissionSets(ctx, inst.InstanceARN)
	if err != nil {
		return nil, err
	}

	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}

	var (
		orphans    []status.OrphanedAssignment
		unresolved int
		resolved   = make(map[string]resolution)
		logger     = d.opts.logger()
	)

	for _, account := range accounts {
		for _, ps := range permSets {
			token := ""
			for {
				assignments, next, err := d.opts.Clients.Admin.ListAccountAssignments(
					ctx, inst.InstanceARN, account.ID, ps.ARN, token)
				if err != nil {
					return nil, err
				}

				for _, assignment := range assignments {
					res := d.resolvePrincipal(ctx, inst.IdentityStoreID, assignment, resolved)
					switch {
					case res.err == nil:
						// Principal exists.
					case identity.IsNotFound(res.err):
						orphans = append(orphans, status.OrphanedAssignment{
							AssignmentID:      assignmentID(assignment),
							PermissionSetARN:  ps.ARN,
							PermissionSetName: ps.Name,
							AccountID:         account.ID,
							AccountName:       accountNames[account.ID],
							PrincipalID:       assignment.PrincipalID,
							PrincipalType:     string(assignment.PrincipalType),
							ErrorMessage:      res.err.Error(),
							CreatedDate:       assignment.CreatedDate,
						})
					default:
						// Transient or authorization failure: not an orphan.
						unresolved++
						logger.Warn(ctx, "principal resolution failed",
							observe.Field{Key: "principal_id", Value: assignment.PrincipalID},
							observe.Field{Key: "error", Value: res.err.Error()},
						)
					}
				}

				if next == "" {
					break
				}
				token = next
			}
		}
	}

	d.mu.Lock()
	out := status.OrphanedAssignmentStatus{
		OrphanedAssignments: orphans,
		CleanupAvailable:    d.cleanupAvailable,
		LastCleanup:         d.lastCleanup,
		UnresolvedCount:     unresolved,
	}
	d.mu.Unlock()

	switch {
	case len(orphans) == 0 && unresolved == 0:
		out.Level = status.LevelHealthy
		out.Message = "no orphaned assignments found"
	case len(orphans) == 0:
		out.Level = status.LevelWarning
		out.Message = fmt.Sprintf("no orphans confirmed, %d assignments unresolved due to transient errors", unresolved)
	case out.CleanupAvailable:
		out.Level = status.LevelWarning
		out.Message = fmt.Sprintf("%d orphaned assignments found, cleanup available", len(orphans))
	default:
		out.Level = status.LevelCritical
		out.Message = fmt.Sprintf("%d orphaned assignments found, cleanup unavailable", len(orphans))
	}
	return out, nil
}

// resolvePrincipal memoizes Describe lookups per principal within a sweep.
func (d *OrphanDetector) resolvePrincipal(ctx context.Context, storeID string, a identity.AccountAssignment, memo map[string]resolution) resolution {
	key := string(a.PrincipalType) + ":" + a.PrincipalID
	if res, ok := memo[key]; ok {
		return res
	}

	var res resolution
	switch a.PrincipalType {
	case identity.PrincipalGroup:
		g, err := d.opts.Clients.Store.DescribeGroup(ctx, storeID, a.PrincipalID)
		res = resolution{name: g.DisplayName, err: err}
	default:
		u, err := d.opts.Clients.Store.DescribeUser(ctx, storeID, a.PrincipalID)
		res = resolution{name: u.UserName, err: err}
	}

	// Memoize only definitive outcomes; transient failures may succeed on a
	// later assignment referencing the same principal.
	if res.err == nil || identity.IsNotFound(res.err) {
		memo[key] = res
	}
	return res
}

func (d *OrphanDetector) listAccounts(ctx context.Context) ([]identity.Account, error) {
	var accounts []identity.Account
	token := ""
	for {
		page, next, err := d.opts.Clients.Orgs.ListAccounts(ctx, token)
		if err != nil {
			return nil, err
		}
		for _, a := range page {
			if a.Status == "SUSPENDED" {
				continue
			}
			accounts = append(accounts, a)
		}
		if next == "" {
			return accounts, nil
		}
		token = next
	}
}

func (d *OrphanDetector) listPermissionSets(ctx context.Context, instanceARN string) ([]identity.PermissionSet, error) {
	var permSets []identity.PermissionSet
	token := ""
	for {
		page, next, err := d.opts.Clients.Admin.ListPermissionSets(ctx, instanceARN, token)
		if err != nil {
			return nil, err
		}
		permSets = append(permSets, page...)
		if next == "" {
			return permSets, nil
		}
		token = next
	}
}

// assignmentID derives a stable identifier for an assignment, which the
// remote API does not provide.
func assignmentID(a identity.AccountAssignment) string {
	return a.AccountID + "/" + a.PermissionSetARN + "/" + a.PrincipalID
}

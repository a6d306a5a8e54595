package checks

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/identityops/idctl/cache"
	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/status"
)

// summaryCacheKey is the single cache slot; the collector snapshots the
// whole store, so there is nothing to key by.
const summaryCacheKey = "summary"

// defaultSummaryTTL is how long a snapshot stays fresh.
const defaultSummaryTTL = time.Minute

// SummaryCollector counts users, groups, permission sets, assignments and
// active accounts. Snapshots are cached and concurrent collections collapse
// into one upstream sweep.
type SummaryCollector struct {
	opts Options

	// WithCreatedDates includes per-entity creation-date maps for age
	// queries. They grow with the store, so they are opt-in.
	WithCreatedDates bool

	snapshots *cache.Cache[status.SummaryStatistics]
	group     singleflight.Group
}

// NewSummaryCollector creates the statistics collector with a one-minute
// snapshot TTL.
func NewSummaryCollector(opts Options) *SummaryCollector {
	return &SummaryCollector{
		opts:      opts,
		snapshots: cache.New[status.SummaryStatistics](defaultSummaryTTL),
	}
}

// Name implements status.Checker.
func (c *SummaryCollector) Name() status.CheckName { return status.CheckSummary }

// Fallback implements status.Checker.
func (c *SummaryCollector) Fallback(level status.Level, message string) status.Result {
	return status.SummaryStatistics{
		Header: status.Header{Level: level, Message: message},
	}
}

// Check implements status.Checker.
func (c *SummaryCollector) Check(ctx context.Context) (status.Result, error) {
	if snapshot, ok := c.snapshots.Get(summaryCacheKey); ok {
		return snapshot, nil
	}

	// Concurrent sweeps collapse into one; prevents thundering herd on the
	// remote store.
	v, err, _ := c.group.Do(summaryCacheKey, func() (any, error) {
		snapshot, err := c.collect(ctx)
		if err != nil {
			return nil, err
		}
		c.snapshots.Set(summaryCacheKey, snapshot)
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(status.SummaryStatistics), nil
}

func (c *SummaryCollector) collect(ctx context.Context) (status.SummaryStatistics, error) {
	var zero status.SummaryStatistics

	inst, err := c.opts.instance(ctx)
	if err != nil {
		return zero, err
	}

	stats := status.SummaryStatistics{LastUpdated: time.Now().UTC()}
	if c.WithCreatedDates {
		stats.UserCreatedDates = make(map[string]time.Time)
		stats.GroupCreatedDates = make(map[string]time.Time)
		stats.PermissionSetCreatedDates = make(map[string]time.Time)
	}

	token := ""
	for {
		users, next, err := c.opts.Clients.Store.ListUsers(ctx, inst.IdentityStoreID, token)
		if err != nil {
			return zero, err
		}
		stats.TotalUsers += len(users)
		if c.WithCreatedDates {
			for _, u := range users {
				stats.UserCreatedDates[u.ID] = u.CreatedDate
			}
		}
		if next == "" {
			break
		}
		token = next
	}

	token = ""
	for {
		groups, next, err := c.opts.Clients.Store.ListGroups(ctx, inst.IdentityStoreID, token)
		if err != nil {
			return zero, err
		}
		stats.TotalGroups += len(groups)
		if c.WithCreatedDates {
			for _, g := range groups {
				stats.GroupCreatedDates[g.ID] = g.CreatedDate
			}
		}
		if next == "" {
			break
		}
		token = next
	}

	var permSets []identity.PermissionSet
	token = ""
	for {
		page, next, err := c.opts.Clients.Admin.ListPermissionSets(ctx, inst.InstanceARN, token)
		if err != nil {
			return zero, err
		}
		permSets = append(permSets, page...)
		if next == "" {
			break
		}
		token = next
	}
	stats.TotalPermissionSets = len(permSets)
	if c.WithCreatedDates {
		for _, ps := range permSets {
			stats.PermissionSetCreatedDates[ps.ARN] = ps.CreatedDate
		}
	}

	var accounts []identity.Account
	token = ""
	for {
		page, next, err := c.opts.Clients.Orgs.ListAccounts(ctx, token)
		if err != nil {
			return zero, err
		}
		accounts = append(accounts, page...)
		if next == "" {
			break
		}
		token = next
	}
	for _, a := range accounts {
		if a.Status != "SUSPENDED" {
			stats.ActiveAccounts++
		}
	}

	for _, a := range accounts {
		if a.Status == "SUSPENDED" {
			continue
		}
		for _, ps := range permSets {
			token = ""
			for {
				assignments, next, err := c.opts.Clients.Admin.ListAccountAssignments(
					ctx, inst.InstanceARN, a.ID, ps.ARN, token)
				if err != nil {
					return zero, err
				}
				stats.TotalAssignments += len(assignments)
				if next == "" {
					break
				}
				token = next
			}
		}
	}

	stats.Level = status.LevelHealthy
	stats.Message = fmt.Sprintf("%d users, %d groups, %d permission sets, %d assignments across %d accounts",
		stats.TotalUsers, stats.TotalGroups, stats.TotalPermissionSets, stats.TotalAssignments, stats.ActiveAccounts)
	return stats, nil
}
